package postgres

const selectFlavorIDSQL = `SELECT id FROM flavors WHERE name = $1 LIMIT 1`

const upsertSentimentSQL = `
INSERT INTO flavor_sentiment
  (flavor_id, sentiment_score, sentiment_label, summary, comment_count, avg_rating, last_updated)
VALUES
  ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (flavor_id) DO UPDATE SET
  sentiment_score = EXCLUDED.sentiment_score,
  sentiment_label = EXCLUDED.sentiment_label,
  summary         = EXCLUDED.summary,
  comment_count   = EXCLUDED.comment_count,
  avg_rating      = EXCLUDED.avg_rating,
  last_updated    = EXCLUDED.last_updated
`

const deleteCommentsSQL = `DELETE FROM flavor_comments WHERE flavor_id = $1`

// One round trip per batch: the columns arrive as parallel arrays.
const insertCommentsSQL = `
INSERT INTO flavor_comments
  (flavor_id, comment_text, review_title, rating, review_date, is_notable)
SELECT t.flavor_id, t.comment_text, t.review_title, t.rating, t.review_date, t.is_notable
FROM unnest($1::bigint[], $2::text[], $3::text[], $4::float8[], $5::text[], $6::bool[])
  AS t(flavor_id, comment_text, review_title, rating, review_date, is_notable)
`

const countsSQL = `SELECT (SELECT COUNT(*) FROM flavor_sentiment), (SELECT COUNT(*) FROM flavor_comments)`

const listSentimentsSQL = `
SELECT f.id, f.name, s.sentiment_score, s.sentiment_label, COALESCE(s.summary, ''),
       s.comment_count, s.avg_rating, s.last_updated
FROM flavor_sentiment s
JOIN flavors f ON f.id = s.flavor_id
ORDER BY s.sentiment_score DESC, f.name
`

const listCommentsSQL = `
SELECT c.comment_text, COALESCE(c.review_title, ''), COALESCE(c.rating, 0), COALESCE(c.review_date, '')
FROM flavor_comments c
JOIN flavors f ON f.id = c.flavor_id
WHERE f.name = $1
ORDER BY c.id
LIMIT $2
`
