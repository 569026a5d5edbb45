package sqlite

const selectFlavorIDSQL = `SELECT id FROM flavors WHERE name = ? LIMIT 1`

const upsertSentimentSQL = `
INSERT INTO flavor_sentiment
  (flavor_id, sentiment_score, sentiment_label, summary, comment_count, avg_rating, last_updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (flavor_id) DO UPDATE SET
  sentiment_score = excluded.sentiment_score,
  sentiment_label = excluded.sentiment_label,
  summary         = excluded.summary,
  comment_count   = excluded.comment_count,
  avg_rating      = excluded.avg_rating,
  last_updated    = excluded.last_updated
`

const deleteCommentsSQL = `DELETE FROM flavor_comments WHERE flavor_id = ?`

const insertCommentsPrefix = "INSERT INTO flavor_comments\n  (flavor_id, comment_text, review_title, rating, review_date, is_notable)\nVALUES "

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
WHERE f.name = ?
ORDER BY c.id
LIMIT ?
`
