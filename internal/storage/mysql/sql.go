package mysql

const selectFlavorIDSQL = `SELECT id FROM flavors WHERE name = ? LIMIT 1`

const upsertSentimentSQL = `
INSERT INTO flavor_sentiment
  (flavor_id, sentiment_score, sentiment_label, summary, comment_count, avg_rating, last_updated)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  sentiment_score = VALUES(sentiment_score),
  sentiment_label = VALUES(sentiment_label),
  summary         = VALUES(summary),
  comment_count   = VALUES(comment_count),
  avg_rating      = VALUES(avg_rating),
  last_updated    = VALUES(last_updated)
`

const deleteCommentsSQL = `DELETE FROM flavor_comments WHERE flavor_id = ?`

const insertCommentsPrefix = "INSERT INTO flavor_comments\n  (flavor_id, comment_text, review_title, rating, review_date, is_notable)\nVALUES "

const countSentimentsSQL = `SELECT COUNT(*) FROM flavor_sentiment`

const countCommentsSQL = `SELECT COUNT(*) FROM flavor_comments`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listSentimentsSQL = `
SELECT
  f.id,
  f.name,
  s.sentiment_score,
  s.sentiment_label,
  s.summary,
  s.comment_count,
  s.avg_rating,
  s.last_updated
FROM flavor_sentiment s
JOIN flavors f ON f.id = s.flavor_id
ORDER BY s.sentiment_score DESC, f.name
`

const listCommentsSQL = `
SELECT c.comment_text, c.review_title, c.rating, c.review_date
FROM flavor_comments c
JOIN flavors f ON f.id = c.flavor_id
WHERE f.name = ?
ORDER BY c.id
LIMIT ?
`
