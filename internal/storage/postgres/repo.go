package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"flavor_sentiment/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FlavorID(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, selectFlavorIDSQL, name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *Repo) UpsertSentiment(ctx context.Context, s domain.SentimentRow) error {
	_, err := r.db.ExecContext(ctx, upsertSentimentSQL,
		s.FlavorID, s.Score, string(s.Label), s.Summary, s.CommentCount, s.AvgRating, s.LastUpdated.UTC())
	return err
}

func (r *Repo) DeleteComments(ctx context.Context, flavorID int64) error {
	_, err := r.db.ExecContext(ctx, deleteCommentsSQL, flavorID)
	return err
}

func (r *Repo) InsertComments(ctx context.Context, rows []domain.CommentRow) error {
	if len(rows) == 0 {
		return nil
	}
	var (
		ids     = make([]int64, len(rows))
		texts   = make([]string, len(rows))
		titles  = make([]string, len(rows))
		ratings = make([]float64, len(rows))
		dates   = make([]string, len(rows))
		notable = make([]bool, len(rows))
	)
	for i, c := range rows {
		ids[i], texts[i], titles[i] = c.FlavorID, c.CommentText, c.ReviewTitle
		ratings[i], dates[i], notable[i] = c.Rating, c.ReviewDate, c.IsNotable
	}
	_, err := r.db.ExecContext(ctx, insertCommentsSQL,
		pq.Array(ids), pq.Array(texts), pq.Array(titles), pq.Array(ratings), pq.Array(dates), pq.Array(notable))
	return err
}

func (r *Repo) Counts(ctx context.Context) (domain.StoreCounts, error) {
	var c domain.StoreCounts
	err := r.db.QueryRowContext(ctx, countsSQL).Scan(&c.Sentiments, &c.Comments)
	return c, err
}

func (r *Repo) ListSentiments(ctx context.Context) ([]domain.SentimentView, error) {
	rows, err := r.db.QueryContext(ctx, listSentimentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SentimentView
	for rows.Next() {
		var v domain.SentimentView
		var label string
		if err := rows.Scan(&v.FlavorID, &v.Flavor, &v.Score, &label, &v.Summary, &v.CommentCount, &v.AvgRating, &v.LastUpdated); err != nil {
			return nil, err
		}
		v.Label = domain.SentimentLabel(label)
		v.LastUpdated = v.LastUpdated.UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) ListComments(ctx context.Context, flavor string, limit int) ([]domain.CommentView, error) {
	rows, err := r.db.QueryContext(ctx, listCommentsSQL, flavor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CommentView
	for rows.Next() {
		var c domain.CommentView
		if err := rows.Scan(&c.Text, &c.Title, &c.Rating, &c.ReviewDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
