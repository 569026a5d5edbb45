package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

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
		s.FlavorID,
		s.Score,
		string(s.Label),
		s.Summary,
		s.CommentCount,
		s.AvgRating,
		s.LastUpdated.UTC(),
	)
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
	values := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*6) // 6 params per row
	for _, c := range rows {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args,
			c.FlavorID,
			c.CommentText,
			c.ReviewTitle,
			c.Rating,
			c.ReviewDate,
			c.IsNotable,
		)
	}
	_, err := r.db.ExecContext(ctx, insertCommentsPrefix+strings.Join(values, ","), args...)
	return err
}

func (r *Repo) Counts(ctx context.Context) (domain.StoreCounts, error) {
	var c domain.StoreCounts
	if err := r.db.QueryRowContext(ctx, countSentimentsSQL).Scan(&c.Sentiments); err != nil {
		return c, err
	}
	if err := r.db.QueryRowContext(ctx, countCommentsSQL).Scan(&c.Comments); err != nil {
		return c, err
	}
	return c, nil
}

func (r *Repo) ListSentiments(ctx context.Context) ([]domain.SentimentView, error) {
	rows, err := r.db.QueryContext(ctx, listSentimentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SentimentView
	for rows.Next() {
		var (
			v       domain.SentimentView
			label   string
			summary sql.NullString
			updated time.Time
		)
		if err := rows.Scan(&v.FlavorID, &v.Flavor, &v.Score, &label, &summary, &v.CommentCount, &v.AvgRating, &updated); err != nil {
			return nil, err
		}
		v.Label = domain.SentimentLabel(label)
		v.Summary = summary.String
		v.LastUpdated = updated.UTC()
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
		var (
			c           domain.CommentView
			title, date sql.NullString
			rating      sql.NullFloat64
		)
		if err := rows.Scan(&c.Text, &title, &rating, &date); err != nil {
			return nil, err
		}
		c.Title, c.Rating, c.ReviewDate = title.String, rating.Float64, date.String
		out = append(out, c)
	}
	return out, rows.Err()
}
