package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"flavor_sentiment/internal/domain"
)

// timestamps are stored as RFC 3339 text
const timeLayout = time.RFC3339Nano

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
		s.FlavorID, s.Score, string(s.Label), s.Summary, s.CommentCount, s.AvgRating,
		s.LastUpdated.UTC().Format(timeLayout))
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
	args := make([]any, 0, len(rows)*6)
	for _, c := range rows {
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, c.FlavorID, c.CommentText, c.ReviewTitle, c.Rating, c.ReviewDate, c.IsNotable)
	}
	_, err := r.db.ExecContext(ctx, insertCommentsPrefix+strings.Join(values, ","), args...)
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
		var (
			v              domain.SentimentView
			label, updated string
		)
		if err := rows.Scan(&v.FlavorID, &v.Flavor, &v.Score, &label, &v.Summary, &v.CommentCount, &v.AvgRating, &updated); err != nil {
			return nil, err
		}
		v.Label = domain.SentimentLabel(label)
		if v.LastUpdated, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("parse last_updated for %s: %w", v.Flavor, err)
		}
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
