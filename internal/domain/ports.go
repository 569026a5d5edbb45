package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrLocked   = errors.New("stage lock held by another run")
)

// Judge is the external language-understanding service. It returns the raw
// completion text; callers treat it as untrusted.
type Judge interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

type SentimentStore interface {
	// Write paths
	FlavorID(ctx context.Context, name string) (int64, error) // ErrNotFound on miss
	UpsertSentiment(ctx context.Context, row SentimentRow) error
	DeleteComments(ctx context.Context, flavorID int64) error
	InsertComments(ctx context.Context, rows []CommentRow) error

	// Verification
	Counts(ctx context.Context) (StoreCounts, error)
}

type SentimentReader interface {
	ListSentiments(ctx context.Context) ([]SentimentView, error)
	ListComments(ctx context.Context, flavor string, limit int) ([]CommentView, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Locker guards a stage against concurrent runs.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
