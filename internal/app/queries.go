package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flavor_sentiment/internal/domain"
)

const (
	sentimentsKey       = "sentiments:all"
	DefaultCommentLimit = 50
)

// commonCommentLimits are the page sizes invalidated after a sync; other
// sizes age out with the cache TTL.
var commonCommentLimits = []int{DefaultCommentLimit, 100, 200}

func commentsKey(flavor string, limit int) string {
	return fmt.Sprintf("comments:%s:%d", flavor, limit)
}

type QueryService struct {
	repo     domain.SentimentReader
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.SentimentReader, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListSentiments(ctx context.Context) ([]domain.SentimentView, error) {
	var out []domain.SentimentView
	if ok, _ := s.cache.Get(ctx, sentimentsKey, &out); ok {
		return out, nil
	}
	vs, err := s.repo.ListSentiments(ctx)
	if err != nil {
		return nil, err
	}
	out = make([]domain.SentimentView, len(vs))
	copy(out, vs)
	s.remember(ctx, sentimentsKey, out)
	return out, nil
}

func (s *QueryService) ListComments(ctx context.Context, flavor string, limit int) ([]domain.CommentView, error) {
	key := commentsKey(flavor, limit)
	var out []domain.CommentView
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	cs, err := s.repo.ListComments(ctx, flavor, limit)
	if err != nil {
		return nil, err
	}

	// copy so the cached value never aliases the repo's backing array
	out = make([]domain.CommentView, len(cs))
	copy(out, cs)

	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		s.remember(ctx, key, out)
	}
	return out, nil
}

// remember caches v for the configured TTL; a zero TTL disables caching.
func (s *QueryService) remember(ctx context.Context, key string, v any) {
	if s.cacheTTL <= 0 {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

// NopCache is used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
