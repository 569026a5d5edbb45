package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/adapters/observability"
	"flavor_sentiment/internal/domain"
)

const commentTextLimit = 2000

type SyncService struct {
	store domain.SentimentStore
	cache domain.Cache
	now   func() time.Time
}

func NewSyncService(s domain.SentimentStore, cache domain.Cache) *SyncService {
	return &SyncService{store: s, cache: cache, now: time.Now}
}

// SetClock overrides the clock used for last_updated.
func (s *SyncService) SetClock(clock func() time.Time) { s.now = clock }

type SyncReport struct {
	Synced   int
	Skipped  int
	Failed   int
	Comments int
}

// Sync writes every flavor of res to the store. Flavors are independent: a
// miss or a failing row is logged and counted, and the next flavor proceeds.
func (s *SyncService) Sync(ctx context.Context, res domain.Results) SyncReport {
	names := make([]string, 0, len(res.Sentiments))
	for name := range res.Sentiments {
		names = append(names, name)
	}
	sort.Strings(names)

	var rep SyncReport
	for _, name := range names {
		notable := res.NotableFor(name)
		n, err := s.SyncFlavor(ctx, name, res.Sentiments[name], notable)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			rep.Skipped++
			observability.ObserveSync("skipped")
			log.Warn().Str("flavor", name).Msg("flavor not in reference table, skipped")
		case err != nil:
			rep.Failed++
			observability.ObserveSync("failed")
			log.Error().Err(err).Str("flavor", name).Msg("flavor sync failed")
		default:
			rep.Synced++
			rep.Comments += n
			observability.ObserveSync("synced")
			log.Info().
				Str("flavor", name).
				Str("label", string(res.Sentiments[name].Label)).
				Int("notable", n).
				Msg("flavor synced")
		}
	}
	return rep
}

// SyncFlavor upserts one summary and replaces its comment set. It returns the
// number of comment rows written. A name with no flavor row yields
// domain.ErrNotFound and no writes.
func (s *SyncService) SyncFlavor(ctx context.Context, name string, sum domain.SentimentSummary, notable []domain.NotableReview) (int, error) {
	id, err := s.store.FlavorID(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("resolve flavor %q: %w", name, err)
	}

	if err := s.store.UpsertSentiment(ctx, domain.SentimentRow{
		FlavorID:     id,
		Score:        sum.Score,
		Label:        sum.Label,
		Summary:      sum.Summary,
		CommentCount: sum.ReviewCount,
		AvgRating:    sum.AvgRating,
		LastUpdated:  s.now().UTC(),
	}); err != nil {
		return 0, fmt.Errorf("upsert sentiment: %w", err)
	}

	// Replace wholesale: reruns leave exactly this run's rows.
	if err := s.store.DeleteComments(ctx, id); err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	rows := commentRows(id, notable)
	if len(rows) > 0 {
		if err := s.store.InsertComments(ctx, rows); err != nil {
			return 0, fmt.Errorf("insert comments: %w", err)
		}
	}

	if s.cache != nil {
		s.invalidateFlavor(ctx, name)
	}
	return len(rows), nil
}

// Verify reads back table sizes for the operator.
func (s *SyncService) Verify(ctx context.Context) (domain.StoreCounts, error) {
	return s.store.Counts(ctx)
}

func commentRows(flavorID int64, notable []domain.NotableReview) []domain.CommentRow {
	rows := make([]domain.CommentRow, 0, len(notable))
	for _, r := range notable {
		rows = append(rows, domain.CommentRow{
			FlavorID:    flavorID,
			CommentText: truncateRunes(r.Body, commentTextLimit),
			ReviewTitle: r.Title,
			Rating:      r.Rating,
			ReviewDate:  r.Date,
			IsNotable:   true,
		})
	}
	return rows
}

// invalidateFlavor drops the API cache entries a rewrite makes stale.
func (s *SyncService) invalidateFlavor(ctx context.Context, name string) {
	_ = s.cache.Del(ctx, sentimentsKey)
	for _, lim := range commonCommentLimits {
		_ = s.cache.Del(ctx, commentsKey(name, lim))
	}
}
