package app

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"flavor_sentiment/internal/adapters/observability"
	"flavor_sentiment/internal/domain"
)

const (
	DefaultProduct = "Waterloo sparkling water"
	DefaultPace    = 500 * time.Millisecond

	emptySummary  = "No reviews found for this flavor."
	failedSummary = "Analysis failed."
)

// FlavorGroup is every review sharing one flavor key.
type FlavorGroup struct {
	Flavor  string
	Reviews []domain.ReviewRecord
}

// GroupByFlavor partitions records by FlavorKey, groups ordered by first appearance.
func GroupByFlavor(records []domain.ReviewRecord) []FlavorGroup {
	idx := map[string]int{}
	var groups []FlavorGroup
	for _, r := range records {
		k := r.FlavorKey()
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, FlavorGroup{Flavor: k})
		}
		groups[i].Reviews = append(groups[i].Reviews, r)
	}
	return groups
}

type AnalysisService struct {
	judge   domain.Judge
	product string
	workers int
	pacer   *rate.Limiter
	now     func() time.Time
	newID   func() string
}

type AnalysisOption func(*AnalysisService)

// WithWorkers bounds how many groups are judged at once. Default 1.
func WithWorkers(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPace spaces judge calls at least d apart across all workers; d <= 0 disables pacing.
func WithPace(d time.Duration) AnalysisOption {
	return func(s *AnalysisService) { s.pacer = newPacer(d) }
}

func WithProduct(name string) AnalysisOption {
	return func(s *AnalysisService) {
		if name != "" {
			s.product = name
		}
	}
}

func WithClock(clock func() time.Time) AnalysisOption {
	return func(s *AnalysisService) { s.now = clock }
}

func WithRunID(gen func() string) AnalysisOption {
	return func(s *AnalysisService) { s.newID = gen }
}

func NewAnalysisService(j domain.Judge, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		judge:   j,
		product: DefaultProduct,
		workers: 1,
		pacer:   newPacer(DefaultPace),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newPacer(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// FlavorAnalysis is the outcome for one group. Err is informational: Summary
// already holds the fallback when it is set.
type FlavorAnalysis struct {
	Flavor  string
	Summary domain.SentimentSummary
	Notable []domain.NotableReview
	Err     error
}

// Analyze judges every flavor group and assembles a fresh Results artifact.
// A failing group falls back to a neutral summary; the others are unaffected.
func (s *AnalysisService) Analyze(ctx context.Context, records []domain.ReviewRecord) domain.Results {
	at := s.now().UTC()
	runID := s.newID()
	groups := GroupByFlavor(records)

	out := make([]FlavorAnalysis, len(groups))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, grp := range groups {
		g.Go(func() error {
			out[i] = s.analyzeFlavor(ctx, grp.Flavor, grp.Reviews, at)
			return nil
		})
	}
	_ = g.Wait() // group errors are folded into out

	res := domain.Results{
		RunID:          runID,
		Sentiments:     make(map[string]domain.SentimentSummary, len(groups)),
		NotableReviews: []domain.NotableReview{},
		AnalyzedAt:     at,
	}
	failed := 0
	for _, fa := range out {
		res.Sentiments[fa.Flavor] = fa.Summary
		res.NotableReviews = append(res.NotableReviews, fa.Notable...)
		if fa.Err != nil {
			failed++
		}
	}
	log.Info().
		Str("run_id", runID).
		Int("flavors", len(groups)).
		Int("failed", failed).
		Int("notable", len(res.NotableReviews)).
		Msg("analysis finished")
	return res
}

// AnalyzeFlavor judges a single group; an empty group never reaches the judge.
func (s *AnalysisService) AnalyzeFlavor(ctx context.Context, flavor string, reviews []domain.ReviewRecord) FlavorAnalysis {
	return s.analyzeFlavor(ctx, flavor, reviews, s.now().UTC())
}

func (s *AnalysisService) analyzeFlavor(ctx context.Context, flavor string, reviews []domain.ReviewRecord, at time.Time) FlavorAnalysis {
	fa := FlavorAnalysis{
		Flavor: flavor,
		Summary: domain.SentimentSummary{
			Label:       domain.LabelNeutral,
			AvgRating:   averageRating(reviews),
			ReviewCount: len(reviews),
			AnalyzedAt:  at,
		},
	}
	if len(reviews) == 0 {
		fa.Summary.Summary = emptySummary
		observability.ObserveGroup("empty")
		return fa
	}

	j, err := s.judgeGroup(ctx, flavor, reviews)
	if err != nil {
		fa.Summary.Summary = failedSummary
		fa.Err = err
		observability.ObserveGroup("failed")
		log.Warn().Err(err).Str("flavor", flavor).Int("reviews", len(reviews)).Msg("flavor analysis failed")
		return fa
	}

	fa.Summary.Score = j.Score
	fa.Summary.Label = j.Label
	fa.Summary.Summary = j.Summary
	for _, i := range j.NotableIndices {
		n := reviews[i]
		n.Flavor = flavor
		fa.Notable = append(fa.Notable, n)
	}
	observability.ObserveGroup("ok")
	log.Info().
		Str("flavor", flavor).
		Int("reviews", len(reviews)).
		Float64("score", j.Score).
		Str("label", string(j.Label)).
		Float64("avg_rating", fa.Summary.AvgRating).
		Msg("flavor analyzed")
	return fa
}

func (s *AnalysisService) judgeGroup(ctx context.Context, flavor string, reviews []domain.ReviewRecord) (Judgment, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return Judgment{}, err
	}
	completion, err := s.judge.Complete(ctx, BuildPrompt(s.product, flavor, reviews))
	if err != nil {
		return Judgment{}, err
	}
	return ParseJudgment(completion, len(reviews))
}

// averageRating is the mean rating rounded to 2 decimals; 0 for no reviews.
func averageRating(reviews []domain.ReviewRecord) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(sum/float64(len(reviews))*100) / 100
}
