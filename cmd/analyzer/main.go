package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/adapters/judge"
	"flavor_sentiment/internal/adapters/observability"
	redisad "flavor_sentiment/internal/adapters/redis"
	"flavor_sentiment/internal/adapters/report"
	"flavor_sentiment/internal/app"
	"flavor_sentiment/internal/artifact"
	"flavor_sentiment/internal/shared"
)

const stage = "analyzer"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	log.Logger = observability.NewLogger(cfg.AppEnv, stage, cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	records, err := artifact.ReadReviews(cfg.ReviewsPath)
	if err != nil {
		return err
	}

	j, closeJudge, err := judge.New(ctx, judge.Options{
		Provider:    cfg.JudgeProvider,
		OpenAIBase:  cfg.OpenAIBase,
		OpenAIKey:   cfg.OpenAIKey,
		OpenAIModel: cfg.OpenAIModel,
		GeminiKey:   cfg.GeminiKey,
		GeminiModel: cfg.GeminiModel,
		OllamaHost:  cfg.OllamaHost,
		OllamaModel: cfg.OllamaModel,
		RPS:         cfg.JudgeRPS,
	})
	if err != nil {
		return fmt.Errorf("judge: %w", err)
	}
	defer closeJudge()

	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rdb.Close()
		unlock, err := redisad.StageLock(ctx, redisad.NewLocker(rdb, redisad.LockPrefix), stage, cfg.LockTTL)
		if err != nil {
			return err
		}
		defer unlock()
	}

	log.Info().
		Str("judge", j.Name()).
		Int("reviews", len(records)).
		Int("workers", cfg.Workers).
		Dur("pace", cfg.Pace).
		Msg("analyzer starting")

	svc := app.NewAnalysisService(j,
		app.WithWorkers(cfg.Workers),
		app.WithPace(cfg.Pace),
		app.WithProduct(cfg.Product),
	)
	res := svc.Analyze(ctx, records)
	// an interrupted run would overwrite good results with fallbacks
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	if err := artifact.WriteResults(cfg.ResultsPath, res); err != nil {
		return err
	}
	log.Info().Str("run_id", res.RunID).Str("out", cfg.ResultsPath).Msg("results written")
	return report.Rankings(os.Stdout, res)
}
