package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/adapters/observability"
	redisad "flavor_sentiment/internal/adapters/redis"
	"flavor_sentiment/internal/adapters/report"
	"flavor_sentiment/internal/app"
	"flavor_sentiment/internal/artifact"
	"flavor_sentiment/internal/shared"
)

const stage = "extractor"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, stage, cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	f, err := os.Open(cfg.RawPath)
	if err != nil {
		return fmt.Errorf("open raw reviews: %w", err)
	}
	defer f.Close()

	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rdb.Close()
		unlock, err := redisad.StageLock(ctx, redisad.NewLocker(rdb, redisad.LockPrefix), stage, cfg.LockTTL)
		if err != nil {
			return err
		}
		defer unlock()
	}

	log.Info().Str("in", cfg.RawPath).Msg("extractor starting")

	records, err := app.ExtractReviews(f)
	if err != nil {
		return err
	}
	if err := artifact.WriteReviews(cfg.ReviewsPath, records); err != nil {
		return err
	}
	observability.ObserveExtracted(len(records))

	t := app.Tally(records)
	log.Info().
		Int("reviews", len(records)).
		Int("flavors", len(t.ByFlavor)).
		Str("out", cfg.ReviewsPath).
		Msg("extraction completed")
	return report.Tally(os.Stdout, t.ByFlavor, t.ByRating)
}
