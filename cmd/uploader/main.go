package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/adapters/observability"
	redisad "flavor_sentiment/internal/adapters/redis"
	"flavor_sentiment/internal/app"
	"flavor_sentiment/internal/artifact"
	"flavor_sentiment/internal/domain"
	"flavor_sentiment/internal/shared"
	"flavor_sentiment/internal/storage"
)

const stage = "uploader"

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
		log.Fatal().Err(err).Msg("upload failed")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	res, err := artifact.ReadResults(cfg.ResultsPath)
	if err != nil {
		return err
	}

	backend, err := storage.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return err
	}
	defer backend.Close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("db ping ok")

	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rdb.Close()
		unlock, err := redisad.StageLock(ctx, redisad.NewLocker(rdb, redisad.LockPrefix), stage, cfg.LockTTL)
		if err != nil {
			return err
		}
		defer unlock()
		cache = redisad.NewCache(rdb, redisad.CachePrefix)
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("flavors", len(res.Sentiments)).
		Int("notable", len(res.NotableReviews)).
		Msg("uploader starting")

	svc := app.NewSyncService(backend.Repo, cache)
	rep := svc.Sync(ctx, res)

	counts, err := svc.Verify(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("verification read failed")
	} else {
		log.Info().
			Int("sentiment_rows", counts.Sentiments).
			Int("comment_rows", counts.Comments).
			Msg("store verified")
	}

	ev := log.Info()
	if rep.Failed > 0 {
		ev = log.Warn()
	}
	ev.Int("synced", rep.Synced).
		Int("skipped", rep.Skipped).
		Int("failed", rep.Failed).
		Int("comments", rep.Comments).
		Msg("upload completed")
	return nil
}
