package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "flavor_sentiment/internal/adapters/http_server"
	"flavor_sentiment/internal/adapters/observability"
	redisad "flavor_sentiment/internal/adapters/redis"
	"flavor_sentiment/internal/app"
	"flavor_sentiment/internal/domain"
	"flavor_sentiment/internal/shared"
	"flavor_sentiment/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	// db
	backend, err := storage.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store open failed")
	}
	defer backend.Close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("database connection ok")

	// deps
	var cache domain.Cache = app.NopCache{}
	if cfg.RedisAddr != "" {
		rdb := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rdb.Close()
		cache = redisad.NewCache(rdb, redisad.CachePrefix)
	}
	q := app.NewQueryService(backend.Repo, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
