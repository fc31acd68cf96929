package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/cache"
	"github.com/Manoj5621/Fashion-virtual/internal/config"
	"github.com/Manoj5621/Fashion-virtual/internal/database"
	"github.com/Manoj5621/Fashion-virtual/internal/handlers"
	"github.com/Manoj5621/Fashion-virtual/internal/jobs"
	"github.com/Manoj5621/Fashion-virtual/internal/log"
	"github.com/Manoj5621/Fashion-virtual/internal/provider"
	"github.com/Manoj5621/Fashion-virtual/internal/repository"
	"github.com/Manoj5621/Fashion-virtual/internal/server"
	"github.com/Manoj5621/Fashion-virtual/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
			redisClient = nil
		}
	}

	store, uploadsRoot, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init storage")
	}

	generator, err := provider.NewGeminiClient(ctx, cfg.Provider)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init generation provider")
	}

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, store, generator, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(
		repository.NewTryOnRepository(dbPool),
		repository.NewSessionRepository(dbPool),
		uploadsRoot,
		logger,
	)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient, generator)
}

func newStore(ctx context.Context, cfg *config.AppConfig) (storage.Store, string, error) {
	if cfg.Storage.Driver == "s3" {
		objectStore, err := storage.NewObjectStore(cfg.Storage)
		if err != nil {
			return nil, "", err
		}
		if err := objectStore.EnsureBucket(ctx, cfg.Storage.Region); err != nil {
			return nil, "", err
		}
		// No local root: the orphan sweep only applies to disk storage.
		return objectStore, "", nil
	}

	diskStore, err := storage.NewDiskStore(cfg.Storage.Root)
	if err != nil {
		return nil, "", err
	}
	return diskStore, diskStore.Root(), nil
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	generator *provider.GeminiClient,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	if err := generator.Close(); err != nil {
		logger.Error().Err(err).Msg("provider close error")
	}

	db.Close()
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
