package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"utms/dashboard/internal/cache"
	"utms/dashboard/internal/config"
	"utms/dashboard/internal/database"
	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/handlers"
	"utms/dashboard/internal/jobs"
	"utms/dashboard/internal/log"
	"utms/dashboard/internal/repository"
	"utms/dashboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("store", cfg.Session.Store).Msg("failed to init session store")
	}

	gw := gateway.NewClient(cfg.Backend.BaseURL, logger)
	handlerSet := handlers.NewHandlerSet(logger, cfg, store, gw)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(store, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, store)
}

func newSessionStore(ctx context.Context, cfg *config.AppConfig) (repository.SessionStore, error) {
	switch cfg.Session.Store {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisStore(client, cfg.Session.TTL), nil
	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresStore(pool, cfg.Session.TTL), nil
	case "memory":
		return repository.NewMemoryStore(cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, store repository.SessionStore) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-time.After(5 * time.Second):
		logger.Warn().Msg("scheduler stop timed out")
	}

	if err := store.Close(); err != nil {
		logger.Error().Err(err).Msg("session store close error")
	}

	logger.Info().Msg("dashboard exited cleanly")
}
