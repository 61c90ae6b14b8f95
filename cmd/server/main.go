package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/nba-stats-manager/internal/app"
	"github.com/maxviazov/nba-stats-manager/internal/config"
	"github.com/maxviazov/nba-stats-manager/internal/handler"
	"github.com/maxviazov/nba-stats-manager/internal/logger"
	"github.com/maxviazov/nba-stats-manager/internal/scheduler"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("❌ .env loading failed: %v", err)
	}

	// Load application config; the file is optional, env always applies
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Storage initialization failed")
	}
	defer func() {
		if err := a.Close(); err != nil {
			appLogger.Error().Err(err).Msg("close failed")
		}
	}()
	appLogger.Info().Str("driver", cfg.Storage.Driver).Bool("cache", a.Cache != nil).Msg("✅ Storage ready")

	src := app.Source(cfg.Ingest, a.Fs)
	sched, err := scheduler.New(a.Stats, scheduler.Job{
		Spec:    cfg.Ingest.Schedule,
		Source:  src,
		Season:  cfg.Ingest.Season,
		Timeout: time.Duration(cfg.Ingest.TimeoutSeconds) * time.Second,
	}, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Scheduler configuration failed")
	}
	sched.Start()
	if sched.Enabled() {
		appLogger.Info().Str("schedule", cfg.Ingest.Schedule).Msg("⏱️ Scheduled refresh enabled")
	} else {
		appLogger.Info().Msg("Scheduled refresh disabled")
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(appLogger))
	deps := handler.Deps{Store: a.Store, Stats: a.Stats, Source: src, Season: cfg.Ingest.Season}
	if a.Cache != nil {
		deps.Cache = a.Cache
	}
	handler.Register(r, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("addr", srv.Addr).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown requested")
	case err := <-errCh:
		if err != nil {
			appLogger.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("http shutdown failed")
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("scheduler stop timed out")
	}
	appLogger.Info().Msg("👋 Service stopped")
}
