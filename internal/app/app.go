// Package app assembles the process: store, optional cache and the stats
// service. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxviazov/nba-stats-manager/internal/cache"
	"github.com/maxviazov/nba-stats-manager/internal/config"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
	"github.com/maxviazov/nba-stats-manager/internal/repository/postgres"
	"github.com/maxviazov/nba-stats-manager/internal/repository/sqlite"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Store  repository.Store
	// Cache is nil when Redis is not configured or unreachable.
	Cache *cache.RedisViews
	Stats service.StatsService
	Fs    afero.Fs
}

// Open connects the configured backend, creates the schema if needed and
// wires the service. A Redis failure only disables caching.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: logger, Fs: afero.NewOsFs()}

	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	a.Store = store

	opts := service.Options{Fs: a.Fs, DefaultSeason: cfg.Ingest.Season}
	if url := strings.TrimSpace(cfg.Redis.URL); url != "" {
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		views, err := cache.NewRedisViews(ctx, url, ttl)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, view cache disabled")
		} else {
			if p := strings.TrimSpace(cfg.Redis.Prefix); p != "" {
				views = views.WithPrefix(p)
			}
			a.Cache = views
			opts.Cache = views
		}
	}

	a.Stats = service.NewStatsService(store, logger, opts)
	return a, nil
}

// OpenStore returns the backend named by storage.driver, not yet initialized.
func OpenStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case "", "sqlite":
		return sqlite.Open(ctx, cfg.Storage.SQLite.Path, logger)
	case "postgres":
		return postgres.Open(ctx, cfg.Postgres, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Source picks the upstream for remote refreshes: the URL wins over the file.
// It returns nil when neither is configured.
func Source(cfg config.IngestConfig, fs afero.Fs) ingest.Source {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch {
	case strings.TrimSpace(cfg.SourceURL) != "":
		return ingest.NewHTTPSource(cfg.SourceURL, cfg.Season, timeout)
	case strings.TrimSpace(cfg.File) != "":
		return ingest.FileSource{Fs: fs, Path: cfg.File}
	default:
		return nil
	}
}

// Close releases the cache and the store, in that order.
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
