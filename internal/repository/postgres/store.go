package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/nba-stats-manager/internal/config"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the PostgreSQL implementation of repository.Store.
type Store struct {
	pool      *pgxpool.Pool
	db        *sql.DB
	tx        repository.TxManager
	log       zerolog.Logger
	closeOnce sync.Once
}

// Open connects to PostgreSQL and returns a store ready for Initialize.
func Open(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger) (*Store, error) {
	log := logger.With().Str("module", "repository").Str("component", "postgres").Logger()
	pool, err := NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return New(pool, log), nil
}

// New wraps an existing pool. The store takes ownership and closes it in Close.
func New(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		pool: pool,
		db:   stdlib.OpenDBFromPool(pool),
		tx:   NewTxManager(pool),
		log:  logger,
	}
}

func (s *Store) provider() (*goose.Provider, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(goose.DialectPostgres, s.db, sub)
}

// Initialize applies every pending embedded migration.
func (s *Store) Initialize(ctx context.Context) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return repository.Unavailable("apply migrations", err)
	}
	for _, r := range results {
		s.log.Info().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("migration applied")
	}
	return nil
}

// Reset rolls every migration back and applies them again, dropping all data.
func (s *Store) Reset(ctx context.Context) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	p, err := s.provider()
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	if _, err := p.DownTo(ctx, 0); err != nil {
		return repository.Unavailable("roll back migrations", err)
	}
	s.log.Warn().Msg("schema dropped")
	return s.Initialize(ctx)
}

// Ping reports whether the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	if err := ensurePool(s.pool); err != nil {
		return err
	}
	if err := s.pool.Ping(ctx); err != nil {
		return repository.Unavailable("ping postgres", err)
	}
	return nil
}

// Close releases the pool. Subsequent calls are no-ops.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.db != nil {
			err = s.db.Close()
		}
		if s.pool != nil {
			s.pool.Close()
		}
	})
	return err
}

var _ repository.Store = (*Store)(nil)
