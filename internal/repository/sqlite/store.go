// Package sqlite is the default local backend: a single database file driven through gorm.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const inMemory = ":memory:"

// Store is the SQLite implementation of repository.Store.
type Store struct {
	db        *gorm.DB
	log       zerolog.Logger
	now       func() time.Time
	closeOnce sync.Once
	closeErr  error
}

// Open creates the parent directory if needed and opens the database file.
// The schema is created by Initialize.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	log := logger.With().Str("module", "repository").Str("component", "sqlite").Logger()

	if path != inMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, repository.Unavailable("create data directory", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		return nil, repository.Unavailable("open sqlite", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, repository.Unavailable("open sqlite", err)
	}
	// One writer at a time; the service already serialises calls.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, repository.Unavailable("ping sqlite", err)
	}
	if path != inMemory {
		if err := db.WithContext(ctx).Exec("PRAGMA journal_mode=WAL").Error; err != nil {
			_ = sqlDB.Close()
			return nil, repository.Unavailable("configure sqlite", err)
		}
	}

	log.Info().Str("path", path).Msg("sqlite opened")
	return &Store{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *Store) Initialize(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&playerRow{}, &teamRow{}); err != nil {
		return repository.Unavailable("migrate sqlite", err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Migrator().DropTable(&playerRow{}, &teamRow{}); err != nil {
		return repository.Unavailable("drop tables", err)
	}
	s.log.Warn().Msg("schema dropped")
	return s.Initialize(ctx)
}

// UpsertBatch writes each valid record with a single INSERT ... ON CONFLICT statement.
func (s *Store) UpsertBatch(ctx context.Context, records []model.PlayerSeasonRecord) (model.UpsertResult, error) {
	valid, rejected := repository.PrepareBatch(records)
	res := model.UpsertResult{Rejected: rejected}

	for _, it := range valid {
		row := toPlayerRow(it.Record, s.now())
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).Create(&row).Error
		if err != nil {
			err = mapError("upsert player", err)
			if errors.Is(err, repository.ErrValidation) {
				res.Rejected = append(res.Rejected, model.RejectedRecord{Index: it.Index, PlayerID: row.PlayerID, Reason: err.Error()})
				continue
			}
			s.log.Error().Err(err).Int64("player_id", row.PlayerID).Int("applied", res.Applied).Msg("upsert aborted")
			return res, err
		}
		res.Applied++
	}
	return res, nil
}

func (s *Store) TopScorers(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error) {
	if limit <= 0 {
		limit = repository.DefaultTopLimit
	}
	var rows []playerRow
	err := s.db.WithContext(ctx).
		Where("games_played > ?", repository.TopScorersMinGames).
		Order("points_per_game DESC").
		Order("player_id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, mapError("top scorers", err)
	}
	return toRecords(rows), nil
}

func (s *Store) TeamStats(ctx context.Context, teamSubstring string) ([]model.PlayerSeasonRecord, error) {
	var rows []playerRow
	err := s.db.WithContext(ctx).
		Where(`team_name IS NOT NULL AND LOWER(team_name) LIKE ? ESCAPE '\'`, repository.LikePattern(teamSubstring)).
		Order("points_per_game DESC").
		Order("player_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("team stats", err)
	}
	return toRecords(rows), nil
}

func (s *Store) FullScan(ctx context.Context) ([]model.PlayerSeasonRecord, error) {
	var rows []playerRow
	if err := s.db.WithContext(ctx).Order("player_id ASC").Find(&rows).Error; err != nil {
		return nil, mapError("full scan", err)
	}
	return toRecords(rows), nil
}

func (s *Store) UpsertTeams(ctx context.Context, teams []model.TeamSeasonRecord) (model.UpsertResult, error) {
	valid, rejected := repository.PrepareTeams(teams)
	res := model.UpsertResult{Rejected: rejected}
	for _, it := range valid {
		t := it.Team
		row := teamRow{
			TeamID:      t.TeamID,
			TeamName:    t.TeamName,
			Wins:        t.Wins,
			Losses:      t.Losses,
			WinPct:      t.WinPct,
			Season:      t.Season,
			LastUpdated: s.now(),
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}},
			UpdateAll: true,
		}).Create(&row).Error
		if err != nil {
			return res, mapError("upsert team", err)
		}
		res.Applied++
	}
	return res, nil
}

func (s *Store) ListTeams(ctx context.Context, season string) ([]model.TeamSeasonRecord, error) {
	q := s.db.WithContext(ctx).Order("win_pct DESC").Order("team_id ASC")
	if season != "" {
		q = q.Where("season = ?", season)
	}
	var rows []teamRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, mapError("list teams", err)
	}
	out := make([]model.TeamSeasonRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return repository.Unavailable("ping sqlite", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return repository.Unavailable("ping sqlite", err)
	}
	return nil
}

// Close releases the database handle. Subsequent calls return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		sqlDB, err := s.db.DB()
		if err != nil {
			s.closeErr = err
			return
		}
		s.closeErr = sqlDB.Close()
	})
	return s.closeErr
}

func toRecords(rows []playerRow) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out
}

// mapError classifies driver errors into repository sentinels.
func mapError(op string, err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, sql.ErrConnDone), strings.Contains(msg, "database is closed"):
		return repository.Unavailable(op, err)
	case strings.Contains(msg, "constraint failed"):
		return fmt.Errorf("%s: %w: %s", op, repository.ErrValidation, msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ repository.Store = (*Store)(nil)
