package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/nba-stats-manager/internal/aggregate"
	"github.com/maxviazov/nba-stats-manager/internal/export"
	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options tune a StatsService. The zero value is usable.
type Options struct {
	// Cache is optional; nil disables view caching.
	Cache ViewCache
	// Fs is where ExportAll writes. Defaults to the OS filesystem.
	Fs afero.Fs
	// DefaultSeason labels refreshed records that carry no season.
	DefaultSeason string
}

type statsService struct {
	mu            sync.Mutex
	store         repository.Store
	cache         ViewCache
	fs            afero.Fs
	defaultSeason string
	log           zerolog.Logger
}

func NewStatsService(store repository.Store, logger zerolog.Logger, opts Options) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &statsService{
		store:         store,
		cache:         opts.Cache,
		fs:            fs,
		defaultSeason: opts.DefaultSeason,
		log:           l,
	}
}

func (s *statsService) Refresh(ctx context.Context, raw []model.RawRecord, season string) (model.UpsertResult, error) {
	season = strings.TrimSpace(season)
	if err := NewInvalidInputError(checkSeason("season", season)); err != nil {
		return model.UpsertResult{}, err
	}
	if season == "" {
		season = s.defaultSeason
	}
	return s.upsert(ctx, ingest.Normalize(raw, season), "refresh")
}

func (s *statsService) RefreshFrom(ctx context.Context, src ingest.Source, season string) (model.UpsertResult, error) {
	if src == nil {
		return model.UpsertResult{}, ErrNoSource
	}
	season = strings.TrimSpace(season)
	if err := NewInvalidInputError(checkSeason("season", season)); err != nil {
		return model.UpsertResult{}, err
	}

	// Fetching happens outside the lock so a slow provider does not block readers.
	started := time.Now()
	raw, err := src.Fetch(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("fetch failed")
		return model.UpsertResult{}, fmt.Errorf("fetch: %w", err)
	}
	s.log.Info().Int("records", len(raw)).Dur("took", time.Since(started)).Msg("fetched upstream batch")
	return s.Refresh(ctx, raw, season)
}

func (s *statsService) Import(ctx context.Context, records []model.PlayerSeasonRecord) (model.UpsertResult, error) {
	return s.upsert(ctx, records, "import")
}

func (s *statsService) upsert(ctx context.Context, records []model.PlayerSeasonRecord, op string) (model.UpsertResult, error) {
	batchID := uuid.NewString()
	log := s.log.With().Str("batch_id", batchID).Str("op", op).Logger()

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.store.UpsertBatch(ctx, records)
	res.BatchID = batchID
	if res.Applied > 0 {
		s.invalidate(ctx)
	}
	for _, rj := range res.Rejected {
		log.Warn().Int("index", rj.Index).Int64("player_id", rj.PlayerID).Str("reason", rj.Reason).Msg("record rejected")
	}
	if err != nil {
		log.Error().Err(err).Int("applied", res.Applied).Msg("upsert failed")
		return res, err
	}
	log.Info().Int("received", len(records)).Int("applied", res.Applied).Int("rejected", res.Errors()).Msg("upsert completed")
	return res, nil
}

func (s *statsService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *statsService) TopScorers(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error) {
	if err := NewInvalidInputError(checkLimit("limit", limit)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("top:%d", limit)
	var out []model.PlayerSeasonRecord
	if s.load(ctx, key, &out) {
		return out, nil
	}
	out, err := s.store.TopScorers(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, out)
	return out, nil
}

func (s *statsService) TeamStats(ctx context.Context, team string) ([]model.PlayerSeasonRecord, error) {
	if err := NewInvalidInputError(checkText("team", team)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.TeamStats(ctx, strings.TrimSpace(team))
}

func (s *statsService) EfficiencyLeaders(ctx context.Context, limit int) ([]model.RankedRecord, error) {
	if err := NewInvalidInputError(checkLimit("limit", limit)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("efficiency:%d", limit)
	var out []model.RankedRecord
	if s.load(ctx, key, &out) {
		return out, nil
	}
	all, err := s.store.FullScan(ctx)
	if err != nil {
		return nil, err
	}
	out = aggregate.EfficiencyLeaders(all, limit)
	s.save(ctx, key, out)
	return out, nil
}

func (s *statsService) ComparePlayers(ctx context.Context, name1, name2 string) (model.Comparison, error) {
	var ferrs []FieldError
	ferrs = append(ferrs, checkText("player1", name1)...)
	ferrs = append(ferrs, checkText("player2", name2)...)
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Comparison{}, err
	}
	all, err := s.scan(ctx)
	if err != nil {
		return model.Comparison{}, err
	}
	cmp := aggregate.Compare(all, strings.TrimSpace(name1), strings.TrimSpace(name2))
	if !cmp.Found {
		s.log.Debug().Strs("missing", cmp.Missing).Msg("comparison unresolved")
	}
	return cmp, nil
}

func (s *statsService) ScatterPoints(ctx context.Context) ([]model.ScatterPoint, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ScatterPoints(all), nil
}

func (s *statsService) ShootingLeaders(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error) {
	if err := NewInvalidInputError(checkLimit("limit", limit)); err != nil {
		return nil, err
	}
	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ShootingLeaders(all, limit), nil
}

func (s *statsService) TeamAnalysis(ctx context.Context, team string) ([]model.PlayerSeasonRecord, error) {
	if err := NewInvalidInputError(checkText("team", team)); err != nil {
		return nil, err
	}
	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.TeamAnalysis(all, strings.TrimSpace(team)), nil
}

func (s *statsService) ExportAll(ctx context.Context, dest string) (int, error) {
	if err := NewInvalidInputError(checkText("destination", dest)); err != nil {
		return 0, err
	}
	all, err := s.scan(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFile(s.fs, dest, all); err != nil {
		s.log.Error().Err(err).Str("dest", dest).Msg("export failed")
		return 0, err
	}
	s.log.Info().Str("dest", dest).Int("records", len(all)).Msg("export written")
	return len(all), nil
}

func (s *statsService) ExportTo(ctx context.Context, w io.Writer) (int, error) {
	all, err := s.scan(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, all); err != nil {
		return 0, fmt.Errorf("%w: %v", export.ErrExportFailed, err)
	}
	return len(all), nil
}

func (s *statsService) UpsertTeams(ctx context.Context, teams []model.TeamSeasonRecord) (model.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.store.UpsertTeams(ctx, teams)
	res.BatchID = uuid.NewString()
	if err != nil {
		return res, err
	}
	s.log.Info().Str("batch_id", res.BatchID).Int("applied", res.Applied).Int("rejected", res.Errors()).Msg("teams upserted")
	return res, nil
}

func (s *statsService) ListTeams(ctx context.Context, season string) ([]model.TeamSeasonRecord, error) {
	season = strings.TrimSpace(season)
	if err := NewInvalidInputError(checkSeason("season", season)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ListTeams(ctx, season)
}

func (s *statsService) scan(ctx context.Context) ([]model.PlayerSeasonRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.FullScan(ctx)
}

// load reports a cache hit. Cache errors are logged and read as misses.
func (s *statsService) load(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Load(ctx, key, dst)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache load failed")
		return false
	}
	return hit
}

func (s *statsService) save(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Store(ctx, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache store failed")
	}
}

func (s *statsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

var _ StatsService = (*statsService)(nil)
