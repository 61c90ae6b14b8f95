// Package service holds business logic orchestration across the store, the
// aggregation functions and the shells. Kept lean: use-case coordination,
// validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"io"

	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrNoSource is returned by RefreshFrom when no upstream source is configured.
var ErrNoSource = errors.New("no ingest source configured")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error, or nil when fe is empty.
// Shells use it for request-level problems they detect before calling the service.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// ViewCache stores derived views between writes. Implementations must tolerate
// concurrent use; the service treats every cache error as a miss.
type ViewCache interface {
	Load(ctx context.Context, key string, dst any) (bool, error)
	Store(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context) error
}

// StatsService is the session handle shells hold. Every store call goes through it
// and is serialised.
type StatsService interface {
	// Refresh normalizes a fetched batch and upserts it. An empty season uses the default.
	Refresh(ctx context.Context, raw []model.RawRecord, season string) (model.UpsertResult, error)
	// RefreshFrom fetches from src and refreshes with the result.
	RefreshFrom(ctx context.Context, src ingest.Source, season string) (model.UpsertResult, error)
	// Import upserts already typed records, e.g. a previous export.
	Import(ctx context.Context, records []model.PlayerSeasonRecord) (model.UpsertResult, error)
	Reset(ctx context.Context) error

	TopScorers(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error)
	TeamStats(ctx context.Context, team string) ([]model.PlayerSeasonRecord, error)
	EfficiencyLeaders(ctx context.Context, limit int) ([]model.RankedRecord, error)
	ComparePlayers(ctx context.Context, name1, name2 string) (model.Comparison, error)
	ScatterPoints(ctx context.Context) ([]model.ScatterPoint, error)
	ShootingLeaders(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error)
	TeamAnalysis(ctx context.Context, team string) ([]model.PlayerSeasonRecord, error)

	// ExportAll writes every record to dest and returns how many were written.
	ExportAll(ctx context.Context, dest string) (int, error)
	ExportTo(ctx context.Context, w io.Writer) (int, error)

	UpsertTeams(ctx context.Context, teams []model.TeamSeasonRecord) (model.UpsertResult, error)
	ListTeams(ctx context.Context, season string) ([]model.TeamSeasonRecord, error)
}
