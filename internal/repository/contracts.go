package repository

import (
	"context"

	"github.com/maxviazov/nba-stats-manager/internal/aggregate"
	"github.com/maxviazov/nba-stats-manager/internal/model"
)

// DefaultTopLimit is used when a caller asks for a non-positive number of top scorers.
const DefaultTopLimit = 10

// TopScorersMinGames is the exclusive games-played threshold stores apply in TopScorers.
const TopScorersMinGames = aggregate.TopScorersMinGames

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// PlayerStore is durable keyed storage for player season records.
// Implementations validate records at this boundary and surface the sentinels from errors.go.
type PlayerStore interface {
	// Initialize creates the schema if it is absent. Safe to call repeatedly.
	Initialize(ctx context.Context) error
	// UpsertBatch inserts or fully replaces each valid record and skips invalid ones.
	// A returned error means the storage itself failed; the result still reports what was applied.
	UpsertBatch(ctx context.Context, records []model.PlayerSeasonRecord) (model.UpsertResult, error)
	// TopScorers returns players with more than TopScorersMinGames games, by points desc, player_id asc.
	TopScorers(ctx context.Context, limit int) ([]model.PlayerSeasonRecord, error)
	// TeamStats returns players whose team name contains teamSubstring, case-insensitively.
	TeamStats(ctx context.Context, teamSubstring string) ([]model.PlayerSeasonRecord, error)
	// FullScan returns every record ordered by player_id.
	FullScan(ctx context.Context) ([]model.PlayerSeasonRecord, error)
	// Reset drops and recreates the schema.
	Reset(ctx context.Context) error
	// Close releases the backing resource. Calling it twice is not an error.
	Close() error
}

// TeamStore declares persistence for the optional team standings table.
type TeamStore interface {
	UpsertTeams(ctx context.Context, teams []model.TeamSeasonRecord) (model.UpsertResult, error)
	// ListTeams returns standings by win_pct desc; an empty season lists every season.
	ListTeams(ctx context.Context, season string) ([]model.TeamSeasonRecord, error)
}

// Store is what a backend provides to the service layer.
type Store interface {
	PlayerStore
	TeamStore
	Pinger
}
