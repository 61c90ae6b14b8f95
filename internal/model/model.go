// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the only behavior here is
// normalization that every layer must agree on.
package model

import (
	"strings"
	"time"
)

// PlayerSeasonRecord is one player's aggregate stats for one season.
// PlayerID is the stable external identifier and the storage primary key.
// Shooting percentages are stored on the 0-100 scale. GamesPlayed is bounded
// by the 32-bit INTEGER column.
type PlayerSeasonRecord struct {
	PlayerID      int64     `json:"player_id" validate:"gt=0"`
	PlayerName    string    `json:"player_name" validate:"required"`
	TeamName      *string   `json:"team_name,omitempty"`
	Position      *string   `json:"position,omitempty"`
	GamesPlayed   int       `json:"games_played" validate:"gte=0,lte=2147483647"`
	Points        float64   `json:"points_per_game" validate:"gte=0"`
	Rebounds      float64   `json:"rebounds_per_game" validate:"gte=0"`
	Assists       float64   `json:"assists_per_game" validate:"gte=0"`
	Steals        float64   `json:"steals_per_game" validate:"gte=0"`
	Blocks        float64   `json:"blocks_per_game" validate:"gte=0"`
	FieldGoalPct  float64   `json:"field_goal_pct" validate:"gte=0,lte=100"`
	ThreePointPct float64   `json:"three_point_pct" validate:"gte=0,lte=100"`
	FreeThrowPct  float64   `json:"free_throw_pct" validate:"gte=0,lte=100"`
	Season        string    `json:"season"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Team returns the team name or "" when absent.
func (r PlayerSeasonRecord) Team() string {
	if r.TeamName == nil {
		return ""
	}
	return *r.TeamName
}

// Normalized trims string fields and collapses blank optionals to nil so that
// "absent" has exactly one representation on every backend.
func (r PlayerSeasonRecord) Normalized() PlayerSeasonRecord {
	r.PlayerName = strings.TrimSpace(r.PlayerName)
	r.Season = strings.TrimSpace(r.Season)
	r.TeamName = OptionalString(r.TeamName)
	r.Position = OptionalString(r.Position)
	return r
}

// OptionalString returns nil for nil or blank input, otherwise a trimmed copy.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// StringPtr is a small helper for optional literals.
func StringPtr(s string) *string { return OptionalString(&s) }

// TeamSeasonRecord is the optional companion table with standings per season.
type TeamSeasonRecord struct {
	TeamID      int64     `json:"team_id" validate:"gt=0"`
	TeamName    string    `json:"team_name" validate:"required"`
	Wins        int       `json:"wins" validate:"gte=0,lte=2147483647"`
	Losses      int       `json:"losses" validate:"gte=0,lte=2147483647"`
	WinPct      float64   `json:"win_pct" validate:"gte=0,lte=1"`
	Season      string    `json:"season"`
	LastUpdated time.Time `json:"last_updated"`
}

// Normalized trims the team's string fields.
func (t TeamSeasonRecord) Normalized() TeamSeasonRecord {
	t.TeamName = strings.TrimSpace(t.TeamName)
	t.Season = strings.TrimSpace(t.Season)
	return t
}

// RawRecord is a loosely typed upstream record as produced by a stats provider.
type RawRecord map[string]any

// RankedRecord is a record with the computed efficiency column attached.
// It is a read-only view and never persisted.
type RankedRecord struct {
	PlayerSeasonRecord
	Efficiency float64 `json:"efficiency"`
}

// ComparedStat is one row of a side-by-side comparison.
type ComparedStat struct {
	Label string  `json:"label"`
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Comparison pairs two resolved players. When Found is false, Missing lists
// the search strings that resolved to no player and the other fields are zero.
type Comparison struct {
	Found   bool               `json:"found"`
	Missing []string           `json:"missing,omitempty"`
	Left    PlayerSeasonRecord `json:"left"`
	Right   PlayerSeasonRecord `json:"right"`
	Stats   []ComparedStat     `json:"stats,omitempty"`
}

// ScatterPoint is the input contract for the points-vs-efficiency chart.
type ScatterPoint struct {
	PlayerName  string  `json:"player_name"`
	Points      float64 `json:"points_per_game"`
	Efficiency  float64 `json:"efficiency"`
	Assists     float64 `json:"assists_per_game"`
	GamesPlayed int     `json:"games_played"`
}

// RejectedRecord describes a record skipped during a bulk upsert.
type RejectedRecord struct {
	Index    int    `json:"index"`
	PlayerID int64  `json:"player_id,omitempty"`
	Reason   string `json:"reason"`
}

// UpsertResult reports what a bulk upsert applied and what it skipped.
type UpsertResult struct {
	BatchID  string           `json:"batch_id,omitempty"`
	Applied  int              `json:"applied"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
}

// Errors is the number of skipped records.
func (r UpsertResult) Errors() int { return len(r.Rejected) }
