// Package ingest turns loosely typed upstream records into player season records.
package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/shopspring/decimal"
)

// Recognised upstream keys.
const (
	KeyPlayerID    = "player_id"
	KeyPlayerName  = "player_name"
	KeyTeamName    = "team_name"
	KeyPosition    = "position"
	KeyGamesPlayed = "games_played"
	KeyPoints      = "ppg"
	KeyRebounds    = "rpg"
	KeyAssists     = "apg"
	KeySteals      = "spg"
	KeyBlocks      = "bpg"
	KeyFieldGoal   = "fg_pct"
	KeyThreePoint  = "three_pct"
	KeyFreeThrow   = "ft_pct"
	KeySeason      = "season"
)

var hundred = decimal.NewFromInt(100)

// Normalize converts raw records in order. It never drops a record: a missing
// player_id yields PlayerID 0, which the store rejects and counts.
// defaultSeason fills records that carry no season label.
func Normalize(raw []model.RawRecord, defaultSeason string) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, normalizeOne(r, defaultSeason))
	}
	return out
}

func normalizeOne(r model.RawRecord, defaultSeason string) model.PlayerSeasonRecord {
	rec := model.PlayerSeasonRecord{
		PlayerID:      int64(number(r[KeyPlayerID])),
		PlayerName:    text(r[KeyPlayerName]),
		TeamName:      optional(r[KeyTeamName]),
		Position:      optional(r[KeyPosition]),
		GamesPlayed:   int(number(r[KeyGamesPlayed])),
		Points:        rate(r[KeyPoints]),
		Rebounds:      rate(r[KeyRebounds]),
		Assists:       rate(r[KeyAssists]),
		Steals:        rate(r[KeySteals]),
		Blocks:        rate(r[KeyBlocks]),
		FieldGoalPct:  Percentage(number(r[KeyFieldGoal])),
		ThreePointPct: Percentage(number(r[KeyThreePoint])),
		FreeThrowPct:  Percentage(number(r[KeyFreeThrow])),
		Season:        text(r[KeySeason]),
	}
	if rec.Season == "" {
		rec.Season = defaultSeason
	}
	if rec.Position != nil && strings.EqualFold(*rec.Position, "N/A") {
		rec.Position = nil
	}
	return rec.Normalized()
}

// Percentage rescales a shooting fraction in [0,1] to [0,100] with one decimal.
// Upstream always sends fractions, so anything outside [0,1] lands outside
// [0,100] and the store rejects the record.
func Percentage(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Mul(hundred).Round(1).Float64()
	return f
}

func rate(v any) float64 {
	f, _ := decimal.NewFromFloat(number(v)).Round(1).Float64()
	return f
}

// number accepts JSON numbers, numeric strings and Go numeric types.
// Anything else reads as zero.
func number(v any) float64 {
	f := rawNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func rawNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func text(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case nil:
		return ""
	default:
		return ""
	}
}

func optional(v any) *string {
	s := text(v)
	if s == "" {
		return nil
	}
	return &s
}
