package ingest

import (
	"encoding/json"
	"testing"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FullRecord(t *testing.T) {
	raw := []model.RawRecord{{
		"player_id":    float64(2544),
		"player_name":  " LeBron James ",
		"team_name":    "LAL",
		"position":     "F",
		"games_played": float64(71),
		"ppg":          25.6837,
		"rpg":          7.31,
		"apg":          8.26,
		"spg":          1.25,
		"bpg":          0.55,
		"fg_pct":       0.54,
		"three_pct":    0.4107,
		"ft_pct":       0.75,
		"season":       "2023-24",
	}}

	got := Normalize(raw, "2024-25")
	require.Len(t, got, 1)
	r := got[0]

	assert.Equal(t, int64(2544), r.PlayerID)
	assert.Equal(t, "LeBron James", r.PlayerName)
	assert.Equal(t, "LAL", r.Team())
	require.NotNil(t, r.Position)
	assert.Equal(t, "F", *r.Position)
	assert.Equal(t, 71, r.GamesPlayed)
	assert.Equal(t, 25.7, r.Points)
	assert.Equal(t, 7.3, r.Rebounds)
	assert.Equal(t, 8.3, r.Assists)
	assert.Equal(t, 1.3, r.Steals)
	assert.Equal(t, 0.6, r.Blocks)
	assert.Equal(t, 54.0, r.FieldGoalPct)
	assert.Equal(t, 41.1, r.ThreePointPct)
	assert.Equal(t, 75.0, r.FreeThrowPct)
	assert.Equal(t, "2023-24", r.Season)
}

func TestNormalize_DefaultsAndAbsentFields(t *testing.T) {
	got := Normalize([]model.RawRecord{{
		"player_name": "No Id",
		"position":    "N/A",
		"team_name":   "",
	}}, "2024-25")

	require.Len(t, got, 1)
	r := got[0]
	assert.Zero(t, r.PlayerID)
	assert.Nil(t, r.Position)
	assert.Nil(t, r.TeamName)
	assert.Equal(t, "2024-25", r.Season)
	assert.Zero(t, r.FieldGoalPct)
}

func TestNormalize_NumberForms(t *testing.T) {
	got := Normalize([]model.RawRecord{
		{"player_id": "201939", "games_played": "74", "ppg": "26.4"},
		{"player_id": json.Number("1629029"), "games_played": int64(70), "ppg": float32(33.9)},
		{"player_id": 7, "games_played": "lots", "ppg": "NaN"},
	}, "")

	require.Len(t, got, 3)
	assert.Equal(t, int64(201939), got[0].PlayerID)
	assert.Equal(t, 74, got[0].GamesPlayed)
	assert.Equal(t, 26.4, got[0].Points)
	assert.Equal(t, int64(1629029), got[1].PlayerID)
	assert.Equal(t, 70, got[1].GamesPlayed)
	assert.Equal(t, 33.9, got[1].Points)
	assert.Equal(t, int64(7), got[2].PlayerID)
	assert.Zero(t, got[2].GamesPlayed)
	assert.Zero(t, got[2].Points)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil, "2024-25"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 48.7, Percentage(0.487))
	assert.Equal(t, 100.0, Percentage(1))
	assert.Equal(t, 0.0, Percentage(0))
	assert.Equal(t, 36.3, Percentage(0.3629))
	assert.Equal(t, 150.0, Percentage(1.5))
	assert.Equal(t, 4866.0, Percentage(48.66))
}
