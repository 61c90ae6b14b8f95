package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord(id int64) model.PlayerSeasonRecord {
	return model.PlayerSeasonRecord{
		PlayerID:     id,
		PlayerName:   "  Jalen Brunson ",
		TeamName:     model.StringPtr("New York Knicks"),
		Position:     new(string),
		GamesPlayed:  77,
		Points:       28.7,
		FieldGoalPct: 47.9,
		Season:       "2024-25",
	}
}

func TestValidateRecord_NamesFields(t *testing.T) {
	r := validRecord(0)
	r.FieldGoalPct = 120
	err := ValidateRecord(r)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "PlayerID")
	assert.Contains(t, err.Error(), "FieldGoalPct: failed lte=100")
}

func TestPrepareBatch(t *testing.T) {
	blank := validRecord(3)
	blank.PlayerName = "   "
	valid, rejected := PrepareBatch([]model.PlayerSeasonRecord{validRecord(1), validRecord(-2), blank, validRecord(4)})

	require.Len(t, valid, 2)
	assert.Equal(t, 0, valid[0].Index)
	assert.Equal(t, 3, valid[1].Index)
	assert.Equal(t, "Jalen Brunson", valid[0].Record.PlayerName)
	assert.Nil(t, valid[0].Record.Position, "blank optional collapses to nil")

	require.Len(t, rejected, 2)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, int64(-2), rejected[0].PlayerID)
	assert.Equal(t, 2, rejected[1].Index)
}

func TestValidateTeam(t *testing.T) {
	assert.NoError(t, ValidateTeam(model.TeamSeasonRecord{TeamID: 1, TeamName: "Boston Celtics", WinPct: 0.78}))
	assert.ErrorIs(t, ValidateTeam(model.TeamSeasonRecord{TeamID: 1, TeamName: "x", WinPct: 1.5}), ErrValidation)
}

func TestPrepareTeams(t *testing.T) {
	valid, rejected := PrepareTeams([]model.TeamSeasonRecord{
		{TeamID: 1, TeamName: "  Boston Celtics ", WinPct: 0.78, Season: " 2024-25 "},
		{TeamID: 2, TeamName: "   ", WinPct: 0.5},
		{TeamID: 3, TeamName: "Denver Nuggets", Wins: 1 << 31},
	})

	require.Len(t, valid, 1)
	assert.Equal(t, 0, valid[0].Index)
	assert.Equal(t, "Boston Celtics", valid[0].Team.TeamName)
	assert.Equal(t, "2024-25", valid[0].Team.Season)

	require.Len(t, rejected, 2)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, 2, rejected[1].Index)
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"Lak":  "%lak%",
		"100%": `%100\%%`,
		"r_d":  `%r\_d%`,
		`a\b`:  `%a\\b%`,
		"":     "%%",
	}
	for in, want := range cases {
		assert.Equal(t, want, LikePattern(in), "input %q", in)
	}
}

func TestMapPgError(t *testing.T) {
	assert.NoError(t, MapPgError(nil))

	cases := []struct {
		code string
		want error
	}{
		{pgerrcode.UniqueViolation, ErrAlreadyExists},
		{pgerrcode.ForeignKeyViolation, ErrConflict},
		{pgerrcode.CheckViolation, ErrValidation},
		{pgerrcode.NotNullViolation, ErrValidation},
		{pgerrcode.NumericValueOutOfRange, ErrValidation},
		{pgerrcode.InvalidTextRepresentation, ErrValidation},
		{pgerrcode.TooManyConnections, ErrStorageUnavailable},
	}
	for _, tc := range cases {
		err := MapPgError(fmt.Errorf("exec: %w", &pgconn.PgError{Code: tc.code, Message: "boom"}))
		assert.ErrorIs(t, err, tc.want, "code %s", tc.code)
	}

	plain := errors.New("something else")
	assert.Same(t, plain, MapPgError(plain))
}

func TestUnavailable(t *testing.T) {
	err := Unavailable("open sqlite", errors.New("permission denied"))
	require.ErrorIs(t, err, ErrStorageUnavailable)
	assert.True(t, strings.HasPrefix(err.Error(), "open sqlite: "))
}
