package aggregate

import (
	"testing"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id int64, name, team string, games int, pts, reb, ast float64) model.PlayerSeasonRecord {
	return model.PlayerSeasonRecord{
		PlayerID:    id,
		PlayerName:  name,
		TeamName:    model.StringPtr(team),
		GamesPlayed: games,
		Points:      pts,
		Rebounds:    reb,
		Assists:     ast,
		Steals:      float64(id%3) + 0.5,
		Blocks:      float64(id%2) + 0.3,
		Season:      "2024-25",
	}
}

func roster() []model.PlayerSeasonRecord {
	return []model.PlayerSeasonRecord{
		rec(1, "LeBron James", "Los Angeles Lakers", 71, 25.7, 7.3, 8.3),
		rec(2, "Stephen Curry", "Golden State Warriors", 74, 26.4, 4.5, 5.1),
		rec(3, "Nikola Jokic", "Denver Nuggets", 79, 26.4, 12.4, 9.0),
		rec(4, "Austin Reaves", "Los Angeles Lakers", 14, 15.9, 4.3, 5.5),
		rec(5, "Bench Guy", "LA Clippers", 10, 30.0, 1.0, 1.0),
		rec(6, "Seth Curry", "Charlotte Hornets", 15, 6.0, 1.5, 1.0),
	}
}

func TestEfficiency(t *testing.T) {
	r := rec(1, "x", "y", 20, 20.5, 10.25, 5)
	assert.Equal(t, 35.75, Efficiency(r))
}

func TestEfficiencyRanking_SumAndOrder(t *testing.T) {
	in := roster()
	snapshot := append([]model.PlayerSeasonRecord(nil), in...)

	ranked := EfficiencyRanking(in)

	require.Len(t, ranked, len(in))
	for i, r := range ranked {
		assert.Equal(t, r.Points+r.Rebounds+r.Assists, r.Efficiency)
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Efficiency, r.Efficiency)
		}
	}
	assert.Equal(t, int64(3), ranked[0].PlayerID)
	assert.Equal(t, snapshot, in, "input must not be mutated")
}

func TestEfficiencyRanking_StableTies(t *testing.T) {
	in := []model.PlayerSeasonRecord{
		rec(9, "A", "T", 20, 10, 5, 5),
		rec(3, "B", "T", 20, 5, 10, 5),
		rec(7, "C", "T", 20, 5, 5, 10),
	}
	ranked := EfficiencyRanking(in)
	assert.Equal(t, []int64{9, 3, 7}, []int64{ranked[0].PlayerID, ranked[1].PlayerID, ranked[2].PlayerID})
}

func TestEfficiencyRanking_Empty(t *testing.T) {
	assert.Empty(t, EfficiencyRanking(nil))
	assert.NotNil(t, EfficiencyRanking(nil))
}

func TestEfficiencyLeaders_UsesTopScorerThreshold(t *testing.T) {
	leaders := EfficiencyLeaders(roster(), 10)
	for _, r := range leaders {
		assert.Greater(t, r.GamesPlayed, TopScorersMinGames)
	}
	assert.Len(t, leaders, 5)
	assert.Len(t, EfficiencyLeaders(roster(), 2), 2)
}

func TestFindByNameSubstring(t *testing.T) {
	got := FindByNameSubstring(roster(), "CURRY")
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].PlayerID)
	assert.Equal(t, int64(6), got[1].PlayerID)

	assert.Empty(t, FindByNameSubstring(roster(), "Wembanyama"))
	assert.Len(t, FindByNameSubstring(roster(), ""), len(roster()))
}

func TestFindByNameSubstring_UnicodeCase(t *testing.T) {
	in := []model.PlayerSeasonRecord{rec(1, "Luka Dončić", "Dallas Mavericks", 70, 33.9, 9.2, 9.8)}
	assert.Len(t, FindByNameSubstring(in, "DONČIĆ"), 1)
}

func TestCompare_ReturnsSourceValues(t *testing.T) {
	in := roster()
	cmp := Compare(in, "LeBron", "Jokic")

	require.True(t, cmp.Found)
	assert.Empty(t, cmp.Missing)
	assert.Equal(t, int64(1), cmp.Left.PlayerID)
	assert.Equal(t, int64(3), cmp.Right.PlayerID)

	want := []model.ComparedStat{
		{Label: "PPG", Left: in[0].Points, Right: in[2].Points},
		{Label: "RPG", Left: in[0].Rebounds, Right: in[2].Rebounds},
		{Label: "APG", Left: in[0].Assists, Right: in[2].Assists},
		{Label: "SPG", Left: in[0].Steals, Right: in[2].Steals},
		{Label: "BPG", Left: in[0].Blocks, Right: in[2].Blocks},
	}
	assert.Equal(t, want, cmp.Stats)
}

func TestCompare_FirstMatchWins(t *testing.T) {
	cmp := Compare(roster(), "curry", "lebron")
	require.True(t, cmp.Found)
	assert.Equal(t, "Stephen Curry", cmp.Left.PlayerName)
}

func TestCompare_NotFound(t *testing.T) {
	cmp := Compare(roster(), "LeBron", "Wembanyama")
	assert.False(t, cmp.Found)
	assert.Equal(t, []string{"Wembanyama"}, cmp.Missing)
	assert.Empty(t, cmp.Stats)

	cmp = Compare(nil, "a", "b")
	assert.False(t, cmp.Found)
	assert.Equal(t, []string{"a", "b"}, cmp.Missing)
}

func TestThresholdsStayDistinct(t *testing.T) {
	at10 := rec(1, "a", "t", 10, 1, 1, 1)
	at11 := rec(2, "b", "t", 11, 1, 1, 1)
	at14 := rec(3, "c", "t", 14, 1, 1, 1)
	at15 := rec(4, "d", "t", 15, 1, 1, 1)

	assert.False(t, QualifiesForTopScorers(at10))
	assert.True(t, QualifiesForTopScorers(at11))
	assert.True(t, QualifiesForTopScorers(at14))
	assert.False(t, QualifiesForShooting(at14))
	assert.True(t, QualifiesForShooting(at15))
}

func TestScatterPoints(t *testing.T) {
	points := ScatterPoints(roster())
	require.Len(t, points, 4)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.GamesPlayed, ShootingMinGames)
	}
	assert.Equal(t, "LeBron James", points[0].PlayerName)
	assert.Equal(t, Efficiency(roster()[0]), points[0].Efficiency)
}

func TestShootingLeaders(t *testing.T) {
	got := ShootingLeaders(roster(), 3)
	require.Len(t, got, 3)
	// Curry and Jokic tie on points; input order decides.
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].PlayerID, got[1].PlayerID, got[2].PlayerID})
}

func TestTeamAnalysis(t *testing.T) {
	var in []model.PlayerSeasonRecord
	for i := 1; i <= 10; i++ {
		in = append(in, rec(int64(i), "Laker", "Los Angeles Lakers", 30, float64(i), 1, 1))
	}
	in = append(in, rec(99, "Clipper", "LA Clippers", 30, 50, 1, 1))

	got := TeamAnalysis(in, "lakers")
	require.Len(t, got, TeamAnalysisLimit)
	assert.Equal(t, int64(10), got[0].PlayerID)
	for _, r := range got {
		assert.Equal(t, "Los Angeles Lakers", r.Team())
	}
}

func TestFindByTeamSubstring_SkipsAbsentTeam(t *testing.T) {
	in := roster()
	in[0].TeamName = nil
	got := FindByTeamSubstring(in, "")
	assert.Len(t, got, len(in)-1)
}

func TestTop(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Top([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1, 2, 3}, Top([]int{1, 2, 3}, 10))
	assert.Empty(t, Top([]int{1, 2, 3}, 0))
	assert.Empty(t, Top[int](nil, 5))
}
