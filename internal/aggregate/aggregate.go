// Package aggregate derives ranked and filtered views from materialised records.
// Everything here is pure: no I/O, and input slices are never modified.
package aggregate

import (
	"sort"
	"strings"

	"github.com/maxviazov/nba-stats-manager/internal/model"
)

const (
	// TopScorersMinGames is exclusive: a player needs more than this many games.
	TopScorersMinGames = 10
	// ShootingMinGames is inclusive and applies to the scatter and shooting views.
	ShootingMinGames = 15
	// TeamAnalysisLimit caps the team chart roster.
	TeamAnalysisLimit = 8
)

// Efficiency is points + rebounds + assists per game.
func Efficiency(r model.PlayerSeasonRecord) float64 {
	return r.Points + r.Rebounds + r.Assists
}

func QualifiesForTopScorers(r model.PlayerSeasonRecord) bool {
	return r.GamesPlayed > TopScorersMinGames
}

func QualifiesForShooting(r model.PlayerSeasonRecord) bool {
	return r.GamesPlayed >= ShootingMinGames
}

// EfficiencyRanking attaches efficiency to every record and sorts by it, highest first.
// Ties keep their input order.
func EfficiencyRanking(records []model.PlayerSeasonRecord) []model.RankedRecord {
	out := make([]model.RankedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, model.RankedRecord{PlayerSeasonRecord: r, Efficiency: Efficiency(r)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Efficiency > out[j].Efficiency })
	return out
}

// EfficiencyLeaders ranks the players who qualify for the top-scorers view and keeps the first limit.
func EfficiencyLeaders(records []model.PlayerSeasonRecord, limit int) []model.RankedRecord {
	return Top(EfficiencyRanking(Filter(records, QualifiesForTopScorers)), limit)
}

// Filter keeps the records accepted by keep, in input order.
func Filter(records []model.PlayerSeasonRecord, keep func(model.PlayerSeasonRecord) bool) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FindByNameSubstring returns every record whose player name contains needle,
// ignoring case, in input order.
func FindByNameSubstring(records []model.PlayerSeasonRecord, needle string) []model.PlayerSeasonRecord {
	n := strings.ToLower(needle)
	return Filter(records, func(r model.PlayerSeasonRecord) bool {
		return strings.Contains(strings.ToLower(r.PlayerName), n)
	})
}

// FindByTeamSubstring is the in-memory counterpart of the store's team search.
// Records without a team never match.
func FindByTeamSubstring(records []model.PlayerSeasonRecord, needle string) []model.PlayerSeasonRecord {
	n := strings.ToLower(needle)
	return Filter(records, func(r model.PlayerSeasonRecord) bool {
		return r.TeamName != nil && strings.Contains(strings.ToLower(*r.TeamName), n)
	})
}

// Compare resolves both names by substring and pairs the first match of each.
// A name with no match is listed in Missing and Found is false.
func Compare(records []model.PlayerSeasonRecord, name1, name2 string) model.Comparison {
	left := FindByNameSubstring(records, name1)
	right := FindByNameSubstring(records, name2)

	var missing []string
	if len(left) == 0 {
		missing = append(missing, name1)
	}
	if len(right) == 0 {
		missing = append(missing, name2)
	}
	if len(missing) > 0 {
		return model.Comparison{Found: false, Missing: missing}
	}

	a, b := left[0], right[0]
	return model.Comparison{
		Found: true,
		Left:  a,
		Right: b,
		Stats: []model.ComparedStat{
			{Label: "PPG", Left: a.Points, Right: b.Points},
			{Label: "RPG", Left: a.Rebounds, Right: b.Rebounds},
			{Label: "APG", Left: a.Assists, Right: b.Assists},
			{Label: "SPG", Left: a.Steals, Right: b.Steals},
			{Label: "BPG", Left: a.Blocks, Right: b.Blocks},
		},
	}
}

// ScatterPoints is the input of the points-vs-efficiency chart.
func ScatterPoints(records []model.PlayerSeasonRecord) []model.ScatterPoint {
	qualified := Filter(records, QualifiesForShooting)
	out := make([]model.ScatterPoint, 0, len(qualified))
	for _, r := range qualified {
		out = append(out, model.ScatterPoint{
			PlayerName:  r.PlayerName,
			Points:      r.Points,
			Efficiency:  Efficiency(r),
			Assists:     r.Assists,
			GamesPlayed: r.GamesPlayed,
		})
	}
	return out
}

// ShootingLeaders returns the top limit shooting-qualified players by points.
func ShootingLeaders(records []model.PlayerSeasonRecord, limit int) []model.PlayerSeasonRecord {
	return Top(ByPoints(Filter(records, QualifiesForShooting)), limit)
}

// TeamAnalysis returns the leading scorers of the teams matching team.
func TeamAnalysis(records []model.PlayerSeasonRecord, team string) []model.PlayerSeasonRecord {
	return Top(ByPoints(FindByTeamSubstring(records, team)), TeamAnalysisLimit)
}

// ByPoints returns a copy sorted by points, highest first, ties in input order.
func ByPoints(records []model.PlayerSeasonRecord) []model.PlayerSeasonRecord {
	out := make([]model.PlayerSeasonRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// Top returns at most limit leading items. A non-positive limit yields an empty slice.
func Top[T any](items []T, limit int) []T {
	if limit <= 0 {
		return []T{}
	}
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]T, limit)
	copy(out, items[:limit])
	return out
}
