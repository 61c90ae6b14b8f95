// Package contract holds behavioural suites every repository backend must pass.
// Backends wire them from their own _test.go files through factories.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/maxviazov/nba-stats-manager/internal/repository"
)

// StoreFactory returns an initialized, empty store and its cleanup.
type StoreFactory func(t *testing.T) (repository.Store, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, store repository.Store, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

// Record builds a fixture record. An empty team leaves TeamName absent.
func Record(id int64, name, team string, games int, points float64) model.PlayerSeasonRecord {
	return model.PlayerSeasonRecord{
		PlayerID:      id,
		PlayerName:    name,
		TeamName:      model.StringPtr(team),
		Position:      model.StringPtr("G"),
		GamesPlayed:   games,
		Points:        points,
		Rebounds:      points / 4,
		Assists:       points / 5,
		Steals:        1.1,
		Blocks:        0.4,
		FieldGoalPct:  47.5,
		ThreePointPct: 36.2,
		FreeThrowPct:  81.9,
		Season:        "2024-25",
	}
}

// FixtureRecords is a small roster: two Lakers, one Clipper, one player under the games threshold and one without a team.
func FixtureRecords() []model.PlayerSeasonRecord {
	return []model.PlayerSeasonRecord{
		Record(2544, "LeBron James", "Los Angeles Lakers", 71, 25.7),
		Record(201939, "Stephen Curry", "Golden State Warriors", 74, 26.4),
		Record(1629029, "Luka Doncic", "Los Angeles Lakers", 70, 33.9),
		Record(202695, "Kawhi Leonard", "LA Clippers", 68, 23.7),
		Record(1630178, "Tyrese Maxey", "Philadelphia 76ers", 10, 40.0),
		Record(1631094, "Free Agent", "", 30, 12.0),
	}
}

func seed(t *testing.T, s repository.Store, records []model.PlayerSeasonRecord) {
	t.Helper()
	res, err := s.UpsertBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Applied != len(records) || res.Errors() != 0 {
		t.Fatalf("seed: applied=%d rejected=%+v", res.Applied, res.Rejected)
	}
}

func ids(records []model.PlayerSeasonRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.PlayerID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameRecord compares everything but last_updated.
func sameRecord(a, b model.PlayerSeasonRecord) bool {
	return a.PlayerID == b.PlayerID &&
		a.PlayerName == b.PlayerName &&
		a.Team() == b.Team() &&
		(a.Position == nil) == (b.Position == nil) &&
		(a.Position == nil || *a.Position == *b.Position) &&
		a.GamesPlayed == b.GamesPlayed &&
		a.Points == b.Points && a.Rebounds == b.Rebounds && a.Assists == b.Assists &&
		a.Steals == b.Steals && a.Blocks == b.Blocks &&
		a.FieldGoalPct == b.FieldGoalPct && a.ThreePointPct == b.ThreePointPct && a.FreeThrowPct == b.FreeThrowPct &&
		a.Season == b.Season
}

func RunStoreContract(t *testing.T, makeStore StoreFactory) {
	t.Helper()

	t.Run("initialize_is_repeatable", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords()[:1])
		if err := s.Initialize(ctx); err != nil {
			t.Fatalf("second initialize: %v", err)
		}
		all, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("initialize must keep data, got %d records", len(all))
		}
	})

	t.Run("upsert_is_idempotent", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords())
		first, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		seed(t, s, FixtureRecords())
		second, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("len changed: %d -> %d", len(first), len(second))
		}
		for i := range first {
			if !sameRecord(first[i], second[i]) {
				t.Fatalf("record %d changed:\n%+v\n%+v", i, first[i], second[i])
			}
		}
	})

	t.Run("upsert_sets_last_updated", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, FixtureRecords()[:2])
		all, err := s.FullScan(context.Background())
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		for _, r := range all {
			if r.LastUpdated.IsZero() {
				t.Fatalf("last_updated not set for %d", r.PlayerID)
			}
		}
	})

	t.Run("upsert_replaces_whole_record", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords()[:1])
		moved := Record(2544, "LeBron James", "", 12, 20.1)
		moved.Position = nil
		seed(t, s, []model.PlayerSeasonRecord{moved})

		all, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected one record, got %d", len(all))
		}
		got := all[0]
		if got.TeamName != nil || got.Position != nil {
			t.Fatalf("optional fields must be cleared, got team=%v position=%v", got.TeamName, got.Position)
		}
		if got.GamesPlayed != 12 || got.Points != 20.1 {
			t.Fatalf("fields not replaced: %+v", got)
		}
	})

	t.Run("upsert_rejects_invalid_and_continues", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		batch := []model.PlayerSeasonRecord{
			Record(1, "Valid One", "Boston Celtics", 20, 10),
			Record(0, "Missing ID", "Boston Celtics", 20, 10),
			Record(2, "   ", "Boston Celtics", 20, 10),
			Record(3, "Valid Two", "Boston Celtics", 20, 11),
		}
		bad := Record(4, "Bad Pct", "Boston Celtics", 20, 11)
		bad.FieldGoalPct = 0.48 * 1000
		batch = append(batch, bad)

		res, err := s.UpsertBatch(ctx, batch)
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if res.Applied != 2 || res.Errors() != 3 {
			t.Fatalf("applied=%d rejected=%+v", res.Applied, res.Rejected)
		}
		for _, rj := range res.Rejected {
			if rj.Reason == "" {
				t.Fatalf("rejection without reason: %+v", rj)
			}
		}
		if res.Rejected[0].Index != 1 || res.Rejected[1].Index != 2 || res.Rejected[2].Index != 4 {
			t.Fatalf("unexpected rejected indexes: %+v", res.Rejected)
		}
		all, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if got := ids(all); !equalIDs(got, []int64{1, 3}) {
			t.Fatalf("unexpected ids %v", got)
		}
	})

	t.Run("upsert_oversized_games_played_is_rejected", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		huge := Record(2, "Huge Games", "Boston Celtics", 0, 15)
		huge.GamesPlayed = 1 << 31
		batch := []model.PlayerSeasonRecord{
			Record(1, "Before", "Boston Celtics", 20, 10),
			huge,
			Record(3, "After", "Boston Celtics", 20, 12),
		}

		res, err := s.UpsertBatch(ctx, batch)
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if res.Applied != 2 || res.Errors() != 1 || res.Rejected[0].Index != 1 {
			t.Fatalf("applied=%d rejected=%+v", res.Applied, res.Rejected)
		}
		all, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if got := ids(all); !equalIDs(got, []int64{1, 3}) {
			t.Fatalf("unexpected ids %v", got)
		}
	})

	t.Run("upsert_empty_batch", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		res, err := s.UpsertBatch(context.Background(), nil)
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}
		if res.Applied != 0 || res.Errors() != 0 {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("top_scorers_filters_and_sorts", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords())

		got, err := s.TopScorers(ctx, 3)
		if err != nil {
			t.Fatalf("top scorers: %v", err)
		}
		if want := []int64{1629029, 201939, 2544}; !equalIDs(ids(got), want) {
			t.Fatalf("got %v want %v", ids(got), want)
		}
		for _, r := range got {
			if r.GamesPlayed <= repository.TopScorersMinGames {
				t.Fatalf("player %d with %d games must be filtered", r.PlayerID, r.GamesPlayed)
			}
		}

		all, err := s.TopScorers(ctx, 100)
		if err != nil {
			t.Fatalf("top scorers: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("expected 5 qualifying players, got %d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].Points < all[i].Points {
				t.Fatalf("not sorted at %d: %v < %v", i, all[i-1].Points, all[i].Points)
			}
		}
	})

	t.Run("top_scorers_ties_by_player_id", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, []model.PlayerSeasonRecord{
			Record(30, "Tie C", "Team", 50, 20),
			Record(10, "Tie A", "Team", 50, 20),
			Record(20, "Tie B", "Team", 50, 20),
		})
		got, err := s.TopScorers(context.Background(), 10)
		if err != nil {
			t.Fatalf("top scorers: %v", err)
		}
		if want := []int64{10, 20, 30}; !equalIDs(ids(got), want) {
			t.Fatalf("got %v want %v", ids(got), want)
		}
	})

	t.Run("top_scorers_empty_when_nothing_qualifies", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, []model.PlayerSeasonRecord{Record(1, "Rookie", "Team", 10, 50)})
		got, err := s.TopScorers(context.Background(), 5)
		if err != nil {
			t.Fatalf("top scorers: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %v", got)
		}
	})

	t.Run("top_scorers_non_positive_limit_uses_default", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		batch := make([]model.PlayerSeasonRecord, 0, 15)
		for i := 1; i <= 15; i++ {
			batch = append(batch, Record(int64(i), "Player", "Team", 40, float64(i)))
		}
		seed(t, s, batch)
		got, err := s.TopScorers(context.Background(), 0)
		if err != nil {
			t.Fatalf("top scorers: %v", err)
		}
		if len(got) != repository.DefaultTopLimit {
			t.Fatalf("expected %d, got %d", repository.DefaultTopLimit, len(got))
		}
	})

	t.Run("team_stats_case_insensitive_substring", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords())
		for _, q := range []string{"lak", "LAK", "Lak"} {
			got, err := s.TeamStats(ctx, q)
			if err != nil {
				t.Fatalf("team stats %q: %v", q, err)
			}
			if want := []int64{1629029, 2544}; !equalIDs(ids(got), want) {
				t.Fatalf("%q: got %v want %v", q, ids(got), want)
			}
		}
	})

	t.Run("team_stats_empty_matches_present_teams", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, FixtureRecords())
		got, err := s.TeamStats(context.Background(), "")
		if err != nil {
			t.Fatalf("team stats: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 players with a team, got %d", len(got))
		}
		for _, r := range got {
			if r.TeamName == nil {
				t.Fatalf("player %d has no team", r.PlayerID)
			}
		}
	})

	t.Run("team_stats_escapes_wildcards", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, []model.PlayerSeasonRecord{
			Record(1, "A", "100% Hoopers", 20, 10),
			Record(2, "B", "Hoopers", 20, 10),
			Record(3, "C", "Under_Dogs", 20, 10),
			Record(4, "D", "UnderXDogs", 20, 10),
		})
		ctx := context.Background()
		got, err := s.TeamStats(ctx, "%")
		if err != nil {
			t.Fatalf("team stats: %v", err)
		}
		if !equalIDs(ids(got), []int64{1}) {
			t.Fatalf("%% must be literal, got %v", ids(got))
		}
		got, err = s.TeamStats(ctx, "r_d")
		if err != nil {
			t.Fatalf("team stats: %v", err)
		}
		if !equalIDs(ids(got), []int64{3}) {
			t.Fatalf("_ must be literal, got %v", ids(got))
		}
	})

	t.Run("team_stats_no_match_is_empty", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		seed(t, s, FixtureRecords())
		got, err := s.TeamStats(context.Background(), "knicks")
		if err != nil {
			t.Fatalf("team stats: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no players, got %v", ids(got))
		}
	})

	t.Run("full_scan_is_stable", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords())
		a, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		b, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(a) != len(FixtureRecords()) || !equalIDs(ids(a), ids(b)) {
			t.Fatalf("unstable scan: %v vs %v", ids(a), ids(b))
		}
		for i := 1; i < len(a); i++ {
			if a[i-1].PlayerID >= a[i].PlayerID {
				t.Fatalf("scan not ordered by player_id: %v", ids(a))
			}
		}
	})

	t.Run("full_scan_empty", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		got, err := s.FullScan(context.Background())
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty store, got %d", len(got))
		}
	})

	t.Run("reset_clears_data", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		seed(t, s, FixtureRecords())
		if err := s.Reset(ctx); err != nil {
			t.Fatalf("reset: %v", err)
		}
		got, err := s.FullScan(ctx)
		if err != nil {
			t.Fatalf("full scan: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected empty store after reset, got %d", len(got))
		}
		seed(t, s, FixtureRecords()[:1])
	})

	t.Run("teams_upsert_and_list", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		res, err := s.UpsertTeams(ctx, []model.TeamSeasonRecord{
			{TeamID: 1, TeamName: "Boston Celtics", Wins: 61, Losses: 21, WinPct: 0.744, Season: "2024-25"},
			{TeamID: 2, TeamName: "Oklahoma City Thunder", Wins: 68, Losses: 14, WinPct: 0.829, Season: "2024-25"},
			{TeamID: 3, TeamName: "  Denver Nuggets ", Wins: 57, Losses: 25, WinPct: 0.695, Season: " 2023-24"},
			{TeamID: 4, TeamName: "   ", WinPct: 0.5},
			{TeamID: 5, TeamName: "Broken", WinPct: 1.5},
		})
		if err != nil {
			t.Fatalf("upsert teams: %v", err)
		}
		if res.Applied != 3 || res.Errors() != 2 {
			t.Fatalf("applied=%d rejected=%+v", res.Applied, res.Rejected)
		}

		all, err := s.ListTeams(ctx, "")
		if err != nil {
			t.Fatalf("list teams: %v", err)
		}
		if len(all) != 3 || all[0].TeamID != 2 || all[1].TeamID != 1 || all[2].TeamID != 3 {
			t.Fatalf("unexpected standings %+v", all)
		}
		season, err := s.ListTeams(ctx, "2023-24")
		if err != nil {
			t.Fatalf("list teams: %v", err)
		}
		if len(season) != 1 || season[0].TeamID != 3 || season[0].TeamName != "Denver Nuggets" {
			t.Fatalf("season filter failed: %+v", season)
		}
	})

	t.Run("close_twice", func(t *testing.T) {
		s, cleanup := makeStore(t)
		t.Cleanup(cleanup)
		if err := s.Close(); err != nil {
			t.Fatalf("first close: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("second close: %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	team := model.TeamSeasonRecord{TeamID: 42, TeamName: "Tx Team", Wins: 1, Losses: 1, WinPct: 0.5, Season: "2024-25"}

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, store, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := store.UpsertTeams(ctx, []model.TeamSeasonRecord{team})
			return err
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		got, err := store.ListTeams(ctx, "")
		if err != nil || len(got) != 1 {
			t.Fatalf("expected committed row visible, got %v err=%v", got, err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, store, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := store.UpsertTeams(ctx, []model.TeamSeasonRecord{team}); err != nil {
				return err
			}
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		got, err := store.ListTeams(ctx, "")
		if err != nil || len(got) != 0 {
			t.Fatalf("expected no rows after rollback, got %v err=%v", got, err)
		}
	})

	t.Run("nested_failure_keeps_outer", func(t *testing.T) {
		tx, store, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		inner := model.TeamSeasonRecord{TeamID: 43, TeamName: "Inner Team", WinPct: 0.1, Season: "2024-25"}
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := store.UpsertTeams(ctx, []model.TeamSeasonRecord{team}); err != nil {
				return err
			}
			nestedErr := tx.WithinTx(ctx, func(ctx context.Context) error {
				if _, err := store.UpsertTeams(ctx, []model.TeamSeasonRecord{inner}); err != nil {
					return err
				}
				return errors.New("inner boom")
			})
			if nestedErr == nil {
				t.Errorf("expected inner error")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		got, err := store.ListTeams(ctx, "")
		if err != nil || len(got) != 1 || got[0].TeamID != team.TeamID {
			t.Fatalf("expected only the outer row, got %v err=%v", got, err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
