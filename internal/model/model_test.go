package model

import "testing"

func TestNormalized(t *testing.T) {
	team := "  Denver Nuggets "
	blank := "   "
	r := PlayerSeasonRecord{PlayerName: " Nikola Jokic ", TeamName: &team, Position: &blank, Season: " 2024-25"}.Normalized()

	if r.PlayerName != "Nikola Jokic" || r.Season != "2024-25" {
		t.Fatalf("strings not trimmed: %+v", r)
	}
	if r.TeamName == nil || *r.TeamName != "Denver Nuggets" {
		t.Fatalf("team not trimmed: %v", r.TeamName)
	}
	if r.Position != nil {
		t.Fatalf("blank position should be nil, got %q", *r.Position)
	}
	if team != "  Denver Nuggets " {
		t.Fatalf("Normalized must not modify the caller's string")
	}
}

func TestTeam(t *testing.T) {
	if got := (PlayerSeasonRecord{}).Team(); got != "" {
		t.Fatalf("expected empty team, got %q", got)
	}
	if got := (PlayerSeasonRecord{TeamName: StringPtr("Miami Heat")}).Team(); got != "Miami Heat" {
		t.Fatalf("unexpected team %q", got)
	}
}

func TestUpsertResultErrors(t *testing.T) {
	res := UpsertResult{Applied: 2, Rejected: []RejectedRecord{{Index: 1}, {Index: 4}}}
	if res.Errors() != 2 {
		t.Fatalf("expected 2 errors, got %d", res.Errors())
	}
}
