package service_test

import (
	"testing"

	"github.com/maxviazov/nba-stats-manager/internal/service"
)

func TestIsValidSeason(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"Valid format", "2023-24", true},
		{"Valid format with leading space", " 2023-24", true},
		{"Valid format with trailing space", "2023-24 ", true},
		{"Century rollover", "1999-00", true},
		{"Suffix not the next year", "2023-25", false},
		{"Invalid year format", "2023-2024", false},
		{"Invalid separator", "2023/24", false},
		{"Signed suffix", "2023-+4", false},
		{"Too short", "2023-2", false},
		{"Too long", "2023-245", false},
		{"Letters instead of numbers", "abcd-ef", false},
		{"Empty string", "", false},
		{"Only spaces", "   ", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := service.IsValidSeason(tc.input)
			if got != tc.want {
				t.Errorf("IsValidSeason(%q) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFieldErrors_PlainError(t *testing.T) {
	if fe := service.FieldErrors(nil); fe != nil {
		t.Fatalf("expected nil for nil error, got %+v", fe)
	}
	if fe := service.FieldErrors(service.ErrInvalidInput); fe != nil {
		t.Fatalf("expected nil for bare sentinel, got %+v", fe)
	}
	if err := service.NewInvalidInputError(nil); err != nil {
		t.Fatalf("expected nil error for no field errors, got %v", err)
	}
}
