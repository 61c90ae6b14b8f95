package service

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is what shells use when the caller gives no limit.
	DefaultLimit = 10
	MaxLimit     = 100
)

// IsValidSeason reports whether s (trimmed) is a label like "2024-25",
// where the suffix is the two-digit year following the first.
func IsValidSeason(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[4] != '-' {
		return false
	}
	for i, c := range s {
		if i != 4 && (c < '0' || c > '9') {
			return false
		}
	}
	start, _ := strconv.Atoi(s[:4])
	end, _ := strconv.Atoi(s[5:])
	return end == (start+1)%100
}

func checkLimit(field string, limit int) []FieldError {
	if limit <= 0 || limit > MaxLimit {
		return []FieldError{{Field: field, Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}}
	}
	return nil
}

func checkText(field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return []FieldError{{Field: field, Message: "must not be empty"}}
	}
	return nil
}

func checkSeason(field, season string) []FieldError {
	if season != "" && !IsValidSeason(season) {
		return []FieldError{{Field: field, Message: "must look like 2024-25"}}
	}
	return nil
}
