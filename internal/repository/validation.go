package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/nba-stats-manager/internal/model"
)

var validate = validator.New()

// ValidateRecord checks the fields a store requires before persisting a record.
// The returned error wraps ErrValidation and names every offending field.
func ValidateRecord(r model.PlayerSeasonRecord) error {
	return describe(validate.Struct(r))
}

// ValidateTeam is the team-table counterpart of ValidateRecord.
func ValidateTeam(t model.TeamSeasonRecord) error {
	return describe(validate.Struct(t))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %s%s", fe.Field(), fe.Tag(), param(fe.Param())))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// PrepareBatch normalizes and validates a batch. It returns the records to
// write, each paired with its index in the input, and the rejected ones.
func PrepareBatch(records []model.PlayerSeasonRecord) ([]Indexed, []model.RejectedRecord) {
	valid := make([]Indexed, 0, len(records))
	var rejected []model.RejectedRecord
	for i, r := range records {
		r = r.Normalized()
		if err := ValidateRecord(r); err != nil {
			rejected = append(rejected, model.RejectedRecord{Index: i, PlayerID: r.PlayerID, Reason: err.Error()})
			continue
		}
		valid = append(valid, Indexed{Index: i, Record: r})
	}
	return valid, rejected
}

// Indexed keeps a record's position in the caller's batch for error reporting.
type Indexed struct {
	Index  int
	Record model.PlayerSeasonRecord
}

// IndexedTeam is the team-table counterpart of Indexed.
type IndexedTeam struct {
	Index int
	Team  model.TeamSeasonRecord
}

// PrepareTeams normalizes and validates standings the way PrepareBatch does players.
func PrepareTeams(teams []model.TeamSeasonRecord) ([]IndexedTeam, []model.RejectedRecord) {
	valid := make([]IndexedTeam, 0, len(teams))
	var rejected []model.RejectedRecord
	for i, t := range teams {
		t = t.Normalized()
		if err := ValidateTeam(t); err != nil {
			rejected = append(rejected, model.RejectedRecord{Index: i, Reason: err.Error()})
			continue
		}
		valid = append(valid, IndexedTeam{Index: i, Team: t})
	}
	return valid, rejected
}

// LikePattern builds a LIKE pattern matching s anywhere, with wildcards in s escaped.
// Callers use it with ESCAPE '\'.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
