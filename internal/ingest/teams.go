package ingest

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/spf13/afero"
)

// DecodeTeams parses standings given either as a JSON array of team records
// or as an object with a "teams" array.
func DecodeTeams(data []byte) ([]model.TeamSeasonRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyPayload
	}

	if trimmed[0] == '[' {
		var teams []model.TeamSeasonRecord
		if err := jsoniter.Unmarshal(trimmed, &teams); err != nil {
			return nil, fmt.Errorf("decode teams: %w", err)
		}
		return teams, nil
	}

	var doc struct {
		Teams []model.TeamSeasonRecord `json:"teams"`
	}
	if err := jsoniter.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}
	if doc.Teams == nil {
		return nil, fmt.Errorf("decode teams: %w", ErrEmptyPayload)
	}
	return doc.Teams, nil
}

// ReadTeams loads a standings file written in either DecodeTeams shape.
func ReadTeams(fs afero.Fs, path string) ([]model.TeamSeasonRecord, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeTeams(data)
}
