package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/spf13/afero"
)

// Source produces one batch of raw records. A failed fetch returns an error and no records.
type Source interface {
	Fetch(ctx context.Context) ([]model.RawRecord, error)
}

// ErrEmptyPayload is returned when a source yields no parsable body.
var ErrEmptyPayload = errors.New("empty payload")

// providerColumns maps league-leaders column names onto the recognised keys.
var providerColumns = map[string]string{
	"PLAYER_ID":         KeyPlayerID,
	"PLAYER":            KeyPlayerName,
	"PLAYER_NAME":       KeyPlayerName,
	"TEAM":              KeyTeamName,
	"TEAM_NAME":         KeyTeamName,
	"TEAM_ABBREVIATION": KeyTeamName,
	"POSITION":          KeyPosition,
	"GP":                KeyGamesPlayed,
	"PTS":               KeyPoints,
	"REB":               KeyRebounds,
	"AST":               KeyAssists,
	"STL":               KeySteals,
	"BLK":               KeyBlocks,
	"FG_PCT":            KeyFieldGoal,
	"FG3_PCT":           KeyThreePoint,
	"FT_PCT":            KeyFreeThrow,
}

type resultSet struct {
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// Decode parses either a JSON array of raw records or a provider document
// carrying a resultSet (or resultSets) of headers and rows.
func Decode(data []byte) ([]model.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyPayload
	}

	if trimmed[0] == '[' {
		var records []model.RawRecord
		if err := jsoniter.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
		return records, nil
	}

	var doc struct {
		ResultSet  *resultSet  `json:"resultSet"`
		ResultSets []resultSet `json:"resultSets"`
	}
	if err := jsoniter.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode provider document: %w", err)
	}
	switch {
	case doc.ResultSet != nil:
		return fromResultSet(*doc.ResultSet), nil
	case len(doc.ResultSets) > 0:
		return fromResultSet(doc.ResultSets[0]), nil
	default:
		return nil, fmt.Errorf("decode provider document: %w", ErrEmptyPayload)
	}
}

func fromResultSet(rs resultSet) []model.RawRecord {
	out := make([]model.RawRecord, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		rec := make(model.RawRecord, len(rs.Headers))
		for i, h := range rs.Headers {
			if i >= len(row) {
				break
			}
			key, ok := providerColumns[strings.ToUpper(h)]
			if !ok {
				continue
			}
			// the first alias wins, e.g. TEAM over TEAM_ABBREVIATION when both are present
			if _, seen := rec[key]; !seen {
				rec[key] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out
}

// FileSource reads a JSON export of raw records from a filesystem.
type FileSource struct {
	Fs   afero.Fs
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs := s.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return Decode(data)
}

// HTTPSource fetches league leaders from a stats provider.
type HTTPSource struct {
	URL string
	// Season is sent as the Season query parameter when set.
	Season  string
	Client  *http.Client
	Headers map[string]string
}

const maxBody = 16 << 20

// NewHTTPSource builds a source with a client bounded by timeout.
func NewHTTPSource(rawURL, season string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    rawURL,
		Season: season,
		Client: &http.Client{Timeout: timeout},
		Headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "nba-stats-manager/0.1",
		},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	if s.Season != "" {
		q := u.Query()
		q.Set("Season", s.Season)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
	}
	return Decode(raw)
}
