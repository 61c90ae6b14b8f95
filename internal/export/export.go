// Package export writes the full record collection as a delimited file and reads it back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/spf13/afero"
)

// ErrExportFailed wraps every failure to produce the destination file.
var ErrExportFailed = errors.New("export failed")

// Header is the fixed column order of an export.
var Header = []string{
	"player_id", "player_name", "team_name", "position", "games_played",
	"points_per_game", "rebounds_per_game", "assists_per_game", "steals_per_game", "blocks_per_game",
	"field_goal_pct", "three_point_pct", "free_throw_pct", "season", "last_updated",
}

// Write streams records as CSV with a header row.
func Write(w io.Writer, records []model.PlayerSeasonRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(r model.PlayerSeasonRecord) []string {
	return []string{
		strconv.FormatInt(r.PlayerID, 10),
		r.PlayerName,
		deref(r.TeamName),
		deref(r.Position),
		strconv.Itoa(r.GamesPlayed),
		formatFloat(r.Points),
		formatFloat(r.Rebounds),
		formatFloat(r.Assists),
		formatFloat(r.Steals),
		formatFloat(r.Blocks),
		formatFloat(r.FieldGoalPct),
		formatFloat(r.ThreePointPct),
		formatFloat(r.FreeThrowPct),
		r.Season,
		formatTime(r.LastUpdated),
	}
}

// FileMode is the permission an export file ends up with.
const FileMode os.FileMode = 0o644

// WriteFile writes to a temp file next to dest and renames it into place,
// so dest is either the complete new export or untouched.
func WriteFile(fs afero.Fs, dest string, records []model.PlayerSeasonRecord) (err error) {
	dir := filepath.Dir(dest)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrExportFailed, dir, err)
	}
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrExportFailed, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fs.Remove(tmpName)
		}
	}()

	if err = Write(tmp, records); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrExportFailed, tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrExportFailed, tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrExportFailed, tmpName, err)
	}
	// temp files are created 0600
	if err = fs.Chmod(tmpName, FileMode); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", ErrExportFailed, tmpName, err)
	}
	if err = fs.Rename(tmpName, dest); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrExportFailed, dest, err)
	}
	return nil
}

// Read parses an export produced by Write.
func Read(r io.Reader) ([]model.PlayerSeasonRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if head[i] != h {
			return nil, fmt.Errorf("unexpected column %d: %q, want %q", i+1, head[i], h)
		}
	}

	var out []model.PlayerSeasonRecord
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ReadFile opens path on fs and parses it with Read.
func ReadFile(fs afero.Fs, path string) ([]model.PlayerSeasonRecord, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func parseRow(f []string) (model.PlayerSeasonRecord, error) {
	p := parser{fields: f}
	rec := model.PlayerSeasonRecord{
		PlayerID:      p.parseInt(0),
		PlayerName:    f[1],
		TeamName:      model.StringPtr(f[2]),
		Position:      model.StringPtr(f[3]),
		GamesPlayed:   int(p.parseInt(4)),
		Points:        p.parseFloat(5),
		Rebounds:      p.parseFloat(6),
		Assists:       p.parseFloat(7),
		Steals:        p.parseFloat(8),
		Blocks:        p.parseFloat(9),
		FieldGoalPct:  p.parseFloat(10),
		ThreePointPct: p.parseFloat(11),
		FreeThrowPct:  p.parseFloat(12),
		Season:        f[13],
		LastUpdated:   p.parseTime(14),
	}
	return rec, p.err
}

// parser keeps the first conversion error so parseRow reads linearly.
type parser struct {
	fields []string
	err    error
}

func (p *parser) parseInt(i int) int64 {
	v, err := strconv.ParseInt(p.fields[i], 10, 64)
	p.fail(i, err)
	return v
}

func (p *parser) parseFloat(i int) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	p.fail(i, err)
	return v
}

func (p *parser) parseTime(i int) time.Time {
	if p.fields[i] == "" {
		return time.Time{}
	}
	v, err := time.Parse(time.RFC3339Nano, p.fields[i])
	p.fail(i, err)
	return v.UTC()
}

func (p *parser) fail(i int, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", Header[i], err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
