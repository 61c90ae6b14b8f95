package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maxviazov/nba-stats-manager/internal/export"
	"github.com/maxviazov/nba-stats-manager/internal/repository/contract"
	"github.com/maxviazov/nba-stats-manager/internal/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APP_STORAGE_DRIVER", "sqlite")
	t.Setenv("APP_STORAGE_SQLITE_PATH", filepath.Join(dir, "nba.db"))
	t.Setenv("APP_REDIS_URL", "")
	t.Setenv("APP_INGEST_SOURCE_URL", "")
	t.Setenv("APP_INGEST_FILE", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func seedCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.csv")
	require.NoError(t, export.WriteFile(afero.NewOsFs(), path, contract.FixtureRecords()))
	return path
}

func TestCLI_ImportAndQuery(t *testing.T) {
	dir := setupEnv(t)

	out, err := run(t, "import", seedCSV(t, dir))
	require.NoError(t, err)
	assert.Contains(t, out, "6 applied, 0 rejected")

	out, err = run(t, "top", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Luka Doncic")
	assert.Contains(t, out, "Stephen Curry")
	assert.NotContains(t, out, "LeBron James")

	out, err = run(t, "team", "lak")
	require.NoError(t, err)
	assert.Contains(t, out, "LeBron James")

	out, err = run(t, "team", "knicks")
	require.NoError(t, err)
	assert.Contains(t, out, "no players found")

	out, err = run(t, "efficiency", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Luka Doncic")

	out, err = run(t, "compare", "lebron", "curry")
	require.NoError(t, err)
	assert.Contains(t, out, "PPG")
	assert.Contains(t, out, "25.7")

	out, err = run(t, "compare", "lebron", "jordan")
	require.NoError(t, err)
	assert.Contains(t, out, "player not found")
}

func TestCLI_TopRejectsBadLimit(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "top", "-n", "0")
	require.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCLI_ExportAndReset(t *testing.T) {
	dir := setupEnv(t)
	_, err := run(t, "import", seedCSV(t, dir))
	require.NoError(t, err)

	dest := filepath.Join(dir, "out", "stats.csv")
	out, err := run(t, "export", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 6 records")
	_, err = os.Stat(dest)
	require.NoError(t, err)

	out, err = run(t, "init", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "storage reset")

	out, err = run(t, "top")
	require.NoError(t, err)
	assert.NotContains(t, out, "Luka Doncic")
}

func TestCLI_RefreshFromFile(t *testing.T) {
	dir := setupEnv(t)
	raw := filepath.Join(dir, "leaders.json")
	require.NoError(t, os.WriteFile(raw, []byte(`[
		{"player_id": 1641705, "player_name": "Victor Wembanyama", "team_name": "San Antonio Spurs", "games_played": 46, "ppg": 24.3, "fg_pct": 0.476}
	]`), 0o644))

	out, err := run(t, "refresh", "--file", raw, "--season", "2024-25")
	require.NoError(t, err)
	assert.Contains(t, out, "1 applied")

	out, err = run(t, "team", "spurs")
	require.NoError(t, err)
	assert.Contains(t, out, "Victor Wembanyama")
}

func TestCLI_RefreshWithoutSource(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "refresh")
	require.ErrorIs(t, err, service.ErrNoSource)
}

func TestCLI_ImportTeamsAndList(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "standings.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"team_id": 1610612738, "team_name": "Boston Celtics", "wins": 61, "losses": 21, "win_pct": 0.744, "season": "2024-25"},
		{"team_id": 1610612760, "team_name": "Oklahoma City Thunder", "wins": 68, "losses": 14, "win_pct": 0.829, "season": "2024-25"},
		{"team_id": 1610612743, "team_name": "Denver Nuggets", "win_pct": 1.5}
	]`), 0o644))

	out, err := run(t, "import-teams", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 applied, 1 rejected")
	assert.Contains(t, out, "#2: ")

	out, err = run(t, "teams", "--season", "2024-25")
	require.NoError(t, err)
	okc, bos := strings.Index(out, "Oklahoma City Thunder"), strings.Index(out, "Boston Celtics")
	require.True(t, okc > 0 && bos > 0, out)
	assert.Less(t, okc, bos)
	assert.Contains(t, out, "0.829")
}
