package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	// Minimal YAML; secrets will come from ENV
	yaml := `
app:
  name: nba-stats-manager
  version: 0.1.0
  env: test
  port: 18080

logger:
  level: info
  format: json
  output_target: stdout
  time_format: rfc3339

storage:
  driver: postgres

postgres:
  host: 127.0.0.1
  port: 5432
  sslmode: disable
  max_conns: 5
  min_conns: 1
  max_conn_lifetime: 60

redis:
  url: redis://localhost:6379/0
  ttl_seconds: 120
  prefix: staging:views

ingest:
  season: 2023-24
  schedule: "@every 6h"
`
	path := writeTempFile(t, "config.yaml", yaml)

	t.Setenv("APP_POSTGRES_USER", "testuser")
	t.Setenv("APP_POSTGRES_PASSWORD", "testpass")
	t.Setenv("APP_POSTGRES_DBNAME", "testdb")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 18080, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "testuser", cfg.Postgres.User)
	assert.Equal(t, "testpass", cfg.Postgres.Password)
	assert.Equal(t, "testdb", cfg.Postgres.DBName)
	assert.Equal(t, "127.0.0.1", cfg.Postgres.Host)
	assert.Equal(t, int32(5), cfg.Postgres.MaxConns)
	assert.Equal(t, 60, cfg.Postgres.MaxConnLifetime)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 120, cfg.Redis.TTLSeconds)
	assert.Equal(t, "staging:views", cfg.Redis.Prefix)
	assert.Equal(t, "2023-24", cfg.Ingest.Season)
	assert.Equal(t, "@every 6h", cfg.Ingest.Schedule)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "rfc3339", cfg.Logger.TimeFormat)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "data/nba_stats.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "2024-25", cfg.Ingest.Season)
	assert.Equal(t, 30, cfg.Ingest.TimeoutSeconds)
	assert.Equal(t, "nba_stats_export.csv", cfg.Export.Path)
	assert.Empty(t, cfg.Redis.URL)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_STORAGE_SQLITE_PATH", "/tmp/other.db")
	t.Setenv("APP_INGEST_SOURCE_URL", "https://stats.example.com/leaders")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "https://stats.example.com/leaders", cfg.Ingest.SourceURL)
}

func TestLoad_PostgresWithoutCredentialsFails(t *testing.T) {
	yaml := `
storage:
  driver: postgres
postgres:
  host: localhost
  port: 5432
`
	path := writeTempFile(t, "config.yaml", yaml)

	t.Setenv("APP_POSTGRES_USER", "")
	t.Setenv("APP_POSTGRES_PASSWORD", "")
	t.Setenv("APP_POSTGRES_DBNAME", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.user")
	assert.Contains(t, err.Error(), "postgres.dbname")
}

func TestLoad_UnknownDriverFails(t *testing.T) {
	t.Setenv("APP_STORAGE_DRIVER", "mongo")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeTempFile(t, ".env", "APP_TEST_DOTENV_VALUE=from-file\n")
	t.Setenv("APP_TEST_DOTENV_VALUE", "")
	require.NoError(t, os.Unsetenv("APP_TEST_DOTENV_VALUE"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("APP_TEST_DOTENV_VALUE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
