package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      *LoggerConfig
		expectError bool
		wantLevel   zerolog.Level
	}{
		{
			name: "valid production environment",
			config: &LoggerConfig{
				ServiceName:    "test-service",
				ServiceVersion: "1.0.0",
				Env:            "prod",
				Level:          "info",
				TimeField:      "timestamp",
				Fields:         map[string]any{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:        "invalid configuration - wrong env",
			config:      &LoggerConfig{ServiceName: "bad-service", Env: "wrong-env", Level: "debug"},
			expectError: true,
		},
		{
			name:        "invalid log level",
			config:      &LoggerConfig{Env: "prod", Level: "invalid-level"},
			expectError: true,
		},
		{
			name:        "invalid output target",
			config:      &LoggerConfig{Env: "prod", OutputTarget: "syslog"},
			expectError: true,
		},
		{
			name:      "valid staging environment",
			config:    &LoggerConfig{Env: "staging", Level: "warn", TimeField: "time", Stacktrace: true},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "valid development environment without debug",
			config:    &LoggerConfig{Env: "dev", Level: "info", TimeField: "time"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "production with additional fields",
			config:    &LoggerConfig{Env: "prod", Level: "error", Fields: map[string]any{"customField": "customValue"}, WithCaller: true},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := newWithOutput(test.config, &out, &out)
			if test.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_JSONCarriesServiceFields(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l, err := newWithOutput(&LoggerConfig{Env: "prod", Level: "info", ServiceName: "nba", ServiceVersion: "9.9.9"}, &stdout, &stderr)
	require.NoError(t, err)

	l.Info().Str("component", "test").Msg("hello")

	assert.Empty(t, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, `"service":"nba"`)
	assert.Contains(t, out, `"version":"9.9.9"`)
	assert.Contains(t, out, `"env":"prod"`)
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"ts":`)
}

func TestNew_StderrTarget(t *testing.T) {
	var stdout, stderr bytes.Buffer
	l, err := newWithOutput(&LoggerConfig{Env: "staging", Level: "info", OutputTarget: "stderr"}, &stdout, &stderr)
	require.NoError(t, err)

	l.Warn().Msg("to stderr")

	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "to stderr")
}

func TestNew_DebugFileInDev(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	var out bytes.Buffer
	l, err := newWithOutput(&LoggerConfig{Env: "dev", Level: "debug", DebugFile: path}, &out, &out)
	require.NoError(t, err)

	l.Debug().Msg("persisted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "persisted")
}

func TestSetDefaults(t *testing.T) {
	c := &LoggerConfig{}
	c.setDefaults()

	assert.Equal(t, "prod", c.Env)
	assert.Equal(t, "info", c.Level)
	assert.Equal(t, "json", c.Format)
	assert.Equal(t, "stdout", c.OutputTarget)
	assert.Equal(t, "nba-stats-manager", c.ServiceName)
	assert.True(t, c.Stacktrace)
	assert.Empty(t, c.DebugFile)

	dev := &LoggerConfig{Env: "dev"}
	dev.setDefaults()
	assert.Equal(t, "debug", dev.Level)
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "logs/debug.log", dev.DebugFile)
	assert.True(t, dev.WithCaller)
}

func TestTimeLayout(t *testing.T) {
	assert.Equal(t, zerolog.TimeFormatUnix, timeLayout("unix"))
	assert.Equal(t, zerolog.TimeFormatUnixMs, timeLayout("unix_ms"))
	assert.Equal(t, "2006-01-02T15:04:05Z07:00", timeLayout("rfc3339"))
}
