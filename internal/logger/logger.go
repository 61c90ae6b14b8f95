package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type LoggerConfig struct {
	Level              string         `mapstructure:"level" json:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
	Format             string         `mapstructure:"format" json:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputTarget       string         `mapstructure:"output_target" json:"outputTarget,omitempty" validate:"omitempty,oneof=stdout stderr"`
	TimeField          string         `mapstructure:"time_field" json:"timeField,omitempty"`
	TimeFormat         string         `mapstructure:"time_format" json:"timeFormat,omitempty" validate:"omitempty,oneof=rfc3339 rfc3339nano unix unix_ms"`
	ServiceName        string         `mapstructure:"service_name" json:"serviceName,omitempty"`
	ServiceVersion     string         `mapstructure:"service_version" json:"serviceVersion,omitempty"`
	Env                string         `mapstructure:"env" json:"env,omitempty" validate:"omitempty,oneof=dev staging prod"`
	WithCaller         bool           `mapstructure:"with_caller" json:"withCaller,omitempty"`
	Stacktrace         bool           `mapstructure:"stacktrace" json:"stacktrace,omitempty"`
	StacktraceMinLevel string         `mapstructure:"stacktrace_min_level" json:"stacktraceMinLevel,omitempty" validate:"omitempty,oneof=debug info warn error fatal panic"`
	DebugFile          string         `mapstructure:"debug_file" json:"debugFile,omitempty"`
	Fields             map[string]any `mapstructure:"fields" json:"fields,omitempty"`
}

// New builds the process logger and sets the global level.
// Dev with debug level also tees into DebugFile.
func New(logg *LoggerConfig) (zerolog.Logger, error) {
	return newWithOutput(logg, os.Stdout, os.Stderr)
}

func newWithOutput(logg *LoggerConfig, stdout, stderr io.Writer) (logger zerolog.Logger, err error) {
	logg.setDefaults()

	v := validator.New()
	if err = v.Struct(logg); err != nil {
		return logger, fmt.Errorf("logger config validation error: %w", err)
	}

	zerolog.TimestampFieldName = logg.TimeField
	zerolog.TimeFieldFormat = timeLayout(logg.TimeFormat)

	out := stdout
	if logg.OutputTarget == "stderr" {
		out = stderr
	}

	var writer io.Writer = out
	if logg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	// development + debug: console for humans, file for full history
	if logg.Env == "dev" && (logg.Level == "debug" || logg.Level == "trace") && logg.DebugFile != "" {
		if file, ferr := openDebugFile(logg.DebugFile); ferr == nil {
			writer = zerolog.MultiLevelWriter(writer, file)
		}
		// fallback to console only if file cannot be opened
	}

	logger = zerolog.New(writer).
		With().
		Timestamp().
		Str("service", logg.ServiceName).
		Str("version", logg.ServiceVersion).
		Str("env", logg.Env).
		Logger()

	if logg.WithCaller {
		logger = logger.With().Caller().Logger()
	}
	if logg.Stacktrace {
		logger = logger.With().Stack().Logger()
	}
	if len(logg.Fields) > 0 {
		logger = logger.With().Fields(logg.Fields).Logger()
	}

	level, err := zerolog.ParseLevel(logg.Level)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	return logger, nil
}

func openDebugFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func timeLayout(name string) string {
	switch name {
	case "rfc3339":
		return time.RFC3339
	case "unix":
		return zerolog.TimeFormatUnix
	case "unix_ms":
		return zerolog.TimeFormatUnixMs
	default:
		return time.RFC3339Nano
	}
}

// profile holds the per-environment fallbacks applied by setDefaults.
type profile struct {
	level, format, debugFile string
	caller, stack            bool
}

var profiles = map[string]profile{
	"dev":     {level: "debug", format: "console", debugFile: "logs/debug.log", caller: true},
	"staging": {level: "info", format: "json", stack: true},
	"prod":    {level: "info", format: "json", stack: true},
}

func (c *LoggerConfig) setDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	p, ok := profiles[c.Env]
	if !ok {
		p = profiles["prod"]
	}

	c.Level = orDefault(c.Level, p.level)
	c.Format = orDefault(c.Format, p.format)
	c.DebugFile = orDefault(c.DebugFile, p.debugFile)
	c.OutputTarget = orDefault(c.OutputTarget, "stdout")
	c.TimeField = orDefault(c.TimeField, "ts")
	c.TimeFormat = orDefault(c.TimeFormat, "rfc3339nano")
	c.StacktraceMinLevel = orDefault(c.StacktraceMinLevel, "error")
	c.ServiceName = orDefault(c.ServiceName, "nba-stats-manager")
	c.ServiceVersion = orDefault(c.ServiceVersion, "0.1.0")
	c.WithCaller = c.WithCaller || p.caller
	c.Stacktrace = c.Stacktrace || p.stack

	if c.Fields == nil {
		c.Fields = make(map[string]any)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
