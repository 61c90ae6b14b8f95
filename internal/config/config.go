package config

import (
	"github.com/maxviazov/nba-stats-manager/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Ingest   IngestConfig        `mapstructure:"ingest"`
	Export   ExportConfig        `mapstructure:"export"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"`
	Port    int    `mapstructure:"port" validate:"gt=0,lte=65535"`
	// ShutdownTimeout is in seconds.
	ShutdownTimeout int `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// StorageConfig selects the backend. Postgres settings live in their own section.
type StorageConfig struct {
	Driver string       `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig durations are in seconds; zero keeps the pgxpool default.
type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"dbname"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"gte=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"gte=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime" validate:"gte=0"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time" validate:"gte=0"`
	HealthCheckPeriod int    `mapstructure:"health_check_period" validate:"gte=0"`
}

// RedisConfig enables the view cache when URL is set. Prefix namespaces the
// cache keys so several deployments can share one Redis.
type RedisConfig struct {
	URL        string `mapstructure:"url"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
	Prefix     string `mapstructure:"prefix"`
}

type IngestConfig struct {
	Season         string `mapstructure:"season"`
	SourceURL      string `mapstructure:"source_url" validate:"omitempty,url"`
	File           string `mapstructure:"file"`
	Schedule       string `mapstructure:"schedule"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0"`
}

type ExportConfig struct {
	Path string `mapstructure:"path"`
}
