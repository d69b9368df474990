package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvDevelopment is the runtime mode in which public seeding is allowed.
const EnvDevelopment = "development"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Addr        string `env:"SEEDGATE_ADDR" envDefault:":8080"`
	DBPath      string `env:"SEEDGATE_DB" envDefault:"seedgate.db"`
	Environment string `env:"SEEDGATE_ENV"`

	AuthSecret string        `env:"SEEDGATE_AUTH_SECRET"`
	TokenTTL   time.Duration `env:"SEEDGATE_TOKEN_TTL" envDefault:"24h"`

	LogLevel  string `env:"SEEDGATE_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SEEDGATE_LOG_FORMAT" envDefault:"text"`

	SeedOnStart  bool    `env:"SEEDGATE_SEED_ON_START"`
	FixturesPath string  `env:"SEEDGATE_FIXTURES"`
	SeedRate     float64 `env:"SEEDGATE_SEED_RATE"`
	SeedBurst    int     `env:"SEEDGATE_SEED_BURST" envDefault:"1"`

	OTelEndpoint string `env:"SEEDGATE_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"SEEDGATE_OTEL_ENABLED"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.SeedRate < 0 {
		return Config{}, fmt.Errorf("SEEDGATE_SEED_RATE must not be negative, got %v", cfg.SeedRate)
	}
	if cfg.SeedBurst < 1 {
		cfg.SeedBurst = 1
	}
	return cfg, nil
}

// IsDevelopment reports whether the configured runtime mode is development.
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// SlogLevel maps LogLevel to a slog.Level, falling back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
