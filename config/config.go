// Package config loads runtime settings from the environment and an optional .env file.
// File: config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"kabaddi-scoreboard/logger"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port           string `env:"PORT" envDefault:"8080"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	ApplicationURL string `env:"APPLICATION_URL" envDefault:"http://localhost:8080"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"bolt"`
	StorePath   string `env:"STORE_PATH" envDefault:"scoreboard.db"`

	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:"templates"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"static"`
	LogDir       string `env:"LOG_DIR"`

	SessionSecret      string   `env:"SESSION_SECRET" envDefault:"change-me-in-production"`
	FrameAncestors     []string `env:"FRAME_ANCESTORS" envSeparator:" "`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"scoreboard.invalidate"`

	MetricsEnabled   bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"KabaddiScoreboard"`

	XRayEnabled bool   `env:"XRAY_ENABLED" envDefault:"false"`
	XRaySegment string `env:"XRAY_SEGMENT" envDefault:"kabaddi-scoreboard"`

	SeedFile           string `env:"SEED_FILE"`
	RecentCompetitions int    `env:"RECENT_COMPETITIONS" envDefault:"5"`
}

// Load reads .env files (if present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		logger.Warn.Println("Load: no .env file found, using environment only")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.StoreDriver) {
	case "bolt", "sqlite":
	default:
		return fmt.Errorf("STORE_DRIVER must be bolt or sqlite, got %q", c.StoreDriver)
	}
	if c.RecentCompetitions <= 0 {
		return fmt.Errorf("RECENT_COMPETITIONS must be positive, got %d", c.RecentCompetitions)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
