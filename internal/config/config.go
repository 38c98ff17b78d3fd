// Package config loads process settings from the environment. Command-line
// flags of the rpgx commands default to these values.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the rpgx commands.
type Config struct {
	RosterFile string        `env:"RPGX_ROSTER_FILE" envDefault:"roster.yaml"`
	Port       string        `env:"RPGX_PORT" envDefault:"9999"`
	WebPort    int           `env:"RPGX_WEB_PORT" envDefault:"8080"`
	Seed       int64         `env:"RPGX_SEED" envDefault:"0"`
	FrameStep  time.Duration `env:"RPGX_FRAME_STEP" envDefault:"100ms"`
	Log        LogConfig
}

// LogConfig selects the process logger's level and encoder.
type LogConfig struct {
	Level  string `env:"RPGX_LOG_LEVEL" envDefault:"info"`
	Format string `env:"RPGX_LOG_FORMAT" envDefault:"console"`
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.FrameStep <= 0 {
		return nil, fmt.Errorf("RPGX_FRAME_STEP must be positive, got %s", cfg.FrameStep)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return nil, fmt.Errorf("RPGX_LOG_FORMAT must be console or json, got %q", cfg.Log.Format)
	}
	return &cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
