// Package config loads the lessons server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment of the lessons server.
type Config struct {
	Addr        string        `env:"LESSONS_ADDR"         envDefault:":3000"`
	Dev         bool          `env:"LESSONS_DEV"          envDefault:"false"`
	LogLevel    string        `env:"LESSONS_LOG_LEVEL"    envDefault:"info"`
	SessionDB   string        `env:"LESSONS_SESSION_DB"`
	NATSDir     string        `env:"LESSONS_NATS_DIR"`
	UpdateDelay time.Duration `env:"LESSONS_UPDATE_DELAY" envDefault:"1500ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.UpdateDelay < 0 {
		return Config{}, fmt.Errorf("parse env: LESSONS_UPDATE_DELAY must not be negative")
	}
	return cfg, nil
}
