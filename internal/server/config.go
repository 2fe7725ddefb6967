package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the HTTP wrapper's configuration, read from the environment.
type Config struct {
	Addr    string `env:"EXPEDITION_ADDR" envDefault:":8080"`
	DataDir string `env:"EXPEDITION_DATA_DIR" envDefault:"data"`

	// MaxAttempts overrides the selector default when > 0.
	MaxAttempts int `env:"EXPEDITION_MAX_ATTEMPTS"`

	// WatchInterval > 0 polls the dataset files and reloads them on change.
	WatchInterval time.Duration `env:"EXPEDITION_WATCH_INTERVAL"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
