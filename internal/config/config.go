// Package config loads client configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all settings for the client core and the bundled stub server.
type Config struct {
	// APIBaseURL is the root of the REST backend the client talks to.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
	// HTTPTimeout bounds every single REST call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	// SessionDBPath is the SQLite file holding the persisted session.
	// Empty selects the in-memory store (session lost on exit).
	SessionDBPath string `env:"SESSION_DB_PATH" envDefault:"session.db"`
	// StubAddr is the listen address of the development stub backend.
	StubAddr string `env:"STUB_ADDR" envDefault:":3000"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
