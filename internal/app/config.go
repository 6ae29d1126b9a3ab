package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Root    string // plugin tree
	Package string // import path prefix; defaults to the root's base name
	Exclude []string

	StrictImport bool
	Debug        bool

	HostVersion     string
	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Debounce        time.Duration
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("Root is a required configuration field and cannot be empty")
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.HostVersion != "" {
		if _, err := semver.NewVersion(cfg.HostVersion); err != nil {
			return nil, fmt.Errorf("invalid host version %q: %w", cfg.HostVersion, err)
		}
	}
	if cfg.HealthcheckPort < 0 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
