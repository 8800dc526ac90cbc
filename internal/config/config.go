// Package config loads the gateway configuration from YAML. The file
// is read once at startup; zero values fall back to defaults so a
// partial config only overrides what it names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sheetgate/sheetgate/internal/ratelimit"
)

// RateLimits configures the admission budgets. Per-operation budgets
// are charged after the global one.
type RateLimits struct {
	Global       ratelimit.Budget            `yaml:"global"`
	PerOperation map[string]ratelimit.Budget `yaml:"per_operation"`
}

// Audit configures the in-memory record and the optional JSONL sink.
type Audit struct {
	Retention int    `yaml:"retention"`
	File      string `yaml:"file"`
}

// Validation configures argument checking.
type Validation struct {
	Strict bool `yaml:"strict"`
}

// Backend configures the upstream spreadsheet and directory services.
type Backend struct {
	SheetsURL string        `yaml:"sheets_url"`
	DriveURL  string        `yaml:"drive_url"`
	TokenEnv  string        `yaml:"token_env"`
	ScopeID   string        `yaml:"scope_id"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Config holds all gateway parameters.
type Config struct {
	RateLimits RateLimits `yaml:"rate_limits"`
	Audit      Audit      `yaml:"audit"`
	Validation Validation `yaml:"validation"`
	Backend    Backend    `yaml:"backend"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RateLimits: RateLimits{
			Global: ratelimit.Budget{MaxCalls: 100, Window: 60 * time.Second},
		},
		Audit: Audit{
			Retention: 1000,
		},
		Validation: Validation{
			Strict: true,
		},
		Backend: Backend{
			SheetsURL: "https://sheets.googleapis.com",
			DriveURL:  "https://www.googleapis.com/drive/v3",
			TokenEnv:  "SHEETGATE_TOKEN",
			Timeout:   30 * time.Second,
		},
	}
}

// Load reads configuration from a YAML file. Empty path falls back to
// ~/.sheetgate/config.yaml. Missing file returns defaults. Invalid
// YAML returns an error.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, ".sheetgate", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields.
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RateLimits.Global.MaxCalls < 0 {
		return fmt.Errorf("rate_limits.global.max_calls must not be negative")
	}
	for op, b := range c.RateLimits.PerOperation {
		if b.MaxCalls < 0 {
			return fmt.Errorf("rate_limits.per_operation.%s.max_calls must not be negative", op)
		}
	}
	if c.Audit.Retention < 0 {
		return fmt.Errorf("audit.retention must not be negative")
	}
	if c.Backend.SheetsURL == "" || c.Backend.DriveURL == "" {
		return fmt.Errorf("backend URLs must not be empty")
	}
	return nil
}

// Token reads the backend bearer token from the environment variable
// named by token_env.
func (c *Config) Token() (string, error) {
	tok := os.Getenv(c.Backend.TokenEnv)
	if tok == "" {
		return "", fmt.Errorf("backend token not set: export %s", c.Backend.TokenEnv)
	}
	return tok, nil
}
