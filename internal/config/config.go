package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Environment overrides.
const (
	EnvAccount = "GSPACE_ACCOUNT"
	EnvDataDir = "GSPACE_DATA_DIR"
)

// Config holds the application configuration.
type Config struct {
	// Account is the default Google account name.
	Account string `toml:"account"`

	// DataDir is where tokens and the idempotency ledger live.
	DataDir string `toml:"data_dir"`

	// Logging controls log output.
	Logging LoggingConfig `toml:"logging"`

	// Retry tunes the read retry policy.
	Retry RetryConfig `toml:"retry"`

	// RateLimits overrides the per-service defaults,
	// keyed by service name (drive, sheets, gmail, ...).
	RateLimits map[string]RateLimit `toml:"rate_limits"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// RetryConfig tunes the read retry policy.
type RetryConfig struct {
	MaxAttempts      int     `toml:"max_attempts"`
	InitialBackoffMS int     `toml:"initial_backoff_ms"`
	MaxBackoffMS     int     `toml:"max_backoff_ms"`
	Multiplier       float64 `toml:"multiplier"`
}

// RateLimit overrides a service's client-side rate limit.
type RateLimit struct {
	RequestsPerSecond float64 `toml:"requests_per_second"`
	BurstSize         int     `toml:"burst_size"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Account: "default",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Retry: RetryConfig{
			MaxAttempts:      5,
			InitialBackoffMS: 500,
			MaxBackoffMS:     32000,
			Multiplier:       2,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.gspace/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".gspace", "config.toml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults. Environment variables override the account and data dir.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus env overrides
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if account := os.Getenv(EnvAccount); account != "" {
		c.Account = account
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.DataDir = dir
	}
}

func (c *Config) validate() error {
	if c.Account == "" {
		return fmt.Errorf("account must not be empty")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be at least 1, got %v", c.Retry.Multiplier)
	}
	for name, rl := range c.RateLimits {
		if rl.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limits.%s.requests_per_second must be positive", name)
		}
		if rl.BurstSize < 1 {
			return fmt.Errorf("rate_limits.%s.burst_size must be at least 1", name)
		}
	}
	return nil
}
