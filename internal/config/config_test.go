package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Account)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
account = "work"
data_dir = "/tmp/gspace-test"

[logging]
level = "debug"
format = "json"

[retry]
max_attempts = 3
initial_backoff_ms = 250
max_backoff_ms = 8000
multiplier = 1.5

[rate_limits.gmail]
requests_per_second = 1.0
burst_size = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "work", cfg.Account)
	assert.Equal(t, "/tmp/gspace-test", cfg.DataDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 1.5, cfg.Retry.Multiplier)

	rl, ok := cfg.RateLimits["gmail"]
	require.True(t, ok)
	assert.Equal(t, 1.0, rl.RequestsPerSecond)
	assert.Equal(t, 2, rl.BurstSize)
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("account = [broken"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAccount, "personal")
	t.Setenv(EnvDataDir, "/tmp/env-data")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "personal", cfg.Account)
	assert.Equal(t, "/tmp/env-data", cfg.DataDir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "zero attempts",
			content: "[retry]\nmax_attempts = 0\nmultiplier = 2.0",
		},
		{
			name:    "multiplier below one",
			content: "[retry]\nmax_attempts = 3\nmultiplier = 0.5",
		},
		{
			name:    "negative rate",
			content: "[rate_limits.drive]\nrequests_per_second = -1.0\nburst_size = 5",
		},
		{
			name:    "zero burst",
			content: "[rate_limits.drive]\nrequests_per_second = 2.0\nburst_size = 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
