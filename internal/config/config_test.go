package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOROSHI_ENDPOINT", "NOROSHI_SECRET", "NOROSHI_PROJECT_KEY",
		"NOROSHI_SOURCE", "NOROSHI_ENVIRONMENT", "NOROSHI_RELEASE",
		"NOROSHI_APP_VERSION", "NOROSHI_BUILD_NUMBER",
		"NOROSHI_MAX_BUFFER_SIZE", "NOROSHI_FLUSH_INTERVAL",
		"NOROSHI_SYNC_TIMEOUT", "NOROSHI_DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "go", cfg.Source)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 20, cfg.MaxBufferSize)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, 3*time.Second, cfg.SyncTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOROSHI_ENDPOINT", "https://ingest.example.com")
	t.Setenv("NOROSHI_SECRET", "hunter2")
	t.Setenv("NOROSHI_MAX_BUFFER_SIZE", "50")
	t.Setenv("NOROSHI_FLUSH_INTERVAL", "10s")
	t.Setenv("NOROSHI_DEBUG", "true")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://ingest.example.com", cfg.Endpoint)
	assert.Equal(t, 50, cfg.MaxBufferSize)
	assert.Equal(t, 10*time.Second, cfg.FlushInterval)
	assert.True(t, cfg.Debug)
}

func TestValidateRejectsMisconfiguration(t *testing.T) {
	base := Config{
		Endpoint:      "https://ingest.example.com",
		Secret:        "hunter2",
		MaxBufferSize: 20,
		FlushInterval: 5 * time.Second,
		SyncTimeout:   3 * time.Second,
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing endpoint", func(c *Config) { c.Endpoint = "" }, "NOROSHI_ENDPOINT"},
		{"bad scheme", func(c *Config) { c.Endpoint = "ftp://example.com" }, "http or https"},
		{"no host", func(c *Config) { c.Endpoint = "https://" }, "no host"},
		{"missing secret", func(c *Config) { c.Secret = "" }, "NOROSHI_SECRET"},
		{"zero buffer", func(c *Config) { c.MaxBufferSize = 0 }, "MAX_BUFFER_SIZE"},
		{"zero interval", func(c *Config) { c.FlushInterval = 0 }, "FLUSH_INTERVAL"},
		{"zero timeout", func(c *Config) { c.SyncTimeout = 0 }, "SYNC_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
