// Package config loads and validates SDK configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all SDK configuration.
type Config struct {
	// Collector settings.
	Endpoint   string // Base URL of the collector, e.g. "https://ingest.example.com".
	Secret     string // Pre-shared secret for HMAC signing of batch payloads.
	ProjectKey string // Optional project identifier sent as X-Project-Key.

	// Baseline event fields.
	Source      string
	Environment string
	Release     string
	AppVersion  string
	BuildNumber string

	// Delivery settings.
	MaxBufferSize int           // Size threshold that triggers an immediate flush.
	FlushInterval time.Duration // Period of the background flush timer.
	SyncTimeout   time.Duration // Upper bound on blocking (crash-path) flushes.

	// Operational settings.
	Debug bool // Log transport failures at debug level.
}

// Load reads configuration from environment variables with sensible defaults.
// Validation is deferred to Validate so callers can apply option overrides
// between Load and Validate.
func Load() Config {
	return Config{
		Endpoint:      envStr("NOROSHI_ENDPOINT", ""),
		Secret:        envStr("NOROSHI_SECRET", ""),
		ProjectKey:    envStr("NOROSHI_PROJECT_KEY", ""),
		Source:        envStr("NOROSHI_SOURCE", "go"),
		Environment:   envStr("NOROSHI_ENVIRONMENT", "production"),
		Release:       envStr("NOROSHI_RELEASE", ""),
		AppVersion:    envStr("NOROSHI_APP_VERSION", ""),
		BuildNumber:   envStr("NOROSHI_BUILD_NUMBER", ""),
		MaxBufferSize: envInt("NOROSHI_MAX_BUFFER_SIZE", 20),
		FlushInterval: envDuration("NOROSHI_FLUSH_INTERVAL", 5*time.Second),
		SyncTimeout:   envDuration("NOROSHI_SYNC_TIMEOUT", 3*time.Second),
		Debug:         envBool("NOROSHI_DEBUG", false),
	}
}

// Validate checks that required configuration is present and well-formed.
// A malformed endpoint is a fatal misconfiguration detected here, at
// construction, never deferred to dispatch time.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("config: NOROSHI_ENDPOINT is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("config: invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: endpoint %q must use http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("config: endpoint %q has no host", c.Endpoint)
	}
	if c.Secret == "" {
		return fmt.Errorf("config: NOROSHI_SECRET is required")
	}
	if c.MaxBufferSize <= 0 {
		return fmt.Errorf("config: NOROSHI_MAX_BUFFER_SIZE must be positive")
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("config: NOROSHI_FLUSH_INTERVAL must be positive")
	}
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("config: NOROSHI_SYNC_TIMEOUT must be positive")
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return defaultVal
}
