// Package config loads application configuration from environment variables
// with an optional TOML file fallback.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultUpstreamBaseURL is the OpenRouter API root used when no override is
// configured.
const DefaultUpstreamBaseURL = "https://openrouter.ai/api/v1"

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// UpstreamBaseURL is the OpenRouter API root (no trailing slash)
	UpstreamBaseURL string

	// InsecureSkipVerify disables TLS certificate verification on upstream
	// connections only. Never applies to the listening side.
	InsecureSkipVerify bool

	// ModelFilterFile is the path to a newline-delimited model allow-list.
	// Empty means no filtering.
	ModelFilterFile string

	// UpstreamTimeout bounds non-streaming upstream calls and the wait for
	// response headers on streaming ones.
	UpstreamTimeout time.Duration

	// ModelCacheTTL enables the model-list cache when > 0. Zero keeps the
	// re-fetch-per-call behavior.
	ModelCacheTTL time.Duration

	// RequestLogDB is the sqlite path for request logging. Empty disables
	// persistence.
	RequestLogDB string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables and the config file.
// Environment variables override file config values. Returns an error for
// values that cannot be parsed; callers should treat that as fatal.
func Load() (*Config, error) {
	fileConfig, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("config: unreadable config file %s: %w", ConfigPath(), err)
	}

	cfg := &Config{
		ServerPort:      ":" + strings.TrimPrefix(firstEnv([]string{"PORT", "HOST_PORT"}, fileConfig.ServerPort, "8080"), ":"),
		UpstreamBaseURL: getEnvOrFile("UPSTREAM_BASE_URL", fileConfig.UpstreamBaseURL, DefaultUpstreamBaseURL),
		ModelFilterFile: getEnvOrFile("MODEL_FILTER_FILE", fileConfig.ModelFilterFile, ""),
		RequestLogDB:    getEnvOrFile("REQUEST_LOG_DB", fileConfig.RequestLogDB, ""),
		LogLevel:        getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
	}

	cfg.InsecureSkipVerify, err = getEnvBoolOrFile("DISABLE_SSL_VERIFY", fileConfig.DisableSSLVerify, false)
	if err != nil {
		return nil, err
	}

	cfg.UpstreamTimeout, err = getEnvSecondsOrFile("UPSTREAM_TIMEOUT", fileConfig.UpstreamTimeoutSec, 120*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.ModelCacheTTL, err = getEnvSecondsOrFile("MODEL_CACHE_TTL", fileConfig.ModelCacheTTLSec, 0)
	if err != nil {
		return nil, err
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("config: invalid LOG_LEVEL %q", cfg.LogLevel)
	}

	return cfg, nil
}

// firstEnv returns the first set env value from keys, then the file value,
// then the default.
func firstEnv(keys []string, fileValue, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) (bool, error) {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("config: invalid boolean for %s: %q", key, value)
	}
	if fileValue != nil {
		return *fileValue, nil
	}
	return defaultValue, nil
}

// getEnvSecondsOrFile parses an integer-seconds env value with file fallback.
func getEnvSecondsOrFile(key string, fileValue *int, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		secs, err := strconv.Atoi(value)
		if err != nil || secs < 0 {
			return 0, fmt.Errorf("config: invalid seconds for %s: %q", key, value)
		}
		return time.Duration(secs) * time.Second, nil
	}
	if fileValue != nil {
		if *fileValue < 0 {
			return 0, fmt.Errorf("config: negative seconds in config file for %s", key)
		}
		return time.Duration(*fileValue) * time.Second, nil
	}
	return defaultValue, nil
}
