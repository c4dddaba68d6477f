// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, dataset location, request limits, and observability features.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir     string // Data directory for the SQLite mappings database
	DatasetPath string // Path to the institution reference dataset (JSON, optionally .zst)

	// Request Limits
	MaxNamesPerRequest int // Maximum raw names per resolve request (default: 500)
	SearchMaxLimit     int // Upper bound on the search limit query parameter (default: 50)

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Better Stack Logs
	BetterstackToken    string
	BetterstackEndpoint string

	// Sentry (Better Stack Errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// R2 Dataset Store (optional remote dataset fetch)
	R2 R2Config
}

// R2Config holds the object-store settings used to fetch the reference
// dataset when it is not present on local disk.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	DatasetKey      string
}

// Enabled reports whether remote dataset fetching is configured.
func (r R2Config) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.SecretAccessKey != "" && r.BucketName != ""
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		// Data Configuration
		DataDir:     getEnv(EnvDataDir, getDefaultDataDir()),
		DatasetPath: getEnv(EnvDatasetPath, ""),

		// Request Limits
		MaxNamesPerRequest: getIntEnv(EnvMaxNamesPerRequest, 500),
		SearchMaxLimit:     getIntEnv(EnvSearchMaxLimit, 50),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Better Stack Logs
		BetterstackToken:    getEnv(EnvBetterstackToken, ""),
		BetterstackEndpoint: getEnv(EnvBetterstackEndpoint, ""),

		// Sentry (Better Stack Errors)
		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// R2 Dataset Store
		R2: R2Config{
			AccountID:       getEnv(EnvR2AccountID, ""),
			AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
			SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
			BucketName:      getEnv(EnvR2BucketName, ""),
			DatasetKey:      getEnv(EnvR2DatasetKey, "institutions.json.zst"),
		},
	}

	if cfg.DatasetPath == "" {
		cfg.DatasetPath = filepath.Join(cfg.DataDir, "institutions.json")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.DatasetPath == "" {
		errs = append(errs, errors.New(EnvDatasetPath+" is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.MaxNamesPerRequest <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxNamesPerRequest, c.MaxNamesPerRequest))
	}
	if c.SearchMaxLimit <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSearchMaxLimit, c.SearchMaxLimit))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be in [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite mappings database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "mappings.db")
}
