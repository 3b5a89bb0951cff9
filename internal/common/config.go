// Package common provides shared utilities for FinTrack
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for FinTrack
type Config struct {
	Environment string            `toml:"environment"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Persistence PersistenceConfig `toml:"persistence"`
	Clients     ClientsConfig     `toml:"clients"`
	Refresh     RefreshConfig     `toml:"refresh"`
	Seed        SeedConfig        `toml:"seed"`
	Logging     LoggingConfig     `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects the snapshot backend and where it lives.
type StorageConfig struct {
	Backend  string `toml:"backend"` // "file", "badger" or "sqlite"
	Path     string `toml:"path"`
	Key      string `toml:"key"`
	Versions int    `toml:"versions"` // file backend: previous snapshots kept as .v1..vN
}

// PersistenceConfig holds the debounced writer settings
type PersistenceConfig struct {
	Debounce string `toml:"debounce"`
}

// GetDebounce parses and returns the debounce delay
func (c *PersistenceConfig) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Quote QuoteConfig `toml:"quote"`
}

// QuoteConfig holds Alpha Vantage API configuration and the mock fallback knobs
type QuoteConfig struct {
	BaseURL    string  `toml:"base_url"`
	APIKey     string  `toml:"api_key"`
	RateLimit  int     `toml:"rate_limit"` // requests per minute
	Timeout    string  `toml:"timeout"`
	CacheTTL   string  `toml:"cache_ttl"`
	MockSeed   int64   `toml:"mock_seed"` // 0 seeds from the clock
	MockJitter float64 `toml:"mock_jitter"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuoteConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL parses and returns the quote cache TTL
func (c *QuoteConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return FreshnessQuote
	}
	return d
}

// RefreshConfig controls the scheduled price refresh
type RefreshConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron spec, e.g. "@every 1m"
}

// SeedConfig controls the default dataset used when no snapshot exists
type SeedConfig struct {
	RandomSeed int64 `toml:"random_seed"` // 0 seeds from the clock
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "data",
			Key:     "fintrack-state",
		},
		Persistence: PersistenceConfig{
			Debounce: "1s",
		},
		Clients: ClientsConfig{
			Quote: QuoteConfig{
				BaseURL:    "https://www.alphavantage.co",
				RateLimit:  5,
				Timeout:    "10s",
				CacheTTL:   "1m",
				MockJitter: 1,
			},
		},
		Refresh: RefreshConfig{
			Enabled:  true,
			Schedule: "@every 1m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeStorage(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINTRACK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINTRACK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINTRACK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINTRACK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FINTRACK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if backend := os.Getenv("FINTRACK_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}

	config.Clients.Quote.APIKey = ResolveAPIKey(config.Clients.Quote.APIKey)
}

func normalizeStorage(config *Config) {
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "file"
	}
	if config.Storage.Key == "" {
		config.Storage.Key = "fintrack-state"
	}
}

// ResolveAPIKey returns the Alpha Vantage key from the environment, falling back to the
// configured value. An empty result means demo mode.
func ResolveAPIKey(fallback string) string {
	for _, name := range []string{"ALPHA_VANTAGE_KEY", "FINTRACK_ALPHA_VANTAGE_KEY"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(fallback)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
