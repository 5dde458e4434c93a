// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendAirtable = "airtable"
	BackendPostgres = "postgres"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host          string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port          string `env:"APP_PORT" envDefault:"8080"`
	Env           string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Record store
	StoreBackend string        `env:"STORE_BACKEND" envDefault:"airtable"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"8s"`
	StoreRetries int           `env:"STORE_RETRIES" envDefault:"2"`

	// Airtable
	AirtableAPIKey           string `env:"AIRTABLE_API_KEY"`
	AirtableBaseID           string `env:"AIRTABLE_BASE_ID"`
	AirtableBaseURL          string `env:"AIRTABLE_BASE_URL" envDefault:"https://api.airtable.com/v0"`
	AirtablePoliticiansTable string `env:"AIRTABLE_POLITICIANS_TABLE" envDefault:"Politicians"`
	AirtablePartiesTable     string `env:"AIRTABLE_PARTIES_TABLE" envDefault:"Parties"`
	AirtableCreatedField     string `env:"AIRTABLE_CREATED_FIELD" envDefault:"Created"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"polidex"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"polidex"`

	// Valkey (Redis-compatible cache). Caching is skipped when unreachable.
	ValkeyHost     string        `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string        `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string        `env:"VALKEY_PASSWORD"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"60s"`

	// Share cards and image relay
	ShareRateLimit    int      `env:"SHARE_RATE_LIMIT" envDefault:"30"` // cards per client per minute
	ImageAllowedHosts []string `env:"IMAGE_ALLOWED_HOSTS" envSeparator:"," envDefault:"dl.airtable.com,v5.airtableusercontent.com,upload.wikimedia.org"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch cfg.StoreBackend {
	case BackendAirtable, BackendPostgres:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendAirtable, BackendPostgres, cfg.StoreBackend)
	}

	if cfg.Env == "production" {
		switch cfg.StoreBackend {
		case BackendAirtable:
			if cfg.AirtableAPIKey == "" || cfg.AirtableBaseID == "" {
				return nil, fmt.Errorf("AIRTABLE_API_KEY and AIRTABLE_BASE_ID must be set in production")
			}
		case BackendPostgres:
			if cfg.DBPassword == "changeme" {
				return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
			}
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SlogLevel maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
