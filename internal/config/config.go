package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the content service.
// Environment variables are parsed from the INKWELL_ prefix.
type Config struct {
	// Build target selects the high-level environment: local, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"cloud"`

	// Derived or override driver
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local build target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"inkwell.db"`

	// Cache Configuration
	CacheDriver string `envconfig:"CACHE_DRIVER" default:"memory"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Webhook shared secret; the /api/webhook endpoint is disabled when empty.
	WebhookSecret string `envconfig:"WEBHOOK_SECRET" default:""`

	// Admin API auth: HS256 secret used to verify dashboard session tokens.
	AdminJWTSecret string `envconfig:"ADMIN_JWT_SECRET" default:""`

	// Frontend revalidation: base URL of the rendering frontend plus the
	// token it expects on /api/revalidate calls. Route revalidation is a
	// no-op when SiteBaseURL is empty.
	SiteBaseURL     string `envconfig:"SITE_BASE_URL" default:""`
	RevalidateToken string `envconfig:"REVALIDATE_TOKEN" default:""`

	// Summary defaults
	SummaryRecentLimit int `envconfig:"SUMMARY_RECENT_LIMIT" default:"5"`

	// Health checker cadence
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "cloud":
		defaultDB = "postgres"
	case "local":
		defaultDB = "sqlite"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	allowedCache := map[string]bool{"memory": true, "redis": true}
	if !allowedCache[c.CacheDriver] {
		return fmt.Errorf("unsupported CACHE_DRIVER: %s", c.CacheDriver)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with INKWELL_
// Example: INKWELL_HTTP_PORT, INKWELL_WEBHOOK_SECRET
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("INKWELL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("cache_driver", cfg.CacheDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("webhook_secret_present", cfg.WebhookSecret != "").
		Bool("site_base_url_present", cfg.SiteBaseURL != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:        EnvTesting,
		BuildTarget:        "local",
		DBDriver:           "sqlite",
		SQLitePath:         ":memory:",
		CacheDriver:        "memory",
		HTTPPort:           8080,
		WebhookSecret:      "test-webhook-secret",
		AdminJWTSecret:     "test-admin-secret",
		SummaryRecentLimit: 5,

		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 2,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
