// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Auth) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Cookie SameSite deployment modes. "none" is required when the frontend is
// served from a different origin than the API; "lax" is the safer choice for
// same-origin deployments.
const (
	SameSiteModeNone = "none"
	SameSiteModeLax  = "lax"
)

// Rate-limit backing stores.
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// # Configuration Schema

// Config holds all runtime configuration for the Taskora API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for shared rate-limit counters.
	RedisURL string `env:"REDIS_URL,required"`

	// TokenSecret is the symmetric HMAC key used to sign bearer tokens.
	TokenSecret string `env:"TOKEN_SECRET,required"`

	// Token lifetimes. The access token is short-lived by design; the refresh
	// token defines the maximum session length.
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// Cookie transport settings.
	CookieSameSite string `env:"COOKIE_SAMESITE" envDefault:"none"`
	CookieDomain   string `env:"COOKIE_DOMAIN"`

	// TrustedOrigins is the CSRF/CORS allow-list for cross-origin browsers.
	TrustedOrigins []string `env:"TRUSTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// LegacyHeaderFallback additionally accepts 'Authorization: Bearer' when the
	// access cookie is absent. Temporary migration shim for pre-cookie clients;
	// delete once no client sends header credentials.
	LegacyHeaderFallback bool `env:"LEGACY_HEADER_FALLBACK" envDefault:"false"`

	// Rate limiting. AuthRateLimit guards credential endpoints (brute force);
	// DefaultRateLimit guards everything else. Both are per window per client.
	AuthRateLimit    int           `env:"AUTH_RATE_LIMIT"    envDefault:"5"`
	DefaultRateLimit int           `env:"DEFAULT_RATE_LIMIT" envDefault:"60"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW"  envDefault:"1m"`
	RateLimitStore   string        `env:"RATE_LIMIT_STORE"   envDefault:"memory"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// Fail fast on invalid enum-style settings rather than at first request.
	if cfg.CookieSameSite != SameSiteModeNone && cfg.CookieSameSite != SameSiteModeLax {
		return nil, fmt.Errorf("config: COOKIE_SAMESITE must be %q or %q, got %q",
			SameSiteModeNone, SameSiteModeLax, cfg.CookieSameSite)
	}

	if cfg.RateLimitStore != RateLimitStoreMemory && cfg.RateLimitStore != RateLimitStoreRedis {
		return nil, fmt.Errorf("config: RATE_LIMIT_STORE must be %q or %q, got %q",
			RateLimitStoreMemory, RateLimitStoreRedis, cfg.RateLimitStore)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
