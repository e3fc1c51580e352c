// Package config handles application configuration: process settings
// from environment variables, and the layered site configuration that
// merges content-authored overrides, a static defaults file, and
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Valkey (Redis-compatible cache); empty host means in-memory cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Upstream content API
	NotionPageID     string // site document id(s), comma-separated, optionally locale-prefixed
	NotionToken      string
	NotionActiveUser string

	// Cache TTL for record maps.
	CacheTTL time.Duration

	// Optional YAML file of static site-config defaults.
	SiteDefaultsFile string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	ttlSeconds, err := strconv.Atoi(envOrDefault("CACHE_TTL_SECONDS", "300"))
	if err != nil || ttlSeconds < 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be a non-negative integer")
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		NotionPageID:     os.Getenv("NOTION_PAGE_ID"),
		NotionToken:      os.Getenv("NOTION_TOKEN_V2"),
		NotionActiveUser: os.Getenv("NOTION_ACTIVE_USER"),

		CacheTTL:         time.Duration(ttlSeconds) * time.Second,
		SiteDefaultsFile: os.Getenv("SITE_CONFIG_FILE"),
	}

	if cfg.Env == "production" && cfg.NotionPageID == "" {
		return nil, fmt.Errorf("NOTION_PAGE_ID must be set in production")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
