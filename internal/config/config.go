// Package config loads and validates the service configuration: struct
// defaults overridden by LAUNCHSPOT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces all environment overrides.
const EnvPrefix = "LAUNCHSPOT_"

// Config is the full service configuration.
type Config struct {
	HTTPAddr   string `koanf:"http_addr"`
	LogLevel   string `koanf:"log_level"`
	TrustProxy bool   `koanf:"trust_proxy"`

	AuthEnabled bool   `koanf:"auth_enabled"`
	AuthToken   string `koanf:"auth_token"`

	CatalogURL             string `koanf:"catalog_url"`
	CatalogRequestsPerHour int    `koanf:"catalog_requests_per_hour"`
	RefreshSeconds         int    `koanf:"refresh_seconds"`
	SnapshotDir            string `koanf:"snapshot_dir"`
	SnapshotMaxFiles       int    `koanf:"snapshot_max_files"`

	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	SolarPrimaryURL   string `koanf:"solar_primary_url"`
	SolarSecondaryURL string `koanf:"solar_secondary_url"`

	// TelemetryURL enables the telemetry supplier when non-empty.
	TelemetryURL string `koanf:"telemetry_url"`
}

func defaults() Config {
	return Config{
		HTTPAddr:               ":8080",
		LogLevel:               "info",
		CatalogRequestsPerHour: 12,
		RefreshSeconds:         900,
		SnapshotDir:            "/tmp/launchspot/catalog",
		SnapshotMaxFiles:       5,
		CacheTTLSeconds:        1800,
	}
}

// Load builds the configuration from defaults plus environment overrides,
// e.g. LAUNCHSPOT_HTTP_ADDR or LAUNCHSPOT_AUTH_TOKEN.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the service assumes.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("http_addr must not be empty")
	}
	if c.AuthEnabled && c.AuthToken == "" {
		return errors.New("auth_token is required when auth is enabled")
	}
	if c.CatalogRequestsPerHour < 1 {
		return errors.New("catalog_requests_per_hour must be positive")
	}
	if c.RefreshSeconds < 60 {
		return errors.New("refresh_seconds must be at least 60")
	}
	if c.SnapshotMaxFiles < 1 {
		return errors.New("snapshot_max_files must be positive")
	}
	if c.CacheTTLSeconds < 1 {
		return errors.New("cache_ttl_seconds must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return nil
}
