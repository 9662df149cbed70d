package config

import "testing"

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("http addr %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.RefreshSeconds != 900 {
		t.Errorf("refresh %d, want 900", cfg.RefreshSeconds)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LAUNCHSPOT_HTTP_ADDR", ":9099")
	t.Setenv("LAUNCHSPOT_LOG_LEVEL", "debug")
	t.Setenv("LAUNCHSPOT_CACHE_TTL_SECONDS", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPAddr != ":9099" {
		t.Errorf("http addr %q, want :9099", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level %q, want debug", cfg.LogLevel)
	}
	if cfg.CacheTTLSeconds != 60 {
		t.Errorf("cache ttl %d, want 60", cfg.CacheTTLSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"auth without token", func(c *Config) { c.AuthEnabled = true }, true},
		{"auth with token", func(c *Config) { c.AuthEnabled = true; c.AuthToken = "x" }, false},
		{"refresh too fast", func(c *Config) { c.RefreshSeconds = 5 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"zero rate", func(c *Config) { c.CatalogRequestsPerHour = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
