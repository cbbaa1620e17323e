package config

import (
	"testing"
	"time"
)

// clearEnv blanks every key Load reads so ambient environment cannot leak
// into assertions. Empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LISTEN_ADDR", "SERVER_PORT", "LOG_LEVEL",
		"SITE_ROOT", "SITE_INDEX", "STATIC_DIR",
		"ALLOWED_ORIGINS", "CORS_MAX_AGE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"RELOAD_ENABLED", "RELOAD_POLL_INTERVAL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, "8080")
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), ":8080")
	}
	if cfg.Site.Index != "index.html" {
		t.Errorf("Site.Index = %q, want %q", cfg.Site.Index, "index.html")
	}
	if cfg.Site.StaticDir != "static" {
		t.Errorf("Site.StaticDir = %q, want %q", cfg.Site.StaticDir, "static")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("CORS.AllowedOrigins = %v, want [*]", cfg.CORS.AllowedOrigins)
	}
	if cfg.Reload.Enabled {
		t.Error("Reload.Enabled = true, want false by default")
	}
	if cfg.Reload.PollInterval != time.Second {
		t.Errorf("Reload.PollInterval = %v, want 1s", cfg.Reload.PollInterval)
	}
	if cfg.RateLimit.RPS != 100 || cfg.RateLimit.Burst != 200 {
		t.Errorf("RateLimit = %v/%v, want 100/200", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LISTEN_ADDR", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SITE_ROOT", "/srv/site")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("RELOAD_ENABLED", "true")
	t.Setenv("RELOAD_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want %q", cfg.Addr(), "127.0.0.1:9000")
	}
	if cfg.Site.Root != "/srv/site" {
		t.Errorf("Site.Root = %q, want %q", cfg.Site.Root, "/srv/site")
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
	for i, origin := range want {
		if cfg.CORS.AllowedOrigins[i] != origin {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.CORS.AllowedOrigins[i], origin)
		}
	}
	if !cfg.Reload.Enabled {
		t.Error("Reload.Enabled = false, want true")
	}
	if cfg.Reload.PollInterval != 250*time.Millisecond {
		t.Errorf("Reload.PollInterval = %v, want 250ms", cfg.Reload.PollInterval)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative rps", key: "RATE_LIMIT_RPS", value: "-1"},
		{name: "zero burst", key: "RATE_LIMIT_BURST", value: "0"},
		{name: "negative poll interval", key: "RELOAD_POLL_INTERVAL", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() with %s=%s expected error, got nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("RELOAD_ENABLED", "not-a-bool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RateLimit.RPS != 100 {
		t.Errorf("RateLimit.RPS = %v, want fallback 100", cfg.RateLimit.RPS)
	}
	if cfg.Reload.Enabled {
		t.Error("Reload.Enabled = true, want fallback false")
	}
}
