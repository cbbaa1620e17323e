package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores server runtime configuration.
type Config struct {
	ListenAddr string
	ServerPort string
	LogLevel   string

	Server    ServerConfig
	Site      SiteConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Reload    ReloadConfig
}

// ServerConfig holds HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// SiteConfig locates the content served by the process.
type SiteConfig struct {
	// Root is the document root containing the entry document.
	Root string
	// Index is the entry document name inside Root.
	Index string
	// StaticDir is the assets tree served under /static/.
	StaticDir string
}

// CORSConfig controls cross-origin response headers.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

// RateLimitConfig controls global and per-client limits.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ReloadConfig controls the development live-reload endpoint.
type ReloadConfig struct {
	Enabled      bool
	PollInterval time.Duration
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ""),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Server: ServerConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 20 * time.Second,
		},
		Site: SiteConfig{
			Root:      getEnv("SITE_ROOT", "."),
			Index:     getEnv("SITE_INDEX", "index.html"),
			StaticDir: getEnv("STATIC_DIR", "static"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
			MaxAge:         getEnvDuration("CORS_MAX_AGE", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 100),
			Burst: getEnvInt("RATE_LIMIT_BURST", 200),
		},
		Reload: ReloadConfig{
			Enabled:      getEnvBool("RELOAD_ENABLED", false),
			PollInterval: getEnvDuration("RELOAD_POLL_INTERVAL", time.Second),
		},
	}

	if cfg.Site.Root == "" {
		return nil, fmt.Errorf("SITE_ROOT must not be empty")
	}
	if cfg.Site.Index == "" {
		return nil, fmt.Errorf("SITE_INDEX must not be empty")
	}
	if cfg.Site.StaticDir == "" {
		return nil, fmt.Errorf("STATIC_DIR must not be empty")
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		return nil, fmt.Errorf("ALLOWED_ORIGINS must name at least one origin or *")
	}

	if cfg.RateLimit.RPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	if cfg.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}

	if cfg.Reload.PollInterval <= 0 {
		return nil, fmt.Errorf("RELOAD_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

// Addr returns the listen address for net/http.
func (c *Config) Addr() string {
	return c.ListenAddr + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
