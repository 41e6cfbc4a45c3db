package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL         string
	HTTPPort       string
	RedisAddr      string
	JWTSecret      string
	CookieSecure   bool
	LogLevel       slog.Level
	CacheTTL       time.Duration
	RequestTimeout time.Duration

	QueryRetries int
	RetryDelay   time.Duration

	RateLimitMax    int
	RateLimitWindow time.Duration

	LogsPollInterval      time.Duration
	DashboardPollInterval time.Duration

	BreakerThreshold int
	BreakerTimeout   time.Duration
}

// APIBase is the versioned root every backend path is resolved against.
func (c *Config) APIBase() string {
	return strings.TrimRight(c.APIURL, "/") + "/api/v1"
}

func NewConfig() *Config {
	return &Config{
		APIURL:                "http://localhost:8000",
		HTTPPort:              "8080",
		RedisAddr:             "localhost:6379",
		LogLevel:              slog.LevelInfo,
		CacheTTL:              15 * time.Second,
		RequestTimeout:        10 * time.Second,
		QueryRetries:          1,
		RetryDelay:            500 * time.Millisecond,
		RateLimitMax:          10,
		RateLimitWindow:       60 * time.Second,
		LogsPollInterval:      5 * time.Second,
		DashboardPollInterval: 30 * time.Second,
		BreakerThreshold:      3,
		BreakerTimeout:        10 * time.Second,
	}
}

// Load reads .env (if present) and the process environment on top of the defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := NewConfig()
	cfg.APIURL = getEnv("API_URL", cfg.APIURL)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	var err error
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return nil, err
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CACHE_TTL", &cfg.CacheTTL},
		{"REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"RETRY_DELAY", &cfg.RetryDelay},
		{"RATE_LIMIT_WINDOW", &cfg.RateLimitWindow},
		{"LOGS_POLL_INTERVAL", &cfg.LogsPollInterval},
		{"DASHBOARD_POLL_INTERVAL", &cfg.DashboardPollInterval},
		{"BREAKER_TIMEOUT", &cfg.BreakerTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, *d.dst); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"QUERY_RETRIES", &cfg.QueryRetries},
		{"RATE_LIMIT_MAX", &cfg.RateLimitMax},
		{"BREAKER_THRESHOLD", &cfg.BreakerThreshold},
	}
	for _, i := range ints {
		if *i.dst, err = getInt(i.key, *i.dst); err != nil {
			return nil, err
		}
	}

	if cfg.QueryRetries < 0 {
		return nil, fmt.Errorf("QUERY_RETRIES must not be negative, got %d", cfg.QueryRetries)
	}
	for _, d := range durations {
		if d.key != "RETRY_DELAY" && *d.dst <= 0 {
			return nil, fmt.Errorf("%s must be positive, got %s", d.key, *d.dst)
		}
	}
	if cfg.RateLimitMax < 1 || cfg.BreakerThreshold < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_MAX and BREAKER_THRESHOLD must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
