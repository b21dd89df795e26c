// Package config loads runtime settings from EVENTRA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Favorites backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// EnvProduction disables debug surfaces and requires a CSRF key.
const EnvProduction = "production"

// ErrMissingCSRFKey is returned in production when EVENTRA_CSRF_KEY is unset.
var ErrMissingCSRFKey = errors.New("EVENTRA_CSRF_KEY must be set in production")

// Config is every runtime setting.
type Config struct {
	Addr         string
	Env          string
	APIBaseURL   string
	APITimeout   time.Duration
	DBPath       string
	CSRFKey      string
	AdminContact string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTL         time.Duration
	FavoritesBackend string

	AMQPURL        string
	ResendKey      string
	ResendFrom     string
	OutboxInterval time.Duration

	SlowRequest  time.Duration
	SlowQuery    time.Duration
	SlowUpstream time.Duration

	LogLevel  slog.Level
	LogFormat string
	RateLimit int // requests per minute per client IP
}

// IsProduction reports whether debug surfaces must be hidden.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// LoadDotEnv loads path into the environment when it exists. Variables
// already set take precedence.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads Config from the environment.
// POST: every duration is positive; FavoritesBackend is one of the Backend constants
func Load() (Config, error) {
	c := Config{
		Addr:         envOrDefault("EVENTRA_ADDR", ":8080"),
		Env:          envOrDefault("EVENTRA_ENV", "development"),
		APIBaseURL:   strings.TrimRight(envOrDefault("EVENTRA_API_BASE_URL", "http://localhost:5000/api"), "/"),
		APITimeout:   durationOrDefault("EVENTRA_API_TIMEOUT", 10*time.Second),
		DBPath:       envOrDefault("EVENTRA_DB_PATH", "eventra.db"),
		CSRFKey:      os.Getenv("EVENTRA_CSRF_KEY"),
		AdminContact: envOrDefault("EVENTRA_ADMIN_WHATSAPP", "+971500000000"),

		RedisAddr:        os.Getenv("EVENTRA_REDIS_ADDR"),
		RedisPassword:    os.Getenv("EVENTRA_REDIS_PASSWORD"),
		RedisDB:          intOrDefault("EVENTRA_REDIS_DB", 0),
		CacheTTL:         durationOrDefault("EVENTRA_CACHE_TTL", 30*time.Second),
		FavoritesBackend: strings.ToLower(envOrDefault("EVENTRA_FAVORITES_BACKEND", BackendSQLite)),

		AMQPURL:        os.Getenv("EVENTRA_AMQP_URL"),
		ResendKey:      os.Getenv("EVENTRA_RESEND_KEY"),
		ResendFrom:     envOrDefault("EVENTRA_RESEND_FROM", "Eventra <bookings@eventra.app>"),
		OutboxInterval: durationOrDefault("EVENTRA_OUTBOX_INTERVAL", time.Minute),

		SlowRequest:  millisOrDefault("EVENTRA_SLOW_REQUEST_MS", 500),
		SlowQuery:    millisOrDefault("EVENTRA_SLOW_QUERY_MS", 50),
		SlowUpstream: millisOrDefault("EVENTRA_SLOW_UPSTREAM_MS", 500),

		LogLevel:  levelOrDefault("EVENTRA_LOG_LEVEL", slog.LevelInfo),
		LogFormat: strings.ToLower(envOrDefault("EVENTRA_LOG_FORMAT", "text")),
		RateLimit: intOrDefault("EVENTRA_RATE_LIMIT", 120),
	}

	switch c.FavoritesBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return Config{}, fmt.Errorf("favorites backend %q needs EVENTRA_REDIS_ADDR", c.FavoritesBackend)
		}
	default:
		return Config{}, fmt.Errorf("unknown favorites backend %q", c.FavoritesBackend)
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return Config{}, ErrMissingCSRFKey
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOrDefault(key string, fallback int) int {
	v, err := strconv.Atoi(envOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// durationOrDefault accepts Go durations ("30s") and bare seconds ("30").
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := envOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	slog.Warn("config_invalid_duration", "key", key, "value", raw)
	return fallback
}

func millisOrDefault(key string, fallbackMs int) time.Duration {
	ms := intOrDefault(key, fallbackMs)
	if ms <= 0 {
		ms = fallbackMs
	}
	return time.Duration(ms) * time.Millisecond
}

func levelOrDefault(key string, fallback slog.Level) slog.Level {
	raw := envOrDefault(key, "")
	if raw == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return l
}
