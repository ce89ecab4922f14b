package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	SigningSecret string        // Required: HMAC secret for claims; the envelope key is derived from it
	AccessTTL     time.Duration // Access token validity window (default: 15m)

	RolesURL string // Optional: base URL of the user directory for role lookups on rotation

	RedisAddr     string        // Optional: Redis address; empty selects the in-memory store (dev only)
	RedisPassword string        // Optional: Redis AUTH password
	RedisDB       int           // Optional: Redis logical database (default: 0)
	StoreTimeout  time.Duration // Per-operation store timeout (default: 2s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// ErrMissingSecret reports an absent AUTH_SIGNING_SECRET. There is no
// sensible default for it; every token would verify against a well-known
// value.
var ErrMissingSecret = errors.New("AUTH_SIGNING_SECRET must be set")

func LoadConfig() (Config, error) {
	cfg := Config{
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("AUTH_ACCESS_TTL", 15*time.Minute),

		RolesURL: os.Getenv("AUTH_ROLES_URL"),

		RedisAddr:     os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),
		StoreTimeout:  getEnvDurationOrDefault("STORE_TIMEOUT", 2*time.Second),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.SigningSecret == "" {
		return Config{}, ErrMissingSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept duration syntax (e.g. "15m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept bare integer seconds for deployments that configure raw numbers
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
