// Package config loads runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	CORSOrigins []string
}

// Load reads configuration from the environment and performs minimal
// validation. JWT_SECRET is the only required variable.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DBPath:      fallback(os.Getenv("DB_PATH"), "./data/divvy.db"),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTTL:   durationFromEnv("ACCESS_TOKEN_TTL_MINUTES", time.Minute, 30),
		RefreshTTL:  durationFromEnv("REFRESH_TOKEN_TTL_HOURS", time.Hour, 24*7),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func durationFromEnv(key string, unit time.Duration, def int) time.Duration {
	if n, err := strconv.Atoi(fallback(os.Getenv(key), "")); err == nil && n > 0 {
		return time.Duration(n) * unit
	}
	return time.Duration(def) * unit
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
