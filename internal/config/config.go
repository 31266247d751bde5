// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything cmd/server needs to wire the service.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string

	// KafkaBrokers enables the event publisher when non-empty.
	KafkaBrokers []string

	// DatabaseURL enables the Postgres operation archive when non-empty.
	DatabaseURL string

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

// Load reads .env (if present) and then the process environment. Every
// setting has a default, so Load never fails on missing values.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        ":" + envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
