// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// devJWTSecret is only accepted when ENVIRONMENT is development or test.
	devJWTSecret = "barnight-dev-secret"
)

// Config holds all application configuration
type Config struct {
	// HTTP server
	Port       int
	StaticPath string

	// Database configuration
	DBDriver    string // "sqlite" or "postgres"
	DBPath      string // sqlite file
	DatabaseURL string // postgres connection string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Audit trail
	AuditBuffer int

	// Environment
	Environment string // "development", "test" or "production"
}

// IsDevelopment reports whether the server runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "test"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	config := &Config{
		Port:          8080,
		StaticPath:    getenvDefault(getenv, "STATIC_PATH", "./static"),
		DBDriver:      getenvDefault(getenv, "DB_DRIVER", DriverSQLite),
		DBPath:        getenvDefault(getenv, "DB_PATH", "./data/barnight.db"),
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		TokenDuration: 24 * time.Hour,
		AuditBuffer:   100,
		Environment:   getenvDefault(getenv, "ENVIRONMENT", "development"),
	}

	if port := getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil || parsed <= 0 || parsed > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", port)
		}
		config.Port = parsed
	}
	if duration := getenv("TOKEN_DURATION"); duration != "" {
		parsed, err := time.ParseDuration(duration)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_DURATION %q", duration)
		}
		config.TokenDuration = parsed
	}
	if buffer := getenv("AUDIT_BUFFER"); buffer != "" {
		parsed, err := strconv.Atoi(buffer)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("invalid AUDIT_BUFFER %q", buffer)
		}
		config.AuditBuffer = parsed
	}

	switch config.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", config.DBDriver)
	}

	if config.JWTSecret == "" {
		if !config.IsDevelopment() {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
		config.JWTSecret = devJWTSecret
	}

	return config, nil
}

func getenvDefault(getenv func(string) string, key, fallback string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return fallback
}
