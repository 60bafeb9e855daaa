package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Required: issuer claim for tokens

	Algorithm  string        // Optional: JWT signing algorithm (EdDSA, ES256) (default: EdDSA)
	KeyID      string        // Optional: kid carried in token headers and JWKS (default: accountd-key-001)
	KeyFile    string        // Optional: path to a PKCS#8 PEM signing key; empty means ephemeral keys
	PepperFile string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./accountd.db)
	DatabaseDSN    string // Required for postgres: connection string

	// Bootstrap credentials for the first superuser. All three must be
	// set; applied only when the user table is empty.
	BootstrapEmail    string
	BootstrapUsername string
	BootstrapPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("ACCOUNTD_ISSUER", "accountd"),
		Algorithm:  getEnvOrDefault("ACCOUNTD_ALGORITHM", "EdDSA"),
		KeyID:      getEnvOrDefault("ACCOUNTD_KEY_ID", "accountd-key-001"),
		KeyFile:    os.Getenv("ACCOUNTD_KEY_FILE"),
		PepperFile: getEnvOrDefault("ACCOUNTD_PEPPER_FILE", "pepper"),
		AccessTTL:  getEnvDurationOrDefault("ACCOUNTD_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("ACCOUNTD_REFRESH_TTL", 7*24*time.Hour),

		DatabaseDriver: getEnvOrDefault("ACCOUNTD_DATABASE_DRIVER", "sqlite"),
		DatabaseFile:   getEnvOrDefault("ACCOUNTD_DATABASE_FILE", "accountd.db"),
		DatabaseDSN:    os.Getenv("ACCOUNTD_DATABASE_DSN"),

		BootstrapEmail:    os.Getenv("ACCOUNTD_BOOTSTRAP_EMAIL"),
		BootstrapUsername: os.Getenv("ACCOUNTD_BOOTSTRAP_USERNAME"),
		BootstrapPassword: os.Getenv("ACCOUNTD_BOOTSTRAP_PASSWORD"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
