package config

import (
	"os"
	"strconv"
	"time"
)

// Database holds the PostgreSQL connection settings.
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Config is the process configuration, read from the environment.
type Config struct {
	Database Database

	// HTTPAddr is the listen address of the admin/query server.
	HTTPAddr string

	// SyncInterval is how often the scheduler triggers a full sync.
	SyncInterval time.Duration

	// SyncTimeout bounds one repository's sync attempt; zero disables.
	SyncTimeout time.Duration

	// SyncWorkers bounds how many repositories sync in parallel.
	SyncWorkers int

	// StrictAuthorResolution disables the email-based identity merge.
	StrictAuthorResolution bool
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		Database: Database{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "commit_tracker"),
		},
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		SyncInterval:           getDuration("SYNC_INTERVAL", 300*time.Second),
		SyncTimeout:            getDuration("SYNC_TIMEOUT", 10*time.Minute),
		SyncWorkers:            getInt("SYNC_WORKERS", 4),
		StrictAuthorResolution: getBool("STRICT_AUTHOR_RESOLUTION", false),
	}
}

// getEnv fetches an environment variable with a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		// Bare numbers are seconds, matching the original scheduler knob.
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
