package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DataDir                     string
	LogLevel                    string
	OverdueCheckIntervalMinutes int
	SearchCacheTTLSeconds       int
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	overdueInterval, err := strconv.Atoi(getEnv("OVERDUE_CHECK_INTERVAL_MINUTES", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERDUE_CHECK_INTERVAL_MINUTES: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("SEARCH_CACHE_TTL_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEARCH_CACHE_TTL_SECONDS: %w", err)
	}

	return &Config{
		DataDir:                     getEnv("RENTAL_DATA_DIR", "data"),
		LogLevel:                    getEnv("LOG_LEVEL", "info"),
		OverdueCheckIntervalMinutes: overdueInterval,
		SearchCacheTTLSeconds:       cacheTTL,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
