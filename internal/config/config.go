package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"conflictdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Server    ServerConfig
	Dashboard DashboardConfig
	Log       LogConfig
}

// DataConfig holds dataset settings
type DataConfig struct {
	File        string
	CountryName string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// DashboardConfig holds the defaults of the user-adjustable controls
type DashboardConfig struct {
	EventsThreshold     int
	FatalitiesThreshold int
	TopN                int
	LowessFraction      float64
	HierarchyEpsilon    float64
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:      *loadDataConfig(),
		Server:    *loadServerConfig(),
		Dashboard: *loadDashboardConfig(),
		Log:       LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:        getEnvOrDefault("DATA_FILE", "cleaned_dataset.csv"),
		CountryName: getEnvOrDefault("COUNTRY_NAME", "Sri Lanka"),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		EventsThreshold:     getEnvIntOrDefault("ALERT_EVENTS_THRESHOLD", 30),
		FatalitiesThreshold: getEnvIntOrDefault("ALERT_FATALITIES_THRESHOLD", 10),
		TopN:                getEnvIntOrDefault("TOP_N", 5),
		LowessFraction:      getEnvFloatOrDefault("LOWESS_FRACTION", 0.6667),
		HierarchyEpsilon:    getEnvFloatOrDefault("HIERARCHY_EPSILON", 0.01),
	}
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	d := config.Dashboard
	if d.EventsThreshold < 0 || d.FatalitiesThreshold < 0 {
		return errors.ConfigInvalid("alert thresholds must be non-negative")
	}
	if d.TopN < 0 {
		return errors.ConfigInvalid("TOP_N must be non-negative")
	}
	if d.LowessFraction <= 0 || d.LowessFraction > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("LOWESS_FRACTION must be in (0, 1], got %g", d.LowessFraction))
	}
	if d.HierarchyEpsilon <= 0 {
		return errors.ConfigInvalid("HIERARCHY_EPSILON must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
