package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Repository configuration
	RepositoryDriver string // "dynamodb" or "memory"
	AWSRegion        string
	DynamoDBTable    string
	BoardID          string

	// Persistence write coalescing
	FlushDebounce time.Duration

	// AI configuration defaults (overridable via settings endpoint/file)
	AIAPIKey         string
	AIModel          string
	AIBaseURL        string
	SettingsFile     string
	ImageServiceBase string

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableCORS    bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		RepositoryDriver: getEnv("REPOSITORY", "dynamodb"),
		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:    getEnv("TABLE_NAME", "tripboard"),
		BoardID:          getEnv("BOARD_ID", "default"),

		FlushDebounce: getEnvDuration("FLUSH_DEBOUNCE", time.Second),

		AIAPIKey:         getEnv("AI_API_KEY", ""),
		AIModel:          getEnv("AI_MODEL", ""),
		AIBaseURL:        getEnv("AI_BASE_URL", ""),
		SettingsFile:     getEnv("SETTINGS_FILE", ""),
		ImageServiceBase: getEnv("IMAGE_SERVICE_BASE", "https://image.pollinations.ai/prompt"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
