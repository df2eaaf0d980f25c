package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultOwner is the account enumerated when no --owner flag is given
const DefaultOwner = "kurihiro0119"

// DefaultOutput is the manifest path used when no --out flag is given
const DefaultOutput = "projects.json"

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken  string
	GitHubAPIURL string // empty means the public API
	GitHubWebURL string

	// Logging
	LogLevel string

	// Storage
	StorageType string // "none", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort       string
	APIHost       string
	ManifestPath  string
	ManifestOwner string // owner the manifest file is served for

	// Client
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		GitHubToken:   getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:  getEnv("GITHUB_API_URL", ""),
		GitHubWebURL:  strings.TrimSuffix(getEnv("GITHUB_WEB_URL", "https://github.com"), "/"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		StorageType:   getEnv("STORAGE_TYPE", "none"),
		SQLitePath:    getEnv("SQLITE_PATH", "./manifest.db"),
		PostgresURL:   getEnv("POSTGRES_URL", ""),
		APIPort:       getEnv("API_PORT", "8080"),
		APIHost:       getEnv("API_HOST", "localhost"),
		ManifestPath:  getEnv("MANIFEST_PATH", DefaultOutput),
		ManifestOwner: getEnv("MANIFEST_OWNER", DefaultOwner),
		APIEndpoint:   getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate validates the configuration.
// A missing GitHub token is allowed; requests are then sent unauthenticated.
func (c *Config) Validate() error {
	switch c.StorageType {
	case "none", "sqlite", "postgres":
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'none', 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ConfigError{Field: "LOG_LEVEL", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}

// HasStorage reports whether generated projects are mirrored into a database
func (c *Config) HasStorage() bool {
	return c.StorageType == "sqlite" || c.StorageType == "postgres"
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
