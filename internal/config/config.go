package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config is the application configuration, loaded from environment variables.
// Connection parameters follow the population-utility contract: host, user,
// password and database name come from the environment.
type Config struct {
	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_ssl_mode"`
	SQLitePath string `json:"sqlite_path"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Seeding configuration
	SeedSize int `json:"seed_size"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{DBDriver: %s, DBHost: %s, DBPort: %s, DBUser: %s, DBPassword: [REDACTED], DBName: %s, DBSSLMode: %s, SQLitePath: %s, LogLevel: %s, SeedSize: %d}",
		c.DBDriver, c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBSSLMode, c.SQLitePath, c.LogLevel, c.SeedSize)
}

// LoadConfig reads the configuration from environment variables and returns
// a Config struct. Returns an error if a variable holds an unusable value.
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")

	seedSize, err := strconv.Atoi(GetEnvWithDefault("SEED_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_SIZE: %w", err)
	}
	if seedSize < 1 {
		return nil, fmt.Errorf("SEED_SIZE must be positive, got %d", seedSize)
	}

	config := &Config{
		DBDriver:   GetEnvWithDefault("DB_DRIVER", "postgres"),
		DBHost:     GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:     GetEnvWithDefault("DB_PORT", "5432"),
		DBUser:     GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword: GetEnvWithDefault("DB_PASSWORD", ""),
		DBName:     GetEnvWithDefault("DB_NAME", "ocpizza"),
		DBSSLMode:  GetEnvWithDefault("DB_SSLMODE", "disable"),
		SQLitePath: GetEnvWithDefault("SQLITE_PATH", "ocpizza.sqlite"),
		LogLevel:   GetEnvWithDefault("LOG_LEVEL", "info"),
		SeedSize:   seedSize,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Warnf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the
// specified type using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
