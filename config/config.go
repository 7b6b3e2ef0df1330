// Package config loads runtime settings from environment variables (with an
// optional .env overlay) and event/notification enum sets from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the platform backend configuration
type Config struct {
	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (empty RedisAddr disables the stream transport)
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// Auth
	JWTSecret string

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Outbound platform services (empty URL selects the no-op client)
	ModerationServiceURL string

	// Enum config file (YAML)
	EnumConfigPath string
}

// Load builds a Config from environment variables with development defaults.
func Load() *Config {
	return &Config{
		Port:         GetEnv("PORT", "8080"),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),

		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBUser:     GetEnv("DB_USER", "user"),
		DBPassword: GetEnv("DB_PASSWORD", "password"),
		DBName:     GetEnv("DB_NAME", "pawfectmatch"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),

		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		RedisUsername: GetEnv("REDIS_USERNAME", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: GetEnv("JWT_SECRET", ""),

		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		ModerationServiceURL: GetEnv("MODERATION_SERVICE_URL", ""),

		EnumConfigPath: GetEnv("ENUM_CONFIG_PATH", ""),
	}
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return nil
}

// DSN builds the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// InstanceName identifies this backend instance in stream messages and
// consumer-group membership. Falls back to a fixed name when the hostname
// is unavailable.
func InstanceName() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return "platform-backend-instance"
	}
	return hostname
}

// GetEnv gets an environment variable with a fallback default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
