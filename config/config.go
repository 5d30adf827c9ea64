package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"safestreet-service/risk"
)

// Config holds all configuration for the safestreet service
type Config struct {
	// Server configuration
	Port string

	// Report store configuration
	StoreFile string

	// Prediction configuration
	PredictThreshold int
	RecentLimit      int

	// Time zone used to stamp reports and evaluate "today". IANA name,
	// "UTC", or "Local".
	TimeZone string

	// RabbitMQ configuration
	RabbitMQHost       string
	RabbitMQPort       string
	RabbitMQUser       string
	RabbitMQPassword   string
	RabbitMQExchange   string
	RabbitMQRoutingKey string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables
func Load() *Config {
	config := &Config{
		// Server defaults
		Port: getEnv("PORT", "8080"),

		// Store defaults
		StoreFile: getEnv("STORE_FILE", "hazards.txt"),

		// Prediction defaults
		PredictThreshold: getIntEnv("PREDICT_THRESHOLD", risk.DefaultThreshold),
		RecentLimit:      getIntEnv("RECENT_LIMIT", 5),

		// Time defaults
		TimeZone: getEnv("TIME_ZONE", "Local"),

		// RabbitMQ defaults
		RabbitMQHost:       getEnv("AMQP_HOST", "localhost"),
		RabbitMQPort:       getEnv("AMQP_PORT", "5672"),
		RabbitMQUser:       getEnv("AMQP_USER", "guest"),
		RabbitMQPassword:   getEnv("AMQP_PASSWORD", "guest"),
		RabbitMQExchange:   getEnv("RABBITMQ_EXCHANGE", "hazard_exchange"),
		RabbitMQRoutingKey: getEnv("RABBITMQ_ROUTING_KEY", "hazard.raw"),

		// Logging defaults
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return config
}

// GetRabbitMQURL constructs the AMQP URL from individual components
func (c *Config) GetRabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", c.RabbitMQUser, c.RabbitMQPassword, c.RabbitMQHost, c.RabbitMQPort)
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
