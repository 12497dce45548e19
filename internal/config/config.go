package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	JWTSecret string

	CORSOrigins string

	LogLevel  string
	LogPretty bool

	Locale string

	NotificationDedupEnabled bool
	NotificationDedupWindow  time.Duration

	WSSendBuffer   int
	WSPingInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getBoolEnv("LOG_PRETTY", false),

		Locale: getEnv("LOCALE", "en"),

		NotificationDedupEnabled: getBoolEnv("NOTIFICATION_DEDUP_ENABLED", false),
		NotificationDedupWindow:  getDurationEnv("NOTIFICATION_DEDUP_WINDOW", 0),

		WSSendBuffer:   getIntEnv("WS_SEND_BUFFER", 16),
		WSPingInterval: getDurationEnv("WS_PING_INTERVAL", 30*time.Second),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
