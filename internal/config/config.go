package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"listing-range-api/internal/model"
)

type Config struct {
	Database  DatabaseConfig
	APIPort   string
	LogLevel  string
	CacheTTLs map[model.Kind]time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "listingops"),
			User:     getEnv("DB_USER", "listingops"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		APIPort:  getEnv("API_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Vehicle taxonomies barely move; device catalogs churn with
		// every launch cycle.
		CacheTTLs: map[model.Kind]time.Duration{
			model.KindVehicles:   getEnvHours("CACHE_TTL_VEHICLES_HOURS", 240),
			model.KindCellphones: getEnvHours("CACHE_TTL_CELLPHONES_HOURS", 72),
			model.KindTablets:    getEnvHours("CACHE_TTL_TABLETS_HOURS", 72),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvHours(key string, defaultHours int) time.Duration {
	return time.Duration(getEnvInt(key, defaultHours)) * time.Hour
}
