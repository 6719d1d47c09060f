package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port     string
	LogLevel string

	// Upload handling
	MaxUploadSizeBytes int64
	ResultCacheTTL     time.Duration

	// Statement layout override (YAML). Empty means the embedded default.
	StatementLayoutPath string

	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// HTTP server timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

const defaultMaxUploadSizeBytes = 10 * 1024 * 1024

// LoadConfig loads configuration from environment variables or a .env file.
func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	Cfg = Load()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, MaxUpload=%d, CacheTTL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.MaxUploadSizeBytes, Cfg.ResultCacheTTL)
}

// Load builds an AppConfig from the current environment without touching Cfg.
func Load() *AppConfig {
	maxUpload := getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", defaultMaxUploadSizeBytes)
	if maxUpload <= 0 {
		log.Printf("WARNING: MAX_UPLOAD_SIZE_BYTES must be positive, using default %d", int64(defaultMaxUploadSizeBytes))
		maxUpload = defaultMaxUploadSizeBytes
	}

	return &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MaxUploadSizeBytes: maxUpload,
		ResultCacheTTL:     getEnvAsDuration("RESULT_CACHE_TTL", 15*time.Minute),

		StatementLayoutPath: getEnv("STATEMENT_LAYOUT_PATH", ""),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 30),

		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid positive number for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid positive duration for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
