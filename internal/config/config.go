package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port   string
	DBPath string

	// Trained artifact paths shared by the trainer and the server
	ModelPath  string
	LabelsPath string
	SchemaPath string

	// Long-format survey data collected in the field
	TrainingDataPath string

	// Admin auth
	JWTSecret   string
	AdminAPIKey string
	TokenTTL    time.Duration

	// Per-IP rate limit on the predict endpoint
	RateLimit       int
	RateLimitWindow time.Duration
}

// Load reads configuration from the environment, with .env support
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", ":8080"),
		DBPath:           getEnv("DB_PATH", "./data/positioning.db"),
		ModelPath:        getEnv("MODEL_PATH", "./artifacts/wifi_model.json"),
		LabelsPath:       getEnv("LABELS_PATH", "./artifacts/label_space.json"),
		SchemaPath:       getEnv("SCHEMA_PATH", "./artifacts/feature_list.csv"),
		TrainingDataPath: getEnv("TRAINING_DATA_PATH", "./data/wifi_training_data.csv"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AdminAPIKey:      getEnv("ADMIN_API_KEY", ""),
		TokenTTL:         getDurationEnv("TOKEN_TTL", 12*time.Hour),
		RateLimit:        getIntEnv("RATE_LIMIT", 120),
		RateLimitWindow:  getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
