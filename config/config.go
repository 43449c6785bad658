package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration loaded from the environment.
type Config struct {
	DatabaseURL string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	GeminiAPIKey string

	// AnalysisDays is the minimum days-in-stock for a product to count as
	// slow moving. LowSalesThreshold is a percent and only labels the
	// report; the two values are configured independently.
	AnalysisDays          int
	LowSalesThreshold     int
	AnalysisIntervalHours int

	Port string
}

// Load reads the configuration from environment variables, applying
// defaults where a setting is absent.
func Load() Config {
	cfg := Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MongoURI:              getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:         getEnv("MONGODB_NAME", "promotion_history"),
		MongoCollection:       getEnv("COLLECTION_NAME", "ai_reports"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		AnalysisDays:          getEnvInt("ANALYSIS_DAYS", 30),
		LowSalesThreshold:     getEnvInt("LOW_SALES_THRESHOLD", 10),
		AnalysisIntervalHours: getEnvInt("ANALYSIS_INTERVAL_HOURS", 24),
		Port:                  getEnv("PORT", "3000"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDatabaseURL()
	}

	return cfg
}

// buildDatabaseURL assembles a pgx DSN from the discrete DB_* settings when
// DATABASE_URL is not provided.
func buildDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		os.Getenv("DB_DATABASE"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
