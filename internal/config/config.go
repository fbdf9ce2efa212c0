// Package config loads the service configuration from environment variables.
// Both binaries call godotenv.Load() first, so a local .env file works too.
package config

import (
	"os"
	"strconv"
)

// Config holds the settings shared by the dispatch and transcriber services.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Redis connection for the report store and pub/sub feed.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PostgresDSN for durable records (subscribers, transcripts).
	PostgresDSN string

	// Classification / speech oracle (any OpenAI-compatible endpoint).
	OracleAPIKey  string
	OracleBaseURL string
	OracleModel   string

	// TelegramBotToken enables the alert bot when set.
	TelegramBotToken string

	// SkipSeconds is the default amount of leading audio the transcriber trims.
	SkipSeconds int
}

// Load reads the configuration from the environment, applying defaults
// suitable for local development.
func Load() *Config {
	return &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvIntOrDefault("REDIS_DB", 0),
		PostgresDSN:      getEnvOrDefault("POSTGRES_DSN", "host=localhost user=user password=password dbname=dispatchdb port=5432 sslmode=disable"),
		OracleAPIKey:     os.Getenv("ORACLE_API_KEY"),
		OracleBaseURL:    getEnvOrDefault("ORACLE_BASE_URL", "https://api.groq.com/openai/v1"),
		OracleModel:      getEnvOrDefault("ORACLE_MODEL", "openai/gpt-oss-20b"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		SkipSeconds:      getEnvIntOrDefault("SKIP_SECONDS", 8),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
