// Package config loads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// Neo4j (alternative embedding store backend)
	Neo4jURL      string
	Neo4jUsername string
	Neo4jPassword string

	// Embedding store backend: pgvector or neo4j
	EmbeddingBackend string

	// OpenAI
	OpenAIAPIKey   string
	LLMModel       string
	EmbeddingModel string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMMaxRetries  int

	// Cache
	ProfileCacheTTL time.Duration

	// Batch
	BatchWorkers int

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		Neo4jURL:      getEnv("NEO4J_URL", ""),
		Neo4jUsername: getEnv("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),

		EmbeddingBackend: getEnv("EMBEDDING_BACKEND", "pgvector"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4"),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 400),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.1),
		LLMMaxRetries:  getEnvInt("LLM_MAX_RETRIES", 5),

		ProfileCacheTTL: time.Duration(getEnvInt("PROFILE_CACHE_TTL_MIN", 15)) * time.Minute,

		BatchWorkers: getEnvInt("BATCH_WORKERS", 4),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
