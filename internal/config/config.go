// Package config provides configuration for the concierge service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// LLM settings
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float64
	LLMTimeout     time.Duration
	MaxTurns       int

	// Card-metadata search API
	ScryfallBaseURL string
	SearchTimeout   time.Duration

	// Collection backend
	CollectionBaseURL string
	SchemaPath        string
	TokenPath         string
	SchemaCacheTTL    time.Duration
	BackendTimeout    time.Duration

	// Phase routing: "structural" inspects history, "model" asks the LLM.
	RouterMode string

	// History bounds
	HistoryTextTurns int

	// Audit trail database. Empty disables auditing.
	DatabaseURL string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModel:          getEnv("LLM_MODEL", "gpt-4o"),
		LLMTemperature:    getEnvFloat("LLM_TEMPERATURE", 0.2),
		LLMTimeout:        time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxTurns:          getEnvInt("MAX_TURNS", 8),
		ScryfallBaseURL:   getEnv("SCRYFALL_BASE_URL", "https://api.scryfall.com"),
		SearchTimeout:     time.Duration(getEnvInt("SEARCH_TIMEOUT_MS", 15000)) * time.Millisecond,
		CollectionBaseURL: getEnv("COLLECTION_BASE_URL", "http://localhost:9000"),
		SchemaPath:        getEnv("COLLECTION_SCHEMA_PATH", "/openapi.json"),
		TokenPath:         getEnv("COLLECTION_TOKEN_PATH", "/auth/token"),
		SchemaCacheTTL:    time.Duration(getEnvInt("SCHEMA_CACHE_TTL_MS", 300000)) * time.Millisecond,
		BackendTimeout:    time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		RouterMode:        getEnv("ROUTER_MODE", "structural"),
		HistoryTextTurns:  getEnvInt("HISTORY_TEXT_TURNS", 4),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	// DATABASE_URL= (explicitly empty) disables the audit trail, so unset and
	// empty must be told apart here.
	if val, ok := os.LookupEnv("DATABASE_URL"); ok {
		cfg.DatabaseURL = val
	} else {
		cfg.DatabaseURL = "file:deckhand.db?cache=shared&mode=rwc"
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
