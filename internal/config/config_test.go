package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.LLMModel != "gpt-4o" {
		t.Errorf("LLMModel = %s, want gpt-4o", cfg.LLMModel)
	}
	if cfg.MaxTurns != 8 {
		t.Errorf("MaxTurns = %d, want 8", cfg.MaxTurns)
	}
	if cfg.RouterMode != "structural" {
		t.Errorf("RouterMode = %s, want structural", cfg.RouterMode)
	}
	if cfg.SchemaCacheTTL != 5*time.Minute {
		t.Errorf("SchemaCacheTTL = %v, want 5m", cfg.SchemaCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ROUTER_MODE", "model")
	t.Setenv("MAX_TURNS", "3")
	t.Setenv("LLM_TEMPERATURE", "0.7")

	cfg := Load()
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d, want 9090", cfg.HTTPPort)
	}
	if cfg.RouterMode != "model" {
		t.Errorf("RouterMode = %s, want model", cfg.RouterMode)
	}
	if cfg.MaxTurns != 3 {
		t.Errorf("MaxTurns = %d, want 3", cfg.MaxTurns)
	}
	if cfg.LLMTemperature != 0.7 {
		t.Errorf("LLMTemperature = %v, want 0.7", cfg.LLMTemperature)
	}
}

func TestLoadEmptyDatabaseURLDisablesAudit(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if cfg := Load(); cfg.DatabaseURL != "" {
		t.Errorf("DATABASE_URL= should yield an empty DatabaseURL, got %q", cfg.DatabaseURL)
	}

	t.Setenv("DATABASE_URL", "file:custom.db")
	if cfg := Load(); cfg.DatabaseURL != "file:custom.db" {
		t.Errorf("DATABASE_URL override lost, got %q", cfg.DatabaseURL)
	}
}

func TestLoadBadInt(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	if cfg := Load(); cfg.HTTPPort != 8080 {
		t.Errorf("malformed value should fall back to default, got %d", cfg.HTTPPort)
	}
}
