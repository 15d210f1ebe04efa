package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("ASSISTANT_POLL_INTERVAL", "")
	t.Setenv("BUSINESS_UTC_OFFSET", "")
	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("expected memory session store by default, got %s", cfg.SessionStore)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS by default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.AssistantPollInterval != time.Second {
		t.Fatalf("expected 1s poll interval, got %s", cfg.AssistantPollInterval)
	}
	if cfg.BusinessUTCOffset != "-05:00" {
		t.Fatalf("expected Lima offset by default, got %s", cfg.BusinessUTCOffset)
	}
	if cfg.InventoryRange != "Inventario!A:C" {
		t.Fatalf("expected default inventory range, got %s", cfg.InventoryRange)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ASSISTANT_TIMEOUT", "90s")
	t.Setenv("ASSISTANT_PROVIDER", "GEMINI")
	t.Setenv("REDIS_TLS", "true")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("expected normalized session store, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitRPS)
	}
	if cfg.AssistantTimeout != 90*time.Second {
		t.Fatalf("expected assistant timeout override, got %s", cfg.AssistantTimeout)
	}
	if cfg.AssistantProvider != "gemini" {
		t.Fatalf("expected gemini provider, got %s", cfg.AssistantProvider)
	}
	if !cfg.RedisTLS {
		t.Fatalf("expected redis tls enabled")
	}
}

func TestAssistantConfigured(t *testing.T) {
	cfg := &Config{AssistantProvider: "openai", OpenAIAPIKey: "sk-test"}
	if cfg.AssistantConfigured() {
		t.Fatalf("openai without assistant id should not count as configured")
	}
	cfg.OpenAIAssistantID = "asst_123"
	if !cfg.AssistantConfigured() {
		t.Fatalf("expected openai configured")
	}
	cfg = &Config{AssistantProvider: "gemini", GeminiAPIKey: "key"}
	if !cfg.AssistantConfigured() {
		t.Fatalf("expected gemini configured")
	}
}
