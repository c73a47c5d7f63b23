package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.SessionMaxMessages != 1000 {
		t.Fatalf("SessionMaxMessages = %d, want 1000", cfg.SessionMaxMessages)
	}
	if cfg.PersistentMaxMessages() != 2000 {
		t.Fatalf("PersistentMaxMessages() = %d, want 2000", cfg.PersistentMaxMessages())
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if cfg.LLMAdapterMode != "auto" {
		t.Fatalf("LLMAdapterMode = %q, want %q", cfg.LLMAdapterMode, "auto")
	}
	if cfg.LLMModel != "mistralai/mistral-7b-instruct" {
		t.Fatalf("LLMModel = %q, want default free model", cfg.LLMModel)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("SESSION_TTL", "5s")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject SESSION_TTL below 1m")
	}

	setCoreEnvEmpty(t)
	t.Setenv("LLM_TEMPERATURE", "3.5")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject LLM_TEMPERATURE above 2")
	}

	setCoreEnvEmpty(t)
	t.Setenv("SESSION_MAX_MESSAGES", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject non-numeric SESSION_MAX_MESSAGES")
	}
}

func TestLoadUsesExplicitOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9191")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("MEMORY_FILE", "/tmp/mem.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != ":9191" {
		t.Fatalf("BindAddr = %q, want explicit value", cfg.BindAddr)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Fatalf("LLMTimeout = %v, want 45s", cfg.LLMTimeout)
	}
	if cfg.MemoryFile != "/tmp/mem.json" {
		t.Fatalf("MemoryFile = %q, want explicit value", cfg.MemoryFile)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"SESSION_MAX_MESSAGES",
		"SESSION_TTL",
		"CONTEXT_MESSAGES",
		"MEMORY_FILE",
		"DATABASE_URL",
		"OPENROUTER_API_KEY",
		"OPENROUTER_BASE_URL",
		"LLM_MODEL",
		"LLM_BACKUP_MODEL",
		"LLM_TIMEOUT",
		"LLM_MAX_TOKENS",
		"LLM_TEMPERATURE",
		"LLM_ADAPTER_MODE",
		"APIFY_API_TOKEN",
		"APIFY_ACTOR",
		"SCRAPER_MODE",
		"SCRAPE_MAX_WAIT",
		"SCRAPE_POLL_INTERVAL",
		"LINKEDIN_COOKIE",
		"PROXY_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
