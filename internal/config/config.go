package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the profile assistant service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string
	AllowAnyOrigin   bool

	SessionMaxMessages int
	SessionTTL         time.Duration
	ContextMessages    int
	MemoryFile         string
	DatabaseURL        string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	LLMModel          string
	LLMBackupModel    string
	LLMTimeout        time.Duration
	LLMMaxTokens      int
	LLMTemperature    float64
	LLMAdapterMode    string

	ApifyAPIToken      string
	ApifyActor         string
	ScraperMode        string
	ScrapeMaxWait      time.Duration
	ScrapePollInterval time.Duration
	LinkedInCookie     string
	ProxyURL           string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "careerforge"),
		AllowAnyOrigin:   false,

		SessionMaxMessages: 1000,
		SessionTTL:         time.Hour,
		ContextMessages:    10,
		MemoryFile:         envOrDefault("MEMORY_FILE", "user_memory.json"),
		DatabaseURL:        stringsTrimSpace("DATABASE_URL"),

		OpenRouterAPIKey:  stringsTrimSpace("OPENROUTER_API_KEY"),
		OpenRouterBaseURL: envOrDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		LLMModel:          envOrDefault("LLM_MODEL", "mistralai/mistral-7b-instruct"),
		LLMBackupModel:    envOrDefault("LLM_BACKUP_MODEL", "meta-llama/llama-2-7b-chat"),
		LLMTimeout:        30 * time.Second,
		LLMMaxTokens:      4000,
		LLMTemperature:    0.7,
		LLMAdapterMode:    envOrDefault("LLM_ADAPTER_MODE", "auto"),

		ApifyAPIToken:      stringsTrimSpace("APIFY_API_TOKEN"),
		ApifyActor:         envOrDefault("APIFY_ACTOR", "curious_coder~linkedin-profile-scraper"),
		ScraperMode:        envOrDefault("SCRAPER_MODE", "auto"),
		ScrapeMaxWait:      5 * time.Minute,
		ScrapePollInterval: 10 * time.Second,
		LinkedInCookie:     stringsTrimSpace("LINKEDIN_COOKIE"),
		ProxyURL:           stringsTrimSpace("PROXY_URL"),

		ShutdownTimeout: 15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionMaxMessages, err = intFromEnv("SESSION_MAX_MESSAGES", cfg.SessionMaxMessages)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL, err = durationFromEnv("SESSION_TTL", cfg.SessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.ContextMessages, err = intFromEnv("CONTEXT_MESSAGES", cfg.ContextMessages)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMTimeout, err = durationFromEnv("LLM_TIMEOUT", cfg.LLMTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMMaxTokens, err = intFromEnv("LLM_MAX_TOKENS", cfg.LLMMaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.LLMTemperature, err = floatFromEnv("LLM_TEMPERATURE", cfg.LLMTemperature)
	if err != nil {
		return Config{}, err
	}
	cfg.ScrapeMaxWait, err = durationFromEnv("SCRAPE_MAX_WAIT", cfg.ScrapeMaxWait)
	if err != nil {
		return Config{}, err
	}
	cfg.ScrapePollInterval, err = durationFromEnv("SCRAPE_POLL_INTERVAL", cfg.ScrapePollInterval)
	if err != nil {
		return Config{}, err
	}

	if cfg.SessionMaxMessages <= 0 {
		return Config{}, fmt.Errorf("SESSION_MAX_MESSAGES must be positive")
	}
	if cfg.ContextMessages <= 0 {
		return Config{}, fmt.Errorf("CONTEXT_MESSAGES must be positive")
	}
	if cfg.SessionTTL < time.Minute {
		return Config{}, fmt.Errorf("SESSION_TTL must be at least 1m")
	}
	if cfg.LLMTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if cfg.LLMMaxTokens <= 0 {
		return Config{}, fmt.Errorf("LLM_MAX_TOKENS must be positive")
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		return Config{}, fmt.Errorf("LLM_TEMPERATURE must be in [0, 2]")
	}
	if strings.TrimSpace(cfg.MemoryFile) == "" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("MEMORY_FILE must be set when DATABASE_URL is empty")
	}
	if cfg.ScrapePollInterval <= 0 || cfg.ScrapePollInterval > cfg.ScrapeMaxWait {
		return Config{}, fmt.Errorf("SCRAPE_POLL_INTERVAL must be positive and not exceed SCRAPE_MAX_WAIT")
	}

	return cfg, nil
}

// PersistentMaxMessages is the bound on the durable interaction history.
// Twice the session bound, so the persistent tier always dominates.
func (c Config) PersistentMaxMessages() int {
	return c.SessionMaxMessages * 2
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
