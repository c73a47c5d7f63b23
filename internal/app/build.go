package app

import (
	"context"
	"fmt"

	"github.com/careerforge/careerforge/internal/agent"
	"github.com/careerforge/careerforge/internal/config"
	"github.com/careerforge/careerforge/internal/httpapi"
	"github.com/careerforge/careerforge/internal/intent"
	"github.com/careerforge/careerforge/internal/llm"
	"github.com/careerforge/careerforge/internal/memory"
	"github.com/careerforge/careerforge/internal/observability"
	"github.com/careerforge/careerforge/internal/scrape"
)

const (
	llmReferer = "https://github.com/careerforge/careerforge"
	llmTitle   = "CareerForge"
)

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Store   *memory.Store
	Router  *agent.Router
	Metrics *observability.Metrics

	// Cleanup should be called on shutdown to release external resources (DB, file handles).
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	persister, err := memory.NewPersister(ctx, cfg.DatabaseURL, cfg.MemoryFile)
	if err != nil {
		return nil, fmt.Errorf("persister init failed: %w", err)
	}

	store, err := memory.NewStore(ctx, memory.Config{
		SessionMaxMessages:     cfg.SessionMaxMessages,
		PersistentMaxMessages:  cfg.PersistentMaxMessages(),
		DefaultContextMessages: cfg.ContextMessages,
	}, persister)
	if err != nil {
		_ = persister.Close()
		return nil, fmt.Errorf("memory store init failed: %w", err)
	}
	store.SetPersistErrorHook(func(error) {
		metrics.PersistFailures.Inc()
	})
	store.SetMessageHook(func(sender string) {
		metrics.Messages.WithLabelValues(sender).Inc()
	})

	completer, err := llm.NewCompleter(llm.Config{
		Mode:        cfg.LLMAdapterMode,
		APIKey:      cfg.OpenRouterAPIKey,
		BaseURL:     cfg.OpenRouterBaseURL,
		Model:       cfg.LLMModel,
		BackupModel: cfg.LLMBackupModel,
		Referer:     llmReferer,
		Title:       llmTitle,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.LLMTimeout,
		OnError: func(code string) {
			metrics.ProviderErrors.WithLabelValues("openrouter", code).Inc()
		},
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("llm completer init failed: %w", err)
	}

	scraper, err := scrape.NewScraper(scrape.Config{
		Mode:         cfg.ScraperMode,
		Token:        cfg.ApifyAPIToken,
		Actor:        cfg.ApifyActor,
		CookieHeader: cfg.LinkedInCookie,
		ProxyURL:     cfg.ProxyURL,
		MaxWait:      cfg.ScrapeMaxWait,
		PollInterval: cfg.ScrapePollInterval,
		OnError: func(code string) {
			metrics.ProviderErrors.WithLabelValues("apify", code).Inc()
		},
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("scraper init failed: %w", err)
	}

	router := agent.NewRouter(store, scraper, completer)
	router.SetIntentHook(func(tag intent.Tag) {
		metrics.Intents.WithLabelValues(string(tag)).Inc()
	})
	router.SetHandlerErrorHook(func(tag intent.Tag) {
		metrics.HandlerErrors.WithLabelValues(string(tag)).Inc()
	})

	api := httpapi.New(cfg, store, router, metrics)

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Store:   store,
		Router:  router,
		Metrics: metrics,
		Cleanup: store.Close,
	}, nil
}
