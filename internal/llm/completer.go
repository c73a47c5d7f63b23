package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Completer produces a free-form completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config controls completer construction.
type Config struct {
	Mode        string
	APIKey      string
	BaseURL     string
	Model       string
	BackupModel string
	Referer     string
	Title       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration

	// OnError is an optional observer for provider failures (metrics).
	OnError func(code string)
}

// NewCompleter builds the configured completer chain. In auto mode the
// primary model falls back to the backup model, and both fall back to the
// canned responder so the assistant always has something to say.
func NewCompleter(cfg Config) (Completer, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return NewMockCompleter(), nil
		}
		primary := NewOpenRouterCompleter(cfg, cfg.Model)
		backup := NewOpenRouterCompleter(cfg, cfg.BackupModel)
		return NewFallbackCompleter(primary, NewFallbackCompleter(backup, NewCannedCompleter())), nil
	case "http":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("llm api key is required for http mode")
		}
		return NewOpenRouterCompleter(cfg, cfg.Model), nil
	case "mock":
		return NewMockCompleter(), nil
	default:
		return nil, fmt.Errorf("unsupported llm completer mode %q", cfg.Mode)
	}
}
