package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/careerforge/careerforge/internal/profile"
)

var (
	// ErrInvalidProfileURL means the URL does not contain a profile slug.
	ErrInvalidProfileURL = errors.New("invalid profile url")
	// ErrNoResults means the run finished but produced no profile items.
	ErrNoResults = errors.New("scrape returned no results")
	// ErrRunFailed means the actor run ended in a terminal non-success state.
	ErrRunFailed = errors.New("scrape run failed")
	// ErrRunTimeout means the actor run did not finish within the wait budget.
	ErrRunTimeout = errors.New("scrape run timed out")
)

// Scraper fetches a structured profile snapshot for a public profile URL.
type Scraper interface {
	Scrape(ctx context.Context, profileURL string) (*profile.Snapshot, error)
	// HasValidCredentials reports whether a session cookie is configured.
	// Without one, only public profiles are reachable.
	HasValidCredentials() bool
}

// Config controls scraper construction.
type Config struct {
	Mode         string
	Token        string
	BaseURL      string
	Actor        string
	CookieHeader string
	ProxyURL     string
	MaxWait      time.Duration
	PollInterval time.Duration

	// OnError is an optional observer for scrape failures (metrics).
	OnError func(code string)
}

// NewScraper builds the configured scraper. Auto mode uses the Apify client
// when a token is present and otherwise the mock.
func NewScraper(cfg Config) (Scraper, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.Token) == "" {
			return NewMockScraper(), nil
		}
		return NewApifyScraper(cfg)
	case "apify":
		if strings.TrimSpace(cfg.Token) == "" {
			return nil, errors.New("apify token is required for apify mode")
		}
		return NewApifyScraper(cfg)
	case "mock":
		return NewMockScraper(), nil
	default:
		return nil, fmt.Errorf("unsupported scraper mode %q", cfg.Mode)
	}
}

// ExtractProfileSlug pulls the profile identifier out of a profile URL,
// stripping any trailing path and query string.
func ExtractProfileSlug(profileURL string) (string, error) {
	const marker = "/in/"
	idx := strings.Index(profileURL, marker)
	if idx < 0 {
		return "", ErrInvalidProfileURL
	}
	slug := profileURL[idx+len(marker):]
	slug = strings.SplitN(slug, "/", 2)[0]
	slug = strings.SplitN(slug, "?", 2)[0]
	if slug == "" {
		return "", ErrInvalidProfileURL
	}
	return slug, nil
}
