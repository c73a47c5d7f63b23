package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerforge/careerforge/internal/reliability"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterCompleter calls the OpenRouter chat completions endpoint with a
// fixed model.
type OpenRouterCompleter struct {
	baseURL     string
	apiKey      string
	model       string
	referer     string
	title       string
	maxTokens   int
	temperature float64
	client      *http.Client
	onError     func(code string)

	maxRetries int
	retryBase  time.Duration
	retryCap   time.Duration
}

func NewOpenRouterCompleter(cfg Config, model string) *OpenRouterCompleter {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouterCompleter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       strings.TrimSpace(model),
		referer:     cfg.Referer,
		title:       cfg.Title,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		onError:     cfg.OnError,
		client: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 2,
		retryBase:  500 * time.Millisecond,
		retryCap:   5 * time.Second,
	}
}

// Model reports the model this completer targets.
func (c *OpenRouterCompleter) Model() string { return c.model }

func (c *OpenRouterCompleter) reportError(code string) {
	if c.onError != nil {
		c.onError(code)
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenRouterCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(reliability.ExponentialBackoff(attempt-1, c.retryBase, c.retryCap)):
			}
		}

		text, retryable, err := c.attempt(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", lastErr
}

func (c *OpenRouterCompleter) attempt(ctx context.Context, payload []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.reportError("transport")
		return "", true, fmt.Errorf("send completion request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		c.reportError(strconv.Itoa(res.StatusCode))
		return "", reliability.IsRetryableHTTPStatus(res.StatusCode),
			fmt.Errorf("openrouter status %d for model %s: %s", res.StatusCode, c.model, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", false, fmt.Errorf("openrouter error for model %s: %s", c.model, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("openrouter returned no choices for model %s", c.model)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), false, nil
}
