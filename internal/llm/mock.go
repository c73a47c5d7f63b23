package llm

import (
	"context"
	"strings"
)

// MockCompleter returns deterministic replies for development and tests.
type MockCompleter struct{}

func NewMockCompleter() *MockCompleter { return &MockCompleter{} }

func (c *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	p := strings.ToLower(prompt)

	switch {
	case strings.Contains(p, "headline"):
		return `{"headlines": ["Senior Software Engineer | Cloud Platforms | Python & Go", "Software Engineer Building Scalable Systems", "Engineer | Distributed Systems | Open Source Contributor"]}`, nil
	case strings.Contains(p, "summary"):
		return "Experienced engineer with a track record of shipping reliable systems and mentoring teams.", nil
	default:
		return "Here's a thought: keep your profile focused on measurable impact, and make sure your headline says what you do, not just your title.", nil
	}
}
