// Package intent classifies free-text chat messages into a closed set of
// intent tags via an ordered keyword rule table. First match wins, so rule
// order encodes priority: "career" appears in both the job and guidance
// keyword sets, and a message mentioning it alongside any job word routes to
// job analysis. That precedence is intentional and pinned by tests.
package intent

import (
	"regexp"
	"strings"
)

// Tag is a closed-set classification of a user message's purpose.
type Tag string

const (
	ProfileAnalysis   Tag = "profile_analysis"
	JobAnalysis       Tag = "job_analysis"
	ContentGeneration Tag = "content_generation"
	CareerGuidance    Tag = "career_guidance"
	Help              Tag = "help"
	General           Tag = "general"
)

// ProfileURLPattern matches profile URLs of the form https://host/in/<slug>.
var ProfileURLPattern = regexp.MustCompile(`https?://[^\s/]+(?:/[^\s/]+)*/in/[a-zA-Z0-9-]+/?`)

type rule struct {
	tag      Tag
	keywords []string
}

// Bare linkedin.com mentions count as profile intent even without a /in/ URL;
// the handler then asks for a full URL.
const profileHost = "linkedin.com"

var rules = []rule{
	{JobAnalysis, []string{"job", "role", "position", "career", "apply", "match"}},
	{ContentGeneration, []string{"improve", "enhance", "rewrite", "better", "optimize"}},
	{CareerGuidance, []string{"career", "path", "guidance", "advice", "future", "goal"}},
	{Help, []string{"help", "what can you do", "capabilities", "features"}},
}

// Classify tags a message. Pure, deterministic, case-insensitive.
func Classify(message string) Tag {
	lower := strings.ToLower(message)

	if ProfileURLPattern.MatchString(lower) || strings.Contains(lower, profileHost) {
		return ProfileAnalysis
	}

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.tag
			}
		}
	}
	return General
}

// ExtractProfileURL returns the first profile URL in the message, or "".
func ExtractProfileURL(message string) string {
	return ProfileURLPattern.FindString(message)
}
