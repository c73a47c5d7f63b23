package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/careerforge/careerforge/internal/intent"
	"github.com/careerforge/careerforge/internal/jobs"
	"github.com/careerforge/careerforge/internal/scrape"
)

const (
	noURLReply = "I couldn't find a LinkedIn URL in your message. Please provide a valid LinkedIn profile URL to analyze."

	noProfileForJobsReply     = "I don't have your profile data yet. Please analyze your LinkedIn profile first by providing your LinkedIn URL, then I can help you with job fit analysis."
	noProfileForContentReply  = "I don't have your profile data yet. Please analyze your LinkedIn profile first by providing your LinkedIn URL, then I can help you improve your content."
	noProfileForGuidanceReply = "I don't have your profile data yet. Please analyze your LinkedIn profile first by providing your LinkedIn URL, then I can provide personalized career guidance."

	noRoleReply = "I couldn't identify a specific job role in your message. Please specify which role you're interested in (e.g., 'Software Engineer', 'Data Scientist', 'Product Manager')."

	scrapeFailedReply = "I encountered an error analyzing your profile. The profile might not exist or be accessible. Please check the URL and try again."

	generalFallbackReply = "Thanks for the message—happy to help with your LinkedIn. " +
		"Tell me what you'd like to improve first (headline, summary, experience, or job fit), " +
		"and I'll give you a concrete next step."
)

const privateProfileReply = "❌ **Profile Analysis Failed**\n\n" +
	"The profile you're trying to analyze appears to be private or requires authentication.\n\n" +
	"**Possible Solutions:**\n\n" +
	"1. **For Public Profiles:** Make sure the profile is set to public visibility\n" +
	"2. **For Private Profiles:** Add LinkedIn authentication cookies to access private profiles\n\n" +
	"**How to Add LinkedIn Cookies:**\n" +
	"1. Go to LinkedIn.com and log in\n" +
	"2. Open browser DevTools (F12)\n" +
	"3. Go to Application/Storage tab → Cookies → https://www.linkedin.com\n" +
	"4. Find these cookies: `li_at` and `JSESSIONID`\n" +
	"5. Set LINKEDIN_COOKIE=li_at=YOUR_LI_AT_VALUE; JSESSIONID=YOUR_JSESSIONID_VALUE\n\n" +
	"**Note:** Public profiles work without cookies."

const helpReply = "I'm your LinkedIn profile optimization assistant! Here's what I can help you with:\n\n" +
	"🔍 **Profile Analysis**\n" +
	"- Analyze your LinkedIn profile for strengths and weaknesses\n" +
	"- Provide detailed feedback on each section\n" +
	"- Calculate profile completeness and optimization scores\n\n" +
	"💼 **Job Fit Analysis**\n" +
	"- Compare your profile with specific job roles\n" +
	"- Calculate match scores and identify skill gaps\n" +
	"- Provide targeted recommendations for job applications\n\n" +
	"✨ **Content Enhancement**\n" +
	"- Generate improved headlines, summaries, and experience descriptions\n" +
	"- Provide multiple versions with different approaches\n" +
	"- Optimize content for better visibility and impact\n\n" +
	"🎯 **Career Guidance**\n" +
	"- Suggest potential career paths based on your profile\n" +
	"- Create personalized skill development plans\n" +
	"- Recommend learning resources and courses\n\n" +
	"To get started, simply share your LinkedIn profile URL and let me know what you'd like to work on!"

func (r *Router) handleProfileAnalysis(ctx context.Context, userID, message string) (string, error) {
	url := intent.ExtractProfileURL(message)
	if url == "" {
		return noURLReply, nil
	}

	snap, err := r.scraper.Scrape(ctx, url)
	if err != nil {
		if isExpectedScrapeFailure(err) {
			log.Printf("agent: scrape of %s failed: %v", url, err)
			if !r.scraper.HasValidCredentials() {
				return privateProfileReply, nil
			}
			return scrapeFailedReply, nil
		}
		return "", fmt.Errorf("scrape %s: %w", url, err)
	}

	r.store.SetProfile(ctx, userID, snap)
	analysis := r.analyzer.Analyze(snap)
	return formatProfileAnalysis(analysis, snap), nil
}

func isExpectedScrapeFailure(err error) bool {
	return errors.Is(err, scrape.ErrInvalidProfileURL) ||
		errors.Is(err, scrape.ErrNoResults) ||
		errors.Is(err, scrape.ErrRunFailed) ||
		errors.Is(err, scrape.ErrRunTimeout)
}

func (r *Router) handleJobAnalysis(ctx context.Context, userID, message string) (string, error) {
	snap := r.store.CurrentProfile(userID)
	if snap == nil {
		return noProfileForJobsReply, nil
	}

	role, ok := jobs.ExtractRole(message)
	if !ok {
		return noRoleReply, nil
	}

	report, err := jobs.AnalyzeFit(snap, role)
	if err != nil {
		if errors.Is(err, jobs.ErrUnknownRole) {
			return fmt.Sprintf("❌ Job role '%s' not found", role), nil
		}
		return "", fmt.Errorf("analyze fit for %q: %w", role, err)
	}
	return formatJobAnalysis(report), nil
}

func (r *Router) handleContentGeneration(ctx context.Context, userID, message string) (string, error) {
	snap := r.store.CurrentProfile(userID)
	if snap == nil {
		return noProfileForContentReply, nil
	}

	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "headline"):
		return formatHeadlineSuggestions(r.generator.Headlines(ctx, snap, "")), nil
	case strings.Contains(lower, "summary"):
		return formatSummarySuggestions(r.generator.Summaries(snap)), nil
	case strings.Contains(lower, "experience"):
		return formatExperienceSuggestions(r.generator.EnhanceExperience(snap)), nil
	default:
		return r.formatAllContentImprovements(ctx, snap), nil
	}
}

func (r *Router) handleCareerGuidance(ctx context.Context, userID, message string) (string, error) {
	snap := r.store.CurrentProfile(userID)
	if snap == nil {
		return noProfileForGuidanceReply, nil
	}

	goals := extractCareerGoals(message)
	if len(goals) > 0 {
		r.store.SetCareerGoals(ctx, userID, goals)
	}

	guidance := r.generator.CareerGuidance(snap, goals)
	return formatCareerGuidance(guidance), nil
}

// goalRules map message vocabulary to the stored goal labels.
var goalRules = []struct {
	goal     string
	keywords []string
}{
	{"technical advancement", []string{"technical", "coding", "programming", "development"}},
	{"leadership development", []string{"leadership", "management", "team lead"}},
	{"business growth", []string{"business", "strategy", "entrepreneur"}},
	{"career transition", []string{"career change", "transition", "new field"}},
}

func extractCareerGoals(message string) []string {
	lower := strings.ToLower(message)
	var goals []string
	for _, rule := range goalRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				goals = append(goals, rule.goal)
				break
			}
		}
	}
	return goals
}

const systemPreamble = "You are an AI-powered LinkedIn profile optimization assistant. Your role is to help users improve their LinkedIn profiles, analyze job fit, and provide career guidance. Always be helpful, professional, and encouraging. Provide specific, actionable advice and explain your reasoning clearly."

const styleInstructions = "Be concise, warm, and practical. Avoid generic greetings. Offer one specific, actionable next step related to LinkedIn when appropriate."

func (r *Router) handleGeneralConversation(ctx context.Context, userID, message string) (string, error) {
	recent := r.store.RecentMessages(userID, 5)
	snap := r.store.CurrentProfile(userID)

	var b strings.Builder
	b.WriteString("System: " + systemPreamble + "\n")

	if snap != nil {
		var bits []string
		if snap.BasicInfo.FullName != "" {
			bits = append(bits, "Name: "+snap.BasicInfo.FullName)
		}
		if snap.BasicInfo.Headline != "" {
			bits = append(bits, "Headline: "+snap.BasicInfo.Headline)
		}
		if len(bits) > 0 {
			b.WriteString("Context: " + strings.Join(bits, " | ") + "\n")
		}
	}

	for _, msg := range recent {
		role := "Assistant"
		if msg.Sender == "user" {
			role = "User"
		}
		b.WriteString(role + ": " + strings.TrimSpace(msg.Text) + "\n")
	}

	b.WriteString("User: " + strings.TrimSpace(message) + "\n")
	b.WriteString("Assistant (" + styleInstructions + "):")

	reply, err := r.completer.Complete(ctx, b.String())
	if err != nil {
		log.Printf("agent: general conversation completion failed: %v", err)
		return generalFallbackReply, nil
	}
	return strings.TrimSpace(reply), nil
}
