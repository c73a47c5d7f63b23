package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/careerforge/careerforge/internal/content"
	"github.com/careerforge/careerforge/internal/jobs"
	"github.com/careerforge/careerforge/internal/profile"
)

func formatProfileAnalysis(analysis profile.Analysis, snap *profile.Snapshot) string {
	name := snap.BasicInfo.FullName
	if name == "" {
		name = "Your profile"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Comprehensive Profile Analysis for %s**\n\n", name)
	fmt.Fprintf(&b, "**Overall Score: %g/100** | **Completeness: %g%%**\n\n", analysis.OverallScore, analysis.CompletenessScore)

	b.WriteString("🎯 **Key Strengths:**\n")
	for _, s := range capped(analysis.Strengths, 5) {
		fmt.Fprintf(&b, "• %s\n", s)
	}

	b.WriteString("\n⚠️ **Areas for Improvement:**\n")
	for _, w := range capped(analysis.Weaknesses, 5) {
		fmt.Fprintf(&b, "• %s\n", w)
	}

	b.WriteString("\n📋 **Section-by-Section Analysis:**\n")
	headline := analysis.Sections["headline"]
	fmt.Fprintf(&b, "**Headline:** %g/5 - %s\n", headline.Score, orNA(headline.Current))
	summary := analysis.Sections["summary"]
	fmt.Fprintf(&b, "**Summary:** %g/5 - %s...\n", summary.Score, orNA(truncate(summary.Current, 100)))
	experience := analysis.Sections["experience"]
	fmt.Fprintf(&b, "**Experience:** %g/5 - %d positions\n", experience.Score, experience.Count)
	skills := analysis.Sections["skills"]
	fmt.Fprintf(&b, "**Skills:** %g/5 - %d skills\n", skills.Score, skills.Count)
	education := analysis.Sections["education"]
	fmt.Fprintf(&b, "**Education:** %g/5 - %d entries\n", education.Score, education.Count)

	b.WriteString("\n💡 **Top Recommendations:**\n")
	for _, rec := range capped(analysis.Recommendations, 5) {
		fmt.Fprintf(&b, "• %s\n", rec)
	}

	if len(analysis.Keywords) > 0 {
		b.WriteString("\n🔍 **Keyword Optimization:**\n")
		for _, category := range []string{"technical_skills", "soft_skills", "industries"} {
			if coverage, ok := analysis.Keywords[category]; ok {
				fmt.Fprintf(&b, "• %s: %g%% coverage\n", titleWords(category), coverage.Coverage)
			}
		}
	}

	b.WriteString("\n🚀 **Next Steps:** Would you like me to help you improve specific sections, analyze your fit for a particular job role, or generate enhanced content for your profile?")
	return b.String()
}

func formatJobAnalysis(report *jobs.FitReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 **Job Fit Analysis: %s**\n\n", report.JobTitle)
	fmt.Fprintf(&b, "**Overall Match Score: %g/100**\n\n", report.OverallMatchScore)

	b.WriteString("📈 **Skills Match:**\n")
	req := report.RequiredSkillsMatch
	fmt.Fprintf(&b, "• Required Skills: %d/%d (%g%%)\n", req.TotalMatched, req.TotalRequired, req.MatchPercentage)
	pref := report.PreferredSkillsMatch
	fmt.Fprintf(&b, "• Preferred Skills: %d/%d (%g%%)\n", pref.TotalMatched, pref.TotalRequired, pref.MatchPercentage)

	b.WriteString("\n🎯 **Analysis:**\n")
	for _, s := range report.Analysis.Strengths {
		fmt.Fprintf(&b, "✅ %s\n", s)
	}
	for _, w := range report.Analysis.Weaknesses {
		fmt.Fprintf(&b, "⚠️ %s\n", w)
	}

	if len(report.MissingSkills) > 0 {
		b.WriteString("\n🔍 **Missing Skills:**\n")
		for _, skill := range capped(report.MissingSkills, 5) {
			fmt.Fprintf(&b, "• %s\n", skill)
		}
	}

	b.WriteString("\n💡 **Recommendations:**\n")
	for _, rec := range capped(report.Recommendations, 3) {
		fmt.Fprintf(&b, "• %s\n", rec)
	}
	return b.String()
}

func formatHeadlineSuggestions(suggestions content.HeadlineSuggestions) string {
	var b strings.Builder
	b.WriteString("🎯 **Enhanced Headline Suggestions:**\n\n")
	fmt.Fprintf(&b, "**Achievement Focused:**\n%s\n\n", suggestions.AchievementFocused)
	fmt.Fprintf(&b, "**Skill Focused:**\n%s\n\n", suggestions.SkillFocused)
	fmt.Fprintf(&b, "**Value Focused:**\n%s\n\n", suggestions.ValueFocused)
	b.WriteString("Choose the style that best represents your professional brand and goals!")
	return b.String()
}

func formatSummarySuggestions(suggestions content.SummarySuggestions) string {
	var b strings.Builder
	b.WriteString("📝 **Enhanced Summary Suggestions:**\n\n")
	fmt.Fprintf(&b, "**Story Focused:**\n%s\n\n", suggestions.StoryFocused)
	fmt.Fprintf(&b, "**Achievement Focused:**\n%s\n\n", suggestions.AchievementFocused)
	b.WriteString("These summaries tell your professional story in different ways. Choose the one that resonates with your career goals!")
	return b.String()
}

func formatExperienceSuggestions(enhancements []content.ExperienceEnhancement) string {
	var b strings.Builder
	b.WriteString("💼 **Experience Enhancement Suggestions:**\n\n")
	for _, exp := range enhancements[:min(2, len(enhancements))] {
		fmt.Fprintf(&b, "**%s at %s**\n", exp.Title, exp.Company)
		fmt.Fprintf(&b, "**Enhanced Description:**\n%s\n\n", exp.Enhanced)
	}
	b.WriteString("These enhancements use action words and specific achievements to make your experience more impactful!")
	return b.String()
}

func (r *Router) formatAllContentImprovements(ctx context.Context, snap *profile.Snapshot) string {
	var b strings.Builder
	b.WriteString("✨ **Complete Profile Enhancement Package:**\n\n")

	headlines := r.generator.Headlines(ctx, snap, "")
	b.WriteString("🎯 **Headline Options:**\n")
	fmt.Fprintf(&b, "• %s\n\n", headlines.AchievementFocused)

	summaries := r.generator.Summaries(snap)
	b.WriteString("📝 **Summary Enhancement:**\n")
	fmt.Fprintf(&b, "%s...\n\n", truncate(summaries.AchievementFocused, 200))

	if len(r.generator.EnhanceExperience(snap)) > 0 {
		b.WriteString("💼 **Experience Improvements:**\n")
		b.WriteString("Enhanced descriptions with action words and achievements\n\n")
	}

	b.WriteString("Would you like me to provide the full versions of any of these sections?")
	return b.String()
}

func formatCareerGuidance(guidance content.Guidance) string {
	var b strings.Builder
	b.WriteString("🎯 **Personalized Career Guidance:**\n\n")

	assessment := guidance.CurrentAssessment
	fmt.Fprintf(&b, "**Current Position:** %s\n", assessment.Role)
	fmt.Fprintf(&b, "**Experience Level:** %d years\n", assessment.ExperienceLevel)
	fmt.Fprintf(&b, "**Skill Level:** %s\n\n", assessment.SkillLevel)

	if len(guidance.CareerPaths) > 0 {
		b.WriteString("🚀 **Potential Career Paths:**\n")
		for _, path := range guidance.CareerPaths[:min(3, len(guidance.CareerPaths))] {
			fmt.Fprintf(&b, "• **%s** (%s)\n", path.Path, path.Timeline)
			fmt.Fprintf(&b, "  %s\n\n", path.Description)
		}
	}

	if len(guidance.LearningResources) > 0 {
		b.WriteString("📚 **Recommended Learning Resources:**\n")
		for _, resource := range guidance.LearningResources[:min(3, len(guidance.LearningResources))] {
			fmt.Fprintf(&b, "• **%s** (%s)\n", resource.Name, resource.Type)
			fmt.Fprintf(&b, "  %s\n", resource.Description)
			fmt.Fprintf(&b, "  Duration: %s | Cost: %s\n\n", resource.Duration, resource.Cost)
		}
	}

	b.WriteString("Would you like me to create a detailed skill development plan or explore any specific career path?")
	return b.String()
}

func capped[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func titleWords(snakeCase string) string {
	words := strings.Split(snakeCase, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
