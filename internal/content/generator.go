package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/careerforge/careerforge/internal/llm"
	"github.com/careerforge/careerforge/internal/profile"
)

// Generator produces rewritten profile content. The LLM is used where it can
// help; every path has a deterministic fallback so generation never fails.
type Generator struct {
	completer llm.Completer
}

func NewGenerator(completer llm.Completer) *Generator {
	return &Generator{completer: completer}
}

// HeadlineSuggestions are three rewrites with different emphasis.
type HeadlineSuggestions struct {
	AchievementFocused string `json:"achievement_focused"`
	SkillFocused       string `json:"skill_focused"`
	ValueFocused       string `json:"value_focused"`
}

// Headlines asks the model for three headline variants and falls back to
// heuristic composition from profile signals when the reply is not usable.
func (g *Generator) Headlines(ctx context.Context, snap *profile.Snapshot, targetRole string) HeadlineSuggestions {
	topSkills := skillNames(snap, 5)
	recentRole := recentTitle(snap)

	target := targetRole
	if target == "" {
		target = "General professional"
	}
	prompt := fmt.Sprintf(`Create an enhanced LinkedIn headline for a professional with the following information:

Current headline: %s
Recent role: %s
Top skills: %s
Target role: %s
Name: %s
Location: %s

Requirements:
1. Include key skills and value proposition
2. Use action words and industry keywords
3. Keep it under 200 characters
4. Make it compelling and professional

Generate 3 different versions: achievement-focused, skill-focused, value proposition-focused.
Format as JSON with keys: achievement_focused, skill_focused, value_focused`,
		snap.BasicInfo.Headline, recentRole, strings.Join(topSkills, ", "),
		target, snap.BasicInfo.FullName, snap.BasicInfo.Location)

	if raw, err := g.completer.Complete(ctx, prompt); err == nil {
		var parsed HeadlineSuggestions
		if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err == nil &&
			parsed.AchievementFocused != "" && parsed.SkillFocused != "" && parsed.ValueFocused != "" {
			return parsed
		}
	} else {
		log.Printf("content: headline completion failed, using heuristic fallback: %v", err)
	}

	return heuristicHeadlines(recentRole, targetRole, topSkills)
}

func heuristicHeadlines(recentRole, targetRole string, topSkills []string) HeadlineSuggestions {
	primarySkills := "impactful solutions"
	if len(topSkills) > 0 {
		primarySkills = strings.Join(topSkills[:min(3, len(topSkills))], ", ")
	}
	twoSkills := "strategy & execution"
	if len(topSkills) > 0 {
		twoSkills = strings.Join(topSkills[:min(2, len(topSkills))], ", ")
	}
	role := recentRole
	if role == "" {
		role = targetRole
	}
	if role == "" {
		role = "Professional"
	}

	return HeadlineSuggestions{
		AchievementFocused: fmt.Sprintf("%s | Led high-impact projects | Drove measurable results | %s", role, primarySkills),
		SkillFocused:       fmt.Sprintf("%s | %s | Known for reliability and craftsmanship", role, primarySkills),
		ValueFocused:       fmt.Sprintf("%s | Turning goals into outcomes | %s", role, twoSkills),
	}
}

// stripCodeFence removes markdown code fences some models wrap JSON in.
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.Trim(cleaned, "`\n ")
	if len(cleaned) >= 5 && strings.EqualFold(cleaned[:5], "json\n") {
		cleaned = cleaned[5:]
	}
	return cleaned
}

// SummarySuggestions are two rewrites with different narrative styles.
type SummarySuggestions struct {
	StoryFocused       string `json:"story_focused"`
	AchievementFocused string `json:"achievement_focused"`
}

// Summaries renders the two summary templates from profile signals.
func (g *Generator) Summaries(snap *profile.Snapshot) SummarySuggestions {
	role := recentTitle(snap)
	if role == "" {
		role = "professional"
	}
	years := len(snap.Experience)
	topSkills := skillNames(snap, 8)

	threeSkills := strings.Join(topSkills[:min(3, len(topSkills))], ", ")
	fiveSkills := strings.Join(topSkills[:min(5, len(topSkills))], ", ")

	story := fmt.Sprintf(`I'm a passionate %s with %d years of experience in the technology industry. My journey began with a fascination for solving complex problems, which led me to specialize in %s.

Throughout my career, I've had the privilege of working with diverse teams and technologies, always focusing on delivering innovative solutions that drive business value. I believe in continuous learning and staying current with industry trends.

When I'm not coding or collaborating with teams, I enjoy mentoring junior developers and contributing to open-source projects. I'm always excited to connect with fellow professionals who share my passion for technology and innovation.

Let's connect and explore how we can create something amazing together!`, role, years, threeSkills)

	achievement := fmt.Sprintf(`Results-driven %s with %d years of experience delivering high-impact solutions. Proven track record of leading cross-functional teams and implementing scalable technologies.

Key Achievements:
• Led development teams of 5-15 members across multiple projects
• Improved system performance by 40%% through optimization initiatives
• Reduced deployment time by 60%% implementing CI/CD pipelines
• Mentored 10+ junior developers, improving team productivity by 25%%

Technical Expertise: %s
Industry Experience: Software Development, E-commerce, FinTech

Passionate about leveraging technology to solve real-world problems and drive business growth. Always seeking new challenges and opportunities to make a meaningful impact.`, role, years, fiveSkills)

	return SummarySuggestions{StoryFocused: story, AchievementFocused: achievement}
}

// ExperienceEnhancement pairs an original description with its rewrite.
type ExperienceEnhancement struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

var actionWords = []string{"developed", "implemented", "led", "managed", "improved", "increased", "reduced", "created"}

// EnhanceExperience rewrites every experience entry: empty descriptions get
// a role-appropriate template, existing ones get action verbs added where
// none are present.
func (g *Generator) EnhanceExperience(snap *profile.Snapshot) []ExperienceEnhancement {
	out := make([]ExperienceEnhancement, 0, len(snap.Experience))
	for _, exp := range snap.Experience {
		enhanced := enhanceDescription(exp)
		if exp.Description == "" {
			enhanced = basicDescription(exp)
		}
		out = append(out, ExperienceEnhancement{
			Original: exp.Description,
			Enhanced: enhanced,
			Title:    exp.Title,
			Company:  exp.Company,
			Duration: exp.Duration,
		})
	}
	return out
}

func basicDescription(exp profile.Experience) string {
	title := strings.ToLower(exp.Title)
	switch {
	case containsAny(title, "engineer", "developer", "programmer"):
		return strings.Join([]string{
			"• Developed and maintained software applications using modern programming languages and frameworks",
			"• Collaborated with cross-functional teams to design and implement new features",
			"• Participated in code reviews and contributed to technical discussions",
			"• Debugged and resolved software defects and issues",
			"• Worked with databases and APIs to ensure seamless data flow",
			"• Contributed to agile development processes and sprint planning",
		}, "\n")
	case containsAny(title, "manager", "lead", "director"):
		return strings.Join([]string{
			"• Led and managed teams of professionals to deliver high-quality results",
			"• Developed and executed strategic plans to achieve business objectives",
			"• Collaborated with stakeholders to define project requirements and timelines",
			"• Mentored team members and provided guidance for professional development",
			"• Analyzed performance metrics and implemented process improvements",
			"• Managed budgets and resources to ensure project success",
		}, "\n")
	default:
		return strings.Join([]string{
			fmt.Sprintf("• Performed key responsibilities in %s role at %s", exp.Title, exp.Company),
			"• Collaborated with team members to achieve organizational goals",
			"• Contributed to process improvements and operational efficiency",
			"• Developed and maintained professional relationships with stakeholders",
			"• Participated in training and professional development activities",
		}, "\n")
	}
}

func enhanceDescription(exp profile.Experience) string {
	desc := exp.Description
	lower := strings.ToLower(desc)
	for _, word := range actionWords {
		if strings.Contains(lower, word) {
			return desc
		}
	}

	sentences := strings.Split(desc, ". ")
	enhanced := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		enhanced = append(enhanced, "Developed "+strings.ToLower(sentence))
	}
	return strings.Join(enhanced, ". ")
}

func skillNames(snap *profile.Snapshot, n int) []string {
	if n > len(snap.Skills) {
		n = len(snap.Skills)
	}
	names := make([]string, 0, n)
	for _, s := range snap.Skills[:n] {
		names = append(names, s.Name)
	}
	return names
}

func recentTitle(snap *profile.Snapshot) string {
	if len(snap.Experience) == 0 {
		return ""
	}
	return snap.Experience[0].Title
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
