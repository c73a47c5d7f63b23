package profile

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Analysis is the full heuristic report for one profile snapshot.
type Analysis struct {
	OverallScore      float64                    `json:"overall_score"`
	CompletenessScore float64                    `json:"completeness_score"`
	Strengths         []string                   `json:"strengths"`
	Weaknesses        []string                   `json:"weaknesses"`
	Recommendations   []string                   `json:"recommendations"`
	Sections          map[string]SectionReport   `json:"section_analysis"`
	Keywords          map[string]KeywordCoverage `json:"keyword_optimization"`
}

// SectionReport scores a single profile section on a 0-5 scale.
type SectionReport struct {
	Score          float64  `json:"score"`
	Issues         []string `json:"issues,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
	Current        string   `json:"current,omitempty"`
	Count          int      `json:"count,omitempty"`
	TechnicalCount int      `json:"technical_count,omitempty"`
	SoftCount      int      `json:"soft_count,omitempty"`
}

// KeywordCoverage reports how much of a keyword category the profile covers.
type KeywordCoverage struct {
	Found    []string `json:"found"`
	Count    int      `json:"count"`
	Total    int      `json:"total"`
	Coverage float64  `json:"coverage"`
}

var (
	roleKeywordPattern = regexp.MustCompile(`\b(engineer|developer|manager|director|specialist|analyst|consultant)\b`)
	techKeywordPattern = regexp.MustCompile(`\b(python|javascript|react|aws|docker|kubernetes|agile|scrum)\b`)
)

var valueWords = []string{"led", "managed", "developed", "improved", "increased", "reduced", "created"}

var achievementWords = []string{"achieved", "increased", "reduced", "led", "managed", "developed"}

var keywordCategories = map[string][]string{
	"technical_skills": {
		"python", "javascript", "java", "react", "node.js", "aws", "docker", "kubernetes",
		"sql", "mongodb", "postgresql", "git", "agile", "scrum", "machine learning", "ai",
	},
	"soft_skills": {
		"leadership", "communication", "teamwork", "problem solving", "project management",
		"collaboration", "mentoring", "strategic thinking",
	},
	"industries": {
		"technology", "software", "fintech", "healthcare", "e-commerce", "consulting",
		"startup", "enterprise",
	},
}

// Analyzer scores profiles against fixed heuristic rubrics. It is pure and
// never fails on well-formed input.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze produces the complete section-by-section report.
func (a *Analyzer) Analyze(snap *Snapshot) Analysis {
	sections := map[string]SectionReport{
		"headline":   analyzeHeadline(snap.BasicInfo.Headline),
		"summary":    analyzeSummary(snap.BasicInfo.Summary),
		"experience": analyzeExperience(snap.Experience),
		"skills":     analyzeSkills(snap.Skills),
		"education":  analyzeEducation(snap.Education),
	}

	analysis := Analysis{
		Sections:          sections,
		OverallScore:      overallScore(sections),
		CompletenessScore: completenessScore(snap),
		Keywords:          analyzeKeywords(snap),
	}
	analysis.Strengths, analysis.Weaknesses, analysis.Recommendations = deriveRecommendations(snap, sections)
	return analysis
}

func analyzeHeadline(headline string) SectionReport {
	if headline == "" {
		return SectionReport{
			Issues:      []string{"Missing headline"},
			Suggestions: []string{"Add a compelling headline"},
		}
	}

	var r SectionReport
	r.Current = headline
	lower := strings.ToLower(headline)

	switch {
	case len(headline) < 50:
		r.Issues = append(r.Issues, "Headline too short")
		r.Suggestions = append(r.Suggestions, "Expand headline to include key skills and value proposition")
	case len(headline) > 200:
		r.Issues = append(r.Issues, "Headline too long")
		r.Suggestions = append(r.Suggestions, "Keep headline concise and focused")
	default:
		r.Score += 2
	}

	keywordCount := 0
	if roleKeywordPattern.MatchString(lower) {
		keywordCount++
	}
	if techKeywordPattern.MatchString(lower) {
		keywordCount++
	}
	switch {
	case keywordCount >= 2:
		r.Score += 2
	case keywordCount == 1:
		r.Score++
	default:
		r.Issues = append(r.Issues, "Missing relevant keywords")
		r.Suggestions = append(r.Suggestions, "Include industry-specific keywords and skills")
	}

	if containsAny(lower, valueWords) {
		r.Score++
	} else {
		r.Suggestions = append(r.Suggestions, "Include action words that demonstrate impact")
	}

	r.Score = math.Min(r.Score, 5)
	return r
}

func analyzeSummary(summary string) SectionReport {
	if summary == "" {
		return SectionReport{
			Issues:      []string{"Missing summary"},
			Suggestions: []string{"Add a compelling summary"},
		}
	}

	var r SectionReport
	lower := strings.ToLower(summary)
	if len(summary) > 200 {
		r.Current = summary[:200] + "..."
	} else {
		r.Current = summary
	}

	switch {
	case len(summary) < 100:
		r.Issues = append(r.Issues, "Summary too short")
		r.Suggestions = append(r.Suggestions, "Expand summary to tell your professional story")
	case len(summary) > 2000:
		r.Issues = append(r.Issues, "Summary too long")
		r.Suggestions = append(r.Suggestions, "Keep summary concise and focused")
	default:
		r.Score += 2
	}

	storyElements := []string{"experience", "passion", "expertise", "achievement", "goal"}
	storyCount := 0
	for _, element := range storyElements {
		if strings.Contains(lower, element) {
			storyCount++
		}
	}
	switch {
	case storyCount >= 3:
		r.Score += 2
	case storyCount >= 1:
		r.Score++
	default:
		r.Suggestions = append(r.Suggestions, "Include personal story and career narrative")
	}

	if containsAny(lower, achievementWords) {
		r.Score++
	} else {
		r.Suggestions = append(r.Suggestions, "Include specific achievements and metrics")
	}

	r.Score = math.Min(r.Score, 5)
	return r
}

func analyzeExperience(experience []Experience) SectionReport {
	if len(experience) == 0 {
		return SectionReport{
			Issues:      []string{"No experience listed"},
			Suggestions: []string{"Add work experience"},
		}
	}

	r := SectionReport{Count: len(experience)}
	if len(experience) >= 3 {
		r.Score += 2
	} else {
		r.Score++
	}

	for _, exp := range experience {
		if exp.Description == "" {
			title := exp.Title
			if title == "" {
				title = "position"
			}
			r.Issues = append(r.Issues, fmt.Sprintf("Missing description for %s", title))
			r.Suggestions = append(r.Suggestions, "Add detailed descriptions for each role")
		} else if containsAny(strings.ToLower(exp.Description), achievementWords) {
			r.Score += 0.5
		}
	}

	currentYear := strconv.Itoa(time.Now().Year())
	lastYear := strconv.Itoa(time.Now().Year() - 1)
	recent := false
	for _, exp := range experience {
		duration := strings.ToLower(exp.Duration)
		if strings.Contains(duration, "present") || strings.Contains(duration, currentYear) || strings.Contains(duration, lastYear) {
			recent = true
			break
		}
	}
	if recent {
		r.Score++
	} else {
		r.Suggestions = append(r.Suggestions, "Ensure recent experience is up to date")
	}

	r.Score = math.Min(r.Score, 5)
	return r
}

var technicalSkillHints = []string{"python", "javascript", "java", "react", "aws", "docker", "sql"}
var softSkillHints = []string{"leadership", "communication", "teamwork", "problem solving"}

func analyzeSkills(skills []Skill) SectionReport {
	if len(skills) == 0 {
		return SectionReport{
			Issues:      []string{"No skills listed"},
			Suggestions: []string{"Add relevant skills"},
		}
	}

	r := SectionReport{Count: len(skills)}
	switch {
	case len(skills) >= 15:
		r.Score += 2
	case len(skills) >= 10:
		r.Score += 1.5
	case len(skills) >= 5:
		r.Score++
	default:
		r.Issues = append(r.Issues, "Too few skills listed")
		r.Suggestions = append(r.Suggestions, "Add more relevant skills")
	}

	endorsed := 0
	for _, skill := range skills {
		if skill.Endorsements > 0 {
			endorsed++
		}
	}
	switch {
	case endorsed >= 5:
		r.Score++
	case endorsed >= 2:
		r.Score += 0.5
	default:
		r.Suggestions = append(r.Suggestions, "Get more skill endorsements from colleagues")
	}

	for _, skill := range skills {
		name := strings.ToLower(skill.Name)
		switch {
		case containsAnySubstring(name, technicalSkillHints):
			r.TechnicalCount++
		case containsAnySubstring(name, softSkillHints):
			r.SoftCount++
		}
	}
	if r.TechnicalCount >= 3 && r.SoftCount >= 2 {
		r.Score++
	} else {
		r.Suggestions = append(r.Suggestions, "Balance technical and soft skills")
	}

	r.Score = math.Min(r.Score, 5)
	return r
}

var relevantFields = []string{"computer science", "engineering", "business", "mathematics", "statistics"}

func analyzeEducation(education []Education) SectionReport {
	if len(education) == 0 {
		return SectionReport{
			Issues:      []string{"No education listed"},
			Suggestions: []string{"Add education information"},
		}
	}

	r := SectionReport{Count: len(education)}
	for _, edu := range education {
		if edu.Degree == "" {
			r.Issues = append(r.Issues, "Missing degree information")
			r.Suggestions = append(r.Suggestions, "Add degree details")
		} else {
			r.Score++
		}
		if edu.School == "" {
			r.Issues = append(r.Issues, "Missing school information")
			r.Suggestions = append(r.Suggestions, "Add school details")
		} else {
			r.Score += 0.5
		}
	}

	hasRelevantField := false
	for _, edu := range education {
		if containsAnySubstring(strings.ToLower(edu.Field), relevantFields) {
			hasRelevantField = true
			break
		}
	}
	if hasRelevantField {
		r.Score++
	} else {
		r.Suggestions = append(r.Suggestions, "Highlight relevant coursework or certifications")
	}

	r.Score = math.Min(r.Score, 5)
	return r
}

func overallScore(sections map[string]SectionReport) float64 {
	total := 0.0
	max := 0.0
	for _, s := range sections {
		total += s.Score
		max += 5
	}
	if max == 0 {
		return 0
	}
	return round1(total / max * 100)
}

func completenessScore(snap *Snapshot) float64 {
	completed := 0
	if snap.BasicInfo.Headline != "" {
		completed++
	}
	if snap.BasicInfo.Summary != "" {
		completed++
	}
	if len(snap.Experience) > 0 {
		completed++
	}
	if len(snap.Education) > 0 {
		completed++
	}
	if len(snap.Skills) > 0 {
		completed++
	}
	return round1(float64(completed) / 5 * 100)
}

func deriveRecommendations(snap *Snapshot, sections map[string]SectionReport) (strengths, weaknesses, recommendations []string) {
	basic := snap.BasicInfo

	if sections["headline"].Score >= 3 {
		strengths = append(strengths, "Strong headline with relevant keywords and value proposition")
	} else if basic.Headline != "" {
		strengths = append(strengths, "Has a headline, but could be more compelling")
	}

	if sections["summary"].Score >= 3 {
		strengths = append(strengths, "Comprehensive professional summary with storytelling elements")
	} else if basic.Summary != "" {
		strengths = append(strengths, "Has a summary, but could be more detailed")
	}

	switch n := len(snap.Experience); {
	case n >= 3:
		strengths = append(strengths, fmt.Sprintf("Strong work history with %d positions showing career progression", n))
	case n >= 1:
		strengths = append(strengths, fmt.Sprintf("Has %d work experience(s) - good foundation", n))
	}

	switch n := len(snap.Skills); {
	case n >= 15:
		strengths = append(strengths, fmt.Sprintf("Extensive skill set with %d skills showing versatility", n))
	case n >= 5:
		strengths = append(strengths, fmt.Sprintf("Good skill diversity with %d skills", n))
	}

	switch n := len(snap.Education); {
	case n >= 2:
		strengths = append(strengths, fmt.Sprintf("Strong educational background with %d institutions", n))
	case n >= 1:
		strengths = append(strengths, "Has educational credentials")
	}

	if conn := numericCount(basic.Connections); conn >= 500 {
		strengths = append(strengths, fmt.Sprintf("Strong professional network with %d+ connections", conn))
	} else if conn >= 100 {
		strengths = append(strengths, fmt.Sprintf("Growing network with %d connections", conn))
	}
	if fol := numericCount(basic.Followers); fol >= 1000 {
		strengths = append(strengths, fmt.Sprintf("Good visibility with %d+ followers", fol))
	}

	for _, name := range sectionOrder {
		s := sections[name]
		weaknesses = append(weaknesses, s.Issues...)
		recommendations = append(recommendations, s.Suggestions...)
	}

	if basic.Summary == "" {
		recommendations = append(recommendations, "Add a compelling professional summary that tells your story")
	}
	if len(snap.Experience) < 2 {
		recommendations = append(recommendations, "Add more work experiences or internships to show career progression")
	}
	if len(snap.Skills) < 10 {
		recommendations = append(recommendations, "Add more relevant skills to increase your discoverability")
	}
	if len(snap.Education) == 0 {
		recommendations = append(recommendations, "Add your educational background and relevant certifications")
	}

	if len(recommendations) < 5 {
		recommendations = append(recommendations,
			"Regularly update your profile with new achievements and projects",
			"Engage with your network through posts, comments, and sharing industry insights",
			"Request recommendations from colleagues and managers to build credibility",
			"Add a professional profile picture to increase profile views",
			"Include specific metrics and achievements in your experience descriptions",
		)
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Profile has good potential for optimization and growth")
	}

	return strengths, weaknesses, recommendations
}

// sectionOrder keeps strength/weakness derivation deterministic across runs.
var sectionOrder = []string{"headline", "summary", "experience", "skills", "education"}

func analyzeKeywords(snap *Snapshot) map[string]KeywordCoverage {
	var b strings.Builder
	b.WriteString(snap.BasicInfo.Headline)
	b.WriteString(" ")
	b.WriteString(snap.BasicInfo.Summary)
	b.WriteString(" ")
	for _, exp := range snap.Experience {
		b.WriteString(exp.Title)
		b.WriteString(" ")
		b.WriteString(exp.Description)
		b.WriteString(" ")
	}
	for _, skill := range snap.Skills {
		b.WriteString(skill.Name)
		b.WriteString(" ")
	}
	allText := strings.ToLower(b.String())

	out := make(map[string]KeywordCoverage, len(keywordCategories))
	for category, keywords := range keywordCategories {
		found := make([]string, 0, len(keywords))
		for _, keyword := range keywords {
			if strings.Contains(allText, keyword) {
				found = append(found, keyword)
			}
		}
		out[category] = KeywordCoverage{
			Found:    found,
			Count:    len(found),
			Total:    len(keywords),
			Coverage: round1(float64(len(found)) / float64(len(keywords)) * 100),
		}
	}
	return out
}

func numericCount(v string) int {
	v = strings.TrimSuffix(strings.TrimSpace(v), "+")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsAnySubstring(s string, hints []string) bool {
	if s == "" {
		return false
	}
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
