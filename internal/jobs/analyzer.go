package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/careerforge/careerforge/internal/profile"
)

// ErrUnknownRole means the requested role is not in the catalog.
var ErrUnknownRole = errors.New("unknown job role")

// SkillMatch reports how one skill list matched against the profile.
type SkillMatch struct {
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	MatchPercentage float64  `json:"match_percentage"`
	TotalRequired   int      `json:"total_required"`
	TotalMatched    int      `json:"total_matched"`
}

// FitAnalysis is the qualitative half of a fit report.
type FitAnalysis struct {
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	SkillGaps           []string `json:"skill_gaps"`
	ExperienceAlignment string   `json:"experience_alignment"`
	EducationAlignment  string   `json:"education_alignment"`
}

// FitReport is the full result of matching a profile against a role.
type FitReport struct {
	JobRole              string      `json:"job_role"`
	JobTitle             string      `json:"job_title"`
	OverallMatchScore    float64     `json:"overall_match_score"`
	RequiredSkillsMatch  SkillMatch  `json:"required_skills_match"`
	PreferredSkillsMatch SkillMatch  `json:"preferred_skills_match"`
	Analysis             FitAnalysis `json:"analysis"`
	MissingSkills        []string    `json:"missing_skills"`
	Recommendations      []string    `json:"recommendations"`
}

// ExtractRole finds the first recognized role phrase in a chat message and
// returns it in title case. The second return is false when none matched.
func ExtractRole(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, role := range knownRoles {
		if strings.Contains(lower, role) {
			return titleCase(role), true
		}
	}
	return "", false
}

// LookupRole resolves a role name against the catalog. Matching is fuzzy in
// both directions so "senior software engineer" still resolves.
func LookupRole(roleName string) (Role, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(roleName)), " ", "_")
	for _, role := range catalog {
		if strings.Contains(role.Key, normalized) || strings.Contains(normalized, role.Key) {
			return role, nil
		}
	}
	return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, roleName)
}

// AnalyzeFit scores a profile against a catalog role. Required skills carry
// 0.7 of the weight, preferred 0.3, plus experience and education bonuses,
// capped at 100.
func AnalyzeFit(snap *profile.Snapshot, roleName string) (*FitReport, error) {
	role, err := LookupRole(roleName)
	if err != nil {
		return nil, err
	}

	profileSkills := extractProfileSkills(snap)
	required := matchSkills(profileSkills, role.RequiredSkills)
	preferred := matchSkills(profileSkills, role.PreferredSkills)

	score := required.MatchPercentage*0.7 + preferred.MatchPercentage*0.3
	score += experienceBonus(snap) + educationBonus(snap)
	score = round1(score)
	if score > 100 {
		score = 100
	}

	report := &FitReport{
		JobRole:              roleName,
		JobTitle:             role.Title,
		OverallMatchScore:    score,
		RequiredSkillsMatch:  required,
		PreferredSkillsMatch: preferred,
		MissingSkills:        required.MissingSkills,
	}
	report.Analysis = buildAnalysis(snap, required.MissingSkills, score)
	report.Recommendations = buildRecommendations(score)
	return report, nil
}

// skillKeywords are scanned out of free-text profile sections.
var skillKeywords = []string{
	"python", "javascript", "java", "react", "node.js", "aws", "docker",
	"kubernetes", "sql", "mongodb", "postgresql", "git", "agile", "scrum",
	"leadership", "communication", "teamwork", "problem solving", "project management",
}

func extractProfileSkills(snap *profile.Snapshot) []string {
	seen := make(map[string]bool)
	var skills []string
	add := func(skill string) {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" && !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	for _, s := range snap.Skills {
		add(s.Name)
	}

	var freeText strings.Builder
	for _, exp := range snap.Experience {
		freeText.WriteString(strings.ToLower(exp.Description))
		freeText.WriteString(" ")
	}
	freeText.WriteString(strings.ToLower(snap.BasicInfo.Headline))
	freeText.WriteString(" ")
	freeText.WriteString(strings.ToLower(snap.BasicInfo.Summary))

	text := freeText.String()
	for _, keyword := range skillKeywords {
		if strings.Contains(text, keyword) {
			add(keyword)
		}
	}
	return skills
}

// matchSkills counts exact and partial (substring either way) matches.
func matchSkills(profileSkills, jobSkills []string) SkillMatch {
	match := SkillMatch{TotalRequired: len(jobSkills)}
	for _, skill := range jobSkills {
		if hasSkill(profileSkills, skill) {
			match.MatchedSkills = append(match.MatchedSkills, skill)
		} else {
			match.MissingSkills = append(match.MissingSkills, skill)
		}
	}
	match.TotalMatched = len(match.MatchedSkills)
	if len(jobSkills) > 0 {
		match.MatchPercentage = round1(float64(match.TotalMatched) / float64(len(jobSkills)) * 100)
	}
	return match
}

func hasSkill(profileSkills []string, skill string) bool {
	for _, ps := range profileSkills {
		if ps == skill || strings.Contains(ps, skill) || strings.Contains(skill, ps) {
			return true
		}
	}
	return false
}

func experienceBonus(snap *profile.Snapshot) float64 {
	switch {
	case len(snap.Experience) >= 3:
		return 5.0
	case len(snap.Experience) >= 1:
		return 2.5
	default:
		return 0
	}
}

var relevantFields = []string{"computer science", "engineering", "business", "mathematics", "statistics"}

func educationBonus(snap *profile.Snapshot) float64 {
	for _, edu := range snap.Education {
		field := strings.ToLower(edu.Field)
		for _, relevant := range relevantFields {
			if strings.Contains(field, relevant) {
				return 2.5
			}
		}
	}
	return 0
}

func buildAnalysis(snap *profile.Snapshot, missingRequired []string, score float64) FitAnalysis {
	var a FitAnalysis

	switch {
	case score >= 80:
		a.Strengths = append(a.Strengths, "Excellent match for this role")
	case score >= 60:
		a.Strengths = append(a.Strengths, "Good match with some areas for improvement")
	}

	if len(missingRequired) > 0 {
		a.SkillGaps = missingRequired
		a.Weaknesses = append(a.Weaknesses, fmt.Sprintf("Missing %d required skills", len(missingRequired)))
	}

	switch {
	case len(snap.Experience) >= 3:
		a.ExperienceAlignment = "Strong work experience background"
	case len(snap.Experience) >= 1:
		a.ExperienceAlignment = "Some relevant work experience"
	default:
		a.ExperienceAlignment = "Limited work experience"
		a.Weaknesses = append(a.Weaknesses, "Limited work experience")
	}

	if len(snap.Education) > 0 {
		a.EducationAlignment = "Relevant educational background"
	} else {
		a.EducationAlignment = "Education information missing"
		a.Weaknesses = append(a.Weaknesses, "Missing education information")
	}
	return a
}

func buildRecommendations(score float64) []string {
	var recs []string
	if score < 60 {
		recs = append(recs,
			"Focus on acquiring the missing required skills",
			"Consider taking relevant courses or certifications",
			"Gain more experience in related roles",
		)
	}
	if score < 80 {
		recs = append(recs,
			"Enhance your profile with more detailed experience descriptions",
			"Add specific achievements and metrics to your experience",
			"Get more skill endorsements from colleagues",
		)
	}
	recs = append(recs,
		"Tailor your headline and summary to match the job requirements",
		"Highlight relevant projects and achievements",
		"Network with professionals in the target role",
		"Stay updated with industry trends and technologies",
	)
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
