package content

import (
	"strings"

	"github.com/careerforge/careerforge/internal/profile"
)

// CareerPath is one suggested progression step.
type CareerPath struct {
	Path         string   `json:"path"`
	Timeline     string   `json:"timeline"`
	Requirements []string `json:"requirements"`
	Description  string   `json:"description"`
}

// SkillCategory groups current skills against recommended next steps.
type SkillCategory struct {
	Current     []string `json:"current"`
	Recommended []string `json:"recommended"`
	Priority    string   `json:"priority"`
}

// LearningResource is one course, book, or program recommendation.
type LearningResource struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Cost        string `json:"cost"`
}

// Assessment summarizes where the user currently stands.
type Assessment struct {
	Role            string `json:"role"`
	ExperienceLevel int    `json:"experience_level"`
	SkillLevel      string `json:"skill_level"`
}

// Guidance is the full career guidance bundle.
type Guidance struct {
	CareerPaths          []CareerPath             `json:"career_paths"`
	SkillDevelopmentPlan map[string]SkillCategory `json:"skill_development_plan"`
	LearningResources    []LearningResource       `json:"learning_resources"`
	CurrentAssessment    Assessment               `json:"current_assessment"`
}

// CareerGuidance assembles paths, a skill plan, and learning resources from
// the profile and the user's stored goals.
func (g *Generator) CareerGuidance(snap *profile.Snapshot, userGoals []string) Guidance {
	currentRole := recentTitle(snap)
	if currentRole == "" {
		currentRole = "Entry-level"
	}

	return Guidance{
		CareerPaths:          careerPaths(currentRole),
		SkillDevelopmentPlan: skillPlan(snap, userGoals),
		LearningResources:    learningResources(userGoals),
		CurrentAssessment: Assessment{
			Role:            currentRole,
			ExperienceLevel: len(snap.Experience),
			SkillLevel:      assessSkillLevel(snap.Skills),
		},
	}
}

// assessSkillLevel tiers the average endorsement count.
func assessSkillLevel(skills []profile.Skill) string {
	if len(skills) == 0 {
		return "Beginner"
	}
	total := 0
	for _, s := range skills {
		total += s.Endorsements
	}
	avg := float64(total) / float64(len(skills))
	switch {
	case avg >= 20:
		return "Expert"
	case avg >= 10:
		return "Advanced"
	case avg >= 5:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

func careerPaths(currentRole string) []CareerPath {
	lower := strings.ToLower(currentRole)
	var paths []CareerPath

	if containsAny(lower, "engineer", "developer", "programmer") {
		paths = append(paths,
			CareerPath{
				Path:         "Senior Software Engineer",
				Timeline:     "2-3 years",
				Requirements: []string{"Advanced technical skills", "Leadership experience", "System design knowledge"},
				Description:  "Lead technical projects and mentor junior developers",
			},
			CareerPath{
				Path:         "Technical Lead",
				Timeline:     "3-4 years",
				Requirements: []string{"Team leadership", "Architecture design", "Project management"},
				Description:  "Lead technical teams and make architectural decisions",
			},
			CareerPath{
				Path:         "Engineering Manager",
				Timeline:     "4-5 years",
				Requirements: []string{"People management", "Strategic thinking", "Business acumen"},
				Description:  "Manage engineering teams and align with business goals",
			},
		)
	}
	if containsAny(lower, "manager", "lead", "director") {
		paths = append(paths,
			CareerPath{
				Path:         "Senior Manager",
				Timeline:     "2-3 years",
				Requirements: []string{"Advanced leadership", "Strategic planning", "Budget management"},
				Description:  "Lead larger teams and manage complex projects",
			},
			CareerPath{
				Path:         "Director",
				Timeline:     "3-4 years",
				Requirements: []string{"Executive presence", "Business strategy", "Cross-functional leadership"},
				Description:  "Lead multiple teams and drive organizational strategy",
			},
		)
	}

	paths = append(paths,
		CareerPath{
			Path:         "Consultant",
			Timeline:     "1-2 years",
			Requirements: []string{"Expertise in specific domain", "Client relationship skills", "Problem-solving"},
			Description:  "Provide expert advice to organizations",
		},
		CareerPath{
			Path:         "Entrepreneur",
			Timeline:     "Varies",
			Requirements: []string{"Business acumen", "Risk tolerance", "Innovation mindset"},
			Description:  "Start your own business or venture",
		},
	)

	if len(paths) > 5 {
		paths = paths[:5]
	}
	return paths
}

func skillPlan(snap *profile.Snapshot, userGoals []string) map[string]SkillCategory {
	current := make([]string, 0, len(snap.Skills))
	for _, s := range snap.Skills {
		current = append(current, strings.ToLower(s.Name))
	}

	return map[string]SkillCategory{
		"technical_skills": {
			Current:     filterSkills(current, "python", "javascript", "java", "react", "aws"),
			Recommended: []string{"Advanced Python", "System Design", "Cloud Architecture", "DevOps", "Machine Learning"},
			Priority:    goalPriority(userGoals, "technical"),
		},
		"leadership_skills": {
			Current:     filterSkills(current, "leadership", "management", "teamwork"),
			Recommended: []string{"Strategic Thinking", "Change Management", "Conflict Resolution", "Executive Communication"},
			Priority:    goalPriority(userGoals, "leadership"),
		},
		"business_skills": {
			Current:     filterSkills(current, "business", "strategy", "analytics"),
			Recommended: []string{"Business Strategy", "Financial Analysis", "Market Research", "Product Management"},
			Priority:    goalPriority(userGoals, "business"),
		},
	}
}

func filterSkills(skills []string, hints ...string) []string {
	var out []string
	for _, skill := range skills {
		if containsAny(skill, hints...) {
			out = append(out, skill)
		}
	}
	return out
}

func goalPriority(userGoals []string, topic string) string {
	for _, goal := range userGoals {
		if strings.Contains(strings.ToLower(goal), topic) {
			return "High"
		}
	}
	return "Medium"
}

var technicalResources = []LearningResource{
	{
		Type:        "Online Course",
		Name:        "Coursera - Machine Learning Specialization",
		URL:         "https://www.coursera.org/specializations/machine-learning",
		Description: "Comprehensive machine learning course by Andrew Ng",
		Duration:    "6 months",
		Cost:        "Free (audit) / $49/month",
	},
	{
		Type:        "Online Course",
		Name:        "Udemy - Complete Python Bootcamp",
		URL:         "https://www.udemy.com/course/complete-python-bootcamp/",
		Description: "Learn Python from scratch to advanced concepts",
		Duration:    "22 hours",
		Cost:        "$29.99",
	},
	{
		Type:        "Book",
		Name:        "Clean Code by Robert C. Martin",
		Description: "Essential reading for writing maintainable code",
		Duration:    "2-3 weeks",
		Cost:        "$44.99",
	},
}

var leadershipResources = []LearningResource{
	{
		Type:        "Online Course",
		Name:        "LinkedIn Learning - Leadership Foundations",
		Description: "Core leadership skills and principles",
		Duration:    "3 hours",
		Cost:        "Included with LinkedIn Premium",
	},
	{
		Type:        "Book",
		Name:        "The First 90 Days by Michael Watkins",
		Description: "Guide for new leaders and career transitions",
		Duration:    "2-3 weeks",
		Cost:        "$24.99",
	},
}

func learningResources(userGoals []string) []LearningResource {
	var resources []LearningResource
	wantsTechnical := goalPriority(userGoals, "technical") == "High"
	wantsLeadership := goalPriority(userGoals, "leadership") == "High"

	switch {
	case wantsTechnical || wantsLeadership:
		if wantsTechnical {
			resources = append(resources, technicalResources...)
		}
		if wantsLeadership {
			resources = append(resources, leadershipResources...)
		}
	default:
		resources = append(resources, technicalResources[:2]...)
		resources = append(resources, leadershipResources[:1]...)
	}
	return resources
}
