package scrape

import (
	"context"

	"github.com/careerforge/careerforge/internal/profile"
)

// MockScraper returns a fixed sample profile for development and tests.
type MockScraper struct{}

func NewMockScraper() *MockScraper { return &MockScraper{} }

func (s *MockScraper) HasValidCredentials() bool { return false }

func (s *MockScraper) Scrape(ctx context.Context, profileURL string) (*profile.Snapshot, error) {
	if _, err := ExtractProfileSlug(profileURL); err != nil {
		return nil, err
	}
	return SampleProfile(), nil
}

// SampleProfile is the canonical development fixture.
func SampleProfile() *profile.Snapshot {
	snap := &profile.Snapshot{}
	snap.BasicInfo = profile.BasicInfo{
		FullName:    "John Doe",
		Headline:    "Software Engineer | Full Stack Developer | Python Expert",
		Location:    "San Francisco, CA",
		Summary:     "Experienced software engineer with 5+ years in full-stack development. Passionate about creating scalable web applications and mentoring junior developers.",
		ProfileURL:  "https://linkedin.com/in/johndoe",
		Connections: "500+",
		Followers:   "1000+",
	}
	snap.Experience = []profile.Experience{
		{
			Title:       "Senior Software Engineer",
			Company:     "Tech Corp",
			Duration:    "2021 - Present",
			Location:    "San Francisco, CA",
			Description: "Led development of microservices architecture. Mentored 3 junior developers.",
		},
		{
			Title:       "Software Engineer",
			Company:     "Startup Inc",
			Duration:    "2019 - 2021",
			Location:    "San Francisco, CA",
			Description: "Built REST APIs and frontend applications using React and Node.js.",
		},
	}
	snap.Education = []profile.Education{
		{
			School:      "University of California",
			Degree:      "Bachelor of Science",
			Field:       "Computer Science",
			Duration:    "2015 - 2019",
			Description: "Graduated with honors. Relevant coursework in algorithms, data structures, and software engineering.",
		},
	}
	snap.Skills = []profile.Skill{
		{Name: "Python", Endorsements: 25},
		{Name: "JavaScript", Endorsements: 20},
		{Name: "React", Endorsements: 18},
		{Name: "Node.js", Endorsements: 15},
		{Name: "AWS", Endorsements: 12},
		{Name: "Docker", Endorsements: 10},
	}
	return snap
}
