package jobs

// Role is one entry in the built-in job catalog.
type Role struct {
	Key             string
	Title           string
	RequiredSkills  []string
	PreferredSkills []string
}

var catalog = []Role{
	{
		Key:   "software_engineer",
		Title: "Software Engineer",
		RequiredSkills: []string{
			"programming", "software development", "problem solving", "teamwork",
			"version control", "agile", "scrum", "debugging", "databases", "apis",
		},
		PreferredSkills: []string{
			"python", "javascript", "java", "react", "node.js", "aws", "docker",
			"kubernetes", "sql", "mongodb", "postgresql", "git", "machine learning",
		},
	},
	{
		Key:   "data_scientist",
		Title: "Data Scientist",
		RequiredSkills: []string{
			"data analysis", "statistics", "machine learning", "python", "sql",
			"data visualization", "statistical modeling", "critical thinking",
		},
		PreferredSkills: []string{
			"r", "pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
			"tableau", "power bi", "hadoop", "spark", "jupyter",
		},
	},
	{
		Key:   "product_manager",
		Title: "Product Manager",
		RequiredSkills: []string{
			"product management", "strategic thinking", "stakeholder management",
			"user research", "market analysis", "agile", "scrum", "communication",
		},
		PreferredSkills: []string{
			"jira", "confluence", "figma", "analytics", "a/b testing", "user experience",
			"business strategy", "data analysis", "project management",
		},
	},
	{
		Key:   "devops_engineer",
		Title: "DevOps Engineer",
		RequiredSkills: []string{
			"devops", "automation", "cloud computing", "ci/cd", "containerization",
			"infrastructure as code", "scripting", "monitoring", "networking",
		},
		PreferredSkills: []string{
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
			"jenkins", "gitlab", "prometheus", "grafana", "linux", "bash", "python",
		},
	},
}

// knownRoles are the role phrases recognized in free-form chat messages,
// checked in order.
var knownRoles = []string{
	"software engineer", "data scientist", "product manager", "devops engineer",
	"frontend developer", "backend developer", "full stack developer",
	"data analyst", "business analyst", "project manager", "scrum master",
	"ui/ux designer", "marketing manager", "sales manager", "consultant",
}
