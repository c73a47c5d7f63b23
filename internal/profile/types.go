package profile

// Snapshot is a structured professional profile document as returned by the
// scraper. The memory store treats it as opaque; the analyzers read it.
type Snapshot struct {
	BasicInfo  BasicInfo    `json:"basic_info"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []Skill      `json:"skills"`
}

type BasicInfo struct {
	FullName       string `json:"full_name"`
	Headline       string `json:"headline"`
	Location       string `json:"location"`
	Summary        string `json:"summary"`
	ProfileURL     string `json:"profile_url"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Connections    string `json:"connections,omitempty"`
	Followers      string `json:"followers,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type Skill struct {
	Name         string `json:"name"`
	Endorsements int    `json:"endorsements"`
}

// IsZero reports whether the snapshot carries no usable data.
func (s *Snapshot) IsZero() bool {
	return s == nil || (s.BasicInfo.FullName == "" && len(s.Experience) == 0 && len(s.Skills) == 0)
}
