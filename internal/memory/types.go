package memory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/careerforge/careerforge/internal/profile"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is a single conversational turn.
type Message struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Sender      string    `json:"sender"`
	Text        string    `json:"message"`
	PIIRedacted bool      `json:"pii_redacted,omitempty"`
}

// Session is the ephemeral per-user state. It lives for the process lifetime
// and exists exactly when at least one memory operation has been performed
// for the user since the last clear.
type Session struct {
	UserID           string            `json:"user_id"`
	SessionStart     time.Time         `json:"session_start"`
	Messages         []Message         `json:"messages"`
	Profile          *profile.Snapshot `json:"profile_data,omitempty"`
	InteractionCount int               `json:"interaction_count"`
}

// ProfileEntry is one historical profile capture.
type ProfileEntry struct {
	Timestamp time.Time        `json:"timestamp"`
	Snapshot  profile.Snapshot `json:"profile_data"`
}

// PersistentRecord is the durable per-user state surviving restarts.
// JobPreferences and SkillGaps are opaque payloads replaced wholesale.
type PersistentRecord struct {
	UserID             string          `json:"user_id"`
	CreatedAt          time.Time       `json:"created_at"`
	LastUpdated        time.Time       `json:"last_updated"`
	ProfileHistory     []ProfileEntry  `json:"profile_history"`
	InteractionHistory []Message       `json:"interaction_history"`
	CareerGoals        []string        `json:"career_goals"`
	JobPreferences     json.RawMessage `json:"job_preferences,omitempty"`
	SkillGaps          json.RawMessage `json:"skill_gaps,omitempty"`
}

// Preferences is the read-only aggregate served from the persistent record.
type Preferences struct {
	CareerGoals    []string        `json:"career_goals"`
	JobPreferences json.RawMessage `json:"job_preferences,omitempty"`
	SkillGaps      json.RawMessage `json:"skill_gaps,omitempty"`
}

// Summary condenses both memory tiers for one user.
type Summary struct {
	SessionInfo struct {
		SessionStart     time.Time `json:"session_start"`
		InteractionCount int       `json:"interaction_count"`
		HasProfile       bool      `json:"has_profile"`
	} `json:"session_info"`
	PersistentInfo struct {
		CreatedAt           time.Time `json:"created_at"`
		LastUpdated         time.Time `json:"last_updated"`
		ProfileHistoryCount int       `json:"profile_history_count"`
		CareerGoals         []string  `json:"career_goals"`
		SkillGapsSet        bool      `json:"skill_gaps_set"`
	} `json:"persistent_info"`
}

// Persister stores persistent records durably. Save rewrites the user's
// whole record; there is no partial or incremental persistence.
type Persister interface {
	LoadAll(ctx context.Context) (map[string]*PersistentRecord, error)
	Save(ctx context.Context, rec *PersistentRecord) error
	Close() error
}
