package memory

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/careerforge/careerforge/internal/policy"
	"github.com/careerforge/careerforge/internal/profile"
)

// Config bounds the two memory tiers. SessionMaxMessages must not exceed
// PersistentMaxMessages.
type Config struct {
	SessionMaxMessages     int
	PersistentMaxMessages  int
	ProfileHistoryMax      int
	DefaultContextMessages int
}

func (c Config) withDefaults() Config {
	if c.SessionMaxMessages <= 0 {
		c.SessionMaxMessages = 1000
	}
	if c.PersistentMaxMessages <= 0 {
		c.PersistentMaxMessages = c.SessionMaxMessages * 2
	}
	if c.PersistentMaxMessages < c.SessionMaxMessages {
		c.PersistentMaxMessages = c.SessionMaxMessages
	}
	if c.ProfileHistoryMax <= 0 {
		c.ProfileHistoryMax = 10
	}
	if c.DefaultContextMessages <= 0 {
		c.DefaultContextMessages = 10
	}
	return c
}

// Store holds ephemeral sessions and persistent records per user. All
// durability failures are logged and swallowed: the in-memory state stays
// authoritative for the remainder of the process lifetime.
type Store struct {
	mu         sync.RWMutex
	cfg        Config
	sessions   map[string]*Session
	persistent map[string]*PersistentRecord
	persister  Persister

	onPersistError func(error)
	onMessage      func(sender string)
}

// NewStore loads all durable records through the persister and returns a
// ready store.
func NewStore(ctx context.Context, cfg Config, persister Persister) (*Store, error) {
	records, err := persister.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]*PersistentRecord)
	}
	return &Store{
		cfg:        cfg.withDefaults(),
		sessions:   make(map[string]*Session),
		persistent: records,
		persister:  persister,
	}, nil
}

// SetPersistErrorHook installs an observer for swallowed persistence
// failures (metrics). Must be called before concurrent use.
func (s *Store) SetPersistErrorHook(hook func(error)) {
	s.onPersistError = hook
}

// SetMessageHook installs an observer for recorded turns (metrics).
// Must be called before concurrent use.
func (s *Store) SetMessageHook(hook func(sender string)) {
	s.onMessage = hook
}

// Session returns a copy of the user's session, creating an empty one on
// first access. Never fails.
func (s *Store) Session(userID string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cloneSession(s.ensureSession(userID))
}

// Persistent returns a copy of the user's persistent record, creating and
// immediately persisting a fresh one on first access. Never fails.
func (s *Store) Persistent(ctx context.Context, userID string) PersistentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, created := s.ensurePersistent(userID)
	if created {
		s.persistLocked(ctx, rec)
	}
	return *cloneRecord(rec)
}

// RecordMessage appends a turn to both tiers, applying each tier's bound,
// and persists. The durable copy is PII-redacted; the session keeps raw text.
func (s *Store) RecordMessage(ctx context.Context, userID, text, sender string) {
	now := time.Now().UTC()
	msg := Message{
		ID:        uuid.NewString(),
		Timestamp: now,
		Sender:    sender,
		Text:      text,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(userID)
	sess.Messages = append(sess.Messages, msg)
	if n := len(sess.Messages); n > s.cfg.SessionMaxMessages {
		sess.Messages = sess.Messages[n-s.cfg.SessionMaxMessages:]
	}
	sess.InteractionCount++

	durable := msg
	if redacted, changed := policy.RedactPII(text); changed {
		durable.Text = redacted
		durable.PIIRedacted = true
	}

	rec, _ := s.ensurePersistent(userID)
	rec.InteractionHistory = append(rec.InteractionHistory, durable)
	if n := len(rec.InteractionHistory); n > s.cfg.PersistentMaxMessages {
		rec.InteractionHistory = rec.InteractionHistory[n-s.cfg.PersistentMaxMessages:]
	}
	rec.LastUpdated = now
	s.persistLocked(ctx, rec)

	if s.onMessage != nil {
		s.onMessage(sender)
	}
}

// SetProfile overwrites the session snapshot and appends to the bounded
// persistent profile history.
func (s *Store) SetProfile(ctx context.Context, userID string, snap *profile.Snapshot) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(userID)
	sess.Profile = snap

	rec, _ := s.ensurePersistent(userID)
	rec.ProfileHistory = append(rec.ProfileHistory, ProfileEntry{Timestamp: now, Snapshot: *snap})
	if n := len(rec.ProfileHistory); n > s.cfg.ProfileHistoryMax {
		rec.ProfileHistory = rec.ProfileHistory[n-s.cfg.ProfileHistoryMax:]
	}
	rec.LastUpdated = now
	s.persistLocked(ctx, rec)
}

// SetCareerGoals replaces the goal list wholesale.
func (s *Store) SetCareerGoals(ctx context.Context, userID string, goals []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := s.ensurePersistent(userID)
	rec.CareerGoals = append([]string(nil), goals...)
	rec.LastUpdated = time.Now().UTC()
	s.persistLocked(ctx, rec)
}

// SetJobPreferences replaces the opaque job-preference payload wholesale.
func (s *Store) SetJobPreferences(ctx context.Context, userID string, prefs json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := s.ensurePersistent(userID)
	rec.JobPreferences = append(json.RawMessage(nil), prefs...)
	rec.LastUpdated = time.Now().UTC()
	s.persistLocked(ctx, rec)
}

// SetSkillGaps replaces the opaque skill-gap payload wholesale.
func (s *Store) SetSkillGaps(ctx context.Context, userID string, gaps json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := s.ensurePersistent(userID)
	rec.SkillGaps = append(json.RawMessage(nil), gaps...)
	rec.LastUpdated = time.Now().UTC()
	s.persistLocked(ctx, rec)
}

// RecentMessages returns the last n session messages in original order; n<=0
// uses the configured default. Returns fewer when the history is shorter.
func (s *Store) RecentMessages(userID string, n int) []Message {
	if n <= 0 {
		n = s.cfg.DefaultContextMessages
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ensureSession(userID)
	if len(sess.Messages) == 0 {
		return nil
	}
	if n > len(sess.Messages) {
		n = len(sess.Messages)
	}
	out := make([]Message, n)
	copy(out, sess.Messages[len(sess.Messages)-n:])
	return out
}

// CurrentProfile returns the session-scoped snapshot or nil. The persistent
// profile history is never consulted for current state.
func (s *Store) CurrentProfile(userID string) *profile.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ensureSession(userID)
	if sess.Profile == nil {
		return nil
	}
	snap := *sess.Profile
	return &snap
}

// Preferences returns the read-only aggregate from the persistent record.
func (s *Store) Preferences(ctx context.Context, userID string) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, created := s.ensurePersistent(userID)
	if created {
		s.persistLocked(ctx, rec)
	}
	return Preferences{
		CareerGoals:    append([]string(nil), rec.CareerGoals...),
		JobPreferences: append(json.RawMessage(nil), rec.JobPreferences...),
		SkillGaps:      append(json.RawMessage(nil), rec.SkillGaps...),
	}
}

// ClearSession deletes the session entirely. The persistent record is
// untouched.
func (s *Store) ClearSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// SweepExpired deletes every session older than ttl and reports how many
// were removed. Caller-triggered only; there is no background eviction.
func (s *Store) SweepExpired(ttl time.Duration) int {
	cutoff := time.Now().UTC().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for userID, sess := range s.sessions {
		if sess.SessionStart.Before(cutoff) {
			delete(s.sessions, userID)
			removed++
		}
	}
	return removed
}

// Summary condenses both tiers for one user.
func (s *Store) Summary(ctx context.Context, userID string) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.ensureSession(userID)
	rec, created := s.ensurePersistent(userID)
	if created {
		s.persistLocked(ctx, rec)
	}

	var out Summary
	out.SessionInfo.SessionStart = sess.SessionStart
	out.SessionInfo.InteractionCount = sess.InteractionCount
	out.SessionInfo.HasProfile = sess.Profile != nil
	out.PersistentInfo.CreatedAt = rec.CreatedAt
	out.PersistentInfo.LastUpdated = rec.LastUpdated
	out.PersistentInfo.ProfileHistoryCount = len(rec.ProfileHistory)
	out.PersistentInfo.CareerGoals = append([]string(nil), rec.CareerGoals...)
	out.PersistentInfo.SkillGapsSet = len(rec.SkillGaps) > 0
	return out
}

// SessionCount reports live sessions (metrics).
func (s *Store) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) Close() error {
	return s.persister.Close()
}

func (s *Store) ensureSession(userID string) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{
			UserID:       userID,
			SessionStart: time.Now().UTC(),
		}
		s.sessions[userID] = sess
	}
	return sess
}

func (s *Store) ensurePersistent(userID string) (rec *PersistentRecord, created bool) {
	rec, ok := s.persistent[userID]
	if !ok {
		now := time.Now().UTC()
		rec = &PersistentRecord{
			UserID:      userID,
			CreatedAt:   now,
			LastUpdated: now,
			CareerGoals: []string{},
		}
		s.persistent[userID] = rec
		created = true
	}
	return rec, created
}

func (s *Store) persistLocked(ctx context.Context, rec *PersistentRecord) {
	if err := s.persister.Save(ctx, cloneRecord(rec)); err != nil {
		log.Printf("memory: persist failed for user %s: %v", rec.UserID, err)
		if s.onPersistError != nil {
			s.onPersistError(err)
		}
	}
}

func cloneSession(sess *Session) *Session {
	c := *sess
	c.Messages = append([]Message(nil), sess.Messages...)
	if sess.Profile != nil {
		snap := *sess.Profile
		c.Profile = &snap
	}
	return &c
}

func cloneRecord(rec *PersistentRecord) *PersistentRecord {
	c := *rec
	c.ProfileHistory = append([]ProfileEntry(nil), rec.ProfileHistory...)
	c.InteractionHistory = append([]Message(nil), rec.InteractionHistory...)
	c.CareerGoals = append([]string(nil), rec.CareerGoals...)
	c.JobPreferences = append(json.RawMessage(nil), rec.JobPreferences...)
	c.SkillGaps = append(json.RawMessage(nil), rec.SkillGaps...)
	return &c
}
