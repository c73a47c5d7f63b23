package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/careerforge/careerforge/internal/profile"
)

type stubPersister struct {
	saves   int
	failing bool
	last    *PersistentRecord
}

func (p *stubPersister) LoadAll(ctx context.Context) (map[string]*PersistentRecord, error) {
	return nil, nil
}

func (p *stubPersister) Save(ctx context.Context, rec *PersistentRecord) error {
	p.saves++
	p.last = rec
	if p.failing {
		return errors.New("disk on fire")
	}
	return nil
}

func (p *stubPersister) Close() error { return nil }

func newTestStore(t *testing.T, cfg Config) (*Store, *stubPersister) {
	t.Helper()
	p := &stubPersister{}
	s, err := NewStore(context.Background(), cfg, p)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, p
}

func TestSessionCreatedOnFirstAccess(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	sess := s.Session("u1")
	if sess.UserID != "u1" {
		t.Fatalf("user id = %q, want u1", sess.UserID)
	}
	if sess.SessionStart.IsZero() {
		t.Fatalf("session start not set")
	}
	if len(sess.Messages) != 0 || sess.InteractionCount != 0 {
		t.Fatalf("fresh session not empty: %+v", sess)
	}
	if s.SessionCount() != 1 {
		t.Fatalf("session count = %d, want 1", s.SessionCount())
	}
}

func TestPersistentCreatedAndSaved(t *testing.T) {
	s, p := newTestStore(t, Config{})

	rec := s.Persistent(context.Background(), "u1")
	if rec.UserID != "u1" || rec.CreatedAt.IsZero() {
		t.Fatalf("fresh record malformed: %+v", rec)
	}
	if p.saves != 1 {
		t.Fatalf("saves = %d, want 1", p.saves)
	}

	// Second access must not recreate or re-save.
	s.Persistent(context.Background(), "u1")
	if p.saves != 1 {
		t.Fatalf("saves after second access = %d, want 1", p.saves)
	}
}

func TestRecordMessageAppendsBothTiers(t *testing.T) {
	s, p := newTestStore(t, Config{})

	s.RecordMessage(context.Background(), "u1", "hello there", SenderUser)
	s.RecordMessage(context.Background(), "u1", "hi, how can I help?", SenderAssistant)

	sess := s.Session("u1")
	if len(sess.Messages) != 2 {
		t.Fatalf("session messages = %d, want 2", len(sess.Messages))
	}
	if sess.Messages[0].Sender != SenderUser || sess.Messages[1].Sender != SenderAssistant {
		t.Fatalf("sender order wrong: %+v", sess.Messages)
	}
	if sess.Messages[0].ID == "" || sess.Messages[0].ID == sess.Messages[1].ID {
		t.Fatalf("message ids not unique")
	}
	if sess.InteractionCount != 2 {
		t.Fatalf("interaction count = %d, want 2", sess.InteractionCount)
	}

	rec := s.Persistent(context.Background(), "u1")
	if len(rec.InteractionHistory) != 2 {
		t.Fatalf("persistent history = %d, want 2", len(rec.InteractionHistory))
	}
	if p.saves < 2 {
		t.Fatalf("saves = %d, want at least 2", p.saves)
	}
}

func TestSessionBoundIsHalfPersistentBound(t *testing.T) {
	s, _ := newTestStore(t, Config{SessionMaxMessages: 3})

	for i := 0; i < 8; i++ {
		s.RecordMessage(context.Background(), "u1", fmt.Sprintf("msg-%d", i), SenderUser)
	}

	sess := s.Session("u1")
	if len(sess.Messages) != 3 {
		t.Fatalf("session messages = %d, want 3", len(sess.Messages))
	}
	if sess.Messages[0].Text != "msg-5" || sess.Messages[2].Text != "msg-7" {
		t.Fatalf("oldest not evicted first: %+v", sess.Messages)
	}

	rec := s.Persistent(context.Background(), "u1")
	if len(rec.InteractionHistory) != 6 {
		t.Fatalf("persistent history = %d, want 6", len(rec.InteractionHistory))
	}
	if rec.InteractionHistory[0].Text != "msg-2" {
		t.Fatalf("persistent eviction wrong, oldest = %q", rec.InteractionHistory[0].Text)
	}
}

func TestRecordMessageRedactsDurableCopyOnly(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	raw := "my email is jane@example.com"
	s.RecordMessage(context.Background(), "u1", raw, SenderUser)

	sess := s.Session("u1")
	if sess.Messages[0].Text != raw || sess.Messages[0].PIIRedacted {
		t.Fatalf("session copy must stay raw: %+v", sess.Messages[0])
	}

	rec := s.Persistent(context.Background(), "u1")
	durable := rec.InteractionHistory[0]
	if !durable.PIIRedacted || durable.Text == raw {
		t.Fatalf("durable copy not redacted: %+v", durable)
	}
}

func TestRecentMessagesDefaultAndOrder(t *testing.T) {
	s, _ := newTestStore(t, Config{DefaultContextMessages: 4})

	for i := 0; i < 10; i++ {
		s.RecordMessage(context.Background(), "u1", fmt.Sprintf("m%d", i), SenderUser)
	}

	got := s.RecentMessages("u1", 0)
	if len(got) != 4 {
		t.Fatalf("default window = %d, want 4", len(got))
	}
	if got[0].Text != "m6" || got[3].Text != "m9" {
		t.Fatalf("window not chronological tail: %+v", got)
	}

	if got := s.RecentMessages("u1", 100); len(got) != 10 {
		t.Fatalf("oversized request = %d messages, want 10", len(got))
	}
	if got := s.RecentMessages("nobody", 5); got != nil {
		t.Fatalf("unknown user should have empty history, got %+v", got)
	}
}

func TestSetProfileHistoryBounded(t *testing.T) {
	s, _ := newTestStore(t, Config{ProfileHistoryMax: 3})

	for i := 0; i < 5; i++ {
		snap := &profile.Snapshot{}
		snap.BasicInfo.Headline = fmt.Sprintf("v%d", i)
		s.SetProfile(context.Background(), "u1", snap)
	}

	cur := s.CurrentProfile("u1")
	if cur == nil || cur.BasicInfo.Headline != "v4" {
		t.Fatalf("current profile = %+v, want v4", cur)
	}

	rec := s.Persistent(context.Background(), "u1")
	if len(rec.ProfileHistory) != 3 {
		t.Fatalf("profile history = %d, want 3", len(rec.ProfileHistory))
	}
	if rec.ProfileHistory[0].Snapshot.BasicInfo.Headline != "v2" {
		t.Fatalf("history eviction wrong: %+v", rec.ProfileHistory[0])
	}
}

func TestClearSessionKeepsPersistent(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	s.RecordMessage(context.Background(), "u1", "hi", SenderUser)
	s.SetCareerGoals(context.Background(), "u1", []string{"leadership development"})

	s.ClearSession("u1")
	if s.SessionCount() != 0 {
		t.Fatalf("session survived clear")
	}

	sess := s.Session("u1")
	if len(sess.Messages) != 0 || sess.Profile != nil {
		t.Fatalf("session not fresh after clear: %+v", sess)
	}

	rec := s.Persistent(context.Background(), "u1")
	if len(rec.InteractionHistory) != 1 || len(rec.CareerGoals) != 1 {
		t.Fatalf("persistent record lost data on clear: %+v", rec)
	}
}

func TestSweepExpired(t *testing.T) {
	s, _ := newTestStore(t, Config{})

	s.Session("fresh")
	s.Session("stale")
	s.mu.Lock()
	s.sessions["stale"].SessionStart = time.Now().UTC().Add(-2 * time.Hour)
	s.mu.Unlock()

	removed := s.SweepExpired(time.Hour)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if s.SessionCount() != 1 {
		t.Fatalf("session count = %d, want 1", s.SessionCount())
	}
}

func TestPersistFailureSwallowed(t *testing.T) {
	p := &stubPersister{failing: true}
	s, err := NewStore(context.Background(), Config{}, p)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	var hookErrs int
	s.SetPersistErrorHook(func(error) { hookErrs++ })

	s.RecordMessage(context.Background(), "u1", "hello", SenderUser)

	sess := s.Session("u1")
	if len(sess.Messages) != 1 {
		t.Fatalf("in-memory state must survive persist failure")
	}
	if hookErrs != 1 {
		t.Fatalf("hook calls = %d, want 1", hookErrs)
	}
}

func TestPreferencesWholesaleReplacement(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	s.SetCareerGoals(ctx, "u1", []string{"technical advancement", "business growth"})
	s.SetCareerGoals(ctx, "u1", []string{"career transition"})
	s.SetJobPreferences(ctx, "u1", json.RawMessage(`{"target_role":"data_scientist"}`))
	s.SetSkillGaps(ctx, "u1", json.RawMessage(`{"missing":["kubernetes"]}`))

	prefs := s.Preferences(ctx, "u1")
	if len(prefs.CareerGoals) != 1 || prefs.CareerGoals[0] != "career transition" {
		t.Fatalf("goals not replaced wholesale: %+v", prefs.CareerGoals)
	}
	if string(prefs.JobPreferences) != `{"target_role":"data_scientist"}` {
		t.Fatalf("job preferences = %s", prefs.JobPreferences)
	}
	if len(prefs.SkillGaps) == 0 {
		t.Fatalf("skill gaps missing")
	}
}

func TestSummary(t *testing.T) {
	s, _ := newTestStore(t, Config{})
	ctx := context.Background()

	s.RecordMessage(ctx, "u1", "hi", SenderUser)
	snap := &profile.Snapshot{}
	snap.BasicInfo.FullName = "Jane Doe"
	s.SetProfile(ctx, "u1", snap)
	s.SetCareerGoals(ctx, "u1", []string{"leadership development"})

	sum := s.Summary(ctx, "u1")
	if sum.SessionInfo.InteractionCount != 1 || !sum.SessionInfo.HasProfile {
		t.Fatalf("session summary wrong: %+v", sum.SessionInfo)
	}
	if sum.PersistentInfo.ProfileHistoryCount != 1 {
		t.Fatalf("profile history count = %d, want 1", sum.PersistentInfo.ProfileHistoryCount)
	}
	if len(sum.PersistentInfo.CareerGoals) != 1 {
		t.Fatalf("career goals missing from summary")
	}
}

func TestFilePersisterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_memory.json")
	ctx := context.Background()

	p := NewFilePersister(path)
	if recs, err := p.LoadAll(ctx); err != nil || len(recs) != 0 {
		t.Fatalf("LoadAll on missing file: recs=%v err=%v", recs, err)
	}

	s, err := NewStore(ctx, Config{}, p)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s.RecordMessage(ctx, "u1", "remember me", SenderUser)
	s.SetCareerGoals(ctx, "u1", []string{"technical advancement"})

	// Restart: a new persister over the same file must see the record.
	p2 := NewFilePersister(path)
	s2, err := NewStore(ctx, Config{}, p2)
	if err != nil {
		t.Fatalf("NewStore after restart: %v", err)
	}
	rec := s2.Persistent(ctx, "u1")
	if len(rec.InteractionHistory) != 1 || rec.InteractionHistory[0].Text != "remember me" {
		t.Fatalf("history lost across restart: %+v", rec.InteractionHistory)
	}
	if len(rec.CareerGoals) != 1 {
		t.Fatalf("goals lost across restart: %+v", rec.CareerGoals)
	}

	// Session state must not survive the restart.
	if sess := s2.Session("u1"); len(sess.Messages) != 0 {
		t.Fatalf("session leaked across restart: %+v", sess.Messages)
	}
}
