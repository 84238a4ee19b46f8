package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/goliatone/go-genui/pkg/model"
)

func TestStore_ConfigRoundTrip(t *testing.T) {
	s := New()

	stored := s.PutConfig(FormConfig{
		Fields:  []string{"name", "email"},
		Context: "signup",
	})
	if stored.SessionID == "" {
		t.Fatalf("session id must be generated")
	}

	cfg, ok := s.Config(stored.SessionID)
	if !ok {
		t.Fatalf("config not found")
	}
	if len(cfg.Fields) != 2 || cfg.Context != "signup" {
		t.Fatalf("config mangled: %+v", cfg)
	}

	if _, ok := s.Config("missing"); ok {
		t.Fatalf("unknown session must report false")
	}
}

func TestStore_Expiry(t *testing.T) {
	current := time.Now()
	s := New(WithTTL(time.Hour), WithClock(func() time.Time { return current }))

	cfg := s.PutConfig(FormConfig{SessionID: "s1", Fields: []string{"a"}})
	s.PutSubmission("s1", model.SubmissionPayload{"a": "x"})

	if _, ok := s.Config(cfg.SessionID); !ok {
		t.Fatalf("fresh config must resolve")
	}

	current = current.Add(2 * time.Hour)

	if _, ok := s.Config(cfg.SessionID); ok {
		t.Fatalf("expired config must behave as missing")
	}
	if _, ok := s.Submission("s1"); ok {
		t.Fatalf("expired submission must behave as missing")
	}

	if dropped := s.Sweep(); dropped != 2 {
		t.Fatalf("sweep dropped %d entries, want 2", dropped)
	}
}

func TestStore_PutConfigDoesNotRenewTTL(t *testing.T) {
	current := time.Now()
	s := New(WithTTL(3*time.Hour), WithClock(func() time.Time { return current }))

	s.PutConfig(FormConfig{SessionID: "s1", Fields: []string{"a"}})

	current = current.Add(2 * time.Hour)
	s.PutConfig(FormConfig{SessionID: "s1", Fields: []string{"a", "b"}})

	cfg, ok := s.Config("s1")
	if !ok || len(cfg.Fields) != 2 {
		t.Fatalf("updated config must resolve: %+v", cfg)
	}

	// Expiry still counts from the first store, not the update.
	current = current.Add(2 * time.Hour)
	if _, ok := s.Config("s1"); ok {
		t.Fatalf("re-storing a session must not extend its lifetime")
	}
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	current := time.Now()
	s := New(WithTTL(0), WithClock(func() time.Time { return current }))

	s.PutConfig(FormConfig{SessionID: "s1", Fields: []string{"a"}})
	current = current.Add(1000 * time.Hour)

	if _, ok := s.Config("s1"); !ok {
		t.Fatalf("zero ttl must disable expiry")
	}
}

func TestStore_SubmissionReplaces(t *testing.T) {
	s := New()
	s.PutSubmission("s1", model.SubmissionPayload{"v": float64(1)})
	s.PutSubmission("s1", model.SubmissionPayload{"v": float64(2)})

	sub, ok := s.Submission("s1")
	if !ok || sub.Payload["v"] != float64(2) {
		t.Fatalf("latest submission must win: %+v", sub)
	}
}

func TestNewSessionID_Alphabet(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-f0-9]{32}$`)
	id := NewSessionID()
	if !pattern.MatchString(id) {
		t.Fatalf("session id %q must be 32 hex chars", id)
	}
	if id == NewSessionID() {
		t.Fatalf("ids must be unique")
	}
}
