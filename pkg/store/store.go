// Package store keeps form configurations and submitted payloads in
// memory, keyed by session id, so short form links and pollers can find
// them. Entries expire after a TTL.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-genui/pkg/model"
)

// DefaultTTL bounds how long sessions stay resolvable.
const DefaultTTL = 24 * time.Hour

// FormConfig is the stored configuration behind one session.
type FormConfig struct {
	SessionID string
	Fields    []string
	Context   string
	// Schema is an optional pre-generated schema; sessions carrying one
	// skip the generator entirely.
	Schema    *model.FormSchema
	CreatedAt time.Time
}

// Submission is a payload received for a session.
type Submission struct {
	SessionID  string
	Payload    model.SubmissionPayload
	ReceivedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the entry lifetime. Zero or negative disables
// expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is a TTL-bounded in-memory session store. Safe for concurrent
// use.
type Store struct {
	mu          sync.RWMutex
	ttl         time.Duration
	now         func() time.Time
	configs     map[string]FormConfig
	submissions map[string]Submission
}

// New builds a Store with DefaultTTL.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:         DefaultTTL,
		now:         time.Now,
		configs:     make(map[string]FormConfig),
		submissions: make(map[string]Submission),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewSessionID generates a session identifier: a UUID without dashes,
// matching the short form link alphabet.
func NewSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// PutConfig stores a form configuration. A missing session id gets one
// generated; the stored config is returned. Re-storing an existing
// session keeps its original CreatedAt, so updates never renew the TTL.
func (s *Store) PutConfig(cfg FormConfig) FormConfig {
	if cfg.SessionID == "" {
		cfg.SessionID = NewSessionID()
	}

	s.mu.Lock()
	if existing, ok := s.configs[cfg.SessionID]; ok {
		cfg.CreatedAt = existing.CreatedAt
	} else {
		cfg.CreatedAt = s.now()
	}
	s.configs[cfg.SessionID] = cfg
	s.mu.Unlock()
	return cfg
}

// Config returns the configuration for a session, reporting false for
// unknown or expired sessions.
func (s *Store) Config(sessionID string) (FormConfig, bool) {
	s.mu.RLock()
	cfg, ok := s.configs[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(cfg.CreatedAt) {
		return FormConfig{}, false
	}
	return cfg, true
}

// PutSubmission records a payload for a session, replacing any earlier
// one.
func (s *Store) PutSubmission(sessionID string, payload model.SubmissionPayload) Submission {
	sub := Submission{
		SessionID:  sessionID,
		Payload:    payload,
		ReceivedAt: s.now(),
	}

	s.mu.Lock()
	s.submissions[sessionID] = sub
	s.mu.Unlock()
	return sub
}

// Submission returns the payload recorded for a session, reporting
// false when none exists or it expired.
func (s *Store) Submission(sessionID string) (Submission, bool) {
	s.mu.RLock()
	sub, ok := s.submissions[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(sub.ReceivedAt) {
		return Submission{}, false
	}
	return sub, true
}

// Sweep removes expired entries and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, cfg := range s.configs {
		if s.expired(cfg.CreatedAt) {
			delete(s.configs, id)
			dropped++
		}
	}
	for id, sub := range s.submissions {
		if s.expired(sub.ReceivedAt) {
			delete(s.submissions, id)
			dropped++
		}
	}
	return dropped
}

func (s *Store) expired(at time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	return s.now().Sub(at) > s.ttl
}
