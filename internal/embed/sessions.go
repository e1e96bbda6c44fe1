package embed

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/learnpath/internal/models"
)

// DefaultSessionTTL bounds how long a viewer session is kept
const DefaultSessionTTL = 30 * time.Minute

var (
	ErrSessionNotFound = errors.New("viewer session not found")
	ErrNotEmbeddable   = errors.New("resource cannot be embedded")
)

type viewer struct {
	session models.ViewerSession
	monitor *Monitor
}

// Sessions keeps the viewer sessions opened by clients
type Sessions struct {
	mu       sync.RWMutex
	advisor  *Advisor
	clock    Clock
	timeout  time.Duration
	ttl      time.Duration
	sessions map[string]*viewer
}

// SessionsConfig configures a session registry
type SessionsConfig struct {
	LoadTimeout time.Duration
	TTL         time.Duration
	Clock       Clock
}

// NewSessions creates a registry
func NewSessions(advisor *Advisor, cfg SessionsConfig) *Sessions {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}

	return &Sessions{
		advisor:  advisor,
		clock:    cfg.Clock,
		timeout:  cfg.LoadTimeout,
		ttl:      cfg.TTL,
		sessions: make(map[string]*viewer),
	}
}

// Open starts a viewer session for an embeddable URL
func (s *Sessions) Open(resourceID, rawURL string) (*models.ViewerSession, error) {
	if !s.advisor.IsEmbeddable(rawURL) {
		return nil, fmt.Errorf("%w: %s", ErrNotEmbeddable, rawURL)
	}

	now := s.clock.Now().UTC()
	v := &viewer{
		session: models.ViewerSession{
			ID:          uuid.New().String(),
			ResourceID:  resourceID,
			URL:         rawURL,
			ExternalURL: rawURL,
			OpenedAt:    now,
			UpdatedAt:   now,
			ExpiresAt:   now.Add(s.ttl),
		},
	}

	s.mu.Lock()
	s.sessions[v.session.ID] = v
	s.mu.Unlock()

	id := v.session.ID
	m := NewMonitor(s.clock, s.timeout, func(st Status) { s.apply(id, st) })

	s.mu.Lock()
	v.monitor = m
	s.mu.Unlock()

	slog.Debug("viewer session opened", "session_id", id, "resource_id", resourceID)

	return s.Get(id)
}

// Get returns a copy of the session
func (s *Sessions) Get(id string) (*models.ViewerSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := v.session
	return &cp, nil
}

// Loaded records the frame load event
func (s *Sessions) Loaded(id string) (*models.ViewerSession, error) {
	m, err := s.monitor(id)
	if err != nil {
		return nil, err
	}
	m.Loaded()
	return s.Get(id)
}

// Fail records a frame error event
func (s *Sessions) Fail(id, reason string) (*models.ViewerSession, error) {
	m, err := s.monitor(id)
	if err != nil {
		return nil, err
	}
	m.Fail(reason)
	return s.Get(id)
}

// Retry re-arms the session for another attempt
func (s *Sessions) Retry(id string) (*models.ViewerSession, error) {
	m, err := s.monitor(id)
	if err != nil {
		return nil, err
	}
	m.Retry()
	return s.Get(id)
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SweepExpired drops sessions past their TTL and returns how many were removed
func (s *Sessions) SweepExpired() int {
	now := s.clock.Now()

	s.mu.Lock()
	var expired []*viewer
	for id, v := range s.sessions {
		if v.session.IsExpired(now) {
			expired = append(expired, v)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, v := range expired {
		if v.monitor != nil {
			v.monitor.Stop()
		}
	}

	return len(expired)
}

func (s *Sessions) monitor(id string) (*Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.sessions[id]
	if !ok || v.monitor == nil {
		return nil, ErrSessionNotFound
	}
	return v.monitor, nil
}

func (s *Sessions) apply(id string, st Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.sessions[id]
	if !ok || stale(v.session, st) {
		return
	}
	v.session.State = st.State
	v.session.Attempt = st.Attempt
	v.session.FailureReason = st.Reason
	v.session.UpdatedAt = s.clock.Now().UTC()
}

// stale reports whether st was overtaken by a later transition. Monitors
// notify outside their lock, so an attempt's failure can arrive after the
// retry that replaced it.
func stale(cur models.ViewerSession, st Status) bool {
	if st.Attempt != cur.Attempt {
		return st.Attempt < cur.Attempt
	}
	return st.State == models.ViewerLoading && cur.State != models.ViewerLoading
}
