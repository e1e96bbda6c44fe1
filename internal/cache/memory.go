// Package cache holds per-user progress snapshots between fetches.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/terra-clan/learnpath/internal/progress"
)

type memoryEntry struct {
	snap      progress.Snapshot
	expiresAt time.Time
}

// Memory is an in-process snapshot cache
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates a cache whose entries expire after ttl (0 = never)
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, userID string) (*progress.Snapshot, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return nil, false, nil
	}

	snap := e.snap
	return &snap, true, nil
}

func (m *Memory) Set(_ context.Context, userID string, snap *progress.Snapshot) error {
	e := memoryEntry{snap: *snap}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[userID] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()
	return nil
}

// Len returns the number of cached snapshots
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// HealthCheck always succeeds
func (m *Memory) HealthCheck(context.Context) error { return nil }
