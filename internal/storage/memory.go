package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

// MemoryRepository implements Repository in process memory. Rows keep
// insertion order. Used for development and tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	progress    []*models.UserProgress
	enrollments []*models.UserEnrollment
	clients     map[string]*models.ApiClient
	failure     error
}

// NewMemoryRepository creates an empty repository seeded with clients
func NewMemoryRepository(clients ...*models.ApiClient) *MemoryRepository {
	r := &MemoryRepository{clients: make(map[string]*models.ApiClient)}
	for _, c := range clients {
		r.clients[c.ApiKey] = c
	}
	return r
}

// SetFailure makes every subsequent call fail with err until reset with nil
func (r *MemoryRepository) SetFailure(err error) {
	r.mu.Lock()
	r.failure = err
	r.mu.Unlock()
}

func (r *MemoryRepository) ListProgress(_ context.Context, userID string) ([]*models.UserProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failure != nil {
		return nil, r.failure
	}

	result := make([]*models.UserProgress, 0)
	for _, p := range r.progress {
		if p.UserID == userID {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListEnrollments(_ context.Context, userID string) ([]*models.UserEnrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.failure != nil {
		return nil, r.failure
	}

	result := make([]*models.UserEnrollment, 0)
	for _, e := range r.enrollments {
		if e.UserID == userID {
			cp := *e
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *MemoryRepository) InsertEnrollment(_ context.Context, e *models.UserEnrollment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return r.failure
	}

	dup := slices.ContainsFunc(r.enrollments, func(x *models.UserEnrollment) bool {
		return x.UserID == e.UserID && x.RoadmapID == e.RoadmapID
	})
	if dup {
		return fmt.Errorf("%w: user %s roadmap %s", progress.ErrUniqueViolation, e.UserID, e.RoadmapID)
	}

	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.enrollments = append(r.enrollments, &cp)
	return nil
}

func (r *MemoryRepository) UpsertProgress(_ context.Context, u models.ProgressUpdate) (*models.UserProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failure != nil {
		return nil, r.failure
	}

	key := topicKey(u.TopicID)
	idx := slices.IndexFunc(r.progress, func(p *models.UserProgress) bool {
		return p.UserID == u.UserID && p.RoadmapID == u.RoadmapID && p.TopicKey() == key
	})

	var existing *models.UserProgress
	if idx >= 0 {
		existing = r.progress[idx]
	}

	row := progress.Merge(existing, u)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	if idx >= 0 {
		r.progress[idx] = row
	} else {
		r.progress = append(r.progress, row)
	}

	cp := *row
	return &cp, nil
}

// AddClient registers an admin API client
func (r *MemoryRepository) AddClient(c *models.ApiClient) {
	r.mu.Lock()
	r.clients[c.ApiKey] = c
	r.mu.Unlock()
}

func (r *MemoryRepository) GetClientByApiKey(_ context.Context, apiKey string) (*models.ApiClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[apiKey]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) UpdateClientLastUsed(_ context.Context, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.clients[apiKey]; ok {
		now := timeNow().UTC()
		c.LastUsedAt = &now
	}
	return nil
}

func (r *MemoryRepository) Ping(context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.failure
}

func (r *MemoryRepository) Close() error { return nil }
