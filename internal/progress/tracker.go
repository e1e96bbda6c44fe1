// Package progress tracks per-user roadmap enrollment and completion state
// on top of a remote Store, keeping the last fetched snapshot in a Cache.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/terra-clan/learnpath/internal/models"
)

// Tracker coordinates fetches and mutations for signed-in users.
// Every successful mutation is followed by a full refetch.
type Tracker struct {
	store     Store
	cache     Cache
	publisher Publisher
	now       func() time.Time
}

// Option configures a Tracker
type Option func(*Tracker)

// WithPublisher sets the receiver of freshly fetched snapshots
func WithPublisher(p Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker. cache may be nil.
func NewTracker(store Store, cache Cache, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		cache: cache,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FetchProgress loads both collections for the user and replaces the cached
// snapshot. A nil user yields the empty snapshot.
func (t *Tracker) FetchProgress(ctx context.Context, user *models.User) (*Snapshot, error) {
	if user == nil {
		return EmptySnapshot(), nil
	}

	rows, err := t.store.ListProgress(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list progress: %w", ErrPersistenceUnavailable, err)
	}

	enrollments, err := t.store.ListEnrollments(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list enrollments: %w", ErrPersistenceUnavailable, err)
	}

	snap := &Snapshot{
		UserID:      user.ID,
		Progress:    nonNil(rows),
		Enrollments: nonNil(enrollments),
		FetchedAt:   t.now().UTC(),
	}

	if t.cache != nil {
		if err := t.cache.Set(ctx, user.ID, snap); err != nil {
			slog.Warn("failed to cache progress snapshot", "user_id", user.ID, "error", err)
		}
	}
	if t.publisher != nil {
		t.publisher.Publish(user.ID, snap)
	}

	return snap, nil
}

// Current returns the cached snapshot, fetching it on a miss
func (t *Tracker) Current(ctx context.Context, user *models.User) (*Snapshot, error) {
	if user == nil {
		return EmptySnapshot(), nil
	}

	if t.cache != nil {
		snap, ok, err := t.cache.Get(ctx, user.ID)
		if err != nil {
			slog.Warn("progress cache read failed", "user_id", user.ID, "error", err)
		}
		if ok {
			return snap, nil
		}
	}

	return t.FetchProgress(ctx, user)
}

// EnrollInRoadmap inserts an active enrollment and refetches
func (t *Tracker) EnrollInRoadmap(ctx context.Context, user *models.User, roadmapID string) (*Snapshot, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if roadmapID == "" {
		return nil, fmt.Errorf("%w: roadmap id is required", ErrEnrollmentFailed)
	}

	enrollment := &models.UserEnrollment{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		RoadmapID:  roadmapID,
		EnrolledAt: t.now().UTC(),
		Status:     models.EnrollmentActive,
	}

	if err := t.store.InsertEnrollment(ctx, enrollment); err != nil {
		switch {
		case errors.Is(err, ErrUniqueViolation):
			return nil, ErrDuplicateEnrollment
		case errors.Is(err, ErrPersistenceUnavailable):
			return nil, fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
		default:
			return nil, fmt.Errorf("%w: %w: %w", ErrEnrollmentFailed, ErrPersistenceUnavailable, err)
		}
	}

	slog.Info("user enrolled", "user_id", user.ID, "roadmap_id", roadmapID)

	return t.refetch(ctx, user), nil
}

// UpdateProgress upserts the row for (user, roadmap, topic) and refetches
func (t *Tracker) UpdateProgress(ctx context.Context, user *models.User, roadmapID string, topicID *string, percentage float64, minutesSpent int) (*Snapshot, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	if err := ValidateUpdate(roadmapID, percentage, minutesSpent); err != nil {
		return nil, err
	}

	update := models.ProgressUpdate{
		UserID:       user.ID,
		RoadmapID:    roadmapID,
		TopicID:      topicID,
		Percentage:   percentage,
		MinutesSpent: minutesSpent,
		At:           t.now().UTC(),
	}

	if _, err := t.store.UpsertProgress(ctx, update); err != nil {
		if errors.Is(err, ErrPersistenceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: upsert progress: %w", ErrPersistenceUnavailable, err)
	}

	return t.refetch(ctx, user), nil
}

// SignOut drops the cached snapshot of the user
func (t *Tracker) SignOut(ctx context.Context, user *models.User) {
	if user == nil || t.cache == nil {
		return
	}
	if err := t.cache.Delete(ctx, user.ID); err != nil {
		slog.Warn("failed to drop progress snapshot", "user_id", user.ID, "error", err)
	}
	if t.publisher != nil {
		t.publisher.Publish(user.ID, EmptySnapshot())
	}
}

// refetch reloads after a successful mutation. On failure the previous
// snapshot is returned marked stale.
func (t *Tracker) refetch(ctx context.Context, user *models.User) *Snapshot {
	snap, err := t.FetchProgress(ctx, user)
	if err == nil {
		return snap
	}

	slog.Warn("refetch after mutation failed", "user_id", user.ID, "error", err)

	stale := EmptySnapshot()
	if t.cache != nil {
		if cached, ok, _ := t.cache.Get(ctx, user.ID); ok {
			cp := *cached
			stale = &cp
		}
	}
	stale.UserID = user.ID
	stale.Stale = true
	return stale
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
