package client

import (
	"context"
	"sync"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

// ProgressTracker keeps a local copy of the signed-in user's progress.
// Every successful mutation is followed by a full refetch; local state is
// never patched in place.
type ProgressTracker struct {
	client *Client

	mu      sync.RWMutex
	snap    *progress.Snapshot
	lastErr error
}

// NewProgressTracker creates a tracker with an empty snapshot
func NewProgressTracker(c *Client) *ProgressTracker {
	return &ProgressTracker{client: c, snap: progress.EmptySnapshot()}
}

// Refresh fetches progress and enrollments. On failure the previous state is kept.
func (t *ProgressTracker) Refresh(ctx context.Context) error {
	p, err := t.client.GetProgress(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastErr = err
	if err != nil {
		return err
	}
	t.snap = &progress.Snapshot{
		Progress:    p.Progress,
		Enrollments: p.Enrollments,
		Stale:       p.Stale,
	}
	return nil
}

// Enroll enrolls in a roadmap and refetches. A duplicate enrollment is
// reported with IsAlreadyEnrolled and changes nothing.
func (t *ProgressTracker) Enroll(ctx context.Context, roadmapID string) error {
	if _, err := t.client.Enroll(ctx, roadmapID); err != nil {
		return err
	}
	return t.Refresh(ctx)
}

// UpdateProgress records progress and refetches
func (t *ProgressTracker) UpdateProgress(ctx context.Context, roadmapID string, topicID *string, percentage float64, minutesSpent int) error {
	_, err := t.client.UpdateProgress(ctx, models.UpdateProgressRequest{
		RoadmapID:    roadmapID,
		TopicID:      topicID,
		Percentage:   percentage,
		MinutesSpent: minutesSpent,
	})
	if err != nil {
		return err
	}
	return t.Refresh(ctx)
}

// Reset clears local state, as after sign-out
func (t *ProgressTracker) Reset() {
	t.mu.Lock()
	t.snap = progress.EmptySnapshot()
	t.lastErr = nil
	t.mu.Unlock()
}

// Err returns the error of the last refresh
func (t *ProgressTracker) Err() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastErr
}

func (t *ProgressTracker) current() *progress.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}

// RoadmapProgress returns the rows of one roadmap
func (t *ProgressTracker) RoadmapProgress(roadmapID string) []*models.UserProgress {
	return t.current().RoadmapProgress(roadmapID)
}

// RoadmapOverallProgress returns the rounded mean percentage of one roadmap
func (t *ProgressTracker) RoadmapOverallProgress(roadmapID string) int {
	return t.current().RoadmapOverallProgress(roadmapID)
}

// IsEnrolledInRoadmap reports whether an enrollment exists for the roadmap
func (t *ProgressTracker) IsEnrolledInRoadmap(roadmapID string) bool {
	return t.current().IsEnrolledInRoadmap(roadmapID)
}

// TotalTimeSpent sums minutes across all rows
func (t *ProgressTracker) TotalTimeSpent() int {
	return t.current().TotalTimeSpent()
}

// CompletedItemsCount counts rows at 100 percent
func (t *ProgressTracker) CompletedItemsCount() int {
	return t.current().CompletedItemsCount()
}
