package progress

import (
	"context"

	"github.com/terra-clan/learnpath/internal/models"
)

// Store is the persistence collaborator holding learning_progress and
// user_enrollments rows, both scoped by user id.
type Store interface {
	// ListProgress selects every progress row of a user
	ListProgress(ctx context.Context, userID string) ([]*models.UserProgress, error)
	// ListEnrollments selects every enrollment row of a user
	ListEnrollments(ctx context.Context, userID string) ([]*models.UserEnrollment, error)
	// InsertEnrollment inserts a row, returning ErrUniqueViolation (wrapped)
	// when (user_id, roadmap_id) already exists
	InsertEnrollment(ctx context.Context, e *models.UserEnrollment) error
	// UpsertProgress inserts or updates the row keyed by (user, roadmap, topic)
	UpsertProgress(ctx context.Context, u models.ProgressUpdate) (*models.UserProgress, error)
}

// Cache holds the last fetched snapshot per user
type Cache interface {
	Get(ctx context.Context, userID string) (*Snapshot, bool, error)
	Set(ctx context.Context, userID string, snap *Snapshot) error
	Delete(ctx context.Context, userID string) error
}

// Publisher is notified with every freshly fetched snapshot
type Publisher interface {
	Publish(userID string, snap *Snapshot)
}
