package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

var timeNow = time.Now

// BreakerConfig holds circuit breaker configuration for the progress store
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default breaker configuration
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "progress-store",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerRepository guards the progress methods of a Repository with a
// circuit breaker. An open breaker surfaces as progress.ErrPersistenceUnavailable.
type BreakerRepository struct {
	Repository
	cb *gobreaker.CircuitBreaker
}

// NewBreakerRepository wraps repo
func NewBreakerRepository(repo Repository, cfg BreakerConfig) *BreakerRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// a duplicate enrollment is an answer from a healthy store
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, progress.ErrUniqueViolation)
		},
	})

	return &BreakerRepository{Repository: repo, cb: cb}
}

// State reports the current breaker state
func (b *BreakerRepository) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerRepository) ListProgress(ctx context.Context, userID string) ([]*models.UserProgress, error) {
	out, err := b.execute(func() (any, error) {
		return b.Repository.ListProgress(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*models.UserProgress), nil
}

func (b *BreakerRepository) ListEnrollments(ctx context.Context, userID string) ([]*models.UserEnrollment, error) {
	out, err := b.execute(func() (any, error) {
		return b.Repository.ListEnrollments(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*models.UserEnrollment), nil
}

func (b *BreakerRepository) InsertEnrollment(ctx context.Context, e *models.UserEnrollment) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.Repository.InsertEnrollment(ctx, e)
	})
	return err
}

func (b *BreakerRepository) UpsertProgress(ctx context.Context, u models.ProgressUpdate) (*models.UserProgress, error) {
	out, err := b.execute(func() (any, error) {
		return b.Repository.UpsertProgress(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return out.(*models.UserProgress), nil
}

func (b *BreakerRepository) execute(fn func() (any, error)) (any, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", progress.ErrPersistenceUnavailable, err)
	}
	return out, err
}
