package progress

import (
	"math"
	"time"

	"github.com/terra-clan/learnpath/internal/models"
)

// Snapshot is the cached view of one user's progress and enrollment rows.
// Derived values are recomputed on every call.
type Snapshot struct {
	UserID      string                   `json:"user_id"`
	Progress    []*models.UserProgress   `json:"progress"`
	Enrollments []*models.UserEnrollment `json:"enrollments"`
	FetchedAt   time.Time                `json:"fetched_at"`
	// Stale is set when a mutation succeeded but the follow-up fetch failed
	Stale bool `json:"stale,omitempty"`
}

// EmptySnapshot is the logged-out view
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Progress:    []*models.UserProgress{},
		Enrollments: []*models.UserEnrollment{},
	}
}

// RoadmapProgress returns all progress rows of a roadmap
func (s *Snapshot) RoadmapProgress(roadmapID string) []*models.UserProgress {
	rows := make([]*models.UserProgress, 0)
	for _, p := range s.Progress {
		if p.RoadmapID == roadmapID {
			rows = append(rows, p)
		}
	}
	return rows
}

// RoadmapOverallProgress is the unweighted mean of the roadmap's row
// percentages rounded to the nearest integer, 0 without rows.
func (s *Snapshot) RoadmapOverallProgress(roadmapID string) int {
	rows := s.RoadmapProgress(roadmapID)
	if len(rows) == 0 {
		return 0
	}

	var total float64
	for _, p := range rows {
		total += p.ProgressPercentage
	}
	// half rounds up, like the web client
	return int(math.Floor(total/float64(len(rows)) + 0.5))
}

// IsEnrolledInRoadmap reports whether any enrollment row exists for the roadmap
func (s *Snapshot) IsEnrolledInRoadmap(roadmapID string) bool {
	for _, e := range s.Enrollments {
		if e.RoadmapID == roadmapID {
			return true
		}
	}
	return false
}

// TotalTimeSpent sums time_spent_minutes across all rows
func (s *Snapshot) TotalTimeSpent() int {
	total := 0
	for _, p := range s.Progress {
		total += p.TimeSpentMinutes
	}
	return total
}

// CompletedItemsCount counts rows at exactly 100 percent
func (s *Snapshot) CompletedItemsCount() int {
	count := 0
	for _, p := range s.Progress {
		if p.IsCompleted() {
			count++
		}
	}
	return count
}

// Summary bundles the derived values of one roadmap
func (s *Snapshot) Summary(roadmapID string) models.RoadmapSummary {
	return models.RoadmapSummary{
		RoadmapID:       roadmapID,
		Enrolled:        s.IsEnrolledInRoadmap(roadmapID),
		OverallProgress: s.RoadmapOverallProgress(roadmapID),
		Rows:            s.RoadmapProgress(roadmapID),
	}
}

// Overview bundles the derived values across all roadmaps
func (s *Snapshot) Overview() models.ProgressOverview {
	return models.ProgressOverview{
		Progress:            s.Progress,
		Enrollments:         s.Enrollments,
		TotalTimeSpent:      s.TotalTimeSpent(),
		CompletedItemsCount: s.CompletedItemsCount(),
	}
}
