package progress

import (
	"time"

	"github.com/terra-clan/learnpath/internal/models"
)

// Merge computes the row stored by an upsert. existing is nil for a first write.
//
// completed_at is set iff the percentage is exactly 100 and is cleared
// otherwise. Minutes accumulate. last_accessed is always the update time.
func Merge(existing *models.UserProgress, u models.ProgressUpdate) *models.UserProgress {
	at := u.At.UTC()

	row := &models.UserProgress{
		UserID:             u.UserID,
		RoadmapID:          u.RoadmapID,
		TopicID:            u.TopicID,
		ProgressPercentage: u.Percentage,
		TimeSpentMinutes:   u.MinutesSpent,
		StreakDays:         1,
		LastAccessed:       at,
	}

	if existing != nil {
		row.ID = existing.ID
		row.TimeSpentMinutes = existing.TimeSpentMinutes + u.MinutesSpent
		row.StreakDays = NextStreak(existing.LastAccessed, existing.StreakDays, at)
	}

	if u.Percentage == models.CompletePercentage {
		completed := at
		row.CompletedAt = &completed
	}

	return row
}

// NextStreak returns the streak after an access at now, given the previous
// access and streak. Same UTC day keeps the streak, the next day extends it,
// anything else restarts at 1.
func NextStreak(last time.Time, streak int, now time.Time) int {
	if last.IsZero() || streak < 1 {
		return 1
	}

	lastDay := truncateDay(last)
	today := truncateDay(now)

	switch {
	case today.Equal(lastDay):
		return streak
	case today.Equal(lastDay.AddDate(0, 0, 1)):
		return streak + 1
	default:
		return 1
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateUpdate checks the ranges accepted by UpdateProgress
func ValidateUpdate(roadmapID string, percentage float64, minutes int) error {
	if roadmapID == "" {
		return ErrInvalidUpdate
	}
	if percentage < 0 || percentage > models.CompletePercentage {
		return ErrInvalidUpdate
	}
	if minutes < 0 {
		return ErrInvalidUpdate
	}
	return nil
}
