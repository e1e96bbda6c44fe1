package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/terra-clan/learnpath/internal/models"
)

func day(d, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name   string
		last   time.Time
		streak int
		now    time.Time
		want   int
	}{
		{"first access", time.Time{}, 0, day(1, 9), 1},
		{"same day", day(1, 9), 3, day(1, 23), 3},
		{"next day", day(1, 23), 3, day(2, 0), 4},
		{"gap resets", day(1, 9), 5, day(3, 9), 1},
		{"clock went back", day(3, 9), 5, day(1, 9), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.last, tt.streak, tt.now))
		})
	}
}

func TestMerge_FirstWrite(t *testing.T) {
	row := Merge(nil, models.ProgressUpdate{
		UserID: "u1", RoadmapID: "r", Percentage: 40, MinutesSpent: 25, At: day(1, 9),
	})

	assert.Equal(t, 25, row.TimeSpentMinutes)
	assert.Equal(t, 1, row.StreakDays)
	assert.Nil(t, row.CompletedAt)
	assert.Equal(t, day(1, 9), row.LastAccessed)
}

func TestMerge_CompletionIsNotSticky(t *testing.T) {
	done := Merge(nil, models.ProgressUpdate{UserID: "u1", RoadmapID: "r", Percentage: 100, At: day(1, 9)})
	if assert.NotNil(t, done.CompletedAt) {
		assert.Equal(t, day(1, 9), *done.CompletedAt)
	}

	done.ID = "row-1"
	back := Merge(done, models.ProgressUpdate{UserID: "u1", RoadmapID: "r", Percentage: 80, MinutesSpent: 5, At: day(2, 9)})
	assert.Nil(t, back.CompletedAt)
	assert.Equal(t, "row-1", back.ID)
	assert.Equal(t, 2, back.StreakDays)
	assert.Equal(t, 5, back.TimeSpentMinutes)
}

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, ValidateUpdate("r", 0, 0))
	assert.NoError(t, ValidateUpdate("r", 100, 30))
	assert.ErrorIs(t, ValidateUpdate("", 50, 0), ErrInvalidUpdate)
	assert.ErrorIs(t, ValidateUpdate("r", -1, 0), ErrInvalidUpdate)
	assert.ErrorIs(t, ValidateUpdate("r", 100.5, 0), ErrInvalidUpdate)
	assert.ErrorIs(t, ValidateUpdate("r", 50, -3), ErrInvalidUpdate)
}

func TestSnapshot_Derived(t *testing.T) {
	completed := day(1, 9)
	snap := &Snapshot{
		Progress: []*models.UserProgress{
			{RoadmapID: "frontend", ProgressPercentage: 20, TimeSpentMinutes: 30},
			{RoadmapID: "frontend", ProgressPercentage: 60, TimeSpentMinutes: 15},
			{RoadmapID: "devops", ProgressPercentage: 100, CompletedAt: &completed, TimeSpentMinutes: 45},
		},
		Enrollments: []*models.UserEnrollment{{RoadmapID: "frontend"}},
	}

	assert.Equal(t, 40, snap.RoadmapOverallProgress("frontend"))
	assert.Equal(t, 100, snap.RoadmapOverallProgress("devops"))
	assert.Equal(t, 0, snap.RoadmapOverallProgress("missing"))
	assert.Len(t, snap.RoadmapProgress("frontend"), 2)
	assert.NotNil(t, snap.RoadmapProgress("missing"))
	assert.True(t, snap.IsEnrolledInRoadmap("frontend"))
	assert.False(t, snap.IsEnrolledInRoadmap("devops"))
	assert.Equal(t, 90, snap.TotalTimeSpent())
	assert.Equal(t, 1, snap.CompletedItemsCount())

	summary := snap.Summary("frontend")
	assert.True(t, summary.Enrolled)
	assert.Equal(t, 40, summary.OverallProgress)

	overview := snap.Overview()
	assert.Equal(t, 90, overview.TotalTimeSpent)
	assert.Equal(t, 1, overview.CompletedItemsCount)
}

func TestSnapshot_Rounding(t *testing.T) {
	snap := &Snapshot{Progress: []*models.UserProgress{{RoadmapID: "r", ProgressPercentage: 33}}}
	assert.Equal(t, 33, snap.RoadmapOverallProgress("r"))

	snap.Progress = append(snap.Progress, &models.UserProgress{RoadmapID: "r", ProgressPercentage: 34})
	assert.Equal(t, 34, snap.RoadmapOverallProgress("r"))

	snap.Progress = []*models.UserProgress{
		{RoadmapID: "r", ProgressPercentage: 10},
		{RoadmapID: "r", ProgressPercentage: 10},
		{RoadmapID: "r", ProgressPercentage: 11},
	}
	assert.Equal(t, 10, snap.RoadmapOverallProgress("r"))
}

func TestEmptySnapshot(t *testing.T) {
	snap := EmptySnapshot()
	assert.Empty(t, snap.Progress)
	assert.NotNil(t, snap.Progress)
	assert.Equal(t, 0, snap.TotalTimeSpent())
	assert.Equal(t, 0, snap.CompletedItemsCount())
	assert.Equal(t, 0, snap.RoadmapOverallProgress("any"))
}
