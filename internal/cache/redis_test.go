package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

func TestSnapshotCodec_RoundTrip(t *testing.T) {
	topic := "react-basics"
	done := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	fetched := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	snap := &progress.Snapshot{
		UserID: "u1",
		Progress: []*models.UserProgress{
			{ID: "p1", RoadmapID: "frontend", ProgressPercentage: 40, TimeSpentMinutes: 25, LastAccessed: fetched},
			{ID: "p2", RoadmapID: "frontend", TopicID: &topic, ProgressPercentage: 100, CompletedAt: &done, TimeSpentMinutes: 60, LastAccessed: done},
		},
		Enrollments: []*models.UserEnrollment{
			{ID: "e1", RoadmapID: "frontend", EnrolledAt: done, Status: models.EnrollmentActive},
		},
		FetchedAt: fetched,
		Stale:     true,
	}

	data, err := encodeSnapshot(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.True(t, snap.Stale, "encoding must not touch the caller's snapshot")

	got, err := decodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, "u1", got.UserID)
	assert.False(t, got.Stale)
	assert.True(t, got.FetchedAt.Equal(fetched))
	require.Len(t, got.Progress, 2)

	assert.Nil(t, got.Progress[0].TopicID)
	assert.Nil(t, got.Progress[0].CompletedAt)
	assert.Equal(t, "", got.Progress[0].TopicKey())

	require.NotNil(t, got.Progress[1].TopicID)
	assert.Equal(t, topic, *got.Progress[1].TopicID)
	require.NotNil(t, got.Progress[1].CompletedAt)
	assert.True(t, got.Progress[1].CompletedAt.Equal(done))
	assert.True(t, got.Progress[1].IsCompleted())

	assert.True(t, got.IsEnrolledInRoadmap("frontend"))
	assert.Equal(t, 85, got.Overview().TotalTimeSpent)
	assert.Equal(t, 1, got.Overview().CompletedItemsCount)
}

func TestSnapshotCodec_StaleFlagInStoredValueIsIgnored(t *testing.T) {
	got, err := decodeSnapshot([]byte(`{"user_id":"u1","progress":[],"enrollments":[],"fetched_at":"2026-03-14T10:00:00Z","stale":true}`))
	require.NoError(t, err)
	assert.False(t, got.Stale)
	assert.Empty(t, got.Progress)
}

func TestSnapshotCodec_RejectsCorruptValue(t *testing.T) {
	_, err := decodeSnapshot([]byte(`{"user_id":`))
	assert.ErrorContains(t, err, "failed to decode snapshot")
}
