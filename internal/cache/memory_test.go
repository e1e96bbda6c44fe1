package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	snap := &progress.Snapshot{UserID: "u1", Enrollments: []*models.UserEnrollment{{RoadmapID: "r"}}}
	require.NoError(t, c.Set(ctx, "u1", snap))

	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.IsEnrolledInRoadmap("r"))

	got.Stale = true
	again, _, _ := c.Get(ctx, "u1")
	assert.False(t, again.Stale)

	require.NoError(t, c.Delete(ctx, "u1"))
	assert.Equal(t, 0, c.Len())
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewMemory(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "u1", &progress.Snapshot{UserID: "u1"}))

	now = now.Add(59 * time.Second)
	_, ok, _ := c.Get(ctx, "u1")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok, _ = c.Get(ctx, "u1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
