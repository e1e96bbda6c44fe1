package storage

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
)

func TestProgressRecord_DecodesPostgrestRows(t *testing.T) {
	rows := `[
		{"id":"p1","user_id":"u1","roadmap_id":"frontend","topic_id":null,"progress_percentage":40,
		 "completed_at":null,"time_spent_minutes":25,"streak_days":0,"last_accessed":"2026-03-14T10:00:00+00:00"},
		{"id":"p2","user_id":"u1","roadmap_id":"frontend","topic_id":"react-basics","progress_percentage":100,
		 "completed_at":"2026-03-14T09:30:00+00:00","time_spent_minutes":60,"streak_days":2,"last_accessed":"2026-03-14T09:30:00+00:00"}
	]`

	var records []progressRecord
	require.NoError(t, json.Unmarshal([]byte(rows), &records))
	require.Len(t, records, 2)

	roadmapRow := records[0].model()
	assert.Nil(t, roadmapRow.TopicID)
	assert.Nil(t, roadmapRow.CompletedAt)
	assert.Equal(t, 25, roadmapRow.TimeSpentMinutes)

	topicRow := records[1].model()
	require.NotNil(t, topicRow.TopicID)
	assert.Equal(t, "react-basics", *topicRow.TopicID)
	require.NotNil(t, topicRow.CompletedAt)
	assert.True(t, topicRow.CompletedAt.Equal(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)))
	assert.True(t, topicRow.IsCompleted())
}

func TestNewProgressRecord_WritesNullTopic(t *testing.T) {
	row := &models.UserProgress{ID: "p1", UserID: "u1", RoadmapID: "frontend", ProgressPercentage: 10}

	data, err := json.Marshal(newProgressRecord(row))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "topic_id")
	assert.Nil(t, fields["topic_id"])
	assert.Nil(t, fields["completed_at"])
	assert.Equal(t, "frontend", fields["roadmap_id"])

	back := newProgressRecord(row).model()
	assert.Equal(t, row, back)
}

func TestIsUniqueViolation_PostgRESTConstraintName(t *testing.T) {
	assert.True(t, isUniqueViolation(errors.New(`(23505) duplicate key value violates unique constraint "user_enrollments_user_id_roadmap_id_key"`)))
	assert.False(t, isUniqueViolation(errors.New("(42P01) relation does not exist")))
	assert.False(t, isUniqueViolation(nil))
}
