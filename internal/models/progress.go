package models

import "time"

// EnrollmentStatus represents the state of a user's enrollment in a roadmap
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentPaused    EnrollmentStatus = "paused"
	EnrollmentCompleted EnrollmentStatus = "completed"
)

// CompletePercentage is the progress value that marks a row as completed
const CompletePercentage = 100

// UserProgress is a per-(user, roadmap, topic) completion record
type UserProgress struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id,omitempty"`
	RoadmapID          string     `json:"roadmap_id"`
	TopicID            *string    `json:"topic_id"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at"`
	TimeSpentMinutes   int        `json:"time_spent_minutes"`
	StreakDays         int        `json:"streak_days"`
	LastAccessed       time.Time  `json:"last_accessed"`
}

// IsCompleted returns true if the row is at exactly 100 percent
func (p *UserProgress) IsCompleted() bool {
	return p.ProgressPercentage == CompletePercentage
}

// TopicKey returns the topic id or "" for roadmap-level rows
func (p *UserProgress) TopicKey() string {
	if p.TopicID == nil {
		return ""
	}
	return *p.TopicID
}

// UserEnrollment is a user's declared intent to pursue a roadmap
type UserEnrollment struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id,omitempty"`
	RoadmapID  string           `json:"roadmap_id"`
	EnrolledAt time.Time        `json:"enrolled_at"`
	Status     EnrollmentStatus `json:"status"`
}

// ProgressUpdate is the input of an upsert into learning_progress
type ProgressUpdate struct {
	UserID       string
	RoadmapID    string
	TopicID      *string
	Percentage   float64
	MinutesSpent int
	At           time.Time
}

// EnrollRequest is the body of POST /enrollments
type EnrollRequest struct {
	RoadmapID string `json:"roadmap_id"`
}

// UpdateProgressRequest is the body of PUT /progress
type UpdateProgressRequest struct {
	RoadmapID    string  `json:"roadmap_id"`
	TopicID      *string `json:"topic_id"`
	Percentage   float64 `json:"percentage"`
	MinutesSpent int     `json:"minutes_spent"`
}

// RoadmapSummary bundles the derived progress values of a single roadmap
type RoadmapSummary struct {
	RoadmapID       string          `json:"roadmap_id"`
	Enrolled        bool            `json:"enrolled"`
	OverallProgress int             `json:"overall_progress"`
	Rows            []*UserProgress `json:"rows"`
}

// ProgressOverview bundles the derived values across all roadmaps
type ProgressOverview struct {
	Progress            []*UserProgress   `json:"progress"`
	Enrollments         []*UserEnrollment `json:"enrollments"`
	TotalTimeSpent      int               `json:"total_time_spent"`
	CompletedItemsCount int               `json:"completed_items_count"`
}
