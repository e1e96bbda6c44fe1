package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

// Supabase table names
const (
	progressTable    = "learning_progress"
	enrollmentsTable = "user_enrollments"
	clientsTable     = "api_clients"
)

// SupabaseConfig holds the Supabase project credentials
type SupabaseConfig struct {
	URL string
	Key string
}

// SupabaseRepository implements Repository on top of the Supabase REST API.
// Roadmap-level rows keep topic_id null.
type SupabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository creates a repository for the project at cfg.URL
func NewSupabaseRepository(cfg SupabaseConfig) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseRepository{client: client}, nil
}

type progressRecord struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	RoadmapID          string     `json:"roadmap_id"`
	TopicID            *string    `json:"topic_id"`
	ProgressPercentage float64    `json:"progress_percentage"`
	CompletedAt        *time.Time `json:"completed_at"`
	TimeSpentMinutes   int        `json:"time_spent_minutes"`
	StreakDays         int        `json:"streak_days"`
	LastAccessed       time.Time  `json:"last_accessed"`
}

func (p progressRecord) model() *models.UserProgress {
	return &models.UserProgress{
		ID:                 p.ID,
		UserID:             p.UserID,
		RoadmapID:          p.RoadmapID,
		TopicID:            p.TopicID,
		ProgressPercentage: p.ProgressPercentage,
		CompletedAt:        p.CompletedAt,
		TimeSpentMinutes:   p.TimeSpentMinutes,
		StreakDays:         p.StreakDays,
		LastAccessed:       p.LastAccessed,
	}
}

func newProgressRecord(p *models.UserProgress) progressRecord {
	return progressRecord{
		ID:                 p.ID,
		UserID:             p.UserID,
		RoadmapID:          p.RoadmapID,
		TopicID:            p.TopicID,
		ProgressPercentage: p.ProgressPercentage,
		CompletedAt:        p.CompletedAt,
		TimeSpentMinutes:   p.TimeSpentMinutes,
		StreakDays:         p.StreakDays,
		LastAccessed:       p.LastAccessed,
	}
}

type enrollmentRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RoadmapID  string    `json:"roadmap_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Status     string    `json:"status"`
}

type clientRecord struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	ApiKey      string            `json:"api_key"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUsedAt  *time.Time        `json:"last_used_at"`
	Permissions []string          `json:"permissions"`
	Metadata    map[string]string `json:"metadata"`
}

func (r *SupabaseRepository) ListProgress(_ context.Context, userID string) ([]*models.UserProgress, error) {
	var records []progressRecord
	if _, err := r.client.From(progressTable).Select("*", "", false).Eq("user_id", userID).ExecuteTo(&records); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	result := make([]*models.UserProgress, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.model())
	}
	return result, nil
}

func (r *SupabaseRepository) ListEnrollments(_ context.Context, userID string) ([]*models.UserEnrollment, error) {
	var records []enrollmentRecord
	if _, err := r.client.From(enrollmentsTable).Select("*", "", false).Eq("user_id", userID).ExecuteTo(&records); err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	result := make([]*models.UserEnrollment, 0, len(records))
	for _, rec := range records {
		result = append(result, &models.UserEnrollment{
			ID:         rec.ID,
			UserID:     rec.UserID,
			RoadmapID:  rec.RoadmapID,
			EnrolledAt: rec.EnrolledAt,
			Status:     models.EnrollmentStatus(rec.Status),
		})
	}
	return result, nil
}

func (r *SupabaseRepository) InsertEnrollment(_ context.Context, e *models.UserEnrollment) error {
	record := enrollmentRecord{
		ID:         e.ID,
		UserID:     e.UserID,
		RoadmapID:  e.RoadmapID,
		EnrolledAt: e.EnrolledAt,
		Status:     string(e.Status),
	}

	_, _, err := r.client.From(enrollmentsTable).Insert(record, false, "", "minimal", "").Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", progress.ErrUniqueViolation, err)
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// UpsertProgress reads the current row, merges and writes it back. The REST
// API offers no row lock, so concurrent writers for the same key race.
func (r *SupabaseRepository) UpsertProgress(_ context.Context, u models.ProgressUpdate) (*models.UserProgress, error) {
	query := r.client.From(progressTable).Select("*", "", false).
		Eq("user_id", u.UserID).
		Eq("roadmap_id", u.RoadmapID)
	if u.TopicID == nil {
		query = query.Is("topic_id", "null")
	} else {
		query = query.Eq("topic_id", *u.TopicID)
	}

	var records []progressRecord
	if _, err := query.ExecuteTo(&records); err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	var existing *models.UserProgress
	if len(records) > 0 {
		existing = records[0].model()
	}

	row := progress.Merge(existing, u)

	if existing == nil {
		row.ID = uuid.New().String()
		_, _, err := r.client.From(progressTable).Insert(newProgressRecord(row), false, "", "minimal", "").Execute()
		if err != nil {
			return nil, fmt.Errorf("failed to insert progress: %w", err)
		}
		return row, nil
	}

	_, _, err := r.client.From(progressTable).Update(newProgressRecord(row), "minimal", "").Eq("id", row.ID).Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	return row, nil
}

func (r *SupabaseRepository) GetClientByApiKey(_ context.Context, apiKey string) (*models.ApiClient, error) {
	var records []clientRecord
	if _, err := r.client.From(clientsTable).Select("*", "", false).Eq("api_key", apiKey).ExecuteTo(&records); err != nil {
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	rec := records[0]
	return &models.ApiClient{
		ID:          rec.ID,
		Name:        rec.Name,
		ApiKey:      rec.ApiKey,
		IsActive:    rec.IsActive,
		CreatedAt:   rec.CreatedAt,
		LastUsedAt:  rec.LastUsedAt,
		Permissions: rec.Permissions,
		Metadata:    rec.Metadata,
	}, nil
}

func (r *SupabaseRepository) UpdateClientLastUsed(_ context.Context, apiKey string) error {
	patch := map[string]string{"last_used_at": timeNow().UTC().Format(time.RFC3339)}
	if _, _, err := r.client.From(clientsTable).Update(patch, "minimal", "").Eq("api_key", apiKey).Execute(); err != nil {
		return fmt.Errorf("failed to update client last_used_at: %w", err)
	}
	return nil
}

// Ping issues a head count on the enrollments table
func (r *SupabaseRepository) Ping(context.Context) error {
	_, _, err := r.client.From(enrollmentsTable).Select("id", "exact", true).Limit(1, "").Execute()
	if err != nil {
		return fmt.Errorf("supabase ping failed: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) Close() error { return nil }

// isUniqueViolation recognises the SQLSTATE carried in PostgREST error text
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), uniqueViolation)
}
