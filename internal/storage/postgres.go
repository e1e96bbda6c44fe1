package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/learnpath/internal/models"
	"github.com/terra-clan/learnpath/internal/progress"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	poolConfig.MinConns = 2
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Pool exposes the connection pool for migrations
func (r *PostgresRepository) Pool() *pgxpool.Pool {
	return r.pool
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Progress ---

const progressColumns = `id, user_id, roadmap_id, topic_id, progress_percentage, completed_at, time_spent_minutes, streak_days, last_accessed`

// ListProgress returns every learning_progress row of the user
func (r *PostgresRepository) ListProgress(ctx context.Context, userID string) ([]*models.UserProgress, error) {
	query := `SELECT ` + progressColumns + ` FROM learning_progress WHERE user_id = $1 ORDER BY last_accessed DESC, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserProgress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		result = append(result, p)
	}

	return result, rows.Err()
}

// UpsertProgress merges the update into the row keyed by (user, roadmap, topic)
func (r *PostgresRepository) UpsertProgress(ctx context.Context, u models.ProgressUpdate) (*models.UserProgress, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + progressColumns + ` FROM learning_progress
		WHERE user_id = $1 AND roadmap_id = $2 AND topic_id = $3
		FOR UPDATE`

	existing, err := scanProgress(tx.QueryRow(ctx, query, u.UserID, u.RoadmapID, topicKey(u.TopicID)))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}

	row := progress.Merge(existing, u)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	upsert := `
		INSERT INTO learning_progress (` + progressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, roadmap_id, topic_id) DO UPDATE
		SET progress_percentage = EXCLUDED.progress_percentage,
		    completed_at = EXCLUDED.completed_at,
		    time_spent_minutes = EXCLUDED.time_spent_minutes,
		    streak_days = EXCLUDED.streak_days,
		    last_accessed = EXCLUDED.last_accessed
	`

	_, err = tx.Exec(ctx, upsert,
		row.ID,
		row.UserID,
		row.RoadmapID,
		topicKey(row.TopicID),
		row.ProgressPercentage,
		nullTime(row.CompletedAt),
		row.TimeSpentMinutes,
		row.StreakDays,
		row.LastAccessed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress: %w", err)
	}

	return row, nil
}

// --- Enrollments ---

// ListEnrollments returns every user_enrollments row of the user
func (r *PostgresRepository) ListEnrollments(ctx context.Context, userID string) ([]*models.UserEnrollment, error) {
	query := `
		SELECT id, user_id, roadmap_id, enrolled_at, status
		FROM user_enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserEnrollment, 0)
	for rows.Next() {
		var e models.UserEnrollment
		var status string
		if err := rows.Scan(&e.ID, &e.UserID, &e.RoadmapID, &e.EnrolledAt, &status); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		e.Status = models.EnrollmentStatus(status)
		result = append(result, &e)
	}

	return result, rows.Err()
}

// InsertEnrollment inserts an enrollment; a duplicate (user, roadmap) pair
// yields progress.ErrUniqueViolation
func (r *PostgresRepository) InsertEnrollment(ctx context.Context, e *models.UserEnrollment) error {
	query := `
		INSERT INTO user_enrollments (id, user_id, roadmap_id, enrolled_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, e.ID, e.UserID, e.RoadmapID, e.EnrolledAt, string(e.Status))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", progress.ErrUniqueViolation, pgErr.ConstraintName)
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}

	return nil
}

// --- API Clients ---

// GetClientByApiKey retrieves an API client by its key
func (r *PostgresRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	query := `
		SELECT id, name, api_key, is_active, created_at, last_used_at, permissions, metadata
		FROM api_clients
		WHERE api_key = $1
	`

	var client models.ApiClient
	var lastUsedAt sql.NullTime
	var permissionsJSON, metadataJSON []byte

	err := r.pool.QueryRow(ctx, query, apiKey).Scan(
		&client.ID,
		&client.Name,
		&client.ApiKey,
		&client.IsActive,
		&client.CreatedAt,
		&lastUsedAt,
		&permissionsJSON,
		&metadataJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get api client: %w", err)
	}

	if lastUsedAt.Valid {
		client.LastUsedAt = &lastUsedAt.Time
	}
	if permissionsJSON != nil {
		if err := json.Unmarshal(permissionsJSON, &client.Permissions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal permissions: %w", err)
		}
	}
	if metadataJSON != nil {
		if err := json.Unmarshal(metadataJSON, &client.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &client, nil
}

// UpdateClientLastUsed updates the last_used_at timestamp for a client
func (r *PostgresRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_clients SET last_used_at = NOW() WHERE api_key = $1`, apiKey)
	if err != nil {
		return fmt.Errorf("failed to update client last_used_at: %w", err)
	}
	return nil
}

func scanProgress(row pgx.Row) (*models.UserProgress, error) {
	var p models.UserProgress
	var topicID string
	var completedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.RoadmapID,
		&topicID,
		&p.ProgressPercentage,
		&completedAt,
		&p.TimeSpentMinutes,
		&p.StreakDays,
		&p.LastAccessed,
	)
	if err != nil {
		return nil, err
	}

	if topicID != "" {
		p.TopicID = &topicID
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}

	return &p, nil
}

// Helper functions for nullable values

// topicKey maps a roadmap-level row (nil topic) to the empty string so the
// unique index covers it
func topicKey(topicID *string) string {
	if topicID == nil {
		return ""
	}
	return *topicID
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
