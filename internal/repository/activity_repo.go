package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// ActivityRepository handles the append-only activity log
type ActivityRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

// Create appends an activity event
func (r *ActivityRepository) Create(tx *sql.Tx, a *models.Activity) error {
	query := `INSERT INTO activities (id, handover_id, actor_id, action, detail) VALUES (?, ?, ?, ?, ?)`
	if _, err := exec(tx, r.db, query, a.ID, a.HandoverID, a.ActorID, a.Action, a.Detail); err != nil {
		r.logger.Error("Failed to record activity", zap.String("action", a.Action), zap.Error(err))
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListByHandover retrieves a handover's activity feed, newest first
func (r *ActivityRepository) ListByHandover(handoverID string, limit int) ([]models.Activity, error) {
	rows, err := r.db.Query(`
		SELECT id, handover_id, actor_id, action, detail, created_at
		FROM activities WHERE handover_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, handoverID, limit)
	if err != nil {
		r.logger.Error("Failed to list activities", zap.String("handover_id", handoverID), zap.Error(err))
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ListRecent retrieves the most recent activity across all handovers
func (r *ActivityRepository) ListRecent(limit int) ([]models.Activity, error) {
	rows, err := r.db.Query(`
		SELECT id, handover_id, actor_id, action, detail, created_at
		FROM activities ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		r.logger.Error("Failed to list recent activities", zap.Error(err))
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows *sql.Rows) ([]models.Activity, error) {
	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.HandoverID, &a.ActorID, &a.Action, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
