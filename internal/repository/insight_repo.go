package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// InsightRepository handles task insight database operations. The insight
// list is append-only; entries are edited in place by id.
type InsightRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *sql.DB, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{db: db, logger: logger}
}

// Create appends a new insight to a task
func (r *InsightRepository) Create(tx *sql.Tx, ins *models.TaskInsight) error {
	attachments, err := json.Marshal(ins.Attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}
	query := `INSERT INTO task_insights (id, task_id, topic, content, attachments) VALUES (?, ?, ?, ?, ?)`
	if _, err := exec(tx, r.db, query, ins.ID, ins.TaskID, ins.Topic, ins.Content, string(attachments)); err != nil {
		r.logger.Error("Failed to create insight", zap.String("task_id", ins.TaskID), zap.Error(err))
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

// Update edits an existing insight in place
func (r *InsightRepository) Update(tx *sql.Tx, id, topic, content string, attachments []string) error {
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to marshal attachments: %w", err)
	}
	query := `UPDATE task_insights SET topic = ?, content = ?, attachments = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := exec(tx, r.db, query, topic, content, string(encoded), id)
	if err != nil {
		r.logger.Error("Failed to update insight", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update insight: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("insight not found: %s", id)
	}
	return nil
}

// ListByTask retrieves insights in ascending creation order
func (r *InsightRepository) ListByTask(taskID string) ([]models.TaskInsight, error) {
	rows, err := r.db.Query(`
		SELECT id, task_id, topic, content, attachments, created_at, updated_at
		FROM task_insights WHERE task_id = ? ORDER BY created_at, rowid
	`, taskID)
	if err != nil {
		r.logger.Error("Failed to list insights", zap.String("task_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var insights []models.TaskInsight
	for rows.Next() {
		var ins models.TaskInsight
		var attachments string
		if err := rows.Scan(&ins.ID, &ins.TaskID, &ins.Topic, &ins.Content, &attachments, &ins.CreatedAt, &ins.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		if err := json.Unmarshal([]byte(attachments), &ins.Attachments); err != nil {
			r.logger.Warn("Malformed attachment list", zap.String("id", ins.ID), zap.Error(err))
		}
		insights = append(insights, ins)
	}
	return insights, rows.Err()
}
