package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// TaskRepository handles checklist task database operations
type TaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `id, handover_id, template_task_id, title, description, category,
	status, priority, due_date, successor_acknowledged, successor_acknowledged_at,
	created_at, updated_at`

// Create inserts a new task
func (r *TaskRepository) Create(tx *sql.Tx, t *models.Task) error {
	query := `
		INSERT INTO tasks (
			id, handover_id, template_task_id, title, description, category,
			status, priority, due_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(tx, r.db, query,
		t.ID, t.HandoverID, t.TemplateTaskID, t.Title, t.Description, t.Category,
		t.Status, t.Priority, t.DueDate,
	)
	if err != nil {
		r.logger.Error("Failed to create task", zap.String("id", t.ID), zap.Error(err))
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID; returns nil when not found
func (r *TaskRepository) GetByID(id string) (*models.Task, error) {
	row := r.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get task", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListByHandover retrieves all tasks for a handover in creation order
func (r *TaskRepository) ListByHandover(handoverID string) ([]models.Task, error) {
	rows, err := r.db.Query(
		`SELECT `+taskColumns+` FROM tasks WHERE handover_id = ? ORDER BY created_at, rowid`,
		handoverID,
	)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.String("handover_id", handoverID), zap.Error(err))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateStatus sets the task status
func (r *TaskRepository) UpdateStatus(tx *sql.Tx, id, status string) error {
	query := `UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, status, id); err != nil {
		r.logger.Error("Failed to update task status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

// UpdateDetails sets the mutable descriptive fields
func (r *TaskRepository) UpdateDetails(tx *sql.Tx, id, description, category, priority string, dueDate *time.Time) error {
	query := `UPDATE tasks SET description = ?, category = ?, priority = ?, due_date = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, description, category, priority, dueDate, id); err != nil {
		r.logger.Error("Failed to update task details", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update task details: %w", err)
	}
	return nil
}

// SetAcknowledged records the successor acknowledgment
func (r *TaskRepository) SetAcknowledged(tx *sql.Tx, id string, at time.Time) error {
	query := `UPDATE tasks SET successor_acknowledged = 1, successor_acknowledged_at = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, at, id); err != nil {
		r.logger.Error("Failed to set acknowledgment", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set acknowledgment: %w", err)
	}
	return nil
}

// TaskCounts holds per-handover task counters
type TaskCounts struct {
	Total        int
	Completed    int
	Acknowledged int
}

// CountByHandover returns total, completed, and acknowledged task counts
func (r *TaskRepository) CountByHandover(handoverID string) (TaskCounts, error) {
	var c TaskCounts
	err := r.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(successor_acknowledged), 0)
		FROM tasks WHERE handover_id = ?
	`, handoverID).Scan(&c.Total, &c.Completed, &c.Acknowledged)
	if err != nil {
		r.logger.Error("Failed to count tasks", zap.String("handover_id", handoverID), zap.Error(err))
		return TaskCounts{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	return c, nil
}

// HasTemplateTasks reports whether the template has already been applied to
// the handover.
func (r *TaskRepository) HasTemplateTasks(handoverID, templateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM tasks t
			JOIN template_tasks tt ON tt.id = t.template_task_id
			WHERE t.handover_id = ? AND tt.template_id = ?
		)
	`, handoverID, templateID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check template application: %w", err)
	}
	return exists, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var dueDate, ackedAt sql.NullTime
	var acked int
	err := row.Scan(
		&t.ID, &t.HandoverID, &t.TemplateTaskID, &t.Title, &t.Description, &t.Category,
		&t.Status, &t.Priority, &dueDate, &acked, &ackedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.SuccessorAcknowledged = acked != 0
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if ackedAt.Valid {
		t.SuccessorAcknowledgedAt = &ackedAt.Time
	}
	return &t, nil
}
