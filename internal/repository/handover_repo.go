package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// HandoverRepository handles handover database operations
type HandoverRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHandoverRepository creates a new handover repository
func NewHandoverRepository(db *sql.DB, logger *zap.Logger) *HandoverRepository {
	return &HandoverRepository{db: db, logger: logger}
}

const handoverColumns = `id, exiting_employee_id, exiting_employee_email, exiting_employee_name,
	successor_id, successor_email, successor_name, department, status,
	progress, task_count, completed_tasks, ai_risk_level, ai_recommendation,
	approved_by, approved_at, created_at, updated_at`

// Create inserts a new handover
func (r *HandoverRepository) Create(tx *sql.Tx, h *models.Handover) error {
	query := `
		INSERT INTO handovers (
			id, exiting_employee_id, exiting_employee_email, exiting_employee_name,
			successor_id, successor_email, successor_name, department, status,
			progress, task_count, completed_tasks, ai_risk_level, ai_recommendation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(tx, r.db, query,
		h.ID, h.ExitingEmployeeID, h.ExitingEmployeeEmail, h.ExitingEmployeeName,
		h.SuccessorID, h.SuccessorEmail, h.SuccessorName, h.Department, h.Status,
		h.Progress, h.TaskCount, h.CompletedTasks, h.AIRiskLevel, h.AIRecommendation,
	)
	if err != nil {
		r.logger.Error("Failed to create handover", zap.String("id", h.ID), zap.Error(err))
		return fmt.Errorf("failed to create handover: %w", err)
	}
	return nil
}

// GetByID retrieves a handover by ID; returns nil when not found
func (r *HandoverRepository) GetByID(id string) (*models.Handover, error) {
	row := r.db.QueryRow(`SELECT `+handoverColumns+` FROM handovers WHERE id = ?`, id)
	h, err := scanHandover(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get handover", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get handover: %w", err)
	}
	return h, nil
}

// List retrieves all handovers in creation order. The aggregation engine
// operates on this full list.
func (r *HandoverRepository) List() ([]models.Handover, error) {
	rows, err := r.db.Query(`SELECT ` + handoverColumns + ` FROM handovers ORDER BY created_at, rowid`)
	if err != nil {
		r.logger.Error("Failed to list handovers", zap.Error(err))
		return nil, fmt.Errorf("failed to list handovers: %w", err)
	}
	defer rows.Close()

	var handovers []models.Handover
	for rows.Next() {
		h, err := scanHandover(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan handover: %w", err)
		}
		handovers = append(handovers, *h)
	}
	return handovers, rows.Err()
}

// AssignSuccessor attaches a successor to the handover
func (r *HandoverRepository) AssignSuccessor(tx *sql.Tx, id, successorID, email, name string) error {
	query := `UPDATE handovers SET successor_id = ?, successor_email = ?, successor_name = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, successorID, email, name, id); err != nil {
		r.logger.Error("Failed to assign successor", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to assign successor: %w", err)
	}
	return nil
}

// UpdateStatus updates the lifecycle status
func (r *HandoverRepository) UpdateStatus(tx *sql.Tx, id, status string) error {
	query := `UPDATE handovers SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, status, id); err != nil {
		r.logger.Error("Failed to update handover status", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update handover status: %w", err)
	}
	return nil
}

// UpdateProgress stores the recomputed task counters and derived progress
func (r *HandoverRepository) UpdateProgress(tx *sql.Tx, id string, progress, taskCount, completedTasks int) error {
	query := `UPDATE handovers SET progress = ?, task_count = ?, completed_tasks = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, progress, taskCount, completedTasks, id); err != nil {
		r.logger.Error("Failed to update handover progress", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update handover progress: %w", err)
	}
	return nil
}

// UpdateAIInsight stores the advisory risk assessment
func (r *HandoverRepository) UpdateAIInsight(tx *sql.Tx, id, riskLevel, recommendation string) error {
	query := `UPDATE handovers SET ai_risk_level = ?, ai_recommendation = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, riskLevel, recommendation, id); err != nil {
		r.logger.Error("Failed to update AI insight", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update AI insight: %w", err)
	}
	return nil
}

// SetApproval records the manager approval that closes the handover
func (r *HandoverRepository) SetApproval(tx *sql.Tx, id, approvedBy string, approvedAt time.Time) error {
	query := `UPDATE handovers SET approved_by = ?, approved_at = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := exec(tx, r.db, query, approvedBy, approvedAt, id); err != nil {
		r.logger.Error("Failed to set approval", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set approval: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHandover(row rowScanner) (*models.Handover, error) {
	var h models.Handover
	var approvedAt sql.NullTime
	err := row.Scan(
		&h.ID, &h.ExitingEmployeeID, &h.ExitingEmployeeEmail, &h.ExitingEmployeeName,
		&h.SuccessorID, &h.SuccessorEmail, &h.SuccessorName, &h.Department, &h.Status,
		&h.Progress, &h.TaskCount, &h.CompletedTasks, &h.AIRiskLevel, &h.AIRecommendation,
		&h.ApprovedBy, &approvedAt, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		h.ApprovedAt = &approvedAt.Time
	}
	return &h, nil
}

// exec runs the statement on the transaction when present, otherwise on the
// connection pool.
func exec(tx *sql.Tx, db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	if tx != nil {
		return tx.Exec(query, args...)
	}
	return db.Exec(query, args...)
}
