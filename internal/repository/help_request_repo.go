package repository

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// HelpRequestRepository handles help request database operations
type HelpRequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHelpRequestRepository creates a new help request repository
func NewHelpRequestRepository(db *sql.DB, logger *zap.Logger) *HelpRequestRepository {
	return &HelpRequestRepository{db: db, logger: logger}
}

const helpRequestColumns = `id, task_id, handover_id, requester_id, request_type,
	message, status, response, responded_at, resolved_at, created_at`

// Create inserts a new help request
func (r *HelpRequestRepository) Create(tx *sql.Tx, h *models.HelpRequest) error {
	query := `
		INSERT INTO help_requests (id, task_id, handover_id, requester_id, request_type, message, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(tx, r.db, query, h.ID, h.TaskID, h.HandoverID, h.RequesterID, h.RequestType, h.Message, h.Status)
	if err != nil {
		r.logger.Error("Failed to create help request", zap.String("id", h.ID), zap.Error(err))
		return fmt.Errorf("failed to create help request: %w", err)
	}
	return nil
}

// GetByID retrieves a help request by ID; returns nil when not found
func (r *HelpRequestRepository) GetByID(id string) (*models.HelpRequest, error) {
	row := r.db.QueryRow(`SELECT `+helpRequestColumns+` FROM help_requests WHERE id = ?`, id)
	h, err := scanHelpRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get help request", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get help request: %w", err)
	}
	return h, nil
}

// ListByHandover retrieves help requests for a handover, newest first
func (r *HelpRequestRepository) ListByHandover(handoverID string) ([]models.HelpRequest, error) {
	rows, err := r.db.Query(
		`SELECT `+helpRequestColumns+` FROM help_requests WHERE handover_id = ? ORDER BY created_at DESC, rowid DESC`,
		handoverID,
	)
	if err != nil {
		r.logger.Error("Failed to list help requests", zap.String("handover_id", handoverID), zap.Error(err))
		return nil, fmt.Errorf("failed to list help requests: %w", err)
	}
	defer rows.Close()

	var requests []models.HelpRequest
	for rows.Next() {
		h, err := scanHelpRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan help request: %w", err)
		}
		requests = append(requests, *h)
	}
	return requests, rows.Err()
}

// SetReplied records the response and moves the request to replied
func (r *HelpRequestRepository) SetReplied(tx *sql.Tx, id, response string, at time.Time) error {
	query := `UPDATE help_requests SET status = ?, response = ?, responded_at = ? WHERE id = ?`
	if _, err := exec(tx, r.db, query, models.HelpRequestStatusReplied, response, at, id); err != nil {
		r.logger.Error("Failed to set reply", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to set reply: %w", err)
	}
	return nil
}

// SetResolved moves the request to its terminal state
func (r *HelpRequestRepository) SetResolved(tx *sql.Tx, id string, at time.Time) error {
	query := `UPDATE help_requests SET status = ?, resolved_at = ? WHERE id = ?`
	if _, err := exec(tx, r.db, query, models.HelpRequestStatusResolved, at, id); err != nil {
		r.logger.Error("Failed to resolve help request", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to resolve help request: %w", err)
	}
	return nil
}

// CountPendingByHandover returns pending counts keyed by handover id, used
// for the dashboard escalation badges.
func (r *HelpRequestRepository) CountPendingByHandover() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT handover_id, COUNT(*) FROM help_requests
		WHERE status = ? GROUP BY handover_id
	`, models.HelpRequestStatusPending)
	if err != nil {
		r.logger.Error("Failed to count pending help requests", zap.Error(err))
		return nil, fmt.Errorf("failed to count pending help requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var handoverID string
		var count int
		if err := rows.Scan(&handoverID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan pending count: %w", err)
		}
		counts[handoverID] = count
	}
	return counts, rows.Err()
}

func scanHelpRequest(row rowScanner) (*models.HelpRequest, error) {
	var h models.HelpRequest
	var respondedAt, resolvedAt sql.NullTime
	err := row.Scan(
		&h.ID, &h.TaskID, &h.HandoverID, &h.RequesterID, &h.RequestType,
		&h.Message, &h.Status, &h.Response, &respondedAt, &resolvedAt, &h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if respondedAt.Valid {
		h.RespondedAt = &respondedAt.Time
	}
	if resolvedAt.Valid {
		h.ResolvedAt = &resolvedAt.Time
	}
	return &h, nil
}
