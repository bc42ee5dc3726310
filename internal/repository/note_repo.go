package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// NoteRepository handles task note database operations
type NoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sql.DB, logger *zap.Logger) *NoteRepository {
	return &NoteRepository{db: db, logger: logger}
}

// Create inserts a new note
func (r *NoteRepository) Create(tx *sql.Tx, n *models.TaskNote) error {
	query := `INSERT INTO task_notes (id, task_id, author_id, content) VALUES (?, ?, ?, ?)`
	if _, err := exec(tx, r.db, query, n.ID, n.TaskID, n.AuthorID, n.Content); err != nil {
		r.logger.Error("Failed to create note", zap.String("task_id", n.TaskID), zap.Error(err))
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// ListByTask retrieves notes in ascending creation order, the order the
// projection joins them in.
func (r *NoteRepository) ListByTask(taskID string) ([]models.TaskNote, error) {
	rows, err := r.db.Query(`
		SELECT id, task_id, author_id, content, created_at
		FROM task_notes WHERE task_id = ? ORDER BY created_at, rowid
	`, taskID)
	if err != nil {
		r.logger.Error("Failed to list notes", zap.String("task_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.TaskNote
	for rows.Next() {
		var n models.TaskNote
		if err := rows.Scan(&n.ID, &n.TaskID, &n.AuthorID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
