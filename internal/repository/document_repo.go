package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"handoverhub/internal/models"
)

// DocumentRepository handles uploaded document database operations
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// Create inserts a document record
func (r *DocumentRepository) Create(tx *sql.Tx, d *models.Document) error {
	query := `
		INSERT INTO documents (id, handover_id, uploader_id, file_name, file_path, content_type, size_bytes, extracted_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := exec(tx, r.db, query,
		d.ID, d.HandoverID, d.UploaderID, d.FileName, d.FilePath, d.ContentType, d.SizeBytes, d.ExtractedText)
	if err != nil {
		r.logger.Error("Failed to create document", zap.String("id", d.ID), zap.Error(err))
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByID retrieves a document by ID; returns nil when not found
func (r *DocumentRepository) GetByID(id string) (*models.Document, error) {
	var d models.Document
	err := r.db.QueryRow(`
		SELECT id, handover_id, uploader_id, file_name, file_path, content_type, size_bytes, extracted_text, created_at
		FROM documents WHERE id = ?
	`, id).Scan(&d.ID, &d.HandoverID, &d.UploaderID, &d.FileName, &d.FilePath, &d.ContentType, &d.SizeBytes, &d.ExtractedText, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListByHandover retrieves documents for a handover in upload order
func (r *DocumentRepository) ListByHandover(handoverID string) ([]models.Document, error) {
	rows, err := r.db.Query(`
		SELECT id, handover_id, uploader_id, file_name, file_path, content_type, size_bytes, extracted_text, created_at
		FROM documents WHERE handover_id = ? ORDER BY created_at, rowid
	`, handoverID)
	if err != nil {
		r.logger.Error("Failed to list documents", zap.String("handover_id", handoverID), zap.Error(err))
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.HandoverID, &d.UploaderID, &d.FileName, &d.FilePath,
			&d.ContentType, &d.SizeBytes, &d.ExtractedText, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
