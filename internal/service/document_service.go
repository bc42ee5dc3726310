package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"handoverhub/internal/document"
	"handoverhub/internal/models"
	"handoverhub/internal/repository"
	"handoverhub/internal/storage"
	"handoverhub/pkg/database"
)

// ErrUploadTooLarge is returned when an upload exceeds the configured limit.
var ErrUploadTooLarge = fmt.Errorf("upload exceeds maximum size")

// DocumentService stores handover documents and extracts their text for the
// AI insight pipeline.
type DocumentService struct {
	db        *database.DB
	documents *repository.DocumentRepository
	handovers *HandoverService
	store     storage.DocumentStore
	extractor document.TextExtractor
	maxSize   int64
	logger    *zap.Logger
}

func NewDocumentService(
	db *database.DB,
	documents *repository.DocumentRepository,
	handovers *HandoverService,
	store storage.DocumentStore,
	extractor document.TextExtractor,
	maxSize int64,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		db:        db,
		documents: documents,
		handovers: handovers,
		store:     store,
		extractor: extractor,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// Upload persists the file, extracts text when possible and records the
// document against the handover.
func (s *DocumentService) Upload(ctx context.Context, handoverID, uploaderID, fileName, contentType string, content []byte) (*models.Document, error) {
	if s.maxSize > 0 && int64(len(content)) > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrUploadTooLarge, len(content), s.maxSize)
	}

	if _, err := s.handovers.Get(ctx, handoverID); err != nil {
		return nil, err
	}

	path, err := s.store.Save(handoverID, fileName, content)
	if err != nil {
		return nil, err
	}

	// Extraction is best-effort; a corrupt PDF still stores fine.
	text, err := s.extractor.Extract(path)
	if err != nil {
		s.logger.Warn("Text extraction failed",
			zap.String("path", path),
			zap.Error(err))
		text = ""
	}

	doc := &models.Document{
		ID:            uuid.NewString(),
		HandoverID:    handoverID,
		UploaderID:    uploaderID,
		FileName:      fileName,
		FilePath:      path,
		ContentType:   contentType,
		SizeBytes:     int64(len(content)),
		ExtractedText: text,
	}
	err = s.db.WithTransaction(func(tx *sql.Tx) error {
		if err := s.documents.Create(tx, doc); err != nil {
			return err
		}
		return s.handovers.recordActivity(tx, handoverID, uploaderID, models.ActionDocumentUploaded, fileName)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("handover_id", handoverID),
		zap.Int64("size", doc.SizeBytes))
	return doc, nil
}

// ListByHandover returns a handover's documents.
func (s *DocumentService) ListByHandover(ctx context.Context, handoverID string) ([]models.Document, error) {
	return s.documents.ListByHandover(handoverID)
}

// Download returns a stored document's content.
func (s *DocumentService) Download(ctx context.Context, documentID string) (*models.Document, []byte, error) {
	doc, err := s.documents.GetByID(documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("%w: document %s", ErrNotFound, documentID)
	}
	content, err := s.store.Read(doc.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, content, nil
}
