package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DocumentStore defines the interface for handover document storage
type DocumentStore interface {
	// Save writes content under the handover's folder and returns the full path
	Save(handoverID, fileName string, content []byte) (string, error)

	// Read returns the content of a previously saved document
	Read(fullPath string) ([]byte, error)

	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
}

// LocalDocumentStore implements DocumentStore on the local filesystem, one
// folder per handover.
type LocalDocumentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalDocumentStore creates a new LocalDocumentStore
func NewLocalDocumentStore(baseDir string, logger *zap.Logger) *LocalDocumentStore {
	return &LocalDocumentStore{
		baseDir: baseDir,
		logger:  logger,
	}
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// SanitizeName strips path separators, parent references and anything
// outside the filesystem-safe character set.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeNameChars.ReplaceAllString(name, "")
}

// Save writes content to <base>/<handoverID>/<fileName>, creating the
// handover folder if needed.
func (s *LocalDocumentStore) Save(handoverID, fileName string, content []byte) (string, error) {
	if handoverID == "" {
		return "", fmt.Errorf("cannot save document: empty handover ID")
	}

	safeFolder := SanitizeName(handoverID)
	safeName := SanitizeName(fileName)
	if safeName == "" {
		return "", fmt.Errorf("cannot save document: unusable file name %q", fileName)
	}
	fullPath := filepath.Join(s.baseDir, safeFolder, safeName)

	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create handover folder",
			zap.String("handover_id", handoverID),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write document",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("Document saved",
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// Read returns the document content after validating the path.
func (s *LocalDocumentStore) Read(fullPath string) ([]byte, error) {
	if err := s.ValidatePath(fullPath); err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalDocumentStore) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		return fmt.Errorf("path escapes base directory: %s", fullPath)
	}
	return nil
}
