package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// TextExtractor pulls plain text out of an uploaded document for the AI
// insight prompt context. Unsupported formats return empty text, not errors.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// PDFExtractor extracts text from PDF files using mupdf.
type PDFExtractor struct {
	maxPages int
	logger   *zap.Logger
}

// NewPDFExtractor creates a new PDF text extractor. maxPages caps how many
// pages are read per document; zero means all pages.
func NewPDFExtractor(maxPages int, logger *zap.Logger) *PDFExtractor {
	return &PDFExtractor{
		maxPages: maxPages,
		logger:   logger,
	}
}

// Extract returns the concatenated page text of a PDF. Non-PDF files yield
// empty text.
func (e *PDFExtractor) Extract(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("document not found: %s", path)
	}
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		return "", nil
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if e.maxPages > 0 && pageCount > e.maxPages {
		pageCount = e.maxPages
	}

	var b strings.Builder
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			e.logger.Warn("Failed to extract page text",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	e.logger.Debug("Extracted PDF text",
		zap.String("path", path),
		zap.Int("pages", pageCount),
		zap.Int("chars", b.Len()))
	return strings.TrimSpace(b.String()), nil
}
