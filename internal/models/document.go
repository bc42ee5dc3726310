package models

import "time"

// Document is a file uploaded by the exiting employee against a handover.
// Extracted text (PDFs only) feeds the AI insight prompt context.
type Document struct {
	ID            string    `json:"id"`
	HandoverID    string    `json:"handover_id"`
	UploaderID    string    `json:"uploader_id"`
	FileName      string    `json:"file_name"`
	FilePath      string    `json:"file_path"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
