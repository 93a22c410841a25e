package models

import "time"

type DocumentType string

const (
	DocumentTypeEventMenu    DocumentType = "event_menu"
	DocumentTypeEventDetails DocumentType = "event_details"
	DocumentTypeBasePricing  DocumentType = "base_pricing"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeEventMenu, DocumentTypeEventDetails, DocumentTypeBasePricing:
		return true
	}
	return false
}

// IndexDocument is the unit handed to indexing collaborators.
type IndexDocument struct {
	Content        string                 `json:"content"`
	Metadata       map[string]interface{} `json:"metadata"`
	DocumentType   DocumentType           `json:"document_type"`
	SourceFilename string                 `json:"source_filename,omitempty"`
	// SourceID is the lister's identifier: a local path, object name or
	// Drive file id. Unlike the filename it is unique within a source.
	SourceID string `json:"source_id,omitempty"`
}

// SourceRef identifies one blob in a source collection.
type SourceRef struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type,omitempty"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

type SearchMatch struct {
	Score        float32                `json:"score"`
	DocumentType DocumentType           `json:"document_type"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type BatchResult struct {
	Records      []EventRecord   `json:"-"`
	Documents    []IndexDocument `json:"-"`
	Summaries    []EventSummary  `json:"summaries"`
	TotalFiles   int             `json:"total_files"`
	SuccessCount int             `json:"success_count"`
	SkippedCount int             `json:"skipped_count"`
	ErrorCount   int             `json:"error_count"`
	ErrorDetails []string        `json:"error_details,omitempty"`
	TotalTime    time.Duration   `json:"total_time"`
}
