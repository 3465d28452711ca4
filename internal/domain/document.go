package domain

// PDFMediaType is the only media type accepted for upload.
const PDFMediaType = "application/pdf"

// MaxDocumentSize is the per-file upload cap enforced by FileSet (14 MiB).
const MaxDocumentSize = 14 * 1024 * 1024

// Document represents a candidate PDF held in memory until the signing job
// that contains it finishes or the workflow is reset.
type Document struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	PageCount int    `json:"page_count,omitempty"`

	// Content is the raw file payload. Never serialized to the UI.
	Content []byte `json:"-"`
}

// Validate checks the structural invariants of a document entry.
func (d *Document) Validate() error {
	if d.Name == "" {
		return &FieldError{Field: "name", Message: "file name is required"}
	}
	if d.MediaType != PDFMediaType {
		return ErrNotPDF
	}
	if d.Size <= 0 {
		return &FieldError{Field: "size", Message: "file size must be positive"}
	}
	if d.Size > MaxDocumentSize {
		return ErrDocumentTooLarge
	}
	return nil
}

// Rejection reports why a candidate file was not added to the set.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}
