package service

import (
	"bytes"

	"github.com/google/uuid"

	"mass-sign-client/internal/domain"
)

// FileSet holds the candidate documents for the next signing job and enforces
// the upload constraints: PDF media type, the per-file size cap, and
// (name, size) uniqueness. It is a pure value component; the owning workflow
// serializes access.
type FileSet struct {
	inspector domain.PDFInspector
	maxSize   int64
	docs      []domain.Document
}

// NewFileSet creates an empty set. A zero maxSize falls back to the domain
// default. The inspector may be nil to skip the structural probe.
func NewFileSet(inspector domain.PDFInspector, maxSize int64) *FileSet {
	if maxSize <= 0 {
		maxSize = domain.MaxDocumentSize
	}
	return &FileSet{inspector: inspector, maxSize: maxSize}
}

// Add validates each candidate and appends the acceptable ones in order.
// Rejected candidates are reported with a reason and never modify the set.
func (s *FileSet) Add(candidates []domain.Document) (added []domain.Document, rejected []domain.Rejection) {
	for _, cand := range candidates {
		if reason := s.check(cand); reason != "" {
			rejected = append(rejected, domain.Rejection{Name: cand.Name, Reason: reason})
			continue
		}
		if cand.ID == "" {
			cand.ID = uuid.NewString()
		}
		if s.inspector != nil {
			pages, err := s.inspector.PageCount(bytes.NewReader(cand.Content))
			if err != nil {
				rejected = append(rejected, domain.Rejection{
					Name:   cand.Name,
					Reason: domain.ErrMalformedPDF.Error(),
				})
				continue
			}
			cand.PageCount = pages
		}
		s.docs = append(s.docs, cand)
		added = append(added, cand)
	}
	return added, rejected
}

// check returns a rejection reason, or empty for an acceptable candidate.
func (s *FileSet) check(cand domain.Document) string {
	if cand.MediaType != domain.PDFMediaType {
		return domain.ErrNotPDF.Error()
	}
	if cand.Size > s.maxSize {
		return domain.ErrDocumentTooLarge.Error()
	}
	if cand.Size <= 0 {
		return "file is empty"
	}
	for _, doc := range s.docs {
		if doc.Name == cand.Name && doc.Size == cand.Size {
			return domain.ErrDuplicateFile.Error()
		}
	}
	return ""
}

// Remove deletes the entry at the given position.
func (s *FileSet) Remove(index int) error {
	if index < 0 || index >= len(s.docs) {
		return domain.ErrIndexOutOfRange
	}
	s.docs = append(s.docs[:index], s.docs[index+1:]...)
	return nil
}

// Clear empties the set.
func (s *FileSet) Clear() {
	s.docs = nil
}

// Documents returns a copy of the current entries in insertion order.
func (s *FileSet) Documents() []domain.Document {
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Len returns the number of entries.
func (s *FileSet) Len() int {
	return len(s.docs)
}
