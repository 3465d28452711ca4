package domain

import (
	"errors"
	"testing"
)

// TestDocument_Validate tests the structural invariants of a document entry:
// - PDF media type is mandatory
// - size must be positive and at most 14 MiB
// - a display name is required
func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr error
	}{
		{
			name: "Valid document",
			doc:  Document{ID: "doc-1", Name: "doc.pdf", MediaType: PDFMediaType, Size: 2 * 1024 * 1024},
		},
		{
			name:    "Wrong media type",
			doc:     Document{ID: "doc-1", Name: "doc.txt", MediaType: "text/plain", Size: 100},
			wantErr: ErrNotPDF,
		},
		{
			name:    "Oversized",
			doc:     Document{ID: "doc-1", Name: "big.pdf", MediaType: PDFMediaType, Size: MaxDocumentSize + 1},
			wantErr: ErrDocumentTooLarge,
		},
		{
			name: "Exactly at the limit",
			doc:  Document{ID: "doc-1", Name: "edge.pdf", MediaType: PDFMediaType, Size: MaxDocumentSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDocument_Validate_MissingName(t *testing.T) {
	doc := Document{ID: "doc-1", MediaType: PDFMediaType, Size: 100}
	err := doc.Validate()
	if err == nil {
		t.Fatal("expected an error for a missing name")
	}
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected a FieldError, got %T", err)
	}
	if fieldErr.Field != "name" {
		t.Errorf("expected field name, got %s", fieldErr.Field)
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	if JobRunning.Terminal() {
		t.Error("running must not be terminal")
	}
	if !JobCompleted.Terminal() || !JobError.Terminal() {
		t.Error("completed and error must be terminal")
	}
}
