package domain

import "errors"

// Domain errors
var (
	ErrNotPDF           = errors.New("file is not a PDF")
	ErrDocumentTooLarge = errors.New("file exceeds the 14 MiB limit")
	ErrDuplicateFile    = errors.New("file with the same name and size already loaded")
	ErrMalformedPDF     = errors.New("file content is not a readable PDF")
	ErrIndexOutOfRange  = errors.New("file index out of range")
	ErrInvalidOTP       = errors.New("OTP code must be exactly 6 digits")
	ErrJobInFlight      = errors.New("a signing job is already in progress")
	ErrNotReady         = errors.New("workflow is not ready to submit")
	ErrSessionNotFound  = errors.New("session not found")
)

// FieldError represents a validation error with field and message information.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
