package domain

import (
	"context"
	"io"
	"time"
)

// SigningService is the remote mass-signing backend contract. Implementations
// translate these calls into the service's HTTP endpoints.
type SigningService interface {
	// ValidateUser checks whether the CUIL's owner may use the system.
	ValidateUser(ctx context.Context, cuil string) (*UserValidation, error)

	// Submit starts a signing job and returns the session that tracks it.
	Submit(ctx context.Context, sub Submission) (*SubmitResult, error)

	// Progress fetches the current state of a running session.
	Progress(ctx context.Context, sessionID string) (*JobProgress, error)

	// Cleanup, Reset and Finish are best-effort lifecycle signals. Their
	// failures are logged, never surfaced as workflow errors.
	Cleanup(ctx context.Context, sessionID string) error
	Reset(ctx context.Context) error
	Finish(ctx context.Context) error
}

// PDFInspector probes uploaded content to confirm it parses as a PDF.
type PDFInspector interface {
	PageCount(rs io.ReadSeeker) (int, error)
}

// Notifier receives toast-style notifications from the workflow. Rendering is
// up to the implementation.
type Notifier interface {
	Success(title, message string)
	Failure(title, message string)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServiceURL() string
	GetGatewayPort() string
	GetPollInterval() time.Duration
	GetDebounceWindow() time.Duration
	GetMaxFileSize() int64
	GetLogLevel() string
	GetAllowedOrigins() []string
}
