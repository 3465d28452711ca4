package service

import (
	"context"
	"sync"

	"mass-sign-client/internal/domain"
)

// stubLogger discards everything.
type stubLogger struct{}

func (stubLogger) Info(string, ...interface{})         {}
func (stubLogger) Error(string, error, ...interface{}) {}
func (stubLogger) Debug(string, ...interface{})        {}
func (stubLogger) Warn(string, ...interface{})         {}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title+": "+message)
}

func (n *recordingNotifier) Failure(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, title+": "+message)
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *recordingNotifier) Failures() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.failures...)
}

// fakeSigning scripts the remote service per test.
type fakeSigning struct {
	mu         sync.Mutex
	validateFn func(ctx context.Context, cuil string) (*domain.UserValidation, error)
	submitFn   func(ctx context.Context, sub domain.Submission) (*domain.SubmitResult, error)
	progressFn func(ctx context.Context, sessionID string) (*domain.JobProgress, error)

	submissions []domain.Submission
	cleanups    []string
	resets      int
	finishes    int
}

func (f *fakeSigning) ValidateUser(ctx context.Context, cuil string) (*domain.UserValidation, error) {
	if f.validateFn != nil {
		return f.validateFn(ctx, cuil)
	}
	return &domain.UserValidation{Valid: true}, nil
}

func (f *fakeSigning) Submit(ctx context.Context, sub domain.Submission) (*domain.SubmitResult, error) {
	f.mu.Lock()
	f.submissions = append(f.submissions, sub)
	f.mu.Unlock()
	if f.submitFn != nil {
		return f.submitFn(ctx, sub)
	}
	return &domain.SubmitResult{SessionID: "session-1"}, nil
}

func (f *fakeSigning) Progress(ctx context.Context, sessionID string) (*domain.JobProgress, error) {
	if f.progressFn != nil {
		return f.progressFn(ctx, sessionID)
	}
	return &domain.JobProgress{Status: domain.JobCompleted}, nil
}

func (f *fakeSigning) Cleanup(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanups = append(f.cleanups, sessionID)
	return nil
}

func (f *fakeSigning) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeSigning) Finish(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishes++
	return nil
}

func (f *fakeSigning) Submissions() []domain.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Submission(nil), f.submissions...)
}

func (f *fakeSigning) Cleanups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cleanups...)
}

func (f *fakeSigning) Resets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resets
}

func (f *fakeSigning) Finishes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finishes
}

// pdfCandidate builds a valid candidate document for tests.
func pdfCandidate(name string, size int64) domain.Document {
	return domain.Document{
		Name:      name,
		MediaType: domain.PDFMediaType,
		Size:      size,
		Content:   []byte("%PDF-1.4\n"),
	}
}
