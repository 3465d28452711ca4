package service

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/metrics"
	apperrors "mass-sign-client/pkg/errors"
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

const genericSubmitFailure = "The signing request could not be processed. Try again."

// WorkflowOptions carries the collaborators and tuning for a workflow.
type WorkflowOptions struct {
	Signing        domain.SigningService
	Inspector      domain.PDFInspector
	Notifier       domain.Notifier
	Logger         domain.Logger
	PollInterval   time.Duration
	DebounceWindow time.Duration
	MaxFileSize    int64
}

// Workflow composes the file set, credential input and authorization checker
// into one submittable unit, runs the OTP confirmation and submission steps,
// and owns the progress tracker for the active job. Each instance is
// independent; all mutation goes through the workflow's lock except the
// checker, which carries its own and is never called while the lock is held.
type Workflow struct {
	signing      domain.SigningService
	notifier     domain.Notifier
	logger       domain.Logger
	pollInterval time.Duration

	files   *FileSet
	creds   *CredentialInput
	checker *AuthorizationChecker

	mu         sync.Mutex
	phase      domain.WorkflowPhase
	validation domain.ValidationErrors
	job        *domain.SigningJob
	tracker    *ProgressTracker
	completion domain.CompletionView
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(opts WorkflowOptions) *Workflow {
	return &Workflow{
		signing:      opts.Signing,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		files:        NewFileSet(opts.Inspector, opts.MaxFileSize),
		creds:        NewCredentialInput(),
		checker:      NewAuthorizationChecker(opts.Signing, opts.Notifier, opts.Logger, opts.DebounceWindow),
		phase:        domain.PhaseIdle,
	}
}

// AddFiles validates and appends candidate documents. The file list stays
// interactive through the OTP step; a job already submitted is unaffected.
func (w *Workflow) AddFiles(candidates []domain.Document) (added []domain.Document, rejected []domain.Rejection) {
	w.mu.Lock()
	added, rejected = w.files.Add(candidates)
	w.mu.Unlock()

	for _, rej := range rejected {
		w.notifier.Failure("File rejected", rej.Name+": "+rej.Reason)
	}
	return added, rejected
}

// RemoveFile deletes the entry at the given position.
func (w *Workflow) RemoveFile(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files.Remove(index)
}

// ClearFiles empties the file set.
func (w *Workflow) ClearFiles() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.files.Clear()
}

// SetCUIL formats and stores the CUIL, then feeds the edit to the
// authorization checker. Returns the formatted value.
func (w *Workflow) SetCUIL(raw string) string {
	w.mu.Lock()
	formatted := w.creds.SetCUIL(raw)
	w.mu.Unlock()

	w.checker.OnCUILChange(formatted)
	return formatted
}

// SetPassword stores the password.
func (w *Workflow) SetPassword(raw string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.creds.SetPassword(raw)
}

// SetPIN stores the PIN.
func (w *Workflow) SetPIN(raw string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.creds.SetPIN(raw)
}

// CanSubmit reports the readiness gate: at least one file, a complete CUIL
// with a positive authorization verdict, and non-empty password and PIN.
func (w *Workflow) CanSubmit() bool {
	authorized := w.checker.Authorized()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked(authorized)
}

func (w *Workflow) canSubmitLocked(authorized bool) bool {
	creds := w.creds.Credentials()
	return w.files.Len() > 0 &&
		w.creds.Complete() &&
		len(creds.Password) >= 1 &&
		len(creds.PIN) >= 1 &&
		authorized
}

// RequestSign validates the form. A failed validation reports the missing
// fields and blocks; a clean one opens the OTP confirmation step.
func (w *Workflow) RequestSign() (domain.ValidationErrors, error) {
	auth := w.checker.Result()

	w.mu.Lock()
	if w.phase != domain.PhaseIdle {
		defer w.mu.Unlock()
		switch w.phase {
		case domain.PhaseOTPPending:
			return w.validation, nil
		case domain.PhaseSubmitting, domain.PhaseRunning:
			return w.validation, domain.ErrJobInFlight
		default:
			return w.validation, domain.ErrNotReady
		}
	}

	creds := w.creds.Credentials()
	errs := domain.ValidationErrors{
		Files:    w.files.Len() == 0,
		CUIL:     !w.creds.Complete() || auth.State != domain.AuthAuthorized,
		Password: len(creds.Password) < 1,
		PIN:      len(creds.PIN) < 1,
	}
	w.validation = errs

	if !errs.Empty() {
		cuilComplete := w.creds.Complete()
		w.mu.Unlock()

		if errs.CUIL && cuilComplete {
			w.notifier.Failure("Form incomplete", "The CUIL is not authorized to sign.")
		} else {
			w.notifier.Failure("Form incomplete",
				"Complete the following fields: "+strings.Join(errs.Fields(), ", ")+".")
		}
		return errs, nil
	}

	w.phase = domain.PhaseOTPPending
	w.mu.Unlock()
	return errs, nil
}

// CancelOTP closes the OTP step. Not allowed while a submission is in
// flight.
func (w *Workflow) CancelOTP() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.phase {
	case domain.PhaseOTPPending:
		w.phase = domain.PhaseIdle
		return nil
	case domain.PhaseSubmitting:
		return domain.ErrJobInFlight
	default:
		return nil
	}
}

// ConfirmOTP submits the signing job with the given one-time code. The OTP
// step closes whatever the outcome; on success the progress tracker starts,
// on rejection the workflow returns to idle with the service's message
// surfaced.
func (w *Workflow) ConfirmOTP(ctx context.Context, otp string) error {
	if !otpPattern.MatchString(otp) {
		return domain.ErrInvalidOTP
	}

	w.mu.Lock()
	if w.phase != domain.PhaseOTPPending {
		phase := w.phase
		w.mu.Unlock()
		if phase == domain.PhaseSubmitting || phase == domain.PhaseRunning {
			return domain.ErrJobInFlight
		}
		return domain.ErrNotReady
	}
	if w.tracker != nil && w.tracker.Running() {
		w.mu.Unlock()
		return domain.ErrJobInFlight
	}

	w.phase = domain.PhaseSubmitting
	sub := domain.Submission{
		CUIL:     w.creds.Credentials().CUIL,
		Password: w.creds.Credentials().Password,
		PIN:      w.creds.Credentials().PIN,
		OTPCode:  otp,
		Files:    w.files.Documents(),
	}
	w.mu.Unlock()

	result, err := w.signing.Submit(ctx, sub)

	w.mu.Lock()
	if err != nil {
		w.phase = domain.PhaseIdle
		w.mu.Unlock()

		message := apperrors.Message(err, genericSubmitFailure)
		w.logger.Error("Submission failed", err)
		w.notifier.Failure("Signing failed", message)
		return err
	}

	tracker := NewProgressTracker(w.signing, w.notifier, w.logger, w.pollInterval,
		result.SessionID, len(sub.Files))
	if w.tracker != nil {
		w.tracker.Stop()
	}
	w.tracker = tracker
	job := tracker.Job()
	w.job = &job
	w.phase = domain.PhaseRunning
	w.mu.Unlock()

	w.logger.Info("Signing job submitted", "session_id", result.SessionID, "files", len(sub.Files))
	tracker.Start(w.onTerminal)
	return nil
}

// onTerminal finalizes a job after its last poll.
func (w *Workflow) onTerminal(job domain.SigningJob) {
	account := w.checker.Result().Account

	w.mu.Lock()
	w.job = nil
	switch job.Status {
	case domain.JobCompleted:
		processed := job.CurrentFileIndex
		if processed == 0 {
			processed = job.TotalFiles
		}
		w.completion = domain.CompletionView{
			Visible:        true,
			TotalProcessed: processed,
		}
		if account != nil {
			w.completion.OutputPath = account.OutputPath
		}
		w.phase = domain.PhaseCompleted
		w.mu.Unlock()

		metrics.JobFinished("completed")
		w.logger.Info("Signing job completed", "session_id", job.SessionID, "processed", processed)
	default:
		w.phase = domain.PhaseIdle
		w.mu.Unlock()

		metrics.JobFinished("error")
		message := job.StatusMessage
		if message == "" {
			message = genericSubmitFailure
		}
		w.notifier.Failure("Signing failed", message)
	}

	// Best effort: the service drops the session on its own eventually.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := w.signing.Cleanup(ctx, job.SessionID); err != nil {
			w.logger.Warn("Session cleanup failed", "session_id", job.SessionID, "error", err)
		}
	}()
}

// LoadMore resets the whole workflow for another batch. The remote reset is
// best effort; the local state clears regardless so the operator is never
// stuck.
func (w *Workflow) LoadMore(ctx context.Context) {
	w.mu.Lock()
	tracker := w.tracker
	w.tracker = nil
	w.mu.Unlock()

	if tracker != nil {
		tracker.Stop()
	}

	if err := w.signing.Reset(ctx); err != nil {
		w.logger.Warn("Remote reset failed", "error", err)
		w.notifier.Failure("Reset warning", "The service could not be reset. You can keep working.")
	}

	w.checker.Reset()

	w.mu.Lock()
	w.files.Clear()
	w.creds.Reset()
	w.validation = domain.ValidationErrors{}
	w.job = nil
	w.completion = domain.CompletionView{}
	w.phase = domain.PhaseIdle
	w.mu.Unlock()

	if log, ok := w.notifier.(*NoticeLog); ok {
		log.Reset()
	}
}

// Finish signals the service that the session is over. The failure is
// reported but never blocks termination; the caller shuts the client down
// either way.
func (w *Workflow) Finish(ctx context.Context) error {
	w.mu.Lock()
	tracker := w.tracker
	w.tracker = nil
	w.mu.Unlock()

	if tracker != nil {
		tracker.Stop()
	}

	if err := w.signing.Finish(ctx); err != nil {
		w.logger.Warn("Finish signal failed", "error", err)
		w.notifier.Failure("Finish warning", "The service did not acknowledge the finish request.")
		return err
	}
	return nil
}

// Close cancels timers and polling deterministically. Used on unmount.
func (w *Workflow) Close() {
	w.mu.Lock()
	tracker := w.tracker
	w.tracker = nil
	w.mu.Unlock()

	if tracker != nil {
		tracker.Stop()
	}
	w.checker.Reset()
}

// Snapshot derives the externally observable state. Nothing in it is stored
// independently of the owning components.
func (w *Workflow) Snapshot() domain.WorkflowSnapshot {
	auth := w.checker.Result()

	w.mu.Lock()
	defer w.mu.Unlock()

	snap := domain.WorkflowSnapshot{
		Phase:         w.phase,
		CanSubmit:     w.canSubmitLocked(auth.State == domain.AuthAuthorized),
		Processing:    w.phase == domain.PhaseSubmitting || w.phase == domain.PhaseRunning,
		Files:         w.files.Documents(),
		CUIL:          w.creds.Credentials().CUIL,
		Validation:    w.validation,
		Authorization: auth,
		OTPVisible:    w.phase == domain.PhaseOTPPending,
		Completion:    w.completion,
	}

	if w.phase == domain.PhaseSubmitting || w.phase == domain.PhaseRunning {
		snap.Progress.Visible = true
	}
	if w.tracker != nil && w.phase == domain.PhaseRunning {
		job := w.tracker.Job()
		snap.Progress.Current = job.CurrentFileIndex
		snap.Progress.Total = job.TotalFiles
		snap.Progress.CurrentFile = job.CurrentFileName
		snap.Progress.Message = job.StatusMessage
	}

	if log, ok := w.notifier.(*NoticeLog); ok {
		snap.Notices = log.Recent()
	}
	return snap
}
