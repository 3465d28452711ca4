package domain

import "time"

// WorkflowPhase is the single tagged state of the signing workflow. Collapsing
// the modal booleans into one phase keeps combinations like "submitting while
// the OTP prompt is closed" unrepresentable.
type WorkflowPhase string

const (
	PhaseIdle       WorkflowPhase = "idle"
	PhaseOTPPending WorkflowPhase = "otp_pending"
	PhaseSubmitting WorkflowPhase = "submitting"
	PhaseRunning    WorkflowPhase = "running"
	PhaseCompleted  WorkflowPhase = "completed"
)

// ValidationErrors flags the form fields that block submission.
type ValidationErrors struct {
	Files    bool `json:"files"`
	CUIL     bool `json:"cuil"`
	Password bool `json:"password"`
	PIN      bool `json:"pin"`
}

// Empty reports whether the form passed validation.
func (v ValidationErrors) Empty() bool {
	return !v.Files && !v.CUIL && !v.Password && !v.PIN
}

// Fields lists the human-readable names of the failed fields, in form order.
func (v ValidationErrors) Fields() []string {
	var fields []string
	if v.Files {
		fields = append(fields, "PDF files")
	}
	if v.CUIL {
		fields = append(fields, "CUIL")
	}
	if v.Password {
		fields = append(fields, "password")
	}
	if v.PIN {
		fields = append(fields, "PIN")
	}
	return fields
}

// NoticeLevel classifies a notification for the UI.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeFailure NoticeLevel = "failure"
)

// Notice is one toast-style notification emitted by the workflow.
type Notice struct {
	ID      string      `json:"id"`
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

// ProgressView is the progress-modal slice of the snapshot.
type ProgressView struct {
	Visible     bool   `json:"visible"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	CurrentFile string `json:"current_file"`
	Message     string `json:"message"`
}

// CompletionView is the completion-modal slice of the snapshot.
type CompletionView struct {
	Visible        bool   `json:"visible"`
	TotalProcessed int    `json:"total_processed"`
	OutputPath     string `json:"output_path,omitempty"`
}

// WorkflowSnapshot is the externally observable union of workflow state. It is
// recomputed from the owning components on every read, never mutated directly.
type WorkflowSnapshot struct {
	Phase      WorkflowPhase `json:"phase"`
	CanSubmit  bool          `json:"can_submit"`
	Processing bool          `json:"processing"`

	Files      []Document       `json:"files"`
	CUIL       string           `json:"cuil"`
	Validation ValidationErrors `json:"validation"`

	Authorization AuthorizationResult `json:"authorization"`
	OTPVisible    bool                `json:"otp_visible"`
	Progress      ProgressView        `json:"progress"`
	Completion    CompletionView      `json:"completion"`

	Notices []Notice `json:"notices"`
}
