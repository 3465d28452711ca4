package domain

// JobStatus is the terminal-state classification of a signing job.
type JobStatus string

const (
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
)

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobError
}

// SigningJob tracks one submitted signing session from acceptance by the
// remote service until a terminal progress report.
type SigningJob struct {
	SessionID        string    `json:"session_id"`
	TotalFiles       int       `json:"total_files"`
	CurrentFileIndex int       `json:"current_file_index"`
	CurrentFileName  string    `json:"current_file_name"`
	StatusMessage    string    `json:"status_message"`
	Status           JobStatus `json:"status"`
}

// Submission is the payload sent to the remote service to start a job.
type Submission struct {
	CUIL     string
	Password string
	PIN      string
	OTPCode  string
	Files    []Document
}

// SubmitResult is the remote service's acceptance of a submission.
type SubmitResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message,omitempty"`
}

// JobProgress is one progress poll response.
type JobProgress struct {
	Current     int       `json:"current"`
	Total       int       `json:"total"`
	CurrentFile string    `json:"current_file"`
	Message     string    `json:"message"`
	Status      JobStatus `json:"status"`
}
