package service

import (
	"context"
	"sync"
	"time"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/metrics"
	apperrors "mass-sign-client/pkg/errors"
)

const defaultPollInterval = time.Second

// ProgressTracker polls the remote service for the state of one signing
// session at a fixed interval. A stopped flag is checked under the lock
// before any tick result is applied, so no mutation can land after Stop.
type ProgressTracker struct {
	service  domain.SigningService
	notifier domain.Notifier
	logger   domain.Logger
	interval time.Duration

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	job     domain.SigningJob
}

// NewProgressTracker creates a tracker for the given session. totalFiles
// seeds the counter shown before the first poll lands.
func NewProgressTracker(service domain.SigningService, notifier domain.Notifier, logger domain.Logger, interval time.Duration, sessionID string, totalFiles int) *ProgressTracker {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &ProgressTracker{
		service:  service,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
		job: domain.SigningJob{
			SessionID:  sessionID,
			TotalFiles: totalFiles,
			Status:     domain.JobRunning,
		},
	}
}

// Start launches the polling loop. onTerminal runs exactly once, off the
// tracker's lock, when a poll reports a terminal status.
func (t *ProgressTracker) Start(onTerminal func(domain.SigningJob)) {
	go t.loop(onTerminal)
}

func (t *ProgressTracker) loop(onTerminal func(domain.SigningJob)) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			job, terminal := t.tick()
			if terminal {
				if onTerminal != nil {
					onTerminal(job)
				}
				return
			}
		}
	}
}

// tick performs one poll. It returns the job state and whether the loop
// should end. A transport failure is reported and polling continues; a
// vanished session or terminal status ends the loop.
func (t *ProgressTracker) tick() (domain.SigningJob, bool) {
	progress, err := t.service.Progress(context.Background(), t.job.SessionID)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return t.job, false
	}

	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			// The service no longer knows the session. Treated as a
			// terminal failure rather than a transient tick error.
			t.stopped = true
			t.job.Status = domain.JobError
			t.job.StatusMessage = apperrors.Message(err, "session lost")
			metrics.PollTick("not_found")
			return t.job, true
		}
		t.logger.Warn("Progress poll failed", "session_id", t.job.SessionID, "error", err)
		t.notifier.Failure("Connection problem", "Could not fetch signing progress. Retrying.")
		metrics.PollTick("unreachable")
		return t.job, false
	}

	// Counters update even on a terminal tick so the final numbers show.
	t.job.CurrentFileIndex = progress.Current
	t.job.TotalFiles = progress.Total
	t.job.CurrentFileName = progress.CurrentFile
	t.job.StatusMessage = progress.Message
	t.job.Status = progress.Status
	metrics.PollTick(string(progress.Status))

	if progress.Status.Terminal() {
		t.stopped = true
		return t.job, true
	}
	return t.job, false
}

// Stop ends the polling loop. Safe to call more than once; a tick already in
// flight when Stop lands is discarded.
func (t *ProgressTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stopCh)
}

// Running reports whether the tracker is still polling.
func (t *ProgressTracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped
}

// Job returns a copy of the tracked state.
func (t *ProgressTracker) Job() domain.SigningJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.job
}
