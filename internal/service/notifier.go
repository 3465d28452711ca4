package service

import (
	"sync"
	"time"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/ids"
)

// noticeCap bounds how many notifications the UI can pull.
const noticeCap = 20

// NoticeLog implements domain.Notifier by retaining the most recent
// notifications for the snapshot and mirroring them to the log.
type NoticeLog struct {
	mu      sync.Mutex
	logger  domain.Logger
	notices []domain.Notice
}

// NewNoticeLog creates a notice log backed by the given logger.
func NewNoticeLog(logger domain.Logger) *NoticeLog {
	return &NoticeLog{logger: logger}
}

// Success records a success notification.
func (n *NoticeLog) Success(title, message string) {
	n.logger.Info("Notice", "title", title, "message", message)
	n.append(domain.NoticeSuccess, title, message)
}

// Failure records a failure notification.
func (n *NoticeLog) Failure(title, message string) {
	n.logger.Warn("Notice", "title", title, "message", message)
	n.append(domain.NoticeFailure, title, message)
}

// Recent returns the retained notifications, oldest first.
func (n *NoticeLog) Recent() []domain.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notice, len(n.notices))
	copy(out, n.notices)
	return out
}

// Reset drops all retained notifications.
func (n *NoticeLog) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = nil
}

func (n *NoticeLog) append(level domain.NoticeLevel, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, domain.Notice{
		ID:      ids.New(),
		Level:   level,
		Title:   title,
		Message: message,
		At:      time.Now(),
	})
	if len(n.notices) > noticeCap {
		n.notices = n.notices[len(n.notices)-noticeCap:]
	}
}
