package service

import (
	"context"
	"sync"
	"time"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/metrics"
)

// checkThreshold is the number of normalized digits required before a check
// is scheduled. Edits below it reset the checker to idle. The backend answers
// an incomplete CUIL with a denial, so eager dispatch is safe.
const checkThreshold = 8

const defaultDebounceWindow = 500 * time.Millisecond

// connectionFailureMessage is the generic text shown when the service cannot
// be reached during a check.
const connectionFailureMessage = "Could not reach the signing service. Check the connection and try again."

// AuthorizationChecker resolves whether the entered CUIL belongs to an
// authorized operator. Checks are debounced against rapid edits and tagged
// with the CUIL they validate so a stale response can never overwrite the
// verdict for a newer value.
type AuthorizationChecker struct {
	service  domain.SigningService
	notifier domain.Notifier
	logger   domain.Logger
	window   time.Duration

	mu          sync.Mutex
	timer       *time.Timer
	generation  uint64
	currentCUIL string
	result      domain.AuthorizationResult
}

// NewAuthorizationChecker creates a checker with the given debounce window.
func NewAuthorizationChecker(service domain.SigningService, notifier domain.Notifier, logger domain.Logger, window time.Duration) *AuthorizationChecker {
	if window <= 0 {
		window = defaultDebounceWindow
	}
	return &AuthorizationChecker{
		service:  service,
		notifier: notifier,
		logger:   logger,
		window:   window,
		result:   domain.AuthorizationResult{State: domain.AuthIdle},
	}
}

// OnCUILChange reacts to an edit of the CUIL field. Any pending debounce
// timer restarts and any in-flight check is invalidated. Values below the
// digit threshold reset the checker to idle, which also hides the modal.
func (c *AuthorizationChecker) OnCUILChange(cuil string) {
	normalized := domain.NormalizeCUIL(cuil)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.currentCUIL = normalized
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if len(normalized) < checkThreshold {
		c.result = domain.AuthorizationResult{State: domain.AuthIdle}
		return
	}

	c.result = domain.AuthorizationResult{State: domain.AuthDebouncing, CheckedCUIL: normalized}
	gen := c.generation
	c.timer = time.AfterFunc(c.window, func() {
		c.dispatch(gen, normalized)
	})
}

// dispatch runs the remote check for one settled edit. The generation guard
// drops timers that were superseded between firing and locking.
func (c *AuthorizationChecker) dispatch(gen uint64, cuil string) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.result = domain.AuthorizationResult{State: domain.AuthChecking, CheckedCUIL: cuil}
	c.mu.Unlock()

	verdict, err := c.service.ValidateUser(context.Background(), cuil)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Apply only if the CUIL this check validated is still the current one.
	if cuil != c.currentCUIL || gen != c.generation {
		c.logger.Debug("Discarding stale authorization verdict", "cuil_digits", len(cuil))
		return
	}

	switch {
	case err != nil:
		c.result = domain.AuthorizationResult{
			State:       domain.AuthConnectionError,
			Reason:      connectionFailureMessage,
			CheckedCUIL: cuil,
		}
		c.logger.Error("Authorization check failed", err)
		c.notifier.Failure("Validation failed", connectionFailureMessage)
		metrics.AuthCheck("connection_error")
	case verdict.Valid:
		c.result = domain.AuthorizationResult{
			State:       domain.AuthAuthorized,
			Account:     verdict.Account,
			CheckedCUIL: cuil,
		}
		c.notifier.Success("User authorized", verdict.Message)
		metrics.AuthCheck("authorized")
	default:
		reason := verdict.Message
		if reason == "" {
			reason = "User is not authorized to use the system."
		}
		c.result = domain.AuthorizationResult{
			State:       domain.AuthDenied,
			Reason:      reason,
			CheckedCUIL: cuil,
		}
		c.notifier.Failure("Access denied", reason)
		metrics.AuthCheck("denied")
	}
}

// Result returns the current verdict.
func (c *AuthorizationChecker) Result() domain.AuthorizationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Authorized reports whether the current CUIL holds a positive verdict.
func (c *AuthorizationChecker) Authorized() bool {
	return c.Result().State == domain.AuthAuthorized
}

// Reset cancels any pending timer, invalidates in-flight checks and returns
// the checker to idle.
func (c *AuthorizationChecker) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.currentCUIL = ""
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.result = domain.AuthorizationResult{State: domain.AuthIdle}
}
