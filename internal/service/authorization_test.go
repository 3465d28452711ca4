package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mass-sign-client/internal/domain"
)

const authTestWindow = 10 * time.Millisecond

func waitSettled(t *testing.T, checker *AuthorizationChecker) domain.AuthorizationResult {
	t.Helper()
	require.Eventually(t, func() bool {
		return checker.Result().Settled()
	}, time.Second, 2*time.Millisecond, "checker never settled")
	return checker.Result()
}

func TestAuthorizationChecker_Authorized(t *testing.T) {
	signing := &fakeSigning{
		validateFn: func(ctx context.Context, cuil string) (*domain.UserValidation, error) {
			return &domain.UserValidation{
				Valid:   true,
				Message: "Welcome",
				Account: &domain.AccountInfo{ResponsibleName: "Maria Lopez", OutputPath: "/out/ml"},
			}, nil
		},
	}
	notifier := &recordingNotifier{}
	checker := NewAuthorizationChecker(signing, notifier, stubLogger{}, authTestWindow)

	checker.OnCUILChange("20-12345678-9")

	result := waitSettled(t, checker)
	assert.Equal(t, domain.AuthAuthorized, result.State)
	assert.Equal(t, "Maria Lopez", result.Account.ResponsibleName)
	assert.Equal(t, "/out/ml", result.Account.OutputPath)
	assert.Equal(t, "20123456789", result.CheckedCUIL)
	assert.True(t, checker.Authorized())
	require.Len(t, notifier.Successes(), 1)
}

func TestAuthorizationChecker_Denied(t *testing.T) {
	signing := &fakeSigning{
		validateFn: func(ctx context.Context, cuil string) (*domain.UserValidation, error) {
			return &domain.UserValidation{Valid: false, Message: "Unknown operator"}, nil
		},
	}
	notifier := &recordingNotifier{}
	checker := NewAuthorizationChecker(signing, notifier, stubLogger{}, authTestWindow)

	checker.OnCUILChange("20999999999")

	result := waitSettled(t, checker)
	assert.Equal(t, domain.AuthDenied, result.State)
	assert.Equal(t, "Unknown operator", result.Reason)
	assert.True(t, result.ModalVisible())
	assert.False(t, checker.Authorized())
	require.Len(t, notifier.Failures(), 1)
}

func TestAuthorizationChecker_ConnectionError(t *testing.T) {
	signing := &fakeSigning{
		validateFn: func(ctx context.Context, cuil string) (*domain.UserValidation, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	notifier := &recordingNotifier{}
	checker := NewAuthorizationChecker(signing, notifier, stubLogger{}, authTestWindow)

	checker.OnCUILChange("20123456789")

	result := waitSettled(t, checker)
	assert.Equal(t, domain.AuthConnectionError, result.State)
	assert.NotEmpty(t, result.Reason)
	assert.False(t, checker.Authorized())
	require.Len(t, notifier.Failures(), 1)
}

func TestAuthorizationChecker_BelowThresholdResetsToIdle(t *testing.T) {
	checker := NewAuthorizationChecker(&fakeSigning{}, &recordingNotifier{}, stubLogger{}, authTestWindow)

	checker.OnCUILChange("20123456789")
	waitSettled(t, checker)
	require.Equal(t, domain.AuthAuthorized, checker.Result().State)

	// Deleting digits below the threshold drops the verdict and any modal.
	checker.OnCUILChange("2012345")

	result := checker.Result()
	assert.Equal(t, domain.AuthIdle, result.State)
	assert.False(t, result.ModalVisible())
}

func TestAuthorizationChecker_DebounceCoalescesEdits(t *testing.T) {
	var calls int32
	var lastChecked atomic.Value
	signing := &fakeSigning{
		validateFn: func(ctx context.Context, cuil string) (*domain.UserValidation, error) {
			atomic.AddInt32(&calls, 1)
			lastChecked.Store(cuil)
			return &domain.UserValidation{Valid: true}, nil
		},
	}
	checker := NewAuthorizationChecker(signing, &recordingNotifier{}, stubLogger{}, 25*time.Millisecond)

	checker.OnCUILChange("20111111111")
	checker.OnCUILChange("20222222222")
	checker.OnCUILChange("20333333333")

	waitSettled(t, checker)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "only the settled value should be checked")
	assert.Equal(t, "20333333333", lastChecked.Load())
	assert.Equal(t, "20333333333", checker.Result().CheckedCUIL)
}

func TestAuthorizationChecker_DiscardsStaleVerdict(t *testing.T) {
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	signing := &fakeSigning{
		validateFn: func(ctx context.Context, cuil string) (*domain.UserValidation, error) {
			if cuil == "20111111111" {
				close(firstStarted)
				<-releaseFirst
				return &domain.UserValidation{Valid: false, Message: "stale denial"}, nil
			}
			return &domain.UserValidation{Valid: true, Message: "Welcome"}, nil
		},
	}
	notifier := &recordingNotifier{}
	checker := NewAuthorizationChecker(signing, notifier, stubLogger{}, time.Millisecond)

	checker.OnCUILChange("20111111111")
	select {
	case <-firstStarted:
	case <-time.After(time.Second):
		t.Fatal("first check never dispatched")
	}

	// Edit while the first check is still in flight, then let the second
	// verdict land before releasing the first.
	checker.OnCUILChange("20222222222")
	require.Eventually(t, func() bool {
		return checker.Result().State == domain.AuthAuthorized
	}, time.Second, 2*time.Millisecond)

	close(releaseFirst)
	time.Sleep(20 * time.Millisecond)

	result := checker.Result()
	assert.Equal(t, domain.AuthAuthorized, result.State, "stale denial must not overwrite the newer verdict")
	assert.Equal(t, "20222222222", result.CheckedCUIL)
	assert.Empty(t, notifier.Failures())
}

func TestAuthorizationChecker_Reset(t *testing.T) {
	checker := NewAuthorizationChecker(&fakeSigning{}, &recordingNotifier{}, stubLogger{}, authTestWindow)

	checker.OnCUILChange("20123456789")
	waitSettled(t, checker)

	checker.Reset()
	assert.Equal(t, domain.AuthIdle, checker.Result().State)
	assert.False(t, checker.Authorized())
}
