package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mass-sign-client/internal/config"
	"mass-sign-client/internal/domain"
)

type stubConfig struct{}

func (stubConfig) GetServiceURL() string            { return "http://127.0.0.1:5000" }
func (stubConfig) GetGatewayPort() string           { return "8080" }
func (stubConfig) GetPollInterval() time.Duration   { return 5 * time.Millisecond }
func (stubConfig) GetDebounceWindow() time.Duration { return 2 * time.Millisecond }
func (stubConfig) GetMaxFileSize() int64            { return domain.MaxDocumentSize }
func (stubConfig) GetLogLevel() string              { return "error" }
func (stubConfig) GetAllowedOrigins() []string      { return []string{"http://localhost:5173"} }

func newTestContainer(signing domain.SigningService) *config.Container {
	return &config.Container{
		Config:   stubConfig{},
		Logger:   NewMockHandlerLogger(),
		Signing:  signing,
		Workflow: newTestWorkflow(signing),
	}
}

func TestNewRouter_Health(t *testing.T) {
	router := NewRouter(newTestContainer(&mockSigningService{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router := NewRouter(newTestContainer(&mockSigningService{}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestNewRouter_SigningFlow(t *testing.T) {
	router := NewRouter(newTestContainer(&mockSigningService{}))

	// Load a file.
	body, contentType := multipartBody(t, "contract.pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("upload: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	// Fill credentials and wait for the authorization check to land.
	creds := strings.NewReader(`{"cuil":"20123456789","password":"secret","pin":"1234"}`)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/credentials", creds)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("credentials: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	deadline := time.Now().Add(time.Second)
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var snap domain.WorkflowSnapshot
		if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
			t.Fatalf("state: failed to decode response: %v", err)
		}
		if snap.CanSubmit {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("workflow never became submittable: %s", rr.Body.String())
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Open the OTP step.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/sign", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("sign: expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	var sign signResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &sign); err != nil {
		t.Fatalf("sign: failed to decode response: %v", err)
	}
	if !sign.OTPRequired {
		t.Fatalf("expected the OTP step to open, got %+v", sign)
	}

	// Confirm the code and let the stubbed job complete.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/otp/confirm", strings.NewReader(`{"code":"123456"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("otp: expected status %d, got %d: %s", http.StatusAccepted, rr.Code, rr.Body.String())
	}

	deadline = time.Now().Add(time.Second)
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var snap domain.WorkflowSnapshot
		if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
			t.Fatalf("state: failed to decode response: %v", err)
		}
		if snap.Phase == domain.PhaseCompleted {
			if !snap.Completion.Visible {
				t.Fatalf("expected the completion view, got %+v", snap.Completion)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never completed: %s", rr.Body.String())
		}
		time.Sleep(2 * time.Millisecond)
	}

	// Start over for another batch.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/load-more", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("load-more: expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var snap domain.WorkflowSnapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("load-more: failed to decode response: %v", err)
	}
	if snap.Phase != domain.PhaseIdle || len(snap.Files) != 0 {
		t.Fatalf("expected a clean workflow after load-more, got %+v", snap)
	}
}

func TestNewRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(newTestContainer(&mockSigningService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
