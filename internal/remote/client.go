// Package remote implements the signing service contract over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/ids"
	apperrors "mass-sign-client/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// Client talks to the mass-signing backend. It implements
// domain.SigningService.
type Client struct {
	baseURL string
	http    *http.Client
	logger  domain.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, logger domain.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// validateUserResponse mirrors the backend's validate-user payload.
type validateUserResponse struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	UserData *struct {
		CUIL         string `json:"cuil"`
		Responsable  string `json:"responsable"`
		PathCarpetas string `json:"path_carpetas"`
	} `json:"user_data"`
}

// ValidateUser asks the service whether the CUIL's owner is authorized.
// A decodable response is a verdict, positive or negative, regardless of the
// HTTP status: the backend answers denials with 403 plus a message.
func (c *Client) ValidateUser(ctx context.Context, cuil string) (*domain.UserValidation, error) {
	body, err := json.Marshal(map[string]string{"cuil": cuil})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode validation request", err)
	}

	data, _, err := c.do(ctx, http.MethodPost, "/validate-user", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp validateUserResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.NewConnectionError("unreadable validation response", err)
	}

	result := &domain.UserValidation{Valid: resp.Valid, Message: resp.Message}
	if resp.Valid && resp.UserData != nil {
		result.Account = &domain.AccountInfo{
			ResponsibleName: resp.UserData.Responsable,
			OutputPath:      resp.UserData.PathCarpetas,
		}
	}
	return result, nil
}

// Submit uploads the credentials, OTP and files as multipart form data and
// returns the session the service opened for the job.
func (c *Client) Submit(ctx context.Context, sub domain.Submission) (*domain.SubmitResult, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"cuit":     sub.CUIL,
		"password": sub.Password,
		"pin":      sub.PIN,
		"otpCode":  sub.OTPCode,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, apperrors.NewInternalError("failed to build submission form", err)
		}
	}

	for _, doc := range sub.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files[]"; filename=%q`, doc.Name))
		header.Set("Content-Type", domain.PDFMediaType)
		part, err := form.CreatePart(header)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to build submission form", err)
		}
		if _, err := part.Write(doc.Content); err != nil {
			return nil, apperrors.NewInternalError("failed to build submission form", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, apperrors.NewInternalError("failed to build submission form", err)
	}

	data, status, err := c.do(ctx, http.MethodPost, "/firmar", form.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, apperrors.NewRejectedError(messageFrom(data), nil)
	}

	var result domain.SubmitResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewConnectionError("unreadable submission response", err)
	}
	if result.SessionID == "" {
		return nil, apperrors.NewRejectedError(messageFrom(data), nil)
	}
	return &result, nil
}

// progressResponse mirrors the backend's progress payload. The backend also
// reports transient statuses like "initializing" and "processing"; anything
// that is not a terminal status counts as running.
type progressResponse struct {
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	CurrentFile string `json:"current_file"`
	Message     string `json:"message"`
	Status      string `json:"status"`
}

// Progress fetches the state of a session.
func (c *Client) Progress(ctx context.Context, sessionID string) (*domain.JobProgress, error) {
	data, status, err := c.do(ctx, http.MethodGet, "/progress/"+sessionID, "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError(messageFrom(data))
	}

	var resp progressResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, apperrors.NewConnectionError("unreadable progress response", err)
	}

	return &domain.JobProgress{
		Current:     resp.Current,
		Total:       resp.Total,
		CurrentFile: resp.CurrentFile,
		Message:     resp.Message,
		Status:      mapJobStatus(resp.Status),
	}, nil
}

// Cleanup tells the service to drop a finished session.
func (c *Client) Cleanup(ctx context.Context, sessionID string) error {
	_, status, err := c.do(ctx, http.MethodDelete, "/cleanup/"+sessionID, "", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apperrors.NewRejectedError("cleanup refused", nil)
	}
	return nil
}

// Reset tells the service to clear its session state.
func (c *Client) Reset(ctx context.Context) error {
	_, status, err := c.do(ctx, http.MethodPost, "/reset", "", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apperrors.NewRejectedError("reset refused", nil)
	}
	return nil
}

// Finish tells the service the operator is done.
func (c *Client) Finish(ctx context.Context) error {
	_, status, err := c.do(ctx, http.MethodPost, "/finish", "", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apperrors.NewRejectedError("finish refused", nil)
	}
	return nil
}

// do executes one request and returns the body and status. Transport errors
// come back as connection errors; HTTP statuses are left to the caller since
// the backend encodes verdicts in non-2xx bodies.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to create request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := ids.New()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", "method", method, "path", path, "request_id", requestID)
		return nil, 0, apperrors.NewConnectionError("could not reach the signing service", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperrors.NewConnectionError("could not read the service response", err)
	}

	c.logger.Debug("Request completed",
		"method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
	return data, resp.StatusCode, nil
}

// messageFrom extracts the service-provided message from a response body,
// falling back to a generic one.
func messageFrom(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return "unknown service error"
}

func mapJobStatus(status string) domain.JobStatus {
	switch status {
	case "completed":
		return domain.JobCompleted
	case "error":
		return domain.JobError
	default:
		return domain.JobRunning
	}
}
