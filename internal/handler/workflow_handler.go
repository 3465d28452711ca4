// Package handler provides the HTTP surface of the signing gateway.
package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"mass-sign-client/internal/domain"
	"mass-sign-client/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// maxUploadMemory caps how much of a multipart upload stays in memory.
const maxUploadMemory = 64 << 20

// WorkflowHandler exposes the signing workflow over HTTP
type WorkflowHandler struct {
	workflow *service.Workflow
	logger   domain.Logger
	validate *validator.Validate
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflow *service.Workflow, logger domain.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		workflow: workflow,
		logger:   logger,
		validate: validator.New(),
	}
}

// GetState returns the full observable state of the workflow
func (h *WorkflowHandler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workflow.Snapshot())
}

type uploadResponse struct {
	Added    []domain.Document  `json:"added"`
	Rejected []domain.Rejection `json:"rejected"`
}

// UploadFiles receives candidate PDFs as a multipart form under "files" and
// reports, per file, whether it entered the batch.
func (h *WorkflowHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No files in request")
		return
	}

	candidates := make([]domain.Document, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Could not read uploaded file "+header.Filename)
			return
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Could not read uploaded file "+header.Filename)
			return
		}

		candidates = append(candidates, domain.Document{
			Name:      header.Filename,
			MediaType: mediaTypeFor(header.Filename, header.Header.Get("Content-Type")),
			Size:      int64(len(content)),
			Content:   content,
		})
	}

	added, rejected := h.workflow.AddFiles(candidates)
	h.logger.Info("Files received", "added", len(added), "rejected", len(rejected))

	if added == nil {
		added = make([]domain.Document, 0)
	}
	if rejected == nil {
		rejected = make([]domain.Rejection, 0)
	}
	writeJSON(w, http.StatusOK, uploadResponse{Added: added, Rejected: rejected})
}

// mediaTypeFor resolves the media type of an upload, trusting the declared
// header first and the file extension second.
func mediaTypeFor(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		if i := strings.Index(declared, ";"); i >= 0 {
			declared = declared[:i]
		}
		return strings.TrimSpace(declared)
	}
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return domain.PDFMediaType
	}
	return declared
}

// RemoveFile deletes one entry from the batch by position
func (h *WorkflowHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "File index must be a number")
		return
	}
	if err := h.workflow.RemoveFile(index); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearFiles empties the batch
func (h *WorkflowHandler) ClearFiles(w http.ResponseWriter, r *http.Request) {
	h.workflow.ClearFiles()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// credentialsRequest carries per-field edits. Absent fields are untouched so
// the client can mirror individual input events.
type credentialsRequest struct {
	CUIL     *string `json:"cuil" validate:"omitempty,max=20"`
	Password *string `json:"password" validate:"omitempty,max=128"`
	PIN      *string `json:"pin" validate:"omitempty,max=32"`
}

// UpdateCredentials applies credential edits and echoes the formatted CUIL
func (h *WorkflowHandler) UpdateCredentials(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	cuil := h.workflow.Snapshot().CUIL
	if req.CUIL != nil {
		cuil = h.workflow.SetCUIL(*req.CUIL)
	}
	if req.Password != nil {
		h.workflow.SetPassword(*req.Password)
	}
	if req.PIN != nil {
		h.workflow.SetPIN(*req.PIN)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cuil":       cuil,
		"can_submit": h.workflow.CanSubmit(),
	})
}

type signResponse struct {
	Validation  domain.ValidationErrors `json:"validation"`
	OTPRequired bool                    `json:"otp_required"`
}

// RequestSign validates the form and, when clean, opens the OTP step
func (h *WorkflowHandler) RequestSign(w http.ResponseWriter, r *http.Request) {
	errs, err := h.workflow.RequestSign()
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, signResponse{Validation: errs, OTPRequired: errs.Empty()})
}

type otpRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// ConfirmOTP submits the signing job with the confirmed one-time code
func (h *WorkflowHandler) ConfirmOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if err := h.workflow.ConfirmOTP(r.Context(), req.Code); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitted"})
}

// CancelOTP closes the OTP step without submitting
func (h *WorkflowHandler) CancelOTP(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.CancelOTP(); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// LoadMore resets the workflow for another batch
func (h *WorkflowHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	h.workflow.LoadMore(r.Context())
	writeJSON(w, http.StatusOK, h.workflow.Snapshot())
}

// Finish tells the remote service the session is over
func (h *WorkflowHandler) Finish(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Finish(r.Context()); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "finished"})
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func (h *WorkflowHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}
