package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"mass-sign-client/internal/domain"
	apperrors "mass-sign-client/pkg/errors"

	"github.com/go-playground/validator/v10"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// validationMessage flattens a validator error into one readable line.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeWorkflowError maps workflow and service errors onto HTTP statuses.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "The OTP code must be exactly 6 digits")
	case errors.Is(err, domain.ErrJobInFlight):
		writeError(w, http.StatusConflict, "A signing job is already in progress")
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusConflict, "The signing flow is not at this step")
	case errors.Is(err, domain.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, "No file at that position")
	default:
		writeError(w, apperrors.GetStatusCode(err), apperrors.Message(err, "internal error"))
	}
}
