package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// errorBody mirrors the Frappe error envelope so remote clients can read it.
type errorBody struct {
	ExcType   string `json:"exc_type"`
	Exception string `json:"exception"`
	Field     string `json:"field,omitempty"`
}

// statusFor maps domain errors to an HTTP status and exception type.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownQuery):
		return http.StatusNotFound, "DoesNotExistError"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusExpectationFailed, "ValidationError"
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownLocationType):
		return http.StatusBadRequest, "InvalidInputError"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "DuplicateEntryError"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "RateLimitExceededError"
	case errors.Is(err, domain.ErrLookupFailed):
		return http.StatusBadGateway, "LookupFailedError"
	case errors.Is(err, domain.ErrNotImplemented), errors.Is(err, form.ErrNoController):
		return http.StatusNotImplemented, "NotImplementedError"
	default:
		return http.StatusInternalServerError, "Exception"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, excType := statusFor(err)
	body := errorBody{ExcType: excType, Exception: err.Error()}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		body.Exception = vErr.Reason
		body.Field = vErr.Field
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeMessage wraps a successful result in the {"message": ...} envelope.
func writeMessage(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, map[string]any{"message": v})
}
