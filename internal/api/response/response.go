// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
	"github.com/damiad/net-worth-tracker/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondServiceError maps an error returned by a service onto a status code.
// Missing entities answer 404, a repeated accrual 409 and rejected input 400.
// Anything else is a 500 carrying fallback as the message.
func RespondServiceError(w http.ResponseWriter, err error, fallback error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrSourceNotFound),
		errors.Is(err, apperrors.ErrSubRecordNotFound),
		errors.Is(err, apperrors.ErrPropertyDebtNotFound),
		errors.Is(err, apperrors.ErrExchangeRateNotFound):
		RespondError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, apperrors.ErrAlreadyAccruedToday):
		RespondError(w, http.StatusConflict, apperrors.ErrAlreadyAccruedToday.Error(), "")
	case errors.Is(err, apperrors.ErrNotInterestBearing),
		errors.Is(err, apperrors.ErrSourceKindMismatch),
		errors.Is(err, apperrors.ErrInvalidRate):
		RespondError(w, http.StatusBadRequest, err.Error(), "")
	default:
		RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
