package api

import (
	"errors"
	"net/http"

	customerrors "github.com/axellelanca/happythoughts/internal/errors"
)

// Envelope is the body of every /thoughts response, successful or not.
type Envelope struct {
	Success  bool        `json:"success"`
	Response interface{} `json:"response"`
	Message  string      `json:"message"`
}

// ErrorDetail is placed in Envelope.Response when Success is false.
type ErrorDetail struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error names exposed to clients.
const (
	ValidationErrorName = "ValidationError"
	CastErrorName       = "CastError"
	NotFoundErrorName   = "NotFoundError"
	StorageErrorName    = "StorageError"
)

// describeError maps a service error to its client-facing detail and the precise HTTP status.
// Callers fall back to 400 unless precise status codes are enabled.
func describeError(err error) (int, ErrorDetail) {
	var verr customerrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorDetail{Name: ValidationErrorName, Message: verr.Error(), Field: verr.Field}
	case errors.Is(err, customerrors.ErrInvalidThoughtID):
		return http.StatusBadRequest, ErrorDetail{Name: CastErrorName, Message: err.Error(), Field: "thoughtId"}
	case errors.Is(err, customerrors.ErrThoughtNotFound):
		return http.StatusNotFound, ErrorDetail{Name: NotFoundErrorName, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorDetail{Name: StorageErrorName, Message: err.Error()}
	}
}
