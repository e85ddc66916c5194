package api

import (
	"errors"
	"net/http"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/service"
	"github.com/examforge/paper-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found
	case errors.Is(err, store.ErrPaperNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Semantic validation failures on otherwise well-formed payloads
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Bad request
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrPaperNotFound):
		return "Paper not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, domain.ErrValidation):
		// Validation errors describe the caller's own payload; echoing
		// them back is safe and far more useful than a generic message.
		return err.Error()

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, service.ErrUnsupportedFileType):
		return "Unsupported file type"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
