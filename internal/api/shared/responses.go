package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/examforge/paper-api/internal/redact"
)

// Envelope is the uniform response body for every endpoint: the HTTP
// status is mirrored in Code, Status is "success" or "error", Message is
// human-readable, and Data carries the payload (null on errors).
type Envelope struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	TraceID string `json:"trace_id,omitempty"`
}

// StatusLabel returns the envelope status string for an HTTP status code.
func StatusLabel(code int) string {
	if code >= http.StatusBadRequest {
		return "error"
	}
	return "success"
}

// RespondWithData writes a success envelope with the given status code,
// message, and payload.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	writeEnvelope(w, Envelope{
		Code:    status,
		Status:  StatusLabel(status),
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes an error envelope with a null data field. The
// trace ID from the request context is included for correlation.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	writeEnvelope(w, Envelope{
		Code:    status,
		Status:  StatusLabel(status),
		Message: message,
		TraceID: traceID,
	})
}

// RespondWithErrorAndLog writes an error envelope exposing only the safe
// message, and logs the underlying error (redacted) for operators. 5xx
// responses log at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, userMessage string, err error) {
	traceID := GetTraceID(r.Context())

	logAttrs := []any{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", logAttrs...)
	} else {
		slog.Debug("request rejected", logAttrs...)
	}

	writeEnvelope(w, Envelope{
		Code:    status,
		Status:  StatusLabel(status),
		Message: userMessage,
		TraceID: traceID,
	})
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Code)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
