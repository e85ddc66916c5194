package shared

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "success", StatusLabel(http.StatusOK))
	assert.Equal(t, "success", StatusLabel(http.StatusCreated))
	assert.Equal(t, "success", StatusLabel(http.StatusAccepted))
	assert.Equal(t, "error", StatusLabel(http.StatusBadRequest))
	assert.Equal(t, "error", StatusLabel(http.StatusNotFound))
	assert.Equal(t, "error", StatusLabel(http.StatusInternalServerError))
}

func TestRespondWithData(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/papers/abc", nil)

	RespondWithData(w, r, http.StatusOK, "Paper fetched successfully", map[string]string{"title": "x"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "Paper fetched successfully", env.Message)
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.TraceID)
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/papers/abc", nil)
	r = r.WithContext(SetTraceID(r.Context()))

	RespondWithError(w, r, http.StatusNotFound, "Paper not found")

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Paper not found", env.Message)
	assert.Nil(t, env.Data)
	assert.Len(t, env.TraceID, 32)
}

func TestRespondWithErrorAndLog_DoesNotLeakInternalError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/papers/abc", nil)

	internal := assert.AnError
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", internal)

	assert.NotContains(t, w.Body.String(), internal.Error())

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "An unexpected error occurred", env.Message)
}

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = SetTraceID(ctx)
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 32)

	// A second request gets a distinct ID.
	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)
}
