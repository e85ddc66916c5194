package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/api/shared"
	"github.com/examforge/paper-api/internal/service"
)

// maxUploadBytes bounds how much of an uploaded file is read into memory.
const maxUploadBytes = 16 << 20 // 16 MiB

// ExtractionHandler handles file upload and task status HTTP requests.
type ExtractionHandler struct {
	extractionService service.ExtractionService
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(extractionService service.ExtractionService) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService}
}

// SubmitFile handles POST /extract/text requests. The body is a multipart
// form with the document under the "file" field. The response is the
// pending task record; extraction happens in the background.
func (h *ExtractionHandler) SubmitFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read uploaded file", err)
		return
	}

	task, err := h.extractionService.SubmitFile(r.Context(), header.Filename, data)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusAccepted, "Text extraction task submitted", taskToResponse(task))
}

// GetTask handles GET /tasks/{task_id} requests.
func (h *ExtractionHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return
	}

	task, err := h.extractionService.GetTask(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Task fetched successfully", taskToResponse(task))
}
