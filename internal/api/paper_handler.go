package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/api/shared"
	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/service"
)

// PaperHandler handles paper CRUD HTTP requests.
type PaperHandler struct {
	paperService service.PaperService
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(paperService service.PaperService) *PaperHandler {
	return &PaperHandler{paperService: paperService}
}

// CreatePaper handles POST /paper requests. The body is a full paper
// document; the server assigns the ID and timestamps.
func (h *PaperHandler) CreatePaper(w http.ResponseWriter, r *http.Request) {
	var draft domain.Paper
	if err := shared.DecodeJSON(r, &draft); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	paper, err := h.paperService.CreatePaper(r.Context(), draft)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Paper created successfully", CreatePaperResponse{
		PaperID: paper.ID.String(),
	})
}

// GetPaper handles GET /papers/{p_id} requests.
func (h *PaperHandler) GetPaper(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paperID(w, r)
	if !ok {
		return
	}

	paper, err := h.paperService.GetPaper(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Paper fetched successfully", paper)
}

// UpdatePaper handles PUT /papers/{p_id} requests. Absent fields keep
// their stored value; list fields are replaced wholesale.
func (h *PaperHandler) UpdatePaper(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paperID(w, r)
	if !ok {
		return
	}

	var update domain.PaperUpdate
	if err := shared.DecodeJSON(r, &update); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	paper, err := h.paperService.UpdatePaper(r.Context(), id, update)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Paper updated successfully", paper)
}

// DeletePaper handles DELETE /papers/{p_id} requests.
func (h *PaperHandler) DeletePaper(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paperID(w, r)
	if !ok {
		return
	}

	if err := h.paperService.DeletePaper(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Paper deleted successfully", nil)
}

// paperID parses the p_id path parameter, responding with 400 on a
// malformed value.
func (h *PaperHandler) paperID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "p_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
