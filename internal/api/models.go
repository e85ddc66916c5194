package api

import (
	"time"

	"github.com/examforge/paper-api/internal/domain"
)

// CreatePaperResponse is the payload returned after creating a paper:
// just the generated identifier, which the client uses for all further
// operations.
type CreatePaperResponse struct {
	PaperID string `json:"paper_id"`
}

// TaskResponse is the wire representation of an extraction task. The
// spooled file path is internal and never exposed.
type TaskResponse struct {
	TaskID      string    `json:"task_id"`
	TaskStatus  string    `json:"task_status"`
	ExtractData string    `json:"extract_data,omitempty"`
	Error       string    `json:"error,omitempty"`
	FileType    string    `json:"file_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		TaskID:      t.ID.String(),
		TaskStatus:  string(t.Status),
		ExtractData: t.Result,
		Error:       t.ErrorMessage,
		FileType:    t.FileType,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
