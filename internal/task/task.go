package task

import (
	"context"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
)

// Task type constants
const (
	// TaskTypeExtraction represents the task type for extracting text from
	// an uploaded file.
	TaskTypeExtraction = "text_extraction"
)

// Task represents a unit of background work to be processed.
//
// A Task's identifier is the identifier of its persisted status record;
// workers report transitions against that record.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Execute runs the task logic and returns its result text.
	Execute(ctx context.Context) (string, error)
}

// Factory rebuilds a runnable Task from its persisted record. The runner
// uses it on startup to requeue tasks that were still pending when the
// previous process stopped.
type Factory interface {
	// Rebuild returns a runnable Task for the given record.
	Rebuild(record *domain.Task) (Task, error)
}
