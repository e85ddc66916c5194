package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of an extraction task.
type TaskStatus string

// Possible task status values. A task starts pending, moves to processing
// when a worker picks it up, and ends in exactly one of the terminal states.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether s is a terminal status. Terminal states are
// never left.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// IsValidTaskStatus checks if the given status is a known TaskStatus.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Task tracks one unit of asynchronous extraction work. Result is set only
// when the task completed; ErrorMessage only when it failed. FilePath and
// FileType identify the uploaded payload handed to the extraction backend.
type Task struct {
	ID           uuid.UUID  `json:"t_id"`
	Status       TaskStatus `json:"status"`
	Result       string     `json:"result,omitempty"`
	ErrorMessage string     `json:"error,omitempty"`
	FilePath     string     `json:"file_path,omitempty"`
	FileType     string     `json:"file_type,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTask creates a pending extraction task for the given stored file.
func NewTask(filePath, fileType string) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:        uuid.New(),
		Status:    TaskStatusPending,
		FilePath:  filePath,
		FileType:  fileType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ErrEmptyTaskID is returned when a task has no identifier.
var ErrEmptyTaskID = errors.New("task ID cannot be empty")

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}
	return nil
}
