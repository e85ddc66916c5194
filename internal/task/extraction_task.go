package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/extraction"
)

// Common construction errors.
var (
	ErrNilExtractor = errors.New("extractor cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")
	ErrEmptyTaskID  = errors.New("task ID cannot be empty")
	ErrEmptyFile    = errors.New("file path cannot be empty")
)

// ExtractionTask implements the Task interface for extracting text from an
// uploaded file. The file is read from the upload spool at execution time,
// not at submission time, so a queued task survives a process restart.
type ExtractionTask struct {
	id        uuid.UUID
	filePath  string
	fileType  string
	extractor extraction.Extractor
	logger    *slog.Logger
}

// NewExtractionTask creates a runnable extraction task. The id must be the
// identifier of the task's persisted status record.
func NewExtractionTask(
	id uuid.UUID,
	filePath string,
	fileType string,
	extractor extraction.Extractor,
	logger *slog.Logger,
) (*ExtractionTask, error) {
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if id == uuid.Nil {
		return nil, ErrEmptyTaskID
	}
	if filePath == "" {
		return nil, ErrEmptyFile
	}

	return &ExtractionTask{
		id:        id,
		filePath:  filePath,
		fileType:  fileType,
		extractor: extractor,
		logger:    logger.With("task_type", TaskTypeExtraction, "task_id", id),
	}, nil
}

// ID returns the task's unique identifier.
func (t *ExtractionTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *ExtractionTask) Type() string {
	return TaskTypeExtraction
}

// Execute reads the spooled file and hands it to the extraction
// collaborator, returning the extracted text.
func (t *ExtractionTask) Execute(ctx context.Context) (string, error) {
	data, err := os.ReadFile(t.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}

	text, err := t.extractor.ExtractText(ctx, data, t.fileType)
	if err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}
	return text, nil
}

// ExtractionTaskFactory builds ExtractionTasks, both for fresh submissions
// and for requeueing persisted pending records after a restart.
type ExtractionTaskFactory struct {
	extractor extraction.Extractor
	logger    *slog.Logger
}

// Ensure ExtractionTaskFactory implements Factory.
var _ Factory = (*ExtractionTaskFactory)(nil)

// NewExtractionTaskFactory creates a new factory for ExtractionTasks.
func NewExtractionTaskFactory(extractor extraction.Extractor, logger *slog.Logger) (*ExtractionTaskFactory, error) {
	if extractor == nil {
		return nil, ErrNilExtractor
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &ExtractionTaskFactory{
		extractor: extractor,
		logger:    logger.With("component", "extraction_task_factory"),
	}, nil
}

// NewTask creates a runnable task for a freshly persisted record.
func (f *ExtractionTaskFactory) NewTask(id uuid.UUID, filePath, fileType string) (Task, error) {
	return NewExtractionTask(id, filePath, fileType, f.extractor, f.logger)
}

// Rebuild implements Factory for persisted pending records.
func (f *ExtractionTaskFactory) Rebuild(record *domain.Task) (Task, error) {
	return NewExtractionTask(record.ID, record.FilePath, record.FileType, f.extractor, f.logger)
}
