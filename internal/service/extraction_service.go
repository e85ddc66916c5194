package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/platform/logger"
	"github.com/examforge/paper-api/internal/store"
	"github.com/examforge/paper-api/internal/task"
)

// ErrUnsupportedFileType is returned when an uploaded file is not one of
// the formats the extraction backend accepts. No task is created.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// acceptedMIMETypes maps the supported upload formats to the file
// extension used when spooling them to disk.
var acceptedMIMETypes = map[string]string{
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
}

// TaskSubmitter is the slice of the task runner the extraction service
// needs: hand over a runnable task for background processing.
type TaskSubmitter interface {
	Submit(t task.Task) error
}

// TaskBuilder builds runnable extraction tasks for persisted records.
type TaskBuilder interface {
	NewTask(id uuid.UUID, filePath, fileType string) (task.Task, error)
}

// ExtractionService accepts file uploads for text extraction and exposes
// the status of submitted tasks.
type ExtractionService interface {
	// SubmitFile validates the payload, persists a pending task record,
	// spools the file, and enqueues the extraction for background
	// processing. It returns the task record without waiting for the
	// extraction to run.
	SubmitFile(ctx context.Context, filename string, data []byte) (*domain.Task, error)

	// GetTask returns the task record for id.
	GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

type extractionService struct {
	tasks     store.TaskStore
	builder   TaskBuilder
	submitter TaskSubmitter
	uploadDir string
	logger    *slog.Logger
}

// NewExtractionService creates an ExtractionService. The upload directory
// is created if it does not exist.
func NewExtractionService(
	tasks store.TaskStore,
	builder TaskBuilder,
	submitter TaskSubmitter,
	uploadDir string,
	log *slog.Logger,
) (ExtractionService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if builder == nil {
		return nil, errors.New("task builder cannot be nil")
	}
	if submitter == nil {
		return nil, errors.New("task submitter cannot be nil")
	}
	if uploadDir == "" {
		return nil, errors.New("upload directory cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	if err := os.MkdirAll(uploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &extractionService{
		tasks:     tasks,
		builder:   builder,
		submitter: submitter,
		uploadDir: uploadDir,
		logger:    log.With(slog.String("component", "extraction_service")),
	}, nil
}

func (s *extractionService) SubmitFile(ctx context.Context, filename string, data []byte) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedFileType)
	}

	// Detect the type from the content, not the filename a client chose.
	mime := mimetype.Detect(data)
	fileType, ext := "", ""
	for accepted, acceptedExt := range acceptedMIMETypes {
		if mime.Is(accepted) {
			fileType, ext = accepted, acceptedExt
			break
		}
	}
	if fileType == "" {
		log.Info("rejected upload with unsupported type",
			slog.String("filename", filename),
			slog.String("detected_type", mime.String()))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, mime.String())
	}

	// Spool the payload before creating the record: a task must never
	// reference a file that does not exist.
	id := uuid.New()
	filePath := filepath.Join(s.uploadDir, id.String()+ext)
	if err := os.WriteFile(filePath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	record := domain.NewTask(filePath, fileType)
	record.ID = id
	if err := s.tasks.Create(ctx, record); err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("failed to create task record: %w", err)
	}

	runnable, err := s.builder.NewTask(record.ID, filePath, fileType)
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction task: %w", err)
	}

	if err := s.submitter.Submit(runnable); err != nil {
		// The record exists but will never run; fail it so pollers are
		// not left watching a pending task forever.
		if failErr := s.tasks.MarkFailed(ctx, record.ID, "task queue is full"); failErr != nil {
			log.Error("failed to mark unqueued task as failed",
				slog.String("task_id", record.ID.String()),
				slog.String("error", failErr.Error()))
		}
		return nil, fmt.Errorf("failed to enqueue extraction task: %w", err)
	}

	log.Info("extraction task submitted",
		slog.String("task_id", record.ID.String()),
		slog.String("file_type", fileType),
		slog.Int("payload_bytes", len(data)))

	return record, nil
}

func (s *extractionService) GetTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}
