package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/metrics"
	"github.com/examforge/paper-api/internal/store"
)

// RunnerConfig holds configuration for the task runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int

	// MaxProcessingAge bounds how long a task may stay in the processing
	// state before the monitor forces it to failed. Without this bound a
	// hung collaborator call would leave the task non-terminal forever.
	MaxProcessingAge time.Duration

	// StuckCheckInterval defines how often to check for stuck tasks.
	// If zero, defaults to 5 minutes.
	StuckCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:        2,
		QueueSize:          100,
		MaxProcessingAge:   30 * time.Minute,
		StuckCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background extraction processing: it owns the queue, the
// worker pool, and the stuck-task monitor.
type Runner struct {
	store      store.TaskStore
	factory    Factory
	queue      *TaskQueue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(taskStore store.TaskStore, factory Factory, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.StuckCheckInterval == 0 {
		config.StuckCheckInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      taskStore,
		factory:    factory,
		queue:      NewTaskQueue(config.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
	}
}

// Submit adds a task to the queue. The task's status record must already be
// persisted by the caller; Submit never blocks on a full queue.
func (r *Runner) Submit(task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Start recovers unfinished tasks and launches the worker pool and the
// stuck-task monitor.
func (r *Runner) Start() error {
	if err := r.recover(); err != nil {
		return fmt.Errorf("failed to recover tasks: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckTaskMonitor()

	return nil
}

// Stop gracefully shuts down the runner. In-flight tasks finish; queued
// tasks stay pending in the store and are requeued on the next start.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.queue.Close()
	r.wg.Wait()
}

// recover requeues tasks that were pending when the previous process
// stopped, and fails tasks that were mid-processing: with no record of how
// far the collaborator call got, re-running it would be a retry, and the
// pipeline does not retry.
func (r *Runner) recover() error {
	ctx := context.Background()

	interrupted, err := r.store.FailStuck(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to fail interrupted tasks: %w", err)
	}

	pending, err := r.store.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pending tasks: %w", err)
	}

	r.logger.Info("recovering unfinished tasks",
		slog.Int("pending_count", len(pending)),
		slog.Int("interrupted_count", interrupted))

	for _, record := range pending {
		runnable, err := r.factory.Rebuild(record)
		if err != nil {
			r.logger.Error("failed to rebuild pending task, marking failed",
				slog.String("task_id", record.ID.String()),
				slog.String("error", err.Error()))
			if failErr := r.store.MarkFailed(ctx, record.ID, "could not rebuild task after restart"); failErr != nil {
				r.logger.Error("failed to mark unbuildable task as failed",
					slog.String("task_id", record.ID.String()),
					slog.String("error", failErr.Error()))
			}
			continue
		}

		if err := r.queue.Enqueue(runnable); err != nil {
			r.logger.Error("failed to requeue pending task",
				slog.String("task_id", record.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// worker processes tasks from the queue.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case task, ok := <-r.queue.GetChannel():
			if !ok {
				r.logger.Debug("task channel closed, stopping worker",
					slog.Int("worker_id", id))
				return
			}
			r.processTask(task, id)
		}
	}
}

// processTask drives one task through its status transitions.
func (r *Runner) processTask(task Task, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		slog.String("task_id", task.ID().String()),
		slog.String("task_type", task.Type()),
		slog.Int("worker_id", workerID),
	)

	if err := r.store.MarkProcessing(ctx, task.ID()); err != nil {
		log.Error("failed to mark task as processing", "error", err)
		return
	}

	log.Info("processing task")

	result, err := task.Execute(r.ctx)
	if err != nil {
		log.Error("task execution failed", "error", err)
		if updateErr := r.store.MarkFailed(ctx, task.ID(), err.Error()); updateErr != nil {
			log.Error("failed to mark task as failed", "error", updateErr)
			return
		}
		metrics.ExtractionTasks.WithLabelValues(string(domain.TaskStatusFailed)).Inc()
		return
	}

	if updateErr := r.store.MarkCompleted(ctx, task.ID(), result); updateErr != nil {
		log.Error("failed to mark task as completed", "error", updateErr)
		return
	}
	metrics.ExtractionTasks.WithLabelValues(string(domain.TaskStatusCompleted)).Inc()
	log.Info("task completed")
}

// stuckTaskMonitor periodically forces tasks that have been in processing
// for longer than MaxProcessingAge into the failed state.
func (r *Runner) stuckTaskMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			count, err := r.store.FailStuck(context.Background(), r.config.MaxProcessingAge)
			if err != nil {
				r.logger.Error("failed to check for stuck tasks", "error", err)
				continue
			}
			if count > 0 {
				r.logger.Warn("failed stuck tasks", slog.Int("count", count))
				metrics.ExtractionTasks.WithLabelValues(string(domain.TaskStatusFailed)).
					Add(float64(count))
			}
		}
	}
}
