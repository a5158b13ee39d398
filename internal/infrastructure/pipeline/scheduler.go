package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poflow/backend/internal/application/etl"
	"github.com/poflow/backend/internal/domain/reconcile"
)

// Task is one queued file-processing request
type Task struct {
	Doc      reconcile.DocumentType
	FilePath string
	TenantID uuid.UUID
	FileName string
}

// FileProcessor runs the ETL pipeline for one uploaded file
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string, tenantID uuid.UUID, doc reconcile.DocumentType, fileName string) etl.Result
}

// Config holds scheduler sizing
type Config struct {
	Workers   int
	QueueSize int
}

// DefaultConfig returns the default scheduler sizing
func DefaultConfig() Config {
	return Config{Workers: 2, QueueSize: 100}
}

// Scheduler owns a FIFO task queue and a fixed worker pool that feeds
// uploaded files through the ETL pipeline. Tasks are never cancelled
// individually; Stop drains everything already accepted.
type Scheduler struct {
	config    Config
	processor FileProcessor
	logger    *zap.Logger

	tasks     chan Task
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler with the given sizing
func NewScheduler(config Config, processor FileProcessor, logger *zap.Logger) *Scheduler {
	if config.Workers < 1 {
		config.Workers = DefaultConfig().Workers
	}
	if config.QueueSize < 1 {
		config.QueueSize = DefaultConfig().QueueSize
	}
	return &Scheduler{
		config:    config,
		processor: processor,
		logger:    logger.Named("pipeline"),
		tasks:     make(chan Task, config.QueueSize),
	}
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Pipeline scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
	)
	return nil
}

// Stop stops accepting tasks and drains the queue: workers finish their
// in-flight task plus everything already queued, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.tasks)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Pipeline scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Pipeline scheduler stop timed out")
		return ctx.Err()
	}
}

// Enqueue queues one task for processing. Fails fast when the scheduler is
// stopped or the queue is at capacity; callers surface that to the client.
func (s *Scheduler) Enqueue(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.tasks <- task:
		s.logger.Debug("Task enqueued",
			zap.String("doc_type", string(task.Doc)),
			zap.String("file_name", task.FileName),
		)
		return nil
	default:
		return ErrQueueFull
	}
}

// worker drains the task channel until it is closed. Tasks queued before
// Stop still run to completion.
func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for task := range s.tasks {
		s.logger.Info("Processing task",
			zap.Int("worker_id", workerID),
			zap.String("doc_type", string(task.Doc)),
			zap.String("file_name", task.FileName),
			zap.String("tenant_id", task.TenantID.String()),
		)

		result := s.processor.ProcessFile(ctx, task.FilePath, task.TenantID, task.Doc, task.FileName)

		if result.Success {
			s.logger.Info("Task completed",
				zap.Int("worker_id", workerID),
				zap.String("file_name", task.FileName),
				zap.String("batch_id", result.BatchID.String()),
				zap.Int("total_rows", result.Stats.TotalRows),
			)
			continue
		}
		s.logger.Warn("Task finished with failures",
			zap.Int("worker_id", workerID),
			zap.String("file_name", task.FileName),
			zap.String("batch_id", result.BatchID.String()),
			zap.Int("processed_rows", result.Stats.ProcessedRows),
			zap.Int("failed_rows", result.Stats.FailedRows),
		)
	}
}
