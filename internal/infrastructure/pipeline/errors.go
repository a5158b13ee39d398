package pipeline

import "errors"

var (
	// ErrSchedulerNotRunning is returned when enqueueing to a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrQueueFull is returned when the task queue is at capacity
	ErrQueueFull = errors.New("task queue is full")
)
