package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrQueueStopped is returned by Enqueue after Stop.
var ErrQueueStopped = errors.New("queue stopped")

// Queue runs every Task on its own goroutine. Tasks share no state and are
// not ordered relative to each other; a weighted semaphore caps how many
// execute at once. The queue is the outermost error boundary: task errors
// and panics are logged here and never reach the event source.
type Queue struct {
	semaphore *semaphore.Weighted
	active    atomic.Int64
	pending   atomic.Int64

	ctx     context.Context
	cancel  context.CancelFunc
	admit   context.Context
	closeIn context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewQueue creates a Queue that allows up to maxConcurrent tasks to execute
// simultaneously.
func NewQueue(maxConcurrent int64) *Queue {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Queue{
		semaphore: semaphore.NewWeighted(maxConcurrent),
	}
}

// Start initialises the queue's context. Must be called before Enqueue.
func (q *Queue) Start(ctx context.Context) {
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.admit, q.closeIn = context.WithCancel(q.ctx)
}

// Stop rejects new tasks, drops tasks still waiting for a semaphore slot,
// waits for running tasks, then cancels the queue context.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	if q.closeIn != nil {
		q.closeIn()
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		slog.Warn("abandoning in-flight tasks", "active", q.active.Load())
	}
	if q.cancel != nil {
		q.cancel()
	}
}

// Enqueue schedules task for execution and returns immediately.
func (q *Queue) Enqueue(task *Task) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped || q.ctx == nil {
		return ErrQueueStopped
	}

	q.wg.Add(1)
	q.pending.Add(1)
	go q.process(task)
	return nil
}

func (q *Queue) process(task *Task) {
	defer q.wg.Done()
	defer q.pending.Add(-1)

	if err := q.semaphore.Acquire(q.admit, 1); err != nil {
		slog.Debug("task dropped before start", append(task.logAttrs(), "error", err)...)
		return
	}
	defer q.semaphore.Release(1)
	if err := q.admit.Err(); err != nil {
		slog.Debug("task dropped before start", append(task.logAttrs(), "error", err)...)
		return
	}

	q.active.Add(1)
	defer q.active.Add(-1)

	start := time.Now()
	if err := q.run(task); err != nil {
		slog.Error("task failed", append(task.logAttrs(), "error", err, "elapsed", time.Since(start))...)
		return
	}
	slog.Debug("task complete", append(task.logAttrs(), "elapsed", time.Since(start))...)
}

// run invokes the task function, converting a panic into an error.
func (q *Queue) run(task *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return task.Fn(q.ctx)
}

// Active returns the number of tasks currently executing.
func (q *Queue) Active() int64 {
	return q.active.Load()
}

// WaitIdle blocks until every enqueued task has finished, or the timeout
// expires. Returns true if idle, false if timed out.
func (q *Queue) WaitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if q.pending.Load() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(10 * time.Millisecond):
		}
	}
}
