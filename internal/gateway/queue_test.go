package gateway

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueueConcurrency(t *testing.T) {
	queue := NewQueue(2)
	queue.Start(context.Background())
	defer queue.Stop()

	var running int32
	var maxSeen int32

	for i := 0; i < 5; i++ {
		task := NewTask(TaskKindMessage, func(ctx context.Context) error {
			current := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if current <= old || atomic.CompareAndSwapInt32(&maxSeen, old, current) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return nil
		})
		if err := queue.Enqueue(task); err != nil {
			t.Fatal(err)
		}
	}

	if !queue.WaitIdle(2 * time.Second) {
		t.Fatal("timed out waiting for tasks")
	}

	if m := atomic.LoadInt32(&maxSeen); m > 2 {
		t.Errorf("expected max 2 concurrent, saw %d", m)
	}
	if m := atomic.LoadInt32(&maxSeen); m < 2 {
		t.Errorf("expected tasks to overlap, max concurrent was %d", m)
	}
}

func TestQueueTaskCalled(t *testing.T) {
	queue := NewQueue(1)
	queue.Start(context.Background())
	defer queue.Stop()

	var processed int32
	task := NewTask(TaskKindMessage, func(ctx context.Context) error {
		atomic.AddInt32(&processed, 1)
		return nil
	})
	if err := queue.Enqueue(task); err != nil {
		t.Fatal(err)
	}

	queue.WaitIdle(time.Second)

	if atomic.LoadInt32(&processed) != 1 {
		t.Errorf("expected 1 processed task, got %d", processed)
	}
}

func TestQueueIsolatesFailures(t *testing.T) {
	queue := NewQueue(4)
	queue.Start(context.Background())
	defer queue.Stop()

	var mu sync.Mutex
	var completed []string

	failing := NewTask(TaskKindMessage, func(ctx context.Context) error {
		return errors.New("post controls: 500")
	})
	panicking := NewTask(TaskKindMessage, func(ctx context.Context) error {
		panic("nil map")
	})
	healthy := NewTask(TaskKindMessage, func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		completed = append(completed, "healthy")
		mu.Unlock()
		return nil
	})

	for _, task := range []*Task{failing, panicking, healthy} {
		if err := queue.Enqueue(task); err != nil {
			t.Fatal(err)
		}
	}

	if !queue.WaitIdle(2 * time.Second) {
		t.Fatal("timed out waiting for tasks")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 1 {
		t.Errorf("expected healthy task to complete, got %v", completed)
	}
}

func TestQueueEnqueueAfterStop(t *testing.T) {
	queue := NewQueue(1)
	queue.Start(context.Background())
	queue.Stop()

	err := queue.Enqueue(NewTask(TaskKindMessage, func(ctx context.Context) error { return nil }))
	if !errors.Is(err, ErrQueueStopped) {
		t.Errorf("expected ErrQueueStopped, got %v", err)
	}
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	queue := NewQueue(1)
	err := queue.Enqueue(NewTask(TaskKindMessage, func(ctx context.Context) error { return nil }))
	if !errors.Is(err, ErrQueueStopped) {
		t.Errorf("expected ErrQueueStopped, got %v", err)
	}
}

func TestQueueStopWaitsForInFlight(t *testing.T) {
	queue := NewQueue(1)
	queue.Start(context.Background())

	var finished atomic.Bool
	started := make(chan struct{})
	task := NewTask(TaskKindMessage, func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	if err := queue.Enqueue(task); err != nil {
		t.Fatal(err)
	}
	<-started
	queue.Stop()

	if !finished.Load() {
		t.Error("expected Stop to wait for the in-flight task")
	}
}

func TestQueueStopDropsWaitingTasks(t *testing.T) {
	queue := NewQueue(1)
	queue.Start(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	blocker := NewTask(TaskKindMessage, func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	var waitingRan atomic.Bool
	waiting := NewTask(TaskKindMessage, func(ctx context.Context) error {
		waitingRan.Store(true)
		return nil
	})

	if err := queue.Enqueue(blocker); err != nil {
		t.Fatal(err)
	}
	<-started
	if err := queue.Enqueue(waiting); err != nil {
		t.Fatal(err)
	}

	stopped := make(chan struct{})
	go func() {
		queue.Stop()
		close(stopped)
	}()
	deadline := time.Now().Add(time.Second)
	for queue.admit.Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("Stop never closed admission")
		}
		time.Sleep(time.Millisecond)
	}
	close(release)
	<-stopped

	if waitingRan.Load() {
		t.Error("expected the waiting task to be dropped by Stop")
	}
}
