package gateway

import (
	"context"
	"time"

	"github.com/user/autothread/internal/types"
)

// TaskKind names the event type a Task was created for.
type TaskKind string

const (
	TaskKindMessage     TaskKind = "message"
	TaskKindInteraction TaskKind = "interaction"
)

// Task is one inbound event handled in isolation from every other event.
type Task struct {
	ID        types.TaskID
	Kind      TaskKind
	CreatedAt time.Time
	// Attrs are attached to every log line about the task.
	Attrs []any
	Fn    func(ctx context.Context) error
}

// NewTask creates a Task with a fresh id.
func NewTask(kind TaskKind, fn func(ctx context.Context) error, attrs ...any) *Task {
	return &Task{
		ID:        types.NewTaskID(),
		Kind:      kind,
		CreatedAt: time.Now(),
		Attrs:     attrs,
		Fn:        fn,
	}
}

func (t *Task) logAttrs() []any {
	return append([]any{"task_id", string(t.ID), "kind", string(t.Kind)}, t.Attrs...)
}
