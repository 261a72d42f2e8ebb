package orchestrate

import (
	"context"
	"fmt"
	"sync"
)

// TaskFunc is the operation run by a task.
type TaskFunc[T any] func(ctx context.Context) (T, error)

// Task is a unit of independently schedulable work with a single terminal result.
type Task[T any] struct {
	id       string
	fn       TaskFunc[T]
	observer Observer

	mu    sync.Mutex
	state State
}

// NewTask returns a new task in created state. observer can be nil.
func NewTask[T any](id string, fn TaskFunc[T], observer Observer) *Task[T] {
	if observer == nil {
		observer = NoopObserver
	}

	return &Task[T]{
		id:       id,
		fn:       fn,
		observer: observer,
		state:    StateCreated,
	}
}

// ID returns the task identity.
func (t *Task[T]) ID() string { return t.id }

// State returns the current task state.
func (t *Task[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Schedule marks the task as ready to run.
func (t *Task[T]) Schedule() error {
	if !t.advance(StateCreated, StateScheduled, nil) {
		return &TaskError{ID: t.id, Err: ErrTaskAlreadyRun}
	}
	return nil
}

// Run executes the task operation and returns its result. A task not scheduled
// yet is scheduled first. Running a task more than once returns a failed result
// with ErrTaskAlreadyRun without executing the operation again.
func (t *Task[T]) Run(ctx context.Context) Result[T] {
	if t.State() == StateCreated {
		_ = t.Schedule()
	}

	if !t.advance(StateScheduled, StateRunning, nil) {
		return Failure[T](t.id, &TaskError{ID: t.id, Err: ErrTaskAlreadyRun})
	}

	value, err := t.call(ctx)
	if err != nil {
		err = &TaskError{ID: t.id, Err: err}
		t.advance(StateRunning, StateFailed, err)
		return Failure[T](t.id, err)
	}

	t.advance(StateRunning, StateSucceeded, nil)
	return Success(t.id, value)
}

func (t *Task[T]) call(ctx context.Context) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()

	if t.fn == nil {
		return value, ErrNilTaskFunc
	}

	// Don't start work for an already aborted run.
	if err := ctx.Err(); err != nil {
		return value, err
	}

	return t.fn(ctx)
}

// advance moves the task from one state to another. The observer is notified
// outside the lock so it can query the task.
func (t *Task[T]) advance(from, to State, err error) bool {
	t.mu.Lock()
	if t.state != from {
		t.mu.Unlock()
		return false
	}
	t.state = to
	t.mu.Unlock()

	t.observer.Observe(Transition{ID: t.id, From: from, To: to, Err: err})
	return true
}
