package orchestrate

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskAlreadyRun is returned when a task is run more than once.
	ErrTaskAlreadyRun = errors.New("task already run")
	// ErrTaskPanicked is returned when a task operation panics.
	ErrTaskPanicked = errors.New("task panicked")
	// ErrNilTaskFunc is returned when a task has no operation.
	ErrNilTaskFunc = errors.New("nil task func")
	// ErrResourceAcquisition is returned when the shared resource of a run could not be created.
	ErrResourceAcquisition = errors.New("could not acquire shared resource")
)

// TaskError is the error of a failed task.
type TaskError struct {
	ID  string
	Err error
}

// Error implements the error interface.
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// TaskID returns the identity of the task that caused err.
func TaskID(err error) (string, bool) {
	var taskErr *TaskError
	if errors.As(err, &taskErr) {
		return taskErr.ID, true
	}
	return "", false
}

// ResourceError is returned when a run could not acquire its shared resource,
// no task is launched in that case.
type ResourceError struct {
	Err error
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", ErrResourceAcquisition, e.Err)
}

// Unwrap returns ErrResourceAcquisition and the underlying error.
func (e *ResourceError) Unwrap() []error {
	return []error{ErrResourceAcquisition, e.Err}
}
