package orchestrate

// Result is the outcome of a single task: a value or an error, tagged with the
// identity of the task that produced it. Results are immutable.
type Result[T any] struct {
	ID    string
	Value T
	Err   error
}

// Success returns a successful result.
func Success[T any](id string, value T) Result[T] {
	return Result[T]{ID: id, Value: value}
}

// Failure returns a failed result.
func Failure[T any](id string, err error) Result[T] {
	return Result[T]{ID: id, Err: err}
}

// OK returns true when the result is a success.
func (r Result[T]) OK() bool { return r.Err == nil }

// Unwrap returns the value or the error of the task, the error is returned
// as it was produced so callers can inspect it with errors.Is/As.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}
