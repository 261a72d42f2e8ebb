package orchestrate

// State is the lifecycle state of a task.
type State string

const (
	// StateCreated is the state of a task that has not been handed to an orchestrator.
	StateCreated State = "created"
	// StateScheduled is the state of a task waiting to be run.
	StateScheduled State = "scheduled"
	// StateRunning is the state of a task whose operation is executing.
	StateRunning State = "running"
	// StateSucceeded is the terminal state of a task that produced a value.
	StateSucceeded State = "succeeded"
	// StateFailed is the terminal state of a task that produced an error.
	StateFailed State = "failed"
)

// IsTerminal returns true if the state is final.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Transition is a task state change.
type Transition struct {
	ID   string
	From State
	To   State
	// Err is set when To is StateFailed.
	Err error
}

// Observer receives task state transitions. Observers are called from the task
// goroutines so they must be safe for concurrent use.
type Observer interface {
	Observe(t Transition)
}

// ObserverFunc is a helper to use functions as Observers.
type ObserverFunc func(t Transition)

// Observe satisfies Observer interface.
func (f ObserverFunc) Observe(t Transition) { f(t) }

// NoopObserver ignores all transitions.
var NoopObserver Observer = ObserverFunc(func(Transition) {})

// OnSuccess returns an observer that calls fn with the task identity every
// time a task succeeds. It is the usual way of emitting progress markers.
func OnSuccess(fn func(id string)) Observer {
	return ObserverFunc(func(t Transition) {
		if t.To == StateSucceeded {
			fn(t.ID)
		}
	})
}
