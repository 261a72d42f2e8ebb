package orchestrate

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slok/fanout/internal/log"
)

// AcquireFunc creates the shared resource of a run. The returned release func
// (can be nil) is called exactly once when every task of the run is terminal,
// it can be called from a different goroutine than the one running RunAll.
type AcquireFunc[R any] func(ctx context.Context) (resource R, release func(), err error)

// OperationFactory returns the operation of the task with the given identity.
// Every operation of a run receives the same shared resource.
type OperationFactory[R, T any] func(resource R, id string) TaskFunc[T]

// SupervisorConfig is the configuration of the Supervisor.
type SupervisorConfig struct {
	// MaxConcurrency limits the running tasks, 0 means unlimited.
	MaxConcurrency int
	// Observer receives the task transitions.
	Observer Observer
	Logger   log.Logger
}

func (c *SupervisorConfig) defaults() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency can't be negative")
	}
	if c.Observer == nil {
		c.Observer = NoopObserver
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "orchestrate.Supervisor"})
	return nil
}

// Supervisor runs batches of tasks against a shared resource, all or nothing.
type Supervisor[R, T any] struct {
	maxConcurrency int
	observer       Observer
	logger         log.Logger
}

// NewSupervisor returns a new Supervisor.
func NewSupervisor[R, T any](cfg SupervisorConfig) (*Supervisor[R, T], error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Supervisor[R, T]{
		maxConcurrency: cfg.MaxConcurrency,
		observer:       cfg.Observer,
		logger:         cfg.Logger,
	}, nil
}

// RunAll runs one task per identity and waits for all of them.
//
// The shared resource is acquired before any task is launched, if that fails
// a *ResourceError is returned. Results are returned in sorted identity order
// regardless of completion order. The first failing task cancels the context
// of its siblings and its error is returned right away, alone, without
// partial results and without waiting for the siblings still in flight.
// The resource is released once every launched task has finished, on a
// failure this happens in the background after RunAll returned.
func (s *Supervisor[R, T]) RunAll(ctx context.Context, ids []string, acquire AcquireFunc[R], factory OperationFactory[R, T]) ([]Result[T], error) {
	if acquire == nil {
		return nil, fmt.Errorf("acquire func is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("operation factory is required")
	}

	resource, release, err := acquire(ctx)
	if err != nil {
		return nil, &ResourceError{Err: err}
	}
	if release == nil {
		release = func() {}
	}

	sorted := slices.Clone(ids)
	slices.Sort(sorted)

	tasks := make([]*Task[T], 0, len(sorted))
	for _, id := range sorted {
		t := NewTask(id, factory(resource, id), s.observer)
		if err := t.Schedule(); err != nil {
			release()
			return nil, err
		}
		tasks = append(tasks, t)
	}

	logger := s.logger.WithCtxValues(ctx)
	logger.Debugf("Launching %d tasks", len(tasks))
	start := time.Now()

	eg, runCtx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		eg.SetLimit(s.maxConcurrency)
	}

	results := make([]Result[T], len(tasks))
	firstErr := make(chan error, 1)
	done := make(chan struct{})

	// Launching blocks when the concurrency limit is reached, a failure must
	// be able to reach the caller meanwhile.
	go func() {
		defer close(done)
		for i, t := range tasks {
			eg.Go(func() error {
				res := t.Run(runCtx)
				results[i] = res
				if res.Err != nil {
					select {
					case firstErr <- res.Err:
					default:
					}
				}
				return res.Err
			})
		}
		_ = eg.Wait()
	}()

	select {
	case err := <-firstErr:
		logger.Debugf("Batch aborted after %s: %s", time.Since(start), err)
		go func() {
			<-done
			logger.Debugf("Releasing shared resource after %s", time.Since(start))
			release()
		}()
		return nil, err
	case <-done:
	}

	// A failure can be recorded right before the group finishes.
	select {
	case err := <-firstErr:
		release()
		logger.Debugf("Batch aborted after %s: %s", time.Since(start), err)
		return nil, err
	default:
	}

	release()
	logger.Debugf("Batch of %d tasks finished in %s", len(results), time.Since(start))
	return results, nil
}
