package orchestrate

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/slok/fanout/internal/log"
)

// StreamerConfig is the configuration of the Streamer.
type StreamerConfig struct {
	// MaxConcurrency limits the running tasks, 0 means unlimited.
	MaxConcurrency int
	// Observer receives the task transitions.
	Observer Observer
	Logger   log.Logger
}

func (c *StreamerConfig) defaults() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency can't be negative")
	}
	if c.Observer == nil {
		c.Observer = NoopObserver
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "orchestrate.Streamer"})
	return nil
}

// Streamer runs tasks and yields their results in completion order.
type Streamer[T any] struct {
	maxConcurrency int
	observer       Observer
	logger         log.Logger
}

// NewStreamer returns a new Streamer.
func NewStreamer[T any](cfg StreamerConfig) (*Streamer[T], error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Streamer[T]{
		maxConcurrency: cfg.MaxConcurrency,
		observer:       cfg.Observer,
		logger:         cfg.Logger,
	}, nil
}

// Stream launches one task per identity, in the given order, and returns
// the stream of their results.
//
// A failed task doesn't cancel the others. If the consumer stops reading, the
// remaining tasks keep running until they finish and their results are
// discarded; cancel ctx to stop them.
func (s *Streamer[T]) Stream(ctx context.Context, ids []string, factory func(id string) TaskFunc[T]) *Stream[T] {
	tasks := make([]*Task[T], 0, len(ids))
	for _, id := range ids {
		var fn TaskFunc[T]
		if factory != nil {
			fn = factory(id)
		}
		t := NewTask(id, fn, s.observer)
		_ = t.Schedule()
		tasks = append(tasks, t)
	}

	// Buffered so finished tasks never wait for the consumer.
	out := make(chan Result[T], len(tasks))

	var eg errgroup.Group
	if s.maxConcurrency > 0 {
		eg.SetLimit(s.maxConcurrency)
	}

	s.logger.WithCtxValues(ctx).Debugf("Streaming %d tasks", len(tasks))

	go func() {
		for _, t := range tasks {
			eg.Go(func() error {
				out <- t.Run(ctx)
				return nil
			})
		}
		_ = eg.Wait()
		close(out)
	}()

	return &Stream[T]{results: out, total: len(tasks)}
}

// Stream is a finite sequence of task results in completion order. Every
// result is delivered once, a drained stream can't be restarted.
type Stream[T any] struct {
	results <-chan Result[T]
	total   int
}

// Len returns the number of results the stream will yield.
func (s *Stream[T]) Len() int { return s.total }

// Next blocks until the next task finishes. It returns false when all the
// results have been delivered, or an error if ctx ends first.
func (s *Stream[T]) Next(ctx context.Context) (Result[T], bool, error) {
	select {
	case res, ok := <-s.results:
		if !ok {
			return Result[T]{}, false, nil
		}
		return res, true, nil
	case <-ctx.Done():
		return Result[T]{}, false, ctx.Err()
	}
}

// All returns a range-friendly iterator over the pending results.
func (s *Stream[T]) All() iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		for res := range s.results {
			if !yield(res) {
				return
			}
		}
	}
}
