package model

import (
	"fmt"
	"time"
)

// RunKind is the kind of orchestration run.
type RunKind string

const (
	// RunKindProbe is a streamed domain probe run.
	RunKindProbe RunKind = "probe"
	// RunKindDownload is a batched flag download run.
	RunKindDownload RunKind = "download"
)

// RunStatus is the final status of a run.
type RunStatus string

const (
	// RunStatusSucceeded is a run where every task succeeded.
	RunStatusSucceeded RunStatus = "succeeded"
	// RunStatusPartial is a streamed run where some tasks failed.
	RunStatusPartial RunStatus = "partial"
	// RunStatusFailed is an aborted run.
	RunStatusFailed RunStatus = "failed"
)

// Run is the summary of an orchestration run.
type Run struct {
	ID        string
	Kind      RunKind
	Status    RunStatus
	Total     int
	Succeeded int
	Failed    int
	// Error is the error that aborted the run, if any.
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Validate validates the run.
func (r Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}

	switch r.Kind {
	case RunKindProbe, RunKindDownload:
	default:
		return fmt.Errorf("unknown run kind %q: %w", r.Kind, ErrNotValid)
	}

	switch r.Status {
	case RunStatusSucceeded, RunStatusPartial, RunStatusFailed:
	default:
		return fmt.Errorf("unknown run status %q: %w", r.Status, ErrNotValid)
	}

	if r.Total < 0 || r.Succeeded < 0 || r.Failed < 0 {
		return fmt.Errorf("counts can't be negative: %w", ErrNotValid)
	}
	if r.Succeeded+r.Failed > r.Total {
		return fmt.Errorf("succeeded and failed tasks exceed the total: %w", ErrNotValid)
	}
	if r.StartedAt.IsZero() {
		return fmt.Errorf("start time is required: %w", ErrNotValid)
	}
	return nil
}
