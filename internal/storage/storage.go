package storage

import (
	"context"

	"github.com/slok/fanout/internal/model"
)

// RunRepository is the interface for run history persistence.
type RunRepository interface {
	CreateRun(ctx context.Context, r model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns the runs, newest first.
	ListRuns(ctx context.Context, opts ListRunsOpts) ([]model.Run, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name RunRepository

// ListRunsOpts are the options to filter the listed runs.
type ListRunsOpts struct {
	// Kind filters by run kind, empty means all.
	Kind model.RunKind
	// Limit is the maximum number of runs returned, 0 means no limit.
	Limit int
}
