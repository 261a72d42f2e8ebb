package lib

import (
	"context"
	"fmt"

	"github.com/slok/fanout/internal/app/history"
	"github.com/slok/fanout/internal/model"
)

// ListRunsOpts are the optional filters of [Client.ListRuns].
type ListRunsOpts struct {
	// Kind only returns runs of this kind.
	Kind *RunKind
	// Limit is the maximum number of runs, 0 means all.
	Limit int
}

// ListRuns returns the recorded runs, newest first.
func (c *Client) ListRuns(ctx context.Context, opts *ListRunsOpts) ([]Run, error) {
	svc, err := history.NewService(history.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := history.Request{}
	if opts != nil {
		req.Limit = opts.Limit
		if opts.Kind != nil {
			kind := model.RunKind(*opts.Kind)
			req.KindFilter = &kind
		}
	}

	runs, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalRunList(runs), nil
}

// GetRun returns a recorded run.
//
// Returns [ErrNotFound] if the run does not exist.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	run, err := c.repo.GetRun(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	r := fromInternalRunList([]model.Run{*run})[0]
	return &r, nil
}
