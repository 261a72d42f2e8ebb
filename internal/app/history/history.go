package history

import (
	"context"
	"fmt"

	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/storage"
)

// ServiceConfig is the configuration for the history service.
type ServiceConfig struct {
	Repository storage.RunRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists the recorded runs.
type Service struct {
	repo   storage.RunRepository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history request parameters.
type Request struct {
	// KindFilter is an optional filter to only show runs of this kind.
	KindFilter *model.RunKind
	// Limit is the maximum number of runs, 0 means all.
	Limit int
}

// Run lists the runs, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Run, error) {
	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	opts := storage.ListRunsOpts{Limit: req.Limit}
	if req.KindFilter != nil {
		switch *req.KindFilter {
		case model.RunKindProbe, model.RunKindDownload:
		default:
			return nil, fmt.Errorf("unknown run kind %q: %w", *req.KindFilter, model.ErrNotValid)
		}
		opts.Kind = *req.KindFilter
	}

	s.logger.Debugf("listing runs with filter: %+v", opts)

	runs, err := s.repo.ListRuns(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("could not list runs: %w", err)
	}

	s.logger.Debugf("found %d runs", len(runs))
	return runs, nil
}
