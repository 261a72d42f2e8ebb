package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/orchestrate"
	"github.com/slok/fanout/internal/resolve"
	"github.com/slok/fanout/internal/storage"
)

// ServiceConfig is the configuration for the probe service.
type ServiceConfig struct {
	Resolver   resolve.Resolver
	Repository storage.RunRepository
	// MaxConcurrency limits the in-flight probes, 0 means unlimited.
	MaxConcurrency int
	Logger         log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Resolver == nil {
		return fmt.Errorf("resolver is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency can't be negative")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Probe"})

	return nil
}

// Service checks which domains resolve, streaming the results as they arrive.
type Service struct {
	resolver       resolve.Resolver
	repo           storage.RunRepository
	maxConcurrency int
	logger         log.Logger
}

// NewService creates a new probe service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		resolver:       cfg.Resolver,
		repo:           cfg.Repository,
		maxConcurrency: cfg.MaxConcurrency,
		logger:         cfg.Logger,
	}, nil
}

// Request represents the probe request parameters.
type Request struct {
	Domains []string
	// OnResult is called with every result in completion order, failures included.
	OnResult func(res orchestrate.Result[model.Probe])
}

// Response is the summary of a probe run.
type Response struct {
	RunID string
	// Results are in completion order.
	Results  []orchestrate.Result[model.Probe]
	Found    int
	NotFound int
	Failed   int
	Elapsed  time.Duration
}

// Run probes all the domains concurrently.
//
// A domain that doesn't resolve is a regular result, only resolver failures
// are counted as failed. Failures don't stop the other probes.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	if len(req.Domains) == 0 {
		return nil, fmt.Errorf("at least one domain is required: %w", model.ErrNotValid)
	}
	for _, d := range req.Domains {
		if err := model.ValidateDomain(d); err != nil {
			return nil, err
		}
	}

	runID := ulid.Make().String()
	logger := s.logger.WithValues(log.Kv{"run-id": runID})
	ctx = logger.SetValuesOnCtx(ctx, log.Kv{"run-id": runID})

	streamer, err := orchestrate.NewStreamer[model.Probe](orchestrate.StreamerConfig{
		MaxConcurrency: s.maxConcurrency,
		Logger:         s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create streamer: %w", err)
	}

	start := time.Now()
	stream := streamer.Stream(ctx, req.Domains, s.probeOperation)

	resp := &Response{RunID: runID}
	var streamErr error
	for {
		res, ok, err := stream.Next(ctx)
		if err != nil {
			streamErr = err
			break
		}
		if !ok {
			break
		}

		switch {
		case !res.OK():
			resp.Failed++
			logger.Warningf("Could not probe %s: %s", res.ID, res.Err)
		case res.Value.Found:
			resp.Found++
		default:
			resp.NotFound++
		}
		resp.Results = append(resp.Results, res)

		if req.OnResult != nil {
			req.OnResult(res)
		}
	}
	resp.Elapsed = time.Since(start)

	run := model.Run{
		ID:        runID,
		Kind:      model.RunKindProbe,
		Status:    model.RunStatusSucceeded,
		Total:     len(req.Domains),
		Succeeded: resp.Found + resp.NotFound,
		Failed:    resp.Failed,
		StartedAt: start.UTC(),
		Duration:  resp.Elapsed,
	}
	switch {
	case streamErr != nil:
		run.Status = model.RunStatusFailed
		run.Error = streamErr.Error()
	case resp.Failed > 0:
		run.Status = model.RunStatusPartial
	}

	// The run is stored even if the probe was interrupted.
	if err := s.repo.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		return nil, fmt.Errorf("could not store run: %w", err)
	}

	if streamErr != nil {
		return nil, fmt.Errorf("probe interrupted: %w", streamErr)
	}

	logger.Infof("Probed %d domains in %s", len(req.Domains), resp.Elapsed)
	return resp, nil
}

func (s *Service) probeOperation(domain string) orchestrate.TaskFunc[model.Probe] {
	return func(ctx context.Context) (model.Probe, error) {
		found, err := s.resolver.Resolve(ctx, domain)
		if err != nil {
			return model.Probe{}, fmt.Errorf("could not resolve: %w", err)
		}
		return model.Probe{Domain: domain, Found: found}, nil
	}
}
