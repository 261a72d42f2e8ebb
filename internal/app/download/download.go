package download

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/fanout/internal/fetch"
	"github.com/slok/fanout/internal/log"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/orchestrate"
	"github.com/slok/fanout/internal/sink"
	"github.com/slok/fanout/internal/storage"
)

// DefaultBaseURL is the default server of the flag images.
const DefaultBaseURL = "https://www.fluentpython.com/data/flags"

// FetcherFactory creates the fetcher shared by all the downloads of a run and
// the func that releases it.
type FetcherFactory func(ctx context.Context) (fetch.Fetcher, func(), error)

// ServiceConfig is the configuration for the download service.
type ServiceConfig struct {
	// FetcherFactory defaults to a pooled HTTP client per run.
	FetcherFactory FetcherFactory
	// Sink receives every downloaded image, defaults to a noop sink.
	Sink       sink.Sink
	Repository storage.RunRepository
	BaseURL    string
	// MaxConcurrency limits the in-flight downloads, 0 means unlimited.
	MaxConcurrency int
	// Timeout is the timeout of every download when using the default fetcher factory.
	Timeout time.Duration
	// DisableRedirects makes the default fetcher fail on redirects.
	DisableRedirects bool
	Logger           log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency can't be negative")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Download"})

	if c.Sink == nil {
		c.Sink = sink.Noop
	}

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.FetcherFactory == nil {
		c.FetcherFactory = fetch.PooledFetcherFactory(fetch.HTTPFetcherConfig{
			Timeout:          c.Timeout,
			DisableRedirects: c.DisableRedirects,
			Logger:           c.Logger,
		})
	}

	return nil
}

// Service downloads country flags in batches, all or nothing.
type Service struct {
	fetcherFactory FetcherFactory
	sink           sink.Sink
	repo           storage.RunRepository
	baseURL        string
	maxConcurrency int
	logger         log.Logger
}

// NewService creates a new download service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		fetcherFactory: cfg.FetcherFactory,
		sink:           cfg.Sink,
		repo:           cfg.Repository,
		baseURL:        cfg.BaseURL,
		maxConcurrency: cfg.MaxConcurrency,
		logger:         cfg.Logger,
	}, nil
}

// Request represents the download request parameters.
type Request struct {
	// CountryCodes to download, defaults to the 20 most populous countries.
	CountryCodes []string
	// OnDownloaded is called with the country code of every saved flag, as they
	// finish. It's called concurrently from the download goroutines.
	OnDownloaded func(cc string)
}

// Response is the summary of a download run.
type Response struct {
	RunID string
	// Downloads are sorted by country code.
	Downloads []model.FlagDownload
	Elapsed   time.Duration
}

// Count returns the number of downloaded flags.
func (r Response) Count() int { return len(r.Downloads) }

// Run downloads the flags of all the country codes concurrently.
//
// The first failed download aborts the ones in flight and its error is
// returned, no partial result is returned in that case.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	codes := req.CountryCodes
	if len(codes) == 0 {
		codes = model.PopulousCountryCodes
	}

	ccs := make([]string, 0, len(codes))
	seen := map[string]struct{}{}
	for _, c := range codes {
		cc, err := model.NormalizeCountryCode(c)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[cc]; ok {
			continue
		}
		seen[cc] = struct{}{}
		ccs = append(ccs, cc)
	}

	runID := ulid.Make().String()
	logger := s.logger.WithValues(log.Kv{"run-id": runID})
	ctx = logger.SetValuesOnCtx(ctx, log.Kv{"run-id": runID})

	observer := orchestrate.NoopObserver
	if req.OnDownloaded != nil {
		observer = orchestrate.OnSuccess(req.OnDownloaded)
	}

	supervisor, err := orchestrate.NewSupervisor[fetch.Fetcher, model.FlagDownload](orchestrate.SupervisorConfig{
		MaxConcurrency: s.maxConcurrency,
		Observer:       observer,
		Logger:         s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create supervisor: %w", err)
	}

	start := time.Now()
	results, runErr := supervisor.RunAll(ctx, ccs, orchestrate.AcquireFunc[fetch.Fetcher](s.fetcherFactory), s.downloadOperation)
	elapsed := time.Since(start)

	run := model.Run{
		ID:        runID,
		Kind:      model.RunKindDownload,
		Status:    model.RunStatusSucceeded,
		Total:     len(ccs),
		Succeeded: len(results),
		StartedAt: start.UTC(),
		Duration:  elapsed,
	}
	if runErr != nil {
		run.Status = model.RunStatusFailed
		run.Error = runErr.Error()
		if _, ok := orchestrate.TaskID(runErr); ok {
			run.Failed = 1
		}
	}

	if err := s.repo.CreateRun(context.WithoutCancel(ctx), run); err != nil {
		return nil, fmt.Errorf("could not store run: %w", err)
	}

	if runErr != nil {
		return nil, fmt.Errorf("download aborted: %w", runErr)
	}

	resp := &Response{
		RunID:     runID,
		Downloads: make([]model.FlagDownload, 0, len(results)),
		Elapsed:   elapsed,
	}
	for _, res := range results {
		resp.Downloads = append(resp.Downloads, res.Value)
	}

	logger.Infof("%d flags downloaded in %s", resp.Count(), elapsed)
	return resp, nil
}

// FlagURL returns the URL of a country flag image.
func FlagURL(baseURL, cc string) string {
	cc = strings.ToLower(cc)
	return fmt.Sprintf("%s/%s/%s.gif", strings.TrimSuffix(baseURL, "/"), cc, cc)
}

func (s *Service) downloadOperation(fetcher fetch.Fetcher, cc string) orchestrate.TaskFunc[model.FlagDownload] {
	return func(ctx context.Context) (model.FlagDownload, error) {
		url := FlagURL(s.baseURL, cc)
		image, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return model.FlagDownload{}, err
		}

		if err := s.sink.OnSuccess(ctx, strings.ToLower(cc), image); err != nil {
			return model.FlagDownload{}, fmt.Errorf("could not save flag: %w", err)
		}

		return model.FlagDownload{
			CountryCode: cc,
			URL:         url,
			SizeBytes:   int64(len(image)),
		}, nil
	}
}
