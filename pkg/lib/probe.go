package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/fanout/internal/app/probe"
	"github.com/slok/fanout/internal/keyword"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/orchestrate"
)

// ProbeOpts are the optional settings of [Client.ProbeDomains].
type ProbeOpts struct {
	// OnResult is called with every result as soon as the probe finishes.
	OnResult func(res ProbeResult)
}

// ProbeSummary is the outcome of a probe run.
type ProbeSummary struct {
	RunID string
	// Results are in completion order.
	Results  []ProbeResult
	Found    int
	NotFound int
	Failed   int
	Elapsed  time.Duration
}

// ProbeDomains checks concurrently which domains resolve.
//
// Failed probes are reported in the results and don't stop the others.
// Returns [ErrNotValid] if there are no domains or any of them is malformed.
func (c *Client) ProbeDomains(ctx context.Context, domains []string, opts *ProbeOpts) (*ProbeSummary, error) {
	svc, err := probe.NewService(probe.ServiceConfig{
		Resolver:       c.resolver,
		Repository:     c.repo,
		MaxConcurrency: c.maxConcurrency,
		Logger:         c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	req := probe.Request{Domains: domains}
	if opts != nil && opts.OnResult != nil {
		req.OnResult = func(res orchestrate.Result[model.Probe]) {
			opts.OnResult(fromInternalProbeResult(res))
		}
	}

	resp, err := svc.Run(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	summary := &ProbeSummary{
		RunID:    resp.RunID,
		Results:  make([]ProbeResult, 0, len(resp.Results)),
		Found:    resp.Found,
		NotFound: resp.NotFound,
		Failed:   resp.Failed,
		Elapsed:  resp.Elapsed,
	}
	for _, res := range resp.Results {
		summary.Results = append(summary.Results, fromInternalProbeResult(res))
	}

	return summary, nil
}

// KeywordDomains returns a domain for every Go keyword of at most maxLen
// characters (0 means all) under the tld, "dev" by default.
func KeywordDomains(maxLen int, tld string) ([]string, error) {
	domains, err := keyword.Domains(keyword.GoKeywords, maxLen, tld)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotValid, err)
	}
	return domains, nil
}
