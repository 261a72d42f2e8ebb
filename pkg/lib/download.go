package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/fanout/internal/app/download"
	"github.com/slok/fanout/internal/conventions"
	"github.com/slok/fanout/internal/sink"
)

// DownloadOpts are the optional settings of [Client.DownloadFlags].
type DownloadOpts struct {
	// DestDir is the directory where the flags are saved as <cc>.gif.
	// Empty means the flags are not saved.
	DestDir string
	// OnDownloaded is called with the country code of every finished download.
	// Calls happen concurrently from the download goroutines, the func must be
	// safe for concurrent use.
	OnDownloaded func(cc string)
}

// DownloadSummary is the outcome of a download run.
type DownloadSummary struct {
	RunID string
	// Downloads are sorted by country code.
	Downloads []FlagDownload
	Elapsed   time.Duration
}

// DownloadFlags downloads concurrently the flags of the country codes, the 20
// most populous countries when empty.
//
// The first failed download aborts the run: the error is returned and no
// partial result. Returns [ErrNotValid] if a country code is malformed.
func (c *Client) DownloadFlags(ctx context.Context, countryCodes []string, opts *DownloadOpts) (*DownloadSummary, error) {
	if opts == nil {
		opts = &DownloadOpts{}
	}

	var s sink.Sink = sink.Noop
	if opts.DestDir != "" {
		fs, err := sink.NewFileSink(sink.FileSinkConfig{
			Dir:       opts.DestDir,
			Extension: conventions.FlagFileExtension,
			Logger:    c.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create sink: %w", err)
		}
		s = fs
	}

	svc, err := download.NewService(download.ServiceConfig{
		Sink:           s,
		Repository:     c.repo,
		BaseURL:        c.baseURL,
		MaxConcurrency: c.maxConcurrency,
		Timeout:        c.httpTimeout,
		Logger:         c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, download.Request{
		CountryCodes: countryCodes,
		OnDownloaded: opts.OnDownloaded,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &DownloadSummary{
		RunID:     resp.RunID,
		Downloads: fromInternalFlagDownloadList(resp.Downloads),
		Elapsed:   resp.Elapsed,
	}, nil
}
