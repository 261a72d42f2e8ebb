package lib

import (
	"errors"
	"time"

	"github.com/slok/fanout/internal/fetch"
	"github.com/slok/fanout/internal/model"
	"github.com/slok/fanout/internal/orchestrate"
	"github.com/slok/fanout/internal/resolve"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when the input is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrResourceAcquisition is returned when the shared resource of a run could not be created.
	ErrResourceAcquisition = orchestrate.ErrResourceAcquisition
)

// TransportError is the error of a failed download, it has the URL and the
// HTTP status code (0 on network failures).
type TransportError = fetch.TransportError

// Resolver checks if a domain resolves. Not found domains return false and
// no error, an error means the resolution itself failed.
type Resolver = resolve.Resolver

// ResolverFunc is a helper to use functions as Resolvers.
type ResolverFunc = resolve.ResolverFunc

// ProbeResult is the result of probing a single domain.
type ProbeResult struct {
	Domain string
	// Found is true when the domain resolves.
	Found bool
	// Err is set when the probe failed, Found is meaningless then.
	Err error
}

// FlagDownload is a downloaded country flag.
type FlagDownload struct {
	// CountryCode is the upper case ISO 3166 code.
	CountryCode string
	URL         string
	SizeBytes   int64
}

// RunKind is the kind of a recorded run.
type RunKind string

const (
	// RunKindProbe is a domain probe run.
	RunKindProbe RunKind = "probe"
	// RunKindDownload is a flag download run.
	RunKindDownload RunKind = "download"
)

// RunStatus is the final status of a recorded run.
type RunStatus string

const (
	// RunStatusSucceeded indicates all the tasks of the run succeeded.
	RunStatusSucceeded RunStatus = "succeeded"
	// RunStatusPartial indicates some probes failed.
	RunStatusPartial RunStatus = "partial"
	// RunStatusFailed indicates the run was aborted.
	RunStatusFailed RunStatus = "failed"
)

// Run is a recorded run.
type Run struct {
	ID        string
	Kind      RunKind
	Status    RunStatus
	Total     int
	Succeeded int
	Failed    int
	// Error is the reason of an aborted run.
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

func fromInternalProbeResult(res orchestrate.Result[model.Probe]) ProbeResult {
	if !res.OK() {
		return ProbeResult{Domain: res.ID, Err: mapError(res.Err)}
	}
	return ProbeResult{Domain: res.Value.Domain, Found: res.Value.Found}
}

func fromInternalFlagDownloadList(ds []model.FlagDownload) []FlagDownload {
	result := make([]FlagDownload, len(ds))
	for i, d := range ds {
		result[i] = FlagDownload{
			CountryCode: d.CountryCode,
			URL:         d.URL,
			SizeBytes:   d.SizeBytes,
		}
	}
	return result
}

func fromInternalRunList(rs []model.Run) []Run {
	result := make([]Run, len(rs))
	for i, r := range rs {
		result[i] = Run{
			ID:        r.ID,
			Kind:      RunKind(r.Kind),
			Status:    RunStatus(r.Status),
			Total:     r.Total,
			Succeeded: r.Succeeded,
			Failed:    r.Failed,
			Error:     r.Error,
			StartedAt: r.StartedAt,
			Duration:  r.Duration,
		}
	}
	return result
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case errors.Is(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case errors.Is(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
