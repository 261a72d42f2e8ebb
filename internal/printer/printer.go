package printer

import (
	"io"
	"sync"
	"time"

	"github.com/slok/fanout/internal/model"
)

// Printer knows how to print run results in different formats. Printers are
// safe for concurrent use, download markers are printed from the task
// goroutines.
type Printer interface {
	// PrintProbe prints a single probe result as soon as it's available.
	PrintProbe(p model.Probe) error
	// PrintProbeError prints a failed probe as soon as it's available.
	PrintProbeError(domain string, err error) error
	PrintProbeSummary(s ProbeSummary) error
	// PrintDownloadMarker prints the progress marker of a finished download.
	PrintDownloadMarker(cc string) error
	PrintDownloadSummary(downloads []model.FlagDownload, elapsed time.Duration) error
	PrintRuns(runs []model.Run) error
	PrintMessage(msg string) error
}

// ProbeSummary are the counts of a probe run.
type ProbeSummary struct {
	RunID    string
	Found    int
	NotFound int
	Failed   int
	Elapsed  time.Duration
}

// syncWriter serializes the writes on the underlying writer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func newSyncWriter(w io.Writer) *syncWriter {
	return &syncWriter{w: w}
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
