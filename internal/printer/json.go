package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/fanout/internal/model"
)

// JSONPrinter prints run information in JSON format. Streamed results are
// printed one JSON document per line.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: newSyncWriter(w)}
}

type probeOutput struct {
	Domain string `json:"domain"`
	Found  bool   `json:"found"`
	Error  string `json:"error,omitempty"`
}

type probeSummaryOutput struct {
	RunID     string  `json:"run_id"`
	Found     int     `json:"found"`
	NotFound  int     `json:"not_found"`
	Failed    int     `json:"failed"`
	ElapsedMS float64 `json:"elapsed_ms"`
}

type downloadOutput struct {
	CountryCode string `json:"country_code"`
	URL         string `json:"url"`
	SizeBytes   int64  `json:"size_bytes"`
}

type downloadSummaryOutput struct {
	Count     int              `json:"count"`
	ElapsedMS float64          `json:"elapsed_ms"`
	Downloads []downloadOutput `json:"downloads"`
}

type runOutput struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS float64   `json:"duration_ms"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintProbe prints a probe result as a single JSON line.
func (j *JSONPrinter) PrintProbe(p model.Probe) error {
	return json.NewEncoder(j.writer).Encode(probeOutput{Domain: p.Domain, Found: p.Found})
}

// PrintProbeError prints a failed probe as a single JSON line.
func (j *JSONPrinter) PrintProbeError(domain string, err error) error {
	return json.NewEncoder(j.writer).Encode(probeOutput{Domain: domain, Error: err.Error()})
}

// PrintProbeSummary prints the counts of a probe run as a single JSON line.
func (j *JSONPrinter) PrintProbeSummary(s ProbeSummary) error {
	return json.NewEncoder(j.writer).Encode(probeSummaryOutput{
		RunID:     s.RunID,
		Found:     s.Found,
		NotFound:  s.NotFound,
		Failed:    s.Failed,
		ElapsedMS: durationMS(s.Elapsed),
	})
}

// PrintDownloadMarker does nothing, the summary has all the downloads.
func (j *JSONPrinter) PrintDownloadMarker(cc string) error { return nil }

// PrintDownloadSummary prints the downloads of a run.
func (j *JSONPrinter) PrintDownloadSummary(downloads []model.FlagDownload, elapsed time.Duration) error {
	output := downloadSummaryOutput{
		Count:     len(downloads),
		ElapsedMS: durationMS(elapsed),
		Downloads: make([]downloadOutput, len(downloads)),
	}
	for i, d := range downloads {
		output.Downloads[i] = downloadOutput{
			CountryCode: d.CountryCode,
			URL:         d.URL,
			SizeBytes:   d.SizeBytes,
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// PrintRuns prints runs in JSON format.
func (j *JSONPrinter) PrintRuns(runs []model.Run) error {
	items := make([]runOutput, len(runs))
	for i, r := range runs {
		items[i] = runOutput{
			ID:         r.ID,
			Kind:       string(r.Kind),
			Status:     string(r.Status),
			Total:      r.Total,
			Succeeded:  r.Succeeded,
			Failed:     r.Failed,
			Error:      r.Error,
			StartedAt:  r.StartedAt,
			DurationMS: durationMS(r.Duration),
		}
	}

	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	output := messageOutput{Message: msg}
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
