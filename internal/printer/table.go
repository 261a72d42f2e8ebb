package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/fanout/internal/model"
)

// TablePrinter prints run information in a human friendly format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: newSyncWriter(w)}
}

// PrintProbe prints `+ domain` for found domains and `  domain` for the rest.
func (t *TablePrinter) PrintProbe(p model.Probe) error {
	mark := " "
	if p.Found {
		mark = "+"
	}
	_, err := fmt.Fprintf(t.writer, "%s %s\n", mark, p.Domain)
	return err
}

// PrintProbeError prints a failed probe.
func (t *TablePrinter) PrintProbeError(domain string, err error) error {
	_, werr := fmt.Fprintf(t.writer, "! %s (%s)\n", domain, err)
	return werr
}

// PrintProbeSummary prints the counts of a probe run.
func (t *TablePrinter) PrintProbeSummary(s ProbeSummary) error {
	_, err := fmt.Fprintf(t.writer, "\n%d found, %d not found, %d failed in %s\n", s.Found, s.NotFound, s.Failed, FormatElapsed(s.Elapsed))
	return err
}

// PrintDownloadMarker prints the country code followed by a space, all the
// markers of a run end up in the same line.
func (t *TablePrinter) PrintDownloadMarker(cc string) error {
	_, err := fmt.Fprintf(t.writer, "%s ", cc)
	return err
}

// PrintDownloadSummary prints `N downloads in X.XXs`.
func (t *TablePrinter) PrintDownloadSummary(downloads []model.FlagDownload, elapsed time.Duration) error {
	_, err := fmt.Fprintf(t.writer, "\n%d downloads in %s\n", len(downloads), FormatElapsed(elapsed))
	return err
}

// PrintRuns prints runs in a table format.
func (t *TablePrinter) PrintRuns(runs []model.Run) error {
	if len(runs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tSUCCEEDED\tFAILED\tDURATION\tSTARTED")

	// Print rows.
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%s\t%s\n",
			r.ID,
			r.Kind,
			r.Status,
			r.Succeeded,
			r.Total,
			r.Failed,
			FormatElapsed(r.Duration),
			TimeAgo(r.StartedAt),
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
