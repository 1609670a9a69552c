package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailspider/mailspider/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the source URL of each address to the listing.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-address source URLs in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeEmails(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 64))
	sb.WriteString("\n")
	sb.WriteString("                      MAILSPIDER REPORT\n")
	sb.WriteString(strings.Repeat("=", 64))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Seed URL:   %s\n", report.SeedURL)
	fmt.Fprintf(sb, "Domain:     %s\n", report.Domain)
	fmt.Fprintf(sb, "Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Status:     %s\n", statusText(report.Status))
	sb.WriteString("\n")
}

// writeSummary writes crawl statistics.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	fmt.Fprintf(sb, "Pages fetched:  %d\n", report.PagesFetched)
	fmt.Fprintf(sb, "Failed fetches: %d\n", report.FailedFetches)
	fmt.Fprintf(sb, "Unique URLs:    %d\n", report.UniqueURLs)
	fmt.Fprintf(sb, "Elapsed:        %s\n", report.Elapsed.Round(time.Millisecond))
	sb.WriteString("\n")
}

// writeEmails writes the discovered addresses, matched first. Strict mode
// suppresses the external section entirely.
func (w *SimpleWriter) writeEmails(sb *strings.Builder, report *model.RunReport) {
	matched := report.MatchingEmails()
	fmt.Fprintf(sb, "Matched addresses (%d):\n", len(matched))
	w.writeEmailList(sb, matched)

	if report.Strict {
		return
	}

	external := report.ExternalEmails()
	fmt.Fprintf(sb, "\nExternal addresses (%d):\n", len(external))
	w.writeEmailList(sb, external)
}

// writeEmailList writes one section of addresses.
func (w *SimpleWriter) writeEmailList(sb *strings.Builder, records []model.EmailRecord) {
	if len(records) == 0 {
		sb.WriteString("  (none)\n")
		return
	}

	for _, rec := range records {
		if w.verbose {
			fmt.Fprintf(sb, "  %s  (%s)\n", rec.Address, rec.SourceURL)
		} else {
			fmt.Fprintf(sb, "  %s\n", rec.Address)
		}
	}
}

// statusText renders the run status for humans.
func statusText(status model.RunStatus) string {
	switch status {
	case model.StatusCompleted:
		return "Complete"
	case model.StatusTimedOut:
		return "TIMED OUT (partial results)"
	case model.StatusCancelled:
		return "CANCELLED (partial results)"
	default:
		return string(status)
	}
}
