package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/mailspider/mailspider/internal/model"
)

// MarkdownWriter outputs reports as GitHub-flavored Markdown, suitable
// for dropping into an engagement write-up or a ticket.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeDistribution(md, report)
	w.writeEmails(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the run properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Mailspider Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Registered Domain", "`" + report.Domain + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.statusText(report)},
			{"Pages Fetched", strconv.Itoa(report.PagesFetched)},
			{"Failed Fetches", strconv.Itoa(report.FailedFetches)},
			{"Unique URLs", strconv.Itoa(report.UniqueURLs)},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")
}

// statusText returns the status cell for the properties table.
func (w *MarkdownWriter) statusText(report *model.RunReport) string {
	switch report.Status {
	case model.StatusTimedOut:
		return "⚠️ Timed Out (partial results)"
	case model.StatusCancelled:
		return "⚠️ Cancelled (partial results)"
	default:
		return "✅ Complete"
	}
}

// writeDistribution embeds a pie chart of matched vs external addresses.
// Skipped in strict mode and when nothing was found.
func (w *MarkdownWriter) writeDistribution(md *markdown.Markdown, report *model.RunReport) {
	if report.Strict || len(report.Emails) == 0 {
		return
	}

	matched := len(report.MatchingEmails())
	external := len(report.ExternalEmails())

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Address Distribution"),
		piechart.WithShowData(true),
	)
	if matched > 0 {
		chart.LabelAndIntValue("Domain match", uint64(matched))
	}
	if external > 0 {
		chart.LabelAndIntValue("External", uint64(external))
	}

	md.H2("Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeEmails writes the address tables, matched first. Strict mode
// suppresses the external table.
func (w *MarkdownWriter) writeEmails(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Matched Addresses")
	w.writeEmailTable(md, report.MatchingEmails())

	if report.Strict {
		return
	}

	md.H2("External Addresses")
	w.writeEmailTable(md, report.ExternalEmails())
}

// writeEmailTable writes one table of address records.
func (w *MarkdownWriter) writeEmailTable(md *markdown.Markdown, records []model.EmailRecord) {
	if len(records) == 0 {
		md.PlainText("No addresses found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{"`" + rec.Address + "`", rec.SourceURL})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Address", "First Seen On"},
		Rows:   rows,
	})
	md.PlainText("")
}
