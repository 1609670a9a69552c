package report

import (
	"encoding/json"
	"io"

	"github.com/mailspider/mailspider/internal/model"
)

// JSONWriter outputs reports in JSON for tool integration. The emails
// array honors the run's strict filter; everything else is the report
// as-is.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// indentPrefix and indentString configure the indentation.
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report as JSON.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	// Shallow copy with the strict filter applied; the original report
	// keeps its full record set.
	filtered := *report
	filtered.Emails = report.FilteredEmails()

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(&filtered, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(&filtered)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
