// Package report renders finished crawl runs for humans and machines:
// a plain-text summary, JSON for tooling, and Markdown for sharing.
// Every writer applies the run's strict filter, so strict mode stays a
// pure presentation concern.
package report

import (
	"io"

	"github.com/mailspider/mailspider/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write renders the report to the configured destination and returns
	// the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// MultiWriter writes a report to several Writers in turn, e.g. a summary
// on the terminal and a JSON file on disk. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through every configured Writer and returns
// the total bytes written.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
