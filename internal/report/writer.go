package report

import (
	"io"

	"github.com/quotegrab/quotegrab/internal/model"
)

// Writer outputs a crawl's result sequence in some format.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the result sequence to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(records []model.Record) (int, error)
}

// SummaryWriter outputs aggregate statistics for a crawl.
type SummaryWriter interface {
	// WriteSummary outputs the summary to the configured destination.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter writes the same result sequence to multiple Writers, which
// is how one crawl fans out to CSV and JSON at once.
//
// Design decision: We implement this as a separate type rather than using
// io.MultiWriter because our Writer interface is different from io.Writer -
// we write record sequences, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the records to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(records []model.Record) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(records)
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
