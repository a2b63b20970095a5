package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/quotegrab/quotegrab/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and pipes cleanly to
// files or other tools.
type SimpleWriter struct {
	baseWriter

	// maxSampleWidth truncates sample text for terminal display.
	maxSampleWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxSampleWidth limits how many characters of each sample record's
// text are shown.
func WithMaxSampleWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if width > 0 {
			w.maxSampleWidth = width
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter:     newBaseWriter(output),
		maxSampleWidth: 60,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteSummary outputs the summary as human-readable text.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var b strings.Builder

	b.WriteString("Scrape Summary\n")
	b.WriteString("==============\n")
	if summary.StartURL != "" {
		fmt.Fprintf(&b, "Start URL:            %s\n", summary.StartURL)
	}
	fmt.Fprintf(&b, "Pages fetched:        %d\n", summary.PagesFetched)
	fmt.Fprintf(&b, "Records collected:    %d\n", summary.TotalRecords)
	fmt.Fprintf(&b, "Unique attributions:  %d\n", summary.UniqueAttributions)

	if len(summary.Sample) > 0 {
		b.WriteString("\nSample:\n")
		for _, r := range summary.Sample {
			fmt.Fprintf(&b, "  %s  -- %s\n", w.truncate(r.Text), r.Attribution)
		}
	}

	return io.WriteString(w.output, b.String())
}

// truncate shortens text to maxSampleWidth runes with an ellipsis.
func (w *SimpleWriter) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= w.maxSampleWidth {
		return s
	}
	return string(runes[:w.maxSampleWidth-3]) + "..."
}
