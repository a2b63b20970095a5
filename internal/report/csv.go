package report

import (
	"encoding/csv"
	"io"

	"github.com/quotegrab/quotegrab/internal/model"
)

// csvHeader is the fixed column header of CSV output.
var csvHeader = []string{"text", "attribution"}

// CSVWriter outputs records in CSV format with a header row.
// encoding/csv handles quoting, so embedded commas, quotes, and newlines
// in record fields survive a round trip through spreadsheet tools.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result sequence as CSV.
// The byte count is approximate since encoding/csv buffers internally; we
// track what we hand to it via a counting writer.
func (w *CSVWriter) Write(records []model.Record) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Text, r.Attribution}); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter counts bytes passed through to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
