package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/quotegrab/quotegrab/internal/model"
)

// topAttributionLimit caps how many attributions appear in the pie chart.
const topAttributionLimit = 8

// MarkdownWriter outputs crawl results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides type-safe tables, lists, and mermaid charts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders a full report for the result sequence: summary statistics,
// a sample table, and an attribution distribution chart.
func (w *MarkdownWriter) Write(records []model.Record) (int, error) {
	summary := model.NewSummary("", records, 0)

	md := markdown.NewMarkdown(w.output)
	w.writeHeader(md, summary)
	w.writeSample(md, summary)
	w.writePieChart(md, records)
	return len(md.String()), md.Build()
}

// WriteSummary renders the summary without the distribution chart, which
// needs the full result sequence.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeHeader(md, summary)
	w.writeSample(md, summary)
	return len(md.String()), md.Build()
}

// writeHeader writes the title and statistics table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Scrape Report")
	md.PlainText("")

	rows := [][]string{
		{"Records collected", strconv.Itoa(summary.TotalRecords)},
		{"Unique attributions", strconv.Itoa(summary.UniqueAttributions)},
	}
	if summary.StartURL != "" {
		rows = append([][]string{{"Start URL", "`" + summary.StartURL + "`"}}, rows...)
	}
	if summary.PagesFetched > 0 {
		rows = append(rows, []string{"Pages fetched", strconv.Itoa(summary.PagesFetched)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSample writes the sample records table.
func (w *MarkdownWriter) writeSample(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.Sample) == 0 {
		return
	}

	md.H2("Sample")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.Sample))
	for _, r := range summary.Sample {
		rows = append(rows, []string{r.Text, r.Attribution})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Text", "Attribution"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of the most frequent attributions.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, records []model.Record) {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Attribution]++
	}
	if len(counts) == 0 {
		return
	}

	type entry struct {
		attribution string
		count       int
	}
	entries := make([]entry, 0, len(counts))
	for attribution, count := range counts {
		entries = append(entries, entry{attribution, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].attribution < entries[j].attribution
	})
	if len(entries) > topAttributionLimit {
		entries = entries[:topAttributionLimit]
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Records per Attribution"),
		piechart.WithShowData(true),
	)
	for _, e := range entries {
		chart.LabelAndIntValue(e.attribution, uint64(e.count))
	}

	md.H2("Attribution Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
