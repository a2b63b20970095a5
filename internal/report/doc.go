// Package report provides output writers for crawl results.
//
// Supported formats:
//   - CSV: spreadsheet-friendly rows with a header (CSVWriter)
//   - JSON: array of records or summary object (JSONWriter)
//   - Text: human-readable terminal summary (SimpleWriter)
//   - Markdown: shareable report with tables and charts (MarkdownWriter)
//
// Writers take an io.Writer destination; opening files is the caller's
// responsibility. MultiWriter fans one result sequence out to several
// formats at once.
package report
