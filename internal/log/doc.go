// Package log provides logging utilities built on log/slog.
// Its TruncateHandler caps oversized string attribute values (extracted
// text, page snippets) so crawl logs stay readable.
package log
