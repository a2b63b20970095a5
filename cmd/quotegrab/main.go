// Package main provides the entry point for the quotegrab CLI.
//
// quotegrab crawls paginated listing pages, extracts paired text and
// attribution records, deduplicates them, and writes the results to CSV,
// JSON, and SQLite.
//
// Usage:
//
//	quotegrab scrape <start-url>
//	quotegrab scrape --max-pages 5 <start-url>
//
// See --help for all available options.
package main

// main is the entry point for quotegrab.
func main() {
	Execute()
}
