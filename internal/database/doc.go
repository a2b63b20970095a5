// Package database provides SQLite-based persistence for scraped records.
//
// The Store keeps two tables: records, holding deduplicated
// text/attribution pairs guarded by a UNIQUE constraint matching the
// in-memory deduplication key, and crawl_runs, holding per-invocation
// statistics. We use modernc.org/sqlite (a pure Go driver) so the binary
// builds without cgo.
package database
