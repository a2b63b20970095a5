package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quotegrab/quotegrab/internal/model"
)

// dbFileName is the SQLite database file name inside the data directory.
const dbFileName = "quotegrab.db"

// Store provides SQLite-based persistence for scraped records and crawl
// run history. It manages connection pooling and provides methods for
// CRUD operations.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Records store deduplicated text/attribution pairs across all runs.
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		attribution TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(text, attribution)
	);

	CREATE INDEX IF NOT EXISTS idx_records_attribution ON records(attribution);

	-- Crawl runs keep per-invocation statistics for later inspection.
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		pages_fetched INTEGER NOT NULL,
		records_found INTEGER NOT NULL,
		records_inserted INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_start_url ON crawl_runs(start_url);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON crawl_runs(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// InsertRecords inserts records, ignoring ones already present.
// The UNIQUE(text, attribution) constraint enforces the deduplication key
// at the storage layer. Returns the number of newly inserted rows.
func (s *Store) InsertRecords(ctx context.Context, records []model.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO records (text, attribution) VALUES (?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.Text, r.Attribution)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return inserted, nil
}

// CountRecords returns the total number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// CountAttributions returns the number of distinct attribution values.
func (s *Store) CountAttributions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT attribution) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attributions: %w", err)
	}
	return count, nil
}

// AttributionCount pairs an attribution with its record count.
type AttributionCount struct {
	Attribution string
	Count       int64
}

// TopAttributions returns the attributions with the most records, ordered
// by count descending then attribution ascending for a stable order.
func (s *Store) TopAttributions(ctx context.Context, limit int) ([]AttributionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT attribution, COUNT(*) AS n
		FROM records
		GROUP BY attribution
		ORDER BY n DESC, attribution ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top attributions: %w", err)
	}
	defer rows.Close()

	var result []AttributionCount
	for rows.Next() {
		var ac AttributionCount
		if err := rows.Scan(&ac.Attribution, &ac.Count); err != nil {
			return nil, fmt.Errorf("failed to scan attribution row: %w", err)
		}
		result = append(result, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attribution rows: %w", err)
	}

	return result, nil
}

// Run is one stored crawl run.
type Run struct {
	ID              int64
	StartURL        string
	PagesFetched    int
	RecordsFound    int
	RecordsInserted int64
	Timestamp       time.Time
}

// SaveRun stores the statistics of one crawl invocation.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawl_runs (start_url, pages_fetched, records_found, records_inserted)
		VALUES (?, ?, ?, ?)`,
		run.StartURL, run.PagesFetched, run.RecordsFound, run.RecordsInserted)
	if err != nil {
		return fmt.Errorf("failed to save crawl run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent crawl runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_url, pages_fetched, records_found, records_inserted, timestamp
		FROM crawl_runs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.StartURL, &r.PagesFetched, &r.RecordsFound, &r.RecordsInserted, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan crawl run: %w", err)
		}
		r.Timestamp = parseTimestamp(ts)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate crawl runs: %w", err)
	}

	return runs, nil
}

// parseTimestamp parses SQLite's timestamp formats, returning the zero
// time when none match.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
