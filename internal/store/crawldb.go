package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// CrawlDB provides SQLite-based history of crawl runs and fetched pages.
// Recording is best-effort: the engine logs database errors and keeps
// crawling, since history is an audit trail rather than crawl state.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenDB opens or creates a CrawlDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; otherwise a missing database is an error.
func OpenDB(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "siteharvest.db")

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

	// SQLite only supports one writer; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Runs record one crawl invocation each
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_url TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		pages INTEGER DEFAULT 0,
		failures INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages record individual successful fetches
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		status_code INTEGER,
		content_hash TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(run_id, url),
		FOREIGN KEY(run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// BeginRun inserts a new run row and returns its ID.
func (cdb *CrawlDB) BeginRun(ctx context.Context, seedURL string) (int64, error) {
	result, err := cdb.db.ExecContext(ctx,
		`INSERT INTO runs (seed_url) VALUES (?)`, seedURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// FinishRun marks a run as finished with its final counters.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID int64, pages, failures int) error {
	_, err := cdb.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = CURRENT_TIMESTAMP, pages = ?, failures = ? WHERE id = ?`,
		pages, failures, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// PageRow represents a stored page fetch.
type PageRow struct {
	ID          int64
	RunID       int64
	URL         string
	Title       string
	StatusCode  int
	ContentHash string
	FetchedAt   time.Time
}

// RecordPage inserts a fetched page for the given run.
// Re-recording the same URL within a run updates the existing row.
func (cdb *CrawlDB) RecordPage(ctx context.Context, runID int64, row *PageRow) error {
	query := `
	INSERT INTO pages (run_id, url, title, status_code, content_hash)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		title = excluded.title,
		status_code = excluded.status_code,
		content_hash = excluded.content_hash,
		fetched_at = CURRENT_TIMESTAMP
	`

	_, err := cdb.db.ExecContext(ctx, query,
		runID, row.URL, row.Title, row.StatusCode, row.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to record page: %w", err)
	}
	return nil
}

// GetPage retrieves a stored page by run and URL.
// Returns nil without error when the page is not recorded.
func (cdb *CrawlDB) GetPage(ctx context.Context, runID int64, url string) (*PageRow, error) {
	query := `
	SELECT id, run_id, url, title, status_code, content_hash, fetched_at
	FROM pages
	WHERE run_id = ? AND url = ?
	`

	var row PageRow
	var fetchedAt string

	err := cdb.db.QueryRowContext(ctx, query, runID, url).Scan(
		&row.ID,
		&row.RunID,
		&row.URL,
		&row.Title,
		&row.StatusCode,
		&row.ContentHash,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	row.FetchedAt = parseTimestamp(fetchedAt)
	return &row, nil
}

// CountPages returns the number of pages recorded for a run.
func (cdb *CrawlDB) CountPages(ctx context.Context, runID int64) (int, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// parseTimestamp parses a SQLite timestamp string, which may come back in
// several formats depending on how the value was written.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
