package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mailspider/mailspider/internal/model"
)

// HistoryDB stores completed crawl runs in an SQLite database.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file on open.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; the scan saves
	// a run while the history command may be reading.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "mailspider.db")

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	}

	// modernc.org/sqlite: mode=rwc allows creation, mode=rw requires the
	// file to exist already.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; more connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Best effort cleanup
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per completed crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		domain TEXT NOT NULL,
		status TEXT NOT NULL,
		strict INTEGER NOT NULL DEFAULT 0,
		pages_fetched INTEGER NOT NULL DEFAULT 0,
		failed_fetches INTEGER NOT NULL DEFAULT 0,
		unique_urls INTEGER NOT NULL DEFAULT 0,
		emails_found INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per deduplicated email record of a run
	CREATE TABLE IF NOT EXISTS emails (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		source_url TEXT NOT NULL,
		domain_match INTEGER NOT NULL DEFAULT 0,
		UNIQUE(run_id, address)
	);

	CREATE INDEX IF NOT EXISTS idx_emails_run ON emails(run_id);
	CREATE INDEX IF NOT EXISTS idx_emails_address ON emails(address);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run report including all of its email records and
// returns the new run's database ID. The full, unfiltered record set is
// stored regardless of strict mode; strict is recorded as a flag.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (seed, seed_url, domain, status, strict, pages_fetched,
		failed_fetches, unique_urls, emails_found, elapsed_ms, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Seed,
		report.SeedURL,
		report.Domain,
		string(report.Status),
		boolToInt(report.Strict),
		report.PagesFetched,
		report.FailedFetches,
		report.UniqueURLs,
		len(report.Emails),
		report.Elapsed.Milliseconds(),
		report.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, rec := range report.Emails {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO emails (run_id, address, source_url, domain_match)
		VALUES (?, ?, ?, ?)`,
			runID, rec.Address, rec.SourceURL, boolToInt(rec.DomainMatch),
		); err != nil {
			return 0, fmt.Errorf("failed to insert email record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID            int64
	Seed          string
	Domain        string
	Status        model.RunStatus
	Strict        bool
	PagesFetched  int
	FailedFetches int
	UniqueURLs    int
	EmailsFound   int
	Elapsed       time.Duration
	StartedAt     time.Time
}

// ListRuns returns the most recent runs, newest first.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, seed, domain, status, strict, pages_fetched, failed_fetches,
		unique_urls, emails_found, elapsed_ms, started_at
	FROM runs
	ORDER BY id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err is checked below

	var summaries []RunSummary
	for rows.Next() {
		var (
			s         RunSummary
			strict    int
			elapsedMS int64
			startedAt string
		)
		if err := rows.Scan(&s.ID, &s.Seed, &s.Domain, &s.Status, &strict,
			&s.PagesFetched, &s.FailedFetches, &s.UniqueURLs, &s.EmailsFound,
			&elapsedMS, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		s.Strict = strict != 0
		s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		s.StartedAt = parseTimestamp(startedAt)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// GetRunEmails returns the email records stored for a run, sorted by
// address. It returns an error when the run does not exist.
func (hdb *HistoryDB) GetRunEmails(ctx context.Context, runID int64) ([]model.EmailRecord, error) {
	var exists int
	err := hdb.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run %d: %w", runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d not found", runID)
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT address, source_url, domain_match
	FROM emails
	WHERE run_id = ?
	ORDER BY address`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query emails for run %d: %w", runID, err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err is checked below

	records := make([]model.EmailRecord, 0)
	for rows.Next() {
		var (
			rec   model.EmailRecord
			match int
		)
		if err := rows.Scan(&rec.Address, &rec.SourceURL, &match); err != nil {
			return nil, fmt.Errorf("failed to scan email row: %w", err)
		}
		rec.DomainMatch = match != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LastRunForDomain returns the most recent run for a registered domain,
// or nil when the domain has never been crawled.
func (hdb *HistoryDB) LastRunForDomain(ctx context.Context, domain string) (*RunSummary, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, seed, domain, status, strict, pages_fetched, failed_fetches,
		unique_urls, emails_found, elapsed_ms, started_at
	FROM runs
	WHERE domain = ?
	ORDER BY id DESC
	LIMIT 1`, domain)

	var (
		s         RunSummary
		strict    int
		elapsedMS int64
		startedAt string
	)
	err := row.Scan(&s.ID, &s.Seed, &s.Domain, &s.Status, &strict,
		&s.PagesFetched, &s.FailedFetches, &s.UniqueURLs, &s.EmailsFound,
		&elapsedMS, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run for %s: %w", domain, err)
	}

	s.Strict = strict != 0
	s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	s.StartedAt = parseTimestamp(startedAt)
	return &s, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats are the formats SQLite may hand back for DATETIME
// columns depending on how the value was written.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999-07:00",
}

// parseTimestamp attempts each known format, returning zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
