package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// Store provides SQLite-based storage for scan reports.
//
// Design decision: We keep one database file for all scans rather than a
// file per input. This makes listing history across projects a single
// query and keeps backup/restore to one file.
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
	dbPath := filepath.Join(dbDir, "sbomconfusion.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s (run a scan with --history first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	// SQLite only supports one writer
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

// Path returns the path to the underlying database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Scans store complete scan reports as JSON plus summary columns
	-- so history listings don't need to parse full reports
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		package_count INTEGER NOT NULL,
		report_json TEXT NOT NULL,
		risk_summary TEXT,
		confusable_purls TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_input ON scans(input);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScan saves a complete scan report.
func (s *Store) SaveScan(ctx context.Context, report *model.ScanReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	riskSummary := map[string]int{
		model.RiskPossibleConfusion.String(): report.CountByRisk(model.RiskPossibleConfusion),
		model.RiskUnknown.String():           report.CountByRisk(model.RiskUnknown),
		model.RiskNone.String():              report.CountByRisk(model.RiskNone),
	}
	riskJSON, _ := json.Marshal(riskSummary) //nolint:errcheck,errchkjson // riskSummary is a simple map; Marshal won't fail

	confusableJSON, _ := json.Marshal(report.ConfusablePackages()) //nolint:errcheck,errchkjson // slice of strings; Marshal won't fail

	query := `
	INSERT INTO scans (input, package_count, report_json, risk_summary, confusable_purls)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		report.Input,
		report.TotalFindings(),
		string(reportJSON),
		string(riskJSON),
		string(confusableJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save scan: %w", err)
	}

	return result.LastInsertId()
}

// ScanSummary contains summary information about a stored scan.
// This is used for displaying scan history without loading the full report.
type ScanSummary struct {
	// ID is the unique identifier of the scan in the database.
	ID int64 `json:"id"`

	// Input is the scanned directory or SBOM path.
	Input string `json:"input"`

	// Timestamp is when the scan was saved.
	Timestamp time.Time `json:"timestamp"`

	// PackageCount is the number of packages checked.
	PackageCount int `json:"packageCount"`

	// RiskSummary contains counts of findings by risk level.
	RiskSummary map[string]int `json:"riskSummary"`

	// ConfusablePURLs lists the package URLs flagged as possible confusion.
	ConfusablePURLs []string `json:"confusablePurls,omitempty"`
}

// ListScans returns the most recent scans, newest first.
// A limit of 0 or less returns all scans.
func (s *Store) ListScans(ctx context.Context, limit int) ([]ScanSummary, error) {
	query := `
	SELECT id, input, timestamp, package_count, risk_summary, confusable_purls
	FROM scans
	ORDER BY timestamp DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []ScanSummary
	for rows.Next() {
		var summary ScanSummary
		var timestamp string
		var riskJSON, confusableJSON sql.NullString

		if err := rows.Scan(&summary.ID, &summary.Input, &timestamp, &summary.PackageCount, &riskJSON, &confusableJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		summary.Timestamp = parseTimestamp(timestamp)

		summary.RiskSummary = make(map[string]int)
		if riskJSON.Valid && riskJSON.String != "" {
			if err := json.Unmarshal([]byte(riskJSON.String), &summary.RiskSummary); err != nil {
				summary.RiskSummary = make(map[string]int)
			}
		}
		if confusableJSON.Valid && confusableJSON.String != "" {
			_ = json.Unmarshal([]byte(confusableJSON.String), &summary.ConfusablePURLs)
		}

		results = append(results, summary)
	}

	return results, rows.Err()
}

// GetScanByID retrieves a full scan report by its database ID.
// Returns nil without error if no scan with that ID exists.
func (s *Store) GetScanByID(ctx context.Context, id int64) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE id = ?
	`

	var reportJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// LatestScan retrieves the most recent scan report for an input.
// Returns nil without error if the input was never scanned.
func (s *Store) LatestScan(ctx context.Context, input string) (*model.ScanReport, error) {
	query := `
	SELECT report_json FROM scans
	WHERE input = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := s.db.QueryRowContext(ctx, query, input).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	var report model.ScanReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
