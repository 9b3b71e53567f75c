package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Run kinds and statuses
const (
	KindUpload   = "upload"
	KindDownload = "download"

	StatusStarted   = "STARTED"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// DB wraps the SQL database connection holding run history.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// RunEntry is one row of run_history.
type RunEntry struct {
	ID           int64
	RunID        string
	Kind         string
	Target       string
	IndexName    string
	StartTime    time.Time
	EndTime      sql.NullTime
	Status       string
	Succeeded    int
	Quarantined  int
	Failed       int
	Skipped      int
	ErrorMessage sql.NullString
}

// RunCompletion carries the counters written when a run ends.
// For downloads Succeeded is the number of files written.
type RunCompletion struct {
	EndTime     time.Time
	Status      string
	Succeeded   int
	Quarantined int
	Failed      int
	Skipped     int
	Err         error
}

// NewDB opens the database at dataSourceName and ensures the schema is set up.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "HistoryDB").Logger()
	logger.Debug().Str("db_path", dataSourceName).Msg("Initializing history database connection")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history database directory %s: %w", dbDir, err)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// one writer at a time
	dbInstance.SetMaxOpenConns(1)

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the run_history table if it doesn't already exist.
func (d *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS run_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		target TEXT NOT NULL,
		index_name TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		status TEXT NOT NULL,
		succeeded INTEGER DEFAULT 0,
		quarantined INTEGER DEFAULT 0,
		failed INTEGER DEFAULT 0,
		skipped INTEGER DEFAULT 0,
		error_message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_run_history_run_id ON run_history(run_id);
	`
	if _, err := d.db.Exec(query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// RecordRunStart inserts a STARTED row and returns its ID.
// target is the input directory for uploads and the search name for downloads.
func (d *DB) RecordRunStart(runID, kind, target, indexName string, startTime time.Time) (int64, error) {
	query := `INSERT INTO run_history (run_id, kind, target, index_name, start_time, status) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := d.db.Exec(query, runID, kind, target, indexName, startTime.UTC(), StatusStarted)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run start record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	d.logger.Debug().Int64("db_id", id).Str("run_id", runID).Str("kind", kind).Str("target", target).Msg("Recorded run start")
	return id, nil
}

// UpdateRunCompletion stores the end state of a run.
func (d *DB) UpdateRunCompletion(dbRunID int64, completion RunCompletion) error {
	var errMsg sql.NullString
	if completion.Err != nil {
		errMsg = sql.NullString{String: completion.Err.Error(), Valid: true}
	}

	query := `UPDATE run_history SET end_time = ?, status = ?, succeeded = ?, quarantined = ?, failed = ?, skipped = ?, error_message = ? WHERE id = ?`
	result, err := d.db.Exec(query,
		completion.EndTime.UTC(), completion.Status,
		completion.Succeeded, completion.Quarantined, completion.Failed, completion.Skipped,
		errMsg, dbRunID)
	if err != nil {
		return fmt.Errorf("failed to update run completion for ID %d: %w", dbRunID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no run history row with ID %d", dbRunID)
	}
	d.logger.Debug().Int64("db_id", dbRunID).Str("status", completion.Status).Msg("Updated run completion")
	return nil
}

// ListRuns returns the rows of one run in insertion order.
func (d *DB) ListRuns(runID string) ([]RunEntry, error) {
	query := `SELECT id, run_id, kind, target, index_name, start_time, end_time, status, succeeded, quarantined, failed, skipped, error_message
		FROM run_history WHERE run_id = ? ORDER BY id`
	rows, err := d.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run history: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &e.Target, &e.IndexName, &e.StartTime, &e.EndTime,
			&e.Status, &e.Succeeded, &e.Quarantined, &e.Failed, &e.Skipped, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetLastCompletedRunTime returns the start time of the latest completed run for kind and target.
// It returns sql.ErrNoRows when there is none.
func (d *DB) GetLastCompletedRunTime(kind, target string) (*time.Time, error) {
	query := `SELECT start_time FROM run_history WHERE kind = ? AND target = ? AND status = ? ORDER BY start_time DESC LIMIT 1`
	var startTime time.Time
	err := d.db.QueryRow(query, kind, target, StatusCompleted).Scan(&startTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to query last run time: %w", err)
	}
	return &startTime, nil
}
