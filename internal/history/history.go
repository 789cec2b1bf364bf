// Package history persists an audit trail of boundary operations.
// It records outcomes only and never remote node ids, so it is not a
// cache: every path resolution still goes to the remote store.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store handles operation-history persistence
type Store struct {
	db *sql.DB
}

// OperationRecord represents a single completed boundary operation
type OperationRecord struct {
	ID         int64
	Op         string // "list", "read", "save", "append", "remove", "rename", "move", "mkdir"
	Project    string
	Path       string
	Status     string // "ok", "not_found", "invalid", "error"
	Error      string
	DurationMS int64
	StartedAt  time.Time
}

// Valid operation statuses
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusInvalid  = "invalid"
	StatusError    = "error"
)

// NewStore opens (creating if needed) the history database under dataDir
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "origocode.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Limit connection pool to prevent "database is locked" errors
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Enable WAL mode for better concurrency and set busy timeout
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode and busy timeout: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		op TEXT NOT NULL,
		project TEXT NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_operations_project_time ON operations(project, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_operations_status ON operations(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordOperation persists one completed operation
func (s *Store) RecordOperation(record OperationRecord) error {
	switch record.Status {
	case StatusOK, StatusNotFound, StatusInvalid, StatusError:
	default:
		return fmt.Errorf("invalid status: %s", record.Status)
	}

	query := `
		INSERT INTO operations (op, project, path, status, error, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		record.Op,
		record.Project,
		record.Path,
		record.Status,
		record.Error,
		record.DurationMS,
		record.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save operation record: %w", err)
	}

	return nil
}

// Recent retrieves the most recent operations for a project
func (s *Store) Recent(project string, limit int) ([]OperationRecord, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `
		SELECT id, op, project, path, status, error, duration_ms, started_at
		FROM operations
		WHERE project = ?
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, project, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []OperationRecord
	for rows.Next() {
		var record OperationRecord
		err := rows.Scan(
			&record.ID,
			&record.Op,
			&record.Project,
			&record.Path,
			&record.Status,
			&record.Error,
			&record.DurationMS,
			&record.StartedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Prune deletes records older than the given retention period
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := s.db.Exec("DELETE FROM operations WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
