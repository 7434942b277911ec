package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite implements Storage using a local SQLite database.
type SQLite struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLite opens (or creates) the request-log database at dbPath.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS request_logs (
		id            TEXT PRIMARY KEY,
		request_id    TEXT NOT NULL,
		model         TEXT,
		path          TEXT NOT NULL,
		is_streaming  INTEGER DEFAULT 0,
		status_code   INTEGER,
		error_message TEXT,
		duration_ms   INTEGER,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_logs_created ON request_logs(created_at);
	CREATE INDEX IF NOT EXISTS idx_logs_model ON request_logs(model);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LogRequest stores a request log entry.
func (s *SQLite) LogRequest(log *RequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	if log.ID == "" {
		log.ID = generateID("log")
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO request_logs (id, request_id, model, path, is_streaming,
			status_code, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.RequestID, log.Model, log.Path, boolToInt(log.IsStreaming),
		log.StatusCode, log.ErrorMessage, log.DurationMs, log.CreatedAt)

	return err
}

// RecentLogs returns up to limit entries, newest first.
func (s *SQLite) RecentLogs(limit int) ([]*RequestLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, request_id, COALESCE(model, ''), path, is_streaming,
			status_code, COALESCE(error_message, ''), duration_ms, created_at
		FROM request_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		var log RequestLog
		var streaming int
		if err := rows.Scan(&log.ID, &log.RequestID, &log.Model, &log.Path,
			&streaming, &log.StatusCode, &log.ErrorMessage, &log.DurationMs,
			&log.CreatedAt); err != nil {
			return nil, err
		}
		log.IsStreaming = streaming != 0
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// generateID creates a new unique ID with a prefix
func generateID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
