// Package storage persists request logs. Persistence is optional: the proxy
// holds no state beyond the filter file unless a log database is configured.
package storage

import (
	"errors"
	"time"
)

// ErrStorageClosed is returned for operations on a closed store.
var ErrStorageClosed = errors.New("storage is closed")

// RequestLog records one proxied request.
type RequestLog struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	Model        string    `json:"model"`
	Path         string    `json:"path"`
	IsStreaming  bool      `json:"is_streaming"`
	StatusCode   int       `json:"status_code"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

// Storage is the request-log persistence interface.
type Storage interface {
	// LogRequest stores a request log entry.
	LogRequest(log *RequestLog) error

	// RecentLogs returns up to limit entries, newest first.
	RecentLogs(limit int) ([]*RequestLog, error)

	// Close releases the underlying resources.
	Close() error
}
