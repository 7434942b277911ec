// Package infra contains infrastructure handlers: status, health, and the
// request-log debug surface.
package infra

import (
	"time"

	"github.com/jlekram/modelgate/internal/storage"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Storage   storage.Storage // nil when request logging is disabled
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(store storage.Storage, startTime time.Time) *Handlers {
	return &Handlers{
		Storage:   store,
		StartTime: startTime,
	}
}
