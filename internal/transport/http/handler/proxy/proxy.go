// Package proxy contains the OpenAI-compatible proxy handlers.
package proxy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jlekram/modelgate/internal/catalog"
	"github.com/jlekram/modelgate/internal/relay"
	"github.com/jlekram/modelgate/internal/storage"
	"github.com/jlekram/modelgate/internal/transport/http/middleware"
)

// Handlers holds the dependencies for proxy HTTP handlers.
type Handlers struct {
	Catalog *catalog.Adapter
	Relay   *relay.Forwarder
	Storage storage.Storage // nil when request logging is disabled
	Logger  *slog.Logger
}

// New creates a new instance of proxy handlers.
func New(cat *catalog.Adapter, fwd *relay.Forwarder, store storage.Storage, logger *slog.Logger) *Handlers {
	return &Handlers{
		Catalog: cat,
		Relay:   fwd,
		Storage: store,
		Logger:  logger,
	}
}

// logRequest persists a request log entry asynchronously. Storage failures
// never affect the response.
func (h *Handlers) logRequest(r *http.Request, model string, streaming bool, statusCode int, errMessage string, start time.Time) {
	if h.Storage == nil {
		return
	}

	entry := &storage.RequestLog{
		RequestID:    middleware.GetRequestID(r.Context()),
		Model:        model,
		Path:         r.URL.Path,
		IsStreaming:  streaming,
		StatusCode:   statusCode,
		ErrorMessage: errMessage,
		DurationMs:   time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}

	go func() {
		if err := h.Storage.LogRequest(entry); err != nil && h.Logger != nil {
			h.Logger.Warn("failed to persist request log", "error", err)
		}
	}()
}
