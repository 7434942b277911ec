// Package handler composes the HTTP handler groups.
package handler

import (
	"log/slog"
	"time"

	"github.com/jlekram/modelgate/internal/catalog"
	"github.com/jlekram/modelgate/internal/relay"
	"github.com/jlekram/modelgate/internal/storage"
	"github.com/jlekram/modelgate/internal/transport/http/handler/infra"
	"github.com/jlekram/modelgate/internal/transport/http/handler/proxy"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Proxy *proxy.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
// store may be nil when request logging is disabled.
func NewRepo(cat *catalog.Adapter, fwd *relay.Forwarder, store storage.Storage, logger *slog.Logger) *Repo {
	startTime := time.Now()
	return &Repo{
		Proxy: proxy.New(cat, fwd, store, logger),
		Infra: infra.New(store, startTime),
	}
}
