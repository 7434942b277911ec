package app

import (
	"log/slog"
	"net/http"

	"github.com/jlekram/modelgate/internal/transport/http/handler"
	"github.com/jlekram/modelgate/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application
// routes. Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Infrastructure
	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /api/logs", repo.Infra.RecentLogs)
	mux.HandleFunc("GET /", repo.Infra.RootStatus)

	// Model catalog, with and without the /v1 prefix. Model IDs contain
	// slashes ("openai/gpt-4o"), hence the trailing wildcard.
	mux.HandleFunc("GET /models", repo.Proxy.ListModels)
	mux.HandleFunc("GET /v1/models", repo.Proxy.ListModels)
	mux.HandleFunc("GET /v1/models/{model...}", repo.Proxy.GetModel)

	// Completion forwarding
	mux.HandleFunc("POST /chat/completions", repo.Proxy.ChatCompletions)
	mux.HandleFunc("POST /v1/chat/completions", repo.Proxy.ChatCompletions)

	// Apply middleware chain (order: outer to inner)
	var h http.Handler = mux

	if opts != nil && opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}
	h = middleware.RequestID(h)
	h = middleware.CORS(h)

	return h
}
