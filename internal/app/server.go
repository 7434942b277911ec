// Package app wires the HTTP server and router.
package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jlekram/modelgate/internal/config"
)

// Server wraps the HTTP server with its configuration
type Server struct {
	httpServer *http.Server
	config     *config.Config
	logger     *slog.Logger
}

// NewServer creates a new configured HTTP server instance
func NewServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerPort,
		Handler: handler,
		// Generous timeouts: streamed generations are long-lived
		ReadTimeout:  300 * time.Second,
		WriteTimeout: 300 * time.Second,
	}

	return &Server{
		httpServer: srv,
		config:     cfg,
		logger:     logger,
	}
}

// Start begins listening and serving HTTP requests
func (s *Server) Start() error {
	s.logger.Info("modelgate listening",
		"addr", s.config.ServerPort,
		"upstream", s.config.UpstreamBaseURL,
	)

	return s.httpServer.ListenAndServe()
}
