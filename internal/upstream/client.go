// Package upstream constructs the HTTP clients used for OpenRouter calls.
// The TLS-verification toggle is scoped here: it applies to upstream
// transports only, never to the listening server.
package upstream

import (
	"crypto/tls"
	"net/http"

	"github.com/jlekram/modelgate/internal/config"
)

// newTransport builds the shared transport settings. Compression is disabled
// so SSE chunks pass through unbuffered.
func newTransport(cfg *config.Config) *http.Transport {
	t := &http.Transport{
		DisableCompression: true,
		// Bound the wait for upstream headers; bodies of streaming
		// responses stay open past this.
		ResponseHeaderTimeout: cfg.UpstreamTimeout,
	}
	if cfg.InsecureSkipVerify {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return t
}

// NewClient returns a client for bounded, non-streaming upstream calls such
// as catalog fetches. The whole call is subject to the configured timeout.
func NewClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Transport: newTransport(cfg),
		Timeout:   cfg.UpstreamTimeout,
	}
}

// NewStreamingClient returns a client for completion relays. No overall
// deadline is set: streamed generations can legitimately outlive any fixed
// timeout, and cancellation comes from the caller's request context instead.
func NewStreamingClient(cfg *config.Config) *http.Client {
	return &http.Client{
		Transport: newTransport(cfg),
	}
}
