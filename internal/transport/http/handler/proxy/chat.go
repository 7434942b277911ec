package proxy

import (
	"net/http"
	"time"
)

// ChatCompletions serves POST /chat/completions and /v1/chat/completions by
// forwarding the request verbatim to the upstream endpoint. The relay writes
// the full response (streamed or not) itself; this handler only records the
// outcome.
func (h *Handlers) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.Relay.Forward(w, r)
	if err != nil && h.Logger != nil {
		h.Logger.Warn("completion relay failed",
			"error", err,
			"model", result.Model,
			"status", result.StatusCode,
		)
	}

	h.logRequest(r, result.Model, result.IsStreaming, result.StatusCode, result.ErrorMessage, start)
}
