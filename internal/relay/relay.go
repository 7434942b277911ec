// Package relay forwards chat-completion requests to OpenRouter and streams
// the response back without reshaping the payload.
package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// Result carries request metadata for logging. The payload itself is never
// inspected beyond the model name and the streaming decision.
type Result struct {
	Model        string
	IsStreaming  bool
	StatusCode   int
	Duration     time.Duration
	Error        error
	ErrorMessage string
}

// Forwarder relays completion requests to a single upstream endpoint.
type Forwarder struct {
	client  *http.Client
	baseURL string
}

// New creates a forwarder. The client decides TLS behavior and timeouts;
// see the upstream package.
func New(client *http.Client, baseURL string) *Forwarder {
	return &Forwarder{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// completionHint is the minimal view of the request body: enough to log the
// model and anticipate streaming. Parsing failures are ignored, the body is
// forwarded byte-for-byte either way.
type completionHint struct {
	Model  string `json:"model"`
	Stream bool   `json:"stream"`
}

// hopHeaders are not forwarded upstream. Authorization is NOT in this list:
// the caller's credential passes through verbatim.
var hopHeaders = map[string]struct{}{
	"Content-Length": {},
	"Connection":     {},
	"Host":           {},
}

// Forward relays the request to the upstream completions endpoint and writes
// the response back. Streamed responses are relayed chunk by chunk; caller
// disconnects cancel the upstream request through the request context.
// Requests are never retried: a duplicate generation is worse than a failed
// one.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		result.StatusCode = http.StatusBadRequest
		result.Error = err
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return result, err
	}
	r.Body.Close()

	var hint completionHint
	if err := json.Unmarshal(body, &hint); err == nil {
		result.Model = hint.Model
		result.IsStreaming = hint.Stream
	}

	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		f.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		result.StatusCode = http.StatusInternalServerError
		result.Error = err
		http.Error(w, "Failed to create request", http.StatusInternalServerError)
		return result, err
	}

	for k, v := range r.Header {
		if _, skip := hopHeaders[k]; skip {
			continue
		}
		upstreamReq.Header[k] = v
	}

	resp, err := f.client.Do(upstreamReq)
	if err != nil {
		result.StatusCode = http.StatusBadGateway
		result.Error = err
		result.ErrorMessage = err.Error()
		http.Error(w, "Bad Gateway: "+err.Error(), http.StatusBadGateway)
		return result, err
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	copyHeaders(w, resp)
	w.WriteHeader(resp.StatusCode)

	// The response decides; the hint only covers requests that never got one.
	result.IsStreaming = isEventStream(resp)

	var relayErr error
	if result.IsStreaming {
		relayErr = relayStream(w, resp.Body)
	} else {
		_, relayErr = io.Copy(w, resp.Body)
	}

	result.Duration = time.Since(startTime)
	if relayErr != nil {
		// Headers are already sent; nothing more can be written safely.
		result.Error = relayErr
		result.ErrorMessage = relayErr.Error()
	}
	return result, relayErr
}

func copyHeaders(w http.ResponseWriter, resp *http.Response) {
	for k, v := range resp.Header {
		w.Header()[k] = v
	}
}

func isEventStream(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream")
}
