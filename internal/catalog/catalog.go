// Package catalog fetches the OpenRouter model catalog and adapts it to the
// OpenAI-compatible list shape, applying the configured allow-list.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/jlekram/modelgate/internal/filter"
)

// defaultCreated is the fallback creation timestamp for upstream records
// that carry none.
const defaultCreated int64 = 1700000000

// defaultOwner is used when a model ID carries no provider prefix.
const defaultOwner = "openrouter"

// Model is a single entry in the OpenAI-compatible model list.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// List is the OpenAI-compatible list envelope.
type List struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// upstreamModel is the subset of an OpenRouter catalog record we read.
// Everything else in the record is ignored.
type upstreamModel struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type upstreamList struct {
	Data []upstreamModel `json:"data"`
}

// UnavailableError indicates the catalog endpoint could not be reached.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return "upstream unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// StatusError carries a non-2xx upstream response so handlers can relay it
// with status and body preserved.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// Adapter produces client-shaped model lists from the upstream catalog.
type Adapter struct {
	client  *http.Client
	baseURL string
	filter  *filter.Set

	// cache is optional; nil means every call re-fetches.
	cache *ristretto.Cache[string, List]
	ttl   time.Duration
}

// New creates an adapter. fset may be nil (no filtering). cache may be nil.
func New(client *http.Client, baseURL string, fset *filter.Set, cache *ristretto.Cache[string, List], ttl time.Duration) *Adapter {
	return &Adapter{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		filter:  fset,
		cache:   cache,
		ttl:     ttl,
	}
}

// ListModels fetches the upstream catalog with the caller's credential,
// converts every record, and restricts the result to the allow-list while
// preserving upstream order. The output is always a subset of the upstream
// catalog; conversion never drops or fabricates records.
func (a *Adapter) ListModels(ctx context.Context, authHeader string) (List, error) {
	if cached, ok := a.cachedList(authHeader); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/models", nil)
	if err != nil {
		return List{}, err
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return List{}, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return List{}, &UnavailableError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return List{}, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var upstream upstreamList
	if err := json.Unmarshal(body, &upstream); err != nil {
		return List{}, &UnavailableError{Err: fmt.Errorf("malformed catalog response: %w", err)}
	}

	list := List{
		Object: "list",
		Data:   make([]Model, 0, len(upstream.Data)),
	}
	for _, record := range upstream.Data {
		if !a.filterAllows(record.ID) {
			continue
		}
		list.Data = append(list.Data, convert(record))
	}

	a.storeList(authHeader, list)
	return list, nil
}

// filterAllows applies the allow-list. A nil filter passes everything.
func (a *Adapter) filterAllows(id string) bool {
	return a.filter.Allows(id)
}

func (a *Adapter) cachedList(authHeader string) (List, bool) {
	if a.cache == nil || a.ttl <= 0 {
		return List{}, false
	}
	return a.cache.Get(authHeader)
}

func (a *Adapter) storeList(authHeader string, list List) {
	if a.cache == nil || a.ttl <= 0 {
		return
	}
	a.cache.SetWithTTL(authHeader, list, 1, a.ttl)
}

// convert maps an upstream record to the output shape. Total: missing
// optional metadata is substituted with defaults, never dropped.
func convert(record upstreamModel) Model {
	created := record.Created
	if created == 0 {
		created = defaultCreated
	}

	owner := record.OwnedBy
	if owner == "" {
		owner = ownerOf(record.ID)
	}

	return Model{
		ID:      record.ID,
		Object:  "model",
		Created: created,
		OwnedBy: owner,
	}
}

// ownerOf derives the owner from the provider prefix of an OpenRouter model
// ID ("google/gemini-pro" → "google").
func ownerOf(id string) string {
	if prefix, _, found := strings.Cut(id, "/"); found && prefix != "" {
		return prefix
	}
	return defaultOwner
}
