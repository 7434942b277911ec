package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jlekram/modelgate/internal/catalog"
	"github.com/jlekram/modelgate/internal/types"
)

// ListModels serves GET /models and GET /v1/models: the upstream catalog in
// OpenAI-compatible shape, restricted to the configured allow-list.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	auth := r.Header.Get("Authorization")
	if auth == "" {
		types.WriteError(w, http.StatusUnauthorized, types.ErrAuthentication("Authorization header required"))
		return
	}

	list, err := h.Catalog.ListModels(r.Context(), auth)
	if err != nil {
		status := h.writeCatalogError(w, err)
		h.logRequest(r, "", false, status, err.Error(), start)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
	h.logRequest(r, "", false, http.StatusOK, "", start)
}

// GetModel serves GET /v1/models/{model}. OpenRouter has no single-model
// endpoint, so the catalog is fetched and searched; the allow-list applies
// here too.
func (h *Handlers) GetModel(w http.ResponseWriter, r *http.Request) {
	modelID := r.PathValue("model")
	if modelID == "" {
		types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("model ID required"))
		return
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		types.WriteError(w, http.StatusUnauthorized, types.ErrAuthentication("Authorization header required"))
		return
	}

	list, err := h.Catalog.ListModels(r.Context(), auth)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	for _, m := range list.Data {
		if m.ID == modelID {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(m)
			return
		}
	}

	types.WriteError(w, http.StatusNotFound, types.ErrNotFound("model '"+modelID+"' not found"))
}

// writeCatalogError maps adapter errors onto HTTP responses and returns the
// status code used. Non-2xx upstream responses are relayed with status and
// body preserved; connection failures become a 502 error envelope.
func (h *Handlers) writeCatalogError(w http.ResponseWriter, err error) int {
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusErr.StatusCode)
		_, _ = w.Write(statusErr.Body)
		return statusErr.StatusCode
	}

	types.WriteError(w, http.StatusBadGateway, types.ErrUpstreamUnavailable("upstream error: "+err.Error()))
	return http.StatusBadGateway
}
