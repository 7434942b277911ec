package infra

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jlekram/modelgate/internal/types"
)

// defaultLogLimit bounds /api/logs responses when no limit is given.
const defaultLogLimit = 50

// maxLogLimit caps /api/logs responses regardless of the requested limit.
const maxLogLimit = 1000

// RecentLogs returns recent request logs at /api/logs. Only available when a
// request-log database is configured.
func (h *Handlers) RecentLogs(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		types.WriteError(w, http.StatusNotFound, types.ErrNotFound("request logging is not enabled"))
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			types.WriteError(w, http.StatusBadRequest, types.ErrInvalidRequest("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	logs, err := h.Storage.RecentLogs(limit)
	if err != nil {
		types.WriteError(w, http.StatusInternalServerError, types.ErrServer("failed to read request logs"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"data": logs,
	})
}
