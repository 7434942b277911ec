package infra

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jlekram/modelgate/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"name":    "modelgate",
		"version": version.Version,
		"status":  "running",
		"api":     "/v1",
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// HealthCheck returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":         "active",
		"app":            "modelgate",
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
