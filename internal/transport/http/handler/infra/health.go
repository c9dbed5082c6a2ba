package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/genrelay/internal/types"
	"github.com/mandalnilabja/genrelay/internal/version"
)

// AppName is reported by the status endpoints.
const AppName = "genrelay"

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"name":           AppName,
		"version":        version.Version,
		"status":         "running",
		"generate":       "/generate",
		"uptime_seconds": int64(time.Since(h.StartTime).Seconds()),
	}
	types.WriteJSON(w, http.StatusOK, response)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "active",
		"app":    AppName,
	}
	types.WriteJSON(w, http.StatusOK, response)
}
