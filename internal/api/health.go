package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is the body returned by GET /health. Callers that only
// care about liveness can look at Status alone; the other fields are
// additive.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HealthHandler serves GET /health. The pipeline has no database or
// broker connection to probe (every stage is a stateless invocation
// against the object store), so this never reports anything but ok.
type HealthHandler struct {
	version   string
	startTime time.Time
}

func NewHealthHandler(version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{version: version, startTime: startTime}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
