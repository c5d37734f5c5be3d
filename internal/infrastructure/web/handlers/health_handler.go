package handlers

import (
	"encoding/json"
	"net/http"

	"crypto-market-service/internal/application/dto"
)

// HealthHandler serves the service probes
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Test handles GET /test, the probe used by the dashboard client
func (h *HealthHandler) Test(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, dto.NewTestResponse("Backend is healthy"))
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "running",
	}
	h.writeJSON(w, http.StatusOK, dto.NewHealthResponse("healthy", services))
}

func (h *HealthHandler) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"Failed to encode response"}`))
	}
}
