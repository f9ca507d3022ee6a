package api

import (
	"net/http"
	"time"

	"github.com/brainvault/brainvault/internal/api/respond"
)

// HealthHandler handles the health check endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// serviceIsHealthy is injected by the service runner; until then the
// service reports unhealthy.
var serviceIsHealthy = func() bool { return false }

// BindServiceHealth injects the aggregate health function evaluated on each
// health request.
func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// CheckHealth GET /api/health. Always 200; the body reports
// healthy/unhealthy so load balancers and operators see the same signal.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
