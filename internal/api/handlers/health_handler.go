package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"retrofit_risk/internal/api/dto"
)

// HealthHandler serves the health and readiness endpoints
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	healthy, checks := h.checker.Status(c.Request.Context())

	status := http.StatusOK
	payload := dto.HealthResponse{Status: "healthy", Checks: checks}
	if !healthy {
		status = http.StatusServiceUnavailable
		payload.Status = "unhealthy"
	}
	c.JSON(status, payload)
}

// Ready handles GET /ready; readiness and health coincide because the
// forecast tables are loaded before the server starts
func (h *HealthHandler) Ready(c *gin.Context) {
	h.Health(c)
}
