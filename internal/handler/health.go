package handler

import (
	"net/http"

	"costlens/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	health *service.HealthService
}

func NewHealthHandler(health *service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Liveness 程序仍在運作即回 200
func (h *HealthHandler) Liveness(c *gin.Context) {
	if !h.health.IsLive() {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness 附上每個依賴的狀態，必要依賴失敗時回 503
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.health.Readiness(c.Request.Context())
	status := http.StatusOK
	if !report.Ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}
