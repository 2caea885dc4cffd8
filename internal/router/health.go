package router

import (
	"net/http"

	"costlens/internal/handler"
	"costlens/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthRouter k8s 探針與舊版 /health-check
type HealthRouter struct {
	healthHandler *handler.HealthHandler
}

func NewHealthRouter(healthHandler *handler.HealthHandler) *HealthRouter {
	return &HealthRouter{healthHandler: healthHandler}
}

func (hr *HealthRouter) RegisterHealthRoutes(r *gin.Engine) {
	// 不經過 Response 包裝，自行輸出 envelope
	r.GET("/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Response{
			Data:        "ok",
			Message:     "OK",
			Description: "costlens is alive",
		})
	})

	probes := r.Group("/health")
	probes.GET("/liveness", hr.healthHandler.Liveness)
	probes.GET("/readiness", hr.healthHandler.Readiness)
}
