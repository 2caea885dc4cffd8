package handler

import (
	"strings"

	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type IngestQuotaHandler struct {
	trace        *telemetry.Trace
	quotaService *service.IngestQuotaService
}

func NewIngestQuotaHandler(trace *telemetry.Trace, quotaService *service.IngestQuotaService) *IngestQuotaHandler {
	return &IngestQuotaHandler{trace: trace, quotaService: quotaService}
}

// Current 呼叫端自己的寫入配額
// @Summary 查詢寫入限流視窗
// @Tags Logs
// @Produce json
// @Success 200 {object} dto.IngestQuotaDto
// @Failure 500 {object} response.Response
// @Router /api/logs/rate-limit [get]
func (h *IngestQuotaHandler) Current(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	quota, err := h.quotaService.Window(ctx, c.ClientIP())
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, quota)
}

// Reset 重設指定 IP（預設呼叫端）的寫入配額
// @Summary 重設寫入限流視窗
// @Tags Logs
// @Produce json
// @Param ip query string false "Client IP"
// @Success 200 {object} dto.IngestQuotaDto
// @Failure 400 {object} response.Response
// @Router /api/logs/rate-limit [delete]
func (h *IngestQuotaHandler) Reset(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	ip := strings.TrimSpace(c.Query("ip"))
	if ip == "" {
		ip = c.ClientIP()
	}
	quota, err := h.quotaService.Reset(ctx, ip)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, quota)
}
