package handler

import (
	"errors"
	"io"

	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/validate"

	"github.com/gin-gonic/gin"
)

const defaultAlertLimit int64 = 100

type AlertHandler struct {
	trace        *telemetry.Trace
	alertService *service.AlertService
}

func NewAlertHandler(trace *telemetry.Trace, alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{trace: trace, alertService: alertService}
}

// List
// @Summary 告警列表（新到舊）
// @Tags Alerts
// @Produce json
// @Param isRead query bool false "是否已讀"
// @Param isResolved query bool false "是否已處理"
// @Param type query string false "spike / budget / error / anomaly"
// @Param severity query string false "low / medium / high / critical"
// @Param limit query int false "筆數上限" default(100)
// @Success 200 {array} model.Alert
// @Failure 400 {object} response.Response
// @Router /api/alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListAlertsQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	isRead, err := validate.GetBoolQuery(c, "isRead")
	if err != nil {
		response.AbortWithError(c, cErr.BadRequestParams("isRead must be a boolean"))
		return
	}
	isResolved, err := validate.GetBoolQuery(c, "isResolved")
	if err != nil {
		response.AbortWithError(c, cErr.BadRequestParams("isResolved must be a boolean"))
		return
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}

	alerts, err := h.alertService.List(ctx, service.AlertFilter{
		IsRead:     isRead,
		IsResolved: isResolved,
		Type:       query.Type,
		Severity:   query.Severity,
		Limit:      limit,
	})
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, alerts)
}

// Detect 立即執行一次異常偵測
// @Summary 手動觸發異常偵測
// @Tags Alerts
// @Produce json
// @Success 200 {object} dto.AnomalyReportDto
// @Router /api/alerts/detect [post]
func (h *AlertHandler) Detect(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	response.Success(c, h.alertService.RunChecks(ctx))
}

// MarkRead
// @Summary 標記已讀
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} model.Alert
// @Failure 404 {object} response.Response
// @Router /api/alerts/{id}/read [put]
func (h *AlertHandler) MarkRead(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	alert, err := h.alertService.MarkRead(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, alert)
}

// Resolve body 可省略，resolvedBy 預設 system
// @Summary 標記已處理
// @Tags Alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param body body dto.ResolveAlertDto false "處理人"
// @Success 200 {object} model.Alert
// @Failure 404 {object} response.Response
// @Router /api/alerts/{id}/resolve [put]
func (h *AlertHandler) Resolve(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.ResolveAlertDto
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		end(err)
		response.AbortWithError(c, cErr.ValidateErr(validate.ValidationErrorResponse(&req, err)))
		return
	}
	alert, err := h.alertService.Resolve(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, alert)
}

// Delete
// @Summary 刪除告警
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.Response
// @Router /api/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.alertService.Delete(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Alert deleted"})
}
