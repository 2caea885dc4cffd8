package handler

import (
	"strings"

	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/validate"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	trace        *telemetry.Trace
	eventService *service.EventService
}

func NewEventHandler(trace *telemetry.Trace, eventService *service.EventService) *EventHandler {
	return &EventHandler{trace: trace, eventService: eventService}
}

// LogEvent 紀錄單筆 API 呼叫並計算成本
// @Summary 紀錄 API 呼叫
// @Tags Logs
// @Accept json
// @Produce json
// @Param body body dto.LogEventDto true "呼叫事件"
// @Success 201 {object} dto.EventDto
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/logs [post]
func (h *EventHandler) LogEvent(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.LogEventDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	event, err := h.eventService.LogEvent(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, event)
}

// BulkLogEvents 批次匯入，單筆失敗不影響其他筆
// @Summary 批次紀錄 API 呼叫
// @Tags Logs
// @Accept json
// @Produce json
// @Param body body dto.BulkLogEventsDto true "事件清單"
// @Success 201 {object} dto.BulkLogResultDto
// @Failure 400 {object} response.Response
// @Router /api/logs/bulk [post]
func (h *EventHandler) BulkLogEvents(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.BulkLogEventsDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	result, err := h.eventService.BulkLogEvents(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, result)
}

// DeleteEvent
// @Summary 刪除單筆事件
// @Tags Logs
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.Response
// @Router /api/logs/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.eventService.DeleteEvent(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Event deleted"})
}

// ClearEvents 依 owner 清除事件
// @Summary 清除某個 owner 的全部事件
// @Tags Logs
// @Produce json
// @Param owner query string true "Owner"
// @Success 200 {object} dto.DeletedCountDto
// @Failure 400 {object} response.Response
// @Router /api/logs [delete]
func (h *EventHandler) ClearEvents(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	owner := strings.TrimSpace(c.Query("owner"))
	if owner == "" {
		err := cErr.BadRequestParams("owner is required")
		end(err)
		response.AbortWithError(c, err)
		return
	}
	result, err := h.eventService.ClearEvents(ctx, owner)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, result)
}
