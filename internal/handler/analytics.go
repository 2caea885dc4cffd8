package handler

import (
	"costlens/internal/core"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/validate"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	trace         *telemetry.Trace
	reportService *service.ReportService
	eventService  *service.EventService
}

func NewAnalyticsHandler(trace *telemetry.Trace, reportService *service.ReportService, eventService *service.EventService) *AnalyticsHandler {
	return &AnalyticsHandler{trace: trace, reportService: reportService, eventService: eventService}
}

// parseRange startDate / endDate 接受 RFC3339 或 YYYY-MM-DD
func parseRange(startDate, endDate string) (core.EventMatch, error) {
	var match core.EventMatch
	if startDate != "" {
		t, err := validate.ParseTime(startDate)
		if err != nil {
			return match, cErr.BadRequestParams("startDate: " + err.Error())
		}
		match.From = core.NormalizeTime(t)
	}
	if endDate != "" {
		t, err := validate.ParseTime(endDate)
		if err != nil {
			return match, cErr.BadRequestParams("endDate: " + err.Error())
		}
		match.To = t
	}
	return match, nil
}

// Dashboard
// @Summary 成本總覽
// @Tags Analytics
// @Produce json
// @Param startDate query string false "起始時間（預設本月 1 號）"
// @Param endDate query string false "結束時間（含，預設現在）"
// @Param provider query string false "Provider"
// @Param feature query string false "Feature"
// @Success 200 {object} dto.DashboardDto
// @Failure 400 {object} response.Response
// @Router /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.DashboardQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	match, err := parseRange(query.StartDate, query.EndDate)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, h.reportService.GetDashboard(ctx, service.DashboardFilter{
		Start:    match.From,
		End:      match.To,
		Provider: query.Provider,
		Feature:  query.Feature,
	}))
}

// Logs 事件列表（新到舊）
// @Summary 查詢事件
// @Tags Analytics
// @Produce json
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁筆數" default(50)
// @Param provider query string false "Provider"
// @Param feature query string false "Feature"
// @Param status query string false "success / failure / error"
// @Param startDate query string false "起始時間"
// @Param endDate query string false "結束時間（含）"
// @Success 200 {object} dto.EventListDto
// @Failure 400 {object} response.Response
// @Router /api/analytics/logs [get]
func (h *AnalyticsHandler) Logs(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListEventsQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	match, err := parseRange(query.StartDate, query.EndDate)
	if err != nil {
		end(err)
		response.AbortWithError(c, err)
		return
	}
	match.To = core.InclusiveEnd(match.To)

	result, err := h.eventService.ListEvents(ctx, &query, match)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, result)
}

// CostTrends
// @Summary 成本趨勢
// @Tags Analytics
// @Produce json
// @Param period query string false "hourly / daily / weekly" default(daily)
// @Param days query int false "回溯天數" default(30)
// @Success 200 {array} dto.CostTrendDto
// @Failure 400 {object} response.Response
// @Router /api/analytics/cost-trends [get]
func (h *AnalyticsHandler) CostTrends(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.CostTrendQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	response.Success(c, h.reportService.CostTrends(ctx, query.Period, query.Days))
}

// Providers
// @Summary 已出現過的 provider
// @Tags Analytics
// @Produce json
// @Success 200 {array} string
// @Router /api/analytics/providers [get]
func (h *AnalyticsHandler) Providers(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	providers, err := h.eventService.ListProviders(ctx)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, providers)
}

// Features
// @Summary 已出現過的 feature
// @Tags Analytics
// @Produce json
// @Success 200 {array} string
// @Router /api/analytics/features [get]
func (h *AnalyticsHandler) Features(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	features, err := h.eventService.ListFeatures(ctx)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, features)
}
