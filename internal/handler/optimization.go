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

type OptimizationHandler struct {
	trace  *telemetry.Trace
	engine *service.OptimizationEngine
}

func NewOptimizationHandler(trace *telemetry.Trace, engine *service.OptimizationEngine) *OptimizationHandler {
	return &OptimizationHandler{trace: trace, engine: engine}
}

// Suggestions
// @Summary 成本優化建議
// @Tags Optimization
// @Produce json
// @Param days query int false "分析天數" default(7)
// @Success 200 {object} dto.SuggestionsDto
// @Failure 400 {object} response.Response
// @Router /api/optimization/suggestions [get]
func (h *OptimizationHandler) Suggestions(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.SuggestionQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	response.Success(c, h.engine.Suggestions(ctx, query.Days))
}

// SuggestionsByType
// @Summary 指定類型的優化建議
// @Tags Optimization
// @Produce json
// @Param type path string true "caching / rate-limiting / batching / duplicate-removal / performance"
// @Param days query int false "分析天數" default(7)
// @Success 200 {object} dto.SuggestionsDto
// @Failure 400 {object} response.Response
// @Router /api/optimization/suggestions/{type} [get]
func (h *OptimizationHandler) SuggestionsByType(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	kind := c.Param("type")
	if !validate.IsValidSuggestionType(kind) {
		err := cErr.ValidatePathParamsErr("invalid suggestion type: " + kind)
		end(err)
		response.AbortWithError(c, err)
		return
	}
	var query dto.SuggestionQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	response.Success(c, h.engine.SuggestionsByType(ctx, core.SuggestionType(kind), query.Days))
}
