package handler

import (
	"costlens/internal/dto"
	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/validate"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	trace          *telemetry.Trace
	pricingService *service.PricingService
}

func NewPricingHandler(trace *telemetry.Trace, pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{trace: trace, pricingService: pricingService}
}

// List
// @Summary 定價規則列表
// @Tags Pricing
// @Produce json
// @Success 200 {array} model.PricingRule
// @Router /api/pricing [get]
func (h *PricingHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	rules, err := h.pricingService.List(ctx)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, rules)
}

// Create
// @Summary 新增定價規則（每個 provider 一筆）
// @Tags Pricing
// @Accept json
// @Produce json
// @Param body body dto.CreatePricingRuleDto true "定價規則"
// @Success 201 {object} model.PricingRule
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/pricing [post]
func (h *PricingHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.CreatePricingRuleDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	rule, err := h.pricingService.Create(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, rule)
}

// Get
// @Summary 取得定價規則
// @Tags Pricing
// @Produce json
// @Param id path string true "Pricing ID"
// @Success 200 {object} model.PricingRule
// @Failure 404 {object} response.Response
// @Router /api/pricing/{id} [get]
func (h *PricingHandler) Get(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	rule, err := h.pricingService.Get(ctx, id)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, rule)
}

// Update
// @Summary 更新定價規則
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Pricing ID"
// @Param body body dto.UpdatePricingRuleDto true "要更新的欄位"
// @Success 200 {object} model.PricingRule
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/pricing/{id} [put]
func (h *PricingHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdatePricingRuleDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	rule, err := h.pricingService.Update(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, rule)
}

// Delete
// @Summary 刪除定價規則
// @Tags Pricing
// @Produce json
// @Param id path string true "Pricing ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.Response
// @Router /api/pricing/{id} [delete]
func (h *PricingHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.pricingService.Delete(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Pricing rule deleted"})
}
