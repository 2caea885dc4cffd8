package handler

import (
	"costlens/internal/dto"
	"costlens/internal/pkg/response"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/validate"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	trace         *telemetry.Trace
	budgetService *service.BudgetService
}

func NewBudgetHandler(trace *telemetry.Trace, budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{trace: trace, budgetService: budgetService}
}

// List
// @Summary 預算列表
// @Tags Budgets
// @Produce json
// @Param provider query string false "Provider"
// @Param period query string false "YYYY-MM"
// @Success 200 {array} model.Budget
// @Router /api/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var query dto.ListBudgetsQueryDto
	if cause, respErr := validate.BindQueryAndValidate(c, &query); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	budgets, err := h.budgetService.List(ctx, &query)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, budgets)
}

// Create
// @Summary 新增預算（provider + period 唯一）
// @Tags Budgets
// @Accept json
// @Produce json
// @Param body body dto.CreateBudgetDto true "預算"
// @Success 201 {object} model.Budget
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	var req dto.CreateBudgetDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	budget, err := h.budgetService.Create(ctx, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Create(c, budget)
}

// Update
// @Summary 更新預算
// @Tags Budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param body body dto.UpdateBudgetDto true "要更新的欄位"
// @Success 200 {object} model.Budget
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	var req dto.UpdateBudgetDto
	if cause, respErr := validate.BindAndValidate(c, &req); cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	budget, err := h.budgetService.Update(ctx, id, &req)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, budget)
}

// Delete
// @Summary 刪除預算
// @Tags Budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.Response
// @Router /api/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	id, cause, respErr := validate.ParseObjectID(c, "id")
	if cause != nil {
		end(cause)
		response.AbortWithError(c, respErr)
		return
	}
	if err := h.budgetService.Delete(ctx, id); err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Budget deleted"})
}

// UpdateSpend 以本月事件重新計算各預算花費
// @Summary 重算本月預算花費
// @Tags Budgets
// @Produce json
// @Success 200 {object} dto.RecomputeResultDto
// @Router /api/budgets/update-spend [post]
func (h *BudgetHandler) UpdateSpend(c *gin.Context) {
	ctx, _, end := h.trace.WithSpan(c)
	defer end(nil)

	result, err := h.budgetService.RecomputeSpend(ctx)
	if err != nil {
		response.AbortWithError(c, err)
		return
	}
	response.Success(c, result)
}
