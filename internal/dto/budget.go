package dto

// 建立預算
type CreateBudgetDto struct {
	Provider       string   `json:"provider" binding:"required"`
	Period         string   `json:"period,omitempty"` // YYYY-MM，預設當月
	MonthlyLimit   float64  `json:"monthlyLimit" binding:"min=0"`
	AlertThreshold *float64 `json:"alertThreshold,omitempty" binding:"omitempty,min=0,max=100"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

type UpdateBudgetDto struct {
	Provider       *string  `json:"provider,omitempty" binding:"omitempty,min=1"`
	Period         *string  `json:"period,omitempty"`
	MonthlyLimit   *float64 `json:"monthlyLimit,omitempty" binding:"omitempty,min=0"`
	AlertThreshold *float64 `json:"alertThreshold,omitempty" binding:"omitempty,min=0,max=100"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

type ListBudgetsQueryDto struct {
	Provider string `form:"provider"`
	Period   string `form:"period"`
}

type RecomputeResultDto struct {
	Period  string `json:"period"`
	Updated int    `json:"updated"`
}
