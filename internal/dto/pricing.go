package dto

import (
	"costlens/internal/core"
	"costlens/internal/pkg/request"
)

type PricingTierDto struct {
	From        int64   `json:"from" binding:"min=0"`
	To          *int64  `json:"to"`
	CostPerUnit float64 `json:"costPerUnit" binding:"min=0"`
}

func (CreatePricingRuleDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Provider.required":             "provider is required",
		"Currency.len":                  "currency must be a 3-letter code",
		"TierPricing.*.From.min":        "tier from must not be negative",
		"TierPricing.*.CostPerUnit.min": "tier costPerUnit must not be negative",
	}
}

// 建立定價規則
type CreatePricingRuleDto struct {
	Provider        string            `json:"provider" binding:"required"`
	Description     string            `json:"description,omitempty"`
	CostPerUnit     float64           `json:"costPerUnit" binding:"min=0"`
	InputCostPer1K  float64           `json:"inputCostPer1k,omitempty" binding:"min=0"`
	OutputCostPer1K float64           `json:"outputCostPer1k,omitempty" binding:"min=0"`
	FreeTierLimit   int64             `json:"freeTierLimit" binding:"min=0"`
	TierPricing     []PricingTierDto  `json:"tierPricing,omitempty" binding:"omitempty,dive"`
	BillingCycle    core.BillingCycle `json:"billingCycle,omitempty" binding:"omitempty,oneof=monthly daily per-request"`
	Currency        string            `json:"currency,omitempty" binding:"omitempty,len=3"`
	IsActive        *bool             `json:"isActive,omitempty"`
}

// 更新定價規則，只覆寫有帶的欄位
type UpdatePricingRuleDto struct {
	Provider        *string            `json:"provider,omitempty" binding:"omitempty,min=1"`
	Description     *string            `json:"description,omitempty"`
	CostPerUnit     *float64           `json:"costPerUnit,omitempty" binding:"omitempty,min=0"`
	InputCostPer1K  *float64           `json:"inputCostPer1k,omitempty" binding:"omitempty,min=0"`
	OutputCostPer1K *float64           `json:"outputCostPer1k,omitempty" binding:"omitempty,min=0"`
	FreeTierLimit   *int64             `json:"freeTierLimit,omitempty" binding:"omitempty,min=0"`
	TierPricing     []PricingTierDto   `json:"tierPricing,omitempty" binding:"omitempty,dive"`
	BillingCycle    *core.BillingCycle `json:"billingCycle,omitempty" binding:"omitempty,oneof=monthly daily per-request"`
	Currency        *string            `json:"currency,omitempty" binding:"omitempty,len=3"`
	IsActive        *bool              `json:"isActive,omitempty"`
}
