package model

import (
	"time"

	"costlens/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PricingTier 累計用量區間 [From, To]，To 為 nil 代表無上限
type PricingTier struct {
	From        int64   `json:"from" bson:"from"`
	To          *int64  `json:"to" bson:"to"`
	CostPerUnit float64 `json:"costPerUnit" bson:"costPerUnit"`
}

type PricingRule struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Provider        string             `json:"provider" bson:"provider"` // 唯一
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	CostPerUnit     float64            `json:"costPerUnit" bson:"costPerUnit"`
	InputCostPer1K  float64            `json:"inputCostPer1k" bson:"inputCostPer1k"`
	OutputCostPer1K float64            `json:"outputCostPer1k" bson:"outputCostPer1k"`
	FreeTierLimit   int64              `json:"freeTierLimit" bson:"freeTierLimit"`
	TierPricing     []PricingTier      `json:"tierPricing" bson:"tierPricing"`
	BillingCycle    core.BillingCycle  `json:"billingCycle" bson:"billingCycle"`
	Currency        string             `json:"currency" bson:"currency"`
	IsActive        bool               `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasTokenPricing 有設定任一 per-1k 單價才走 token 計費
func (r *PricingRule) HasTokenPricing() bool {
	return r.InputCostPer1K > 0 || r.OutputCostPer1K > 0
}

var PricingRuleIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "provider", Value: 1}},
		Options: options.Index().SetName("uniq_provider").SetUnique(true),
	},
}
