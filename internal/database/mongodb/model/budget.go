package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Budget struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Provider       string             `json:"provider" bson:"provider"`
	Period         string             `json:"period" bson:"period"` // YYYY-MM
	MonthlyLimit   float64            `json:"monthlyLimit" bson:"monthlyLimit"`
	AlertThreshold float64            `json:"alertThreshold" bson:"alertThreshold"` // 百分比 0~100
	CurrentSpend   float64            `json:"currentSpend" bson:"currentSpend"`     // 只由 recompute 更新
	IsActive       bool               `json:"isActive" bson:"isActive"`
	RecomputedAt   *time.Time         `json:"recomputedAt,omitempty" bson:"recomputedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

var BudgetIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "period", Value: 1}},
		Options: options.Index().SetName("uniq_provider_period").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "period", Value: 1}, {Key: "isActive", Value: 1}},
		Options: options.Index().SetName("idx_period_active"),
	},
}
