package model

import (
	"time"

	"costlens/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event 一次（或 RequestCount 次相同）外部 API 呼叫紀錄，寫入後不再修改
type Event struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Owner              string             `json:"owner,omitempty" bson:"owner,omitempty"`
	Provider           string             `json:"provider" bson:"provider"`
	Endpoint           string             `json:"endpoint" bson:"endpoint"`
	Method             string             `json:"method,omitempty" bson:"method,omitempty"`
	Feature            string             `json:"feature" bson:"feature"`
	RequestCount       int64              `json:"requestCount" bson:"requestCount"`
	InputTokens        int64              `json:"inputTokens" bson:"inputTokens"`
	OutputTokens       int64              `json:"outputTokens" bson:"outputTokens"`
	TotalTokens        int64              `json:"totalTokens" bson:"totalTokens"`
	ResponseTimeMs     int64              `json:"responseTimeMs" bson:"responseTimeMs"`
	Status             core.EventStatus   `json:"status" bson:"status"`
	StatusCode         *int               `json:"statusCode,omitempty" bson:"statusCode,omitempty"`
	ErrorMessage       string             `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	CalculatedCost     float64            `json:"calculatedCost" bson:"calculatedCost"`
	BillingMode        core.BillingMode   `json:"billingMode" bson:"billingMode"`
	RequestBody        string             `json:"requestBody,omitempty" bson:"requestBody,omitempty"`               // 正規化後的 JSON
	RequestFingerprint string             `json:"requestFingerprint,omitempty" bson:"requestFingerprint,omitempty"` // RequestBody 的 sha256
	Timestamp          time.Time          `json:"timestamp" bson:"timestamp"`
}

func (e *Event) IsSuccess() bool {
	return e.Status == core.EventStatusSuccess
}

var EventIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_timestamp_desc"),
	},
	{
		Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_provider_timestamp"),
	},
	{
		Keys:    bson.D{{Key: "feature", Value: 1}, {Key: "timestamp", Value: -1}},
		Options: options.Index().SetName("idx_feature_timestamp"),
	},
	{
		Keys:    bson.D{{Key: "owner", Value: 1}},
		Options: options.Index().SetName("idx_owner"),
	},
}
