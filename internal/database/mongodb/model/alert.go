package model

import (
	"time"

	"costlens/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Alert 由異常偵測建立；之後只會被標記已讀 / 解決 / 刪除
type Alert struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type       core.AlertType     `json:"type" bson:"type"`
	Severity   core.AlertSeverity `json:"severity" bson:"severity"`
	Provider   string             `json:"provider" bson:"provider"`
	Title      string             `json:"title" bson:"title"`
	Message    string             `json:"message" bson:"message"`
	Metadata   map[string]any     `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IsRead     bool               `json:"isRead" bson:"isRead"`
	IsResolved bool               `json:"isResolved" bson:"isResolved"`
	ResolvedAt *time.Time         `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	ResolvedBy string             `json:"resolvedBy,omitempty" bson:"resolvedBy,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MetadataPeriod 預算告警去重用的 metadata.period
const MetadataPeriod = "period"

var AlertIndexes = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "type", Value: 1},
			{Key: "provider", Value: 1},
			{Key: "isResolved", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("idx_type_provider_resolved_createdAt"),
	},
	{
		Keys:    bson.D{{Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_createdAt_desc"),
	},
}
