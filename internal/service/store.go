package service

import (
	"context"
	"time"

	"costlens/internal/core"
	fluentdModel "costlens/internal/database/fluentd/model"
	"costlens/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStore 事件集合：寫入後不可修改，只能整筆刪除
type EventStore interface {
	Insert(ctx context.Context, event *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	Find(ctx context.Context, match core.EventMatch, page core.Page) ([]*model.Event, int64, error)
	Aggregate(ctx context.Context, query core.GroupQuery) ([]core.GroupRow, error)
	Distinct(ctx context.Context, field core.GroupField) ([]string, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}

// PricingCatalog provider → 定價規則；FindActive 找不到時回傳 nil, nil
type PricingCatalog interface {
	FindActive(ctx context.Context, provider string) (*model.PricingRule, error)
	Create(ctx context.Context, rule *model.PricingRule) (*model.PricingRule, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.PricingRule, error)
	List(ctx context.Context) ([]*model.PricingRule, error)
	Update(ctx context.Context, rule *model.PricingRule) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type BudgetStore interface {
	Create(ctx context.Context, budget *model.Budget) (*model.Budget, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Budget, error)
	List(ctx context.Context, query core.BudgetQuery) ([]*model.Budget, error)
	ListActiveForPeriod(ctx context.Context, period string) ([]*model.Budget, error)
	Update(ctx context.Context, budget *model.Budget) error
	UpdateSpend(ctx context.Context, id primitive.ObjectID, spend float64, at time.Time) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type AlertStore interface {
	Create(ctx context.Context, alert *model.Alert) (*model.Alert, error)
	FindUnresolved(ctx context.Context, lookup core.AlertLookup) (*model.Alert, error)
	List(ctx context.Context, query core.AlertQuery) ([]*model.Alert, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Alert, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*model.Alert, error)
	Resolve(ctx context.Context, id primitive.ObjectID, resolvedBy string, at time.Time) (*model.Alert, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// AuditLogger 稽核紀錄輸出（Fluentd）；失敗只記 log，不影響主流程
type AuditLogger interface {
	LogUsage(ctx context.Context, usage fluentdModel.CostUsageLog) error
	LogAlert(ctx context.Context, alert fluentdModel.AlertLog) error
}
