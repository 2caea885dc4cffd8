package core

import "errors"

// ─── Database Types ────────────────────────────────────────────────────────────

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBCostLens MongoDatabaseName = "costlens"
)

// MongoDB collections
const (
	MongoCollectionEvents       MongoCollection = "api_events"
	MongoCollectionPricingRules MongoCollection = "pricing_rules"
	MongoCollectionBudgets      MongoCollection = "budgets"
	MongoCollectionAlerts       MongoCollection = "alerts"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "costlens"      // 伺服器名稱
	RedisKeyIngest     RedisKey = "ingest_window" // 寫入限流視窗
)

const (
	FluentdRequest  FluentdSubTag = "request_log"
	FluentdResponse FluentdSubTag = "response_log"
	FluentdUsage    FluentdSubTag = "cost_usage_log"
	FluentdAlert    FluentdSubTag = "alert_log"
)

// store 層共用的錯誤，service 以 errors.Is 判斷後轉成 HTTP 錯誤
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	// 連線未建立（例如 Redis 關閉）
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Page 分頁參數，Page 從 1 開始
type Page struct {
	Page int64 `json:"page"`
	Size int64 `json:"size"`
}

func (p Page) Skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}
