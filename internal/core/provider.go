package core

// EventStatus
type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailure EventStatus = "failure"
	EventStatusError   EventStatus = "error"
)

// BillingCycle 僅供顯示，免費額度一律以自然月重置
type BillingCycle string

const (
	BillingCycleMonthly    BillingCycle = "monthly"
	BillingCycleDaily      BillingCycle = "daily"
	BillingCyclePerRequest BillingCycle = "per-request"
)

// BillingMode 記錄事件成本是用哪一種方式算出來的
type BillingMode string

const (
	BillingModeRequest  BillingMode = "request"
	BillingModeToken    BillingMode = "token"
	BillingModeUnbilled BillingMode = "unbilled"
)

// AlertType
type AlertType string

const (
	AlertTypeSpike   AlertType = "spike"
	AlertTypeBudget  AlertType = "budget"
	AlertTypeError   AlertType = "error"
	AlertTypeAnomaly AlertType = "anomaly"
)

// AlertSeverity
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// SuggestionType
type SuggestionType string

const (
	SuggestionCaching          SuggestionType = "caching"
	SuggestionRateLimiting     SuggestionType = "rate-limiting"
	SuggestionBatching         SuggestionType = "batching"
	SuggestionDuplicateRemoval SuggestionType = "duplicate-removal"
	SuggestionPerformance      SuggestionType = "performance"
)

// SuggestionPriority
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// TrendPeriod 對外的成本趨勢粒度
type TrendPeriod string

const (
	TrendHourly TrendPeriod = "hourly"
	TrendDaily  TrendPeriod = "daily"
	TrendWeekly TrendPeriod = "weekly"
)

func (p TrendPeriod) Granularity() Granularity {
	switch p {
	case TrendHourly:
		return GranularityHour
	case TrendWeekly:
		return GranularityWeek
	default:
		return GranularityDay
	}
}
