package dto

import (
	"time"

	"costlens/internal/core"
)

type DashboardTotalsDto struct {
	TotalCost       float64 `json:"totalCost"`
	TotalRequests   int64   `json:"totalRequests"`
	SuccessCount    int64   `json:"successCount"`
	FailureCount    int64   `json:"failureCount"`
	AvgResponseTime float64 `json:"avgResponseTime"`
}

type ProviderCostDto struct {
	Provider      string  `json:"provider"`
	TotalCost     float64 `json:"totalCost"`
	TotalRequests int64   `json:"totalRequests"`
	SuccessCount  int64   `json:"successCount"`
	FailureCount  int64   `json:"failureCount"`
}

type FeatureCostDto struct {
	Feature       string  `json:"feature"`
	Provider      string  `json:"provider"`
	TotalCost     float64 `json:"totalCost"`
	TotalRequests int64   `json:"totalRequests"`
}

type DailyTrendDto struct {
	Date          string  `json:"date"`
	TotalCost     float64 `json:"totalCost"`
	TotalRequests int64   `json:"totalRequests"`
}

type DashboardDto struct {
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	TotalMetrics   DashboardTotalsDto `json:"totalMetrics"`
	CostByProvider []ProviderCostDto  `json:"costByProvider"`
	CostByFeature  []FeatureCostDto   `json:"costByFeature"`
	DailyTrends    []DailyTrendDto    `json:"dailyTrends"`
	TopExpensive   []ProviderCostDto  `json:"topExpensive"`
}

type DashboardQueryDto struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Provider  string `form:"provider"`
	Feature   string `form:"feature"`
}

type CostTrendQueryDto struct {
	Period core.TrendPeriod `form:"period" binding:"omitempty,oneof=hourly daily weekly"`
	Days   int              `form:"days" binding:"omitempty,min=1,max=366"`
}

type CostTrendDto struct {
	Bucket          string    `json:"bucket"`
	Start           time.Time `json:"start"`
	TotalCost       float64   `json:"totalCost"`
	TotalRequests   int64     `json:"totalRequests"`
	AvgResponseTime float64   `json:"avgResponseTime"`
}
