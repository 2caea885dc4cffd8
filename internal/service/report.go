package service

import (
	"context"
	"sort"
	"time"

	"costlens/internal/core"
	"costlens/internal/dto"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	topExpensiveLimit = 5
	defaultTrendDays  = 30
)

// ReportService 唯讀彙總報表。每一個區塊獨立查詢，失敗時回傳空結果並記錄
type ReportService struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	logger *zap.Logger
	clock  clock.Clock
	events EventStore
}

func NewReportService(trace *telemetry.Trace, metric *telemetry.Metric, logger *zap.Logger, clock clock.Clock, events EventStore) *ReportService {
	return &ReportService{trace: trace, metric: metric, logger: logger, clock: clock, events: events}
}

// DashboardFilter start / end 為閉區間，零值時預設為本月 1 號到現在
type DashboardFilter struct {
	Start    time.Time
	End      time.Time
	Provider string
	Feature  string
}

func (s *ReportService) GetDashboard(ctx context.Context, filter DashboardFilter) *dto.DashboardDto {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	now := core.NormalizeTime(s.clock.Now())
	if filter.Start.IsZero() {
		filter.Start = core.MonthStart(now)
	}
	if filter.End.IsZero() {
		filter.End = now
	}
	match := core.EventMatch{
		From:     core.NormalizeTime(filter.Start),
		To:       core.InclusiveEnd(filter.End),
		Provider: filter.Provider,
		Feature:  filter.Feature,
	}

	dashboard := &dto.DashboardDto{
		Start:          match.From,
		End:            core.NormalizeTime(filter.End),
		CostByProvider: s.costByProvider(ctx, match),
		CostByFeature:  s.costByFeature(ctx, match),
		DailyTrends:    s.dailyTrends(ctx, match),
		TotalMetrics:   s.totals(ctx, match),
	}
	top := min(topExpensiveLimit, len(dashboard.CostByProvider))
	dashboard.TopExpensive = append([]dto.ProviderCostDto{}, dashboard.CostByProvider[:top]...)
	return dashboard
}

func (s *ReportService) totals(ctx context.Context, match core.EventMatch) dto.DashboardTotalsDto {
	rows, ok := s.aggregate(ctx, "dashboard_totals", core.GroupQuery{Match: match})
	if !ok || len(rows) == 0 {
		return dto.DashboardTotalsDto{}
	}
	row := rows[0]
	return dto.DashboardTotalsDto{
		TotalCost:       roundMoney(row.Cost),
		TotalRequests:   row.Requests,
		SuccessCount:    row.SuccessRequests,
		FailureCount:    row.FailedRequests,
		AvgResponseTime: roundMoney(row.AvgResponseTimeMs),
	}
}

func (s *ReportService) costByProvider(ctx context.Context, match core.EventMatch) []dto.ProviderCostDto {
	out := make([]dto.ProviderCostDto, 0)
	rows, ok := s.aggregate(ctx, "dashboard_by_provider", core.GroupQuery{
		Match: match,
		By:    []core.GroupField{core.GroupByProvider},
	})
	if !ok {
		return out
	}
	for _, row := range rows {
		out = append(out, dto.ProviderCostDto{
			Provider:      row.Key.Provider,
			TotalCost:     roundMoney(row.Cost),
			TotalRequests: row.Requests,
			SuccessCount:  row.SuccessRequests,
			FailureCount:  row.FailedRequests,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCost != out[j].TotalCost {
			return out[i].TotalCost > out[j].TotalCost
		}
		return out[i].Provider < out[j].Provider
	})
	return out
}

func (s *ReportService) costByFeature(ctx context.Context, match core.EventMatch) []dto.FeatureCostDto {
	out := make([]dto.FeatureCostDto, 0)
	rows, ok := s.aggregate(ctx, "dashboard_by_feature", core.GroupQuery{
		Match: match,
		By:    []core.GroupField{core.GroupByFeature, core.GroupByProvider},
	})
	if !ok {
		return out
	}
	for _, row := range rows {
		out = append(out, dto.FeatureCostDto{
			Feature:       row.Key.Feature,
			Provider:      row.Key.Provider,
			TotalCost:     roundMoney(row.Cost),
			TotalRequests: row.Requests,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalCost != out[j].TotalCost {
			return out[i].TotalCost > out[j].TotalCost
		}
		if out[i].Feature != out[j].Feature {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Provider < out[j].Provider
	})
	return out
}

// dailyTrends 只回傳有資料的日期，不補空白日
func (s *ReportService) dailyTrends(ctx context.Context, match core.EventMatch) []dto.DailyTrendDto {
	out := make([]dto.DailyTrendDto, 0)
	rows, ok := s.aggregate(ctx, "dashboard_daily", core.GroupQuery{Match: match, Bucket: core.GranularityDay})
	if !ok {
		return out
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key.Bucket.Before(rows[j].Key.Bucket) })
	for _, row := range rows {
		out = append(out, dto.DailyTrendDto{
			Date:          row.Key.Bucket.Format(time.DateOnly),
			TotalCost:     roundMoney(row.Cost),
			TotalRequests: row.Requests,
		})
	}
	return out
}

// CostTrends 最近 days 天依 period 分桶，由舊到新
func (s *ReportService) CostTrends(ctx context.Context, period core.TrendPeriod, days int) []dto.CostTrendDto {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if period == "" {
		period = core.TrendDaily
	}
	if days <= 0 {
		days = defaultTrendDays
	}
	now := core.NormalizeTime(s.clock.Now())
	granularity := period.Granularity()

	out := make([]dto.CostTrendDto, 0)
	rows, ok := s.aggregate(ctx, "cost_trends", core.GroupQuery{
		Match:  core.EventMatch{From: now.AddDate(0, 0, -days)},
		Bucket: granularity,
	})
	if !ok {
		return out
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key.Bucket.Before(rows[j].Key.Bucket) })
	for _, row := range rows {
		out = append(out, dto.CostTrendDto{
			Bucket:          core.BucketLabel(row.Key.Bucket, granularity),
			Start:           row.Key.Bucket,
			TotalCost:       roundMoney(row.Cost),
			TotalRequests:   row.Requests,
			AvgResponseTime: roundMoney(row.AvgResponseTimeMs),
		})
	}
	return out
}

func (s *ReportService) aggregate(ctx context.Context, check string, query core.GroupQuery) ([]core.GroupRow, bool) {
	rows, err := s.events.Aggregate(ctx, query)
	if err != nil {
		s.metric.ObserveAnalyticsFailure(check)
		s.logger.Error("analytics aggregation failed",
			zap.String("check", check),
			zap.Time("from", query.Match.From),
			zap.Time("to", query.Match.To),
			zap.Error(err))
		return nil, false
	}
	return rows, true
}

func roundMoney(v float64) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(costPrecision).Float64()
	return rounded
}
