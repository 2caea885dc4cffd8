package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/dto"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"go.uber.org/zap"
)

const (
	cachingMinRequests      = 100
	cachingTopN             = 5
	cachingReduction        = 0.7
	burstFactor             = 5.0
	rapidMinuteMinRequests  = 10
	rapidMinuteMinOccurs    = 5
	maxBatchSize            = 100
	batchReductionPct       = 90
	duplicateMinDocuments   = 3
	duplicateTopN           = 3
	slowAvgResponseMs       = 2000
	slowMinRequests         = 10
	defaultSuggestionWindow = 7
)

type suggestionDetector func(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error)

// OptimizationEngine 五種使用模式偵測，各自獨立，單一偵測失敗只回傳空清單
type OptimizationEngine struct {
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	logger      *zap.Logger
	clock       clock.Clock
	events      EventStore
	defaultDays int
}

func NewOptimizationEngine(conf *config.Configuration, trace *telemetry.Trace, metric *telemetry.Metric, logger *zap.Logger, clock clock.Clock, events EventStore) *OptimizationEngine {
	return &OptimizationEngine{
		trace:       trace,
		metric:      metric,
		logger:      logger,
		clock:       clock,
		events:      events,
		defaultDays: conf.Analytics.SuggestionDaysOrDefault(),
	}
}

func (e *OptimizationEngine) detectors() []struct {
	kind   core.SuggestionType
	detect suggestionDetector
} {
	return []struct {
		kind   core.SuggestionType
		detect suggestionDetector
	}{
		{core.SuggestionCaching, e.detectCacheable},
		{core.SuggestionRateLimiting, e.detectBursts},
		{core.SuggestionBatching, e.detectBatching},
		{core.SuggestionDuplicateRemoval, e.detectDuplicates},
		{core.SuggestionPerformance, e.detectSlowCalls},
	}
}

// Suggestions 最近 days 天的所有建議；days <= 0 使用設定值
func (e *OptimizationEngine) Suggestions(ctx context.Context, days int) dto.SuggestionsDto {
	return e.generate(ctx, "", days)
}

// SuggestionsByType 只跑指定類型的偵測
func (e *OptimizationEngine) SuggestionsByType(ctx context.Context, kind core.SuggestionType, days int) dto.SuggestionsDto {
	return e.generate(ctx, kind, days)
}

func (e *OptimizationEngine) generate(ctx context.Context, kind core.SuggestionType, days int) dto.SuggestionsDto {
	ctx, span, end := e.trace.WithSpan(ctx)
	defer end(nil)

	if days <= 0 {
		days = e.defaultDays
	}
	if days <= 0 {
		days = defaultSuggestionWindow
	}
	now := core.NormalizeTime(e.clock.Now())
	match := core.EventMatch{From: now.AddDate(0, 0, -days)}

	data := make([]dto.SuggestionDto, 0)
	for _, d := range e.detectors() {
		if kind != "" && d.kind != kind {
			continue
		}
		found, err := d.detect(ctx, match)
		if err != nil {
			check := "suggestion_" + string(d.kind)
			e.metric.ObserveAnalyticsFailure(check)
			e.logger.Error("optimization detector failed", zap.String("check", check), zap.Error(err))
			continue
		}
		data = append(data, found...)
	}

	result := dto.SuggestionsDto{
		Days:    days,
		Count:   len(data),
		Data:    data,
		Grouped: groupByPriority(data),
	}
	e.trace.ApplyTraceAttributes(span, core.TraceSuggestionMeta{
		Days:   days,
		Type:   string(kind),
		Total:  result.Count,
		High:   len(result.Grouped.High),
		Medium: len(result.Grouped.Medium),
		Low:    len(result.Grouped.Low),
	})
	return result
}

func groupByPriority(data []dto.SuggestionDto) dto.GroupedSuggestionsDto {
	grouped := dto.GroupedSuggestionsDto{
		High:   make([]dto.SuggestionDto, 0),
		Medium: make([]dto.SuggestionDto, 0),
		Low:    make([]dto.SuggestionDto, 0),
	}
	for _, s := range data {
		switch s.Priority {
		case core.PriorityHigh:
			grouped.High = append(grouped.High, s)
		case core.PriorityMedium:
			grouped.Medium = append(grouped.Medium, s)
		default:
			grouped.Low = append(grouped.Low, s)
		}
	}
	return grouped
}

// 成功的呼叫依 (provider, endpoint, feature) 累計 >= 100 次，取前 5
func (e *OptimizationEngine) detectCacheable(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error) {
	match.Status = core.EventStatusSuccess
	rows, err := e.events.Aggregate(ctx, core.GroupQuery{
		Match: match,
		By:    []core.GroupField{core.GroupByProvider, core.GroupByEndpoint, core.GroupByFeature},
	})
	if err != nil {
		return nil, err
	}
	rows = filterRows(rows, func(r core.GroupRow) bool { return r.Requests >= cachingMinRequests })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Requests > rows[j].Requests })
	rows = rows[:min(cachingTopN, len(rows))]

	out := make([]dto.SuggestionDto, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SuggestionDto{
			Type:     core.SuggestionCaching,
			Priority: core.PriorityHigh,
			Provider: row.Key.Provider,
			Feature:  row.Key.Feature,
			Endpoint: row.Key.Endpoint,
			Title:    "Implement Caching Strategy",
			Description: fmt.Sprintf("%s - %s is called %d times. Implement Redis/in-memory caching to reduce API calls by 70%%.",
				row.Key.Provider, row.Key.Endpoint, row.Requests),
			Impact: map[string]float64{
				"currentCalls":       float64(row.Requests),
				"estimatedReduction": math.Floor(float64(row.Requests) * cachingReduction),
				"potentialSavings":   round2(row.Cost * cachingReduction),
			},
			Recommendation: "Add caching layer with TTL based on data freshness requirements",
		})
	}
	return out, nil
}

// 每小時請求數的最大值超過平均的 5 倍
func (e *OptimizationEngine) detectBursts(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error) {
	rows, err := e.events.Aggregate(ctx, core.GroupQuery{
		Match:  match,
		By:     []core.GroupField{core.GroupByProvider, core.GroupByFeature},
		Bucket: core.GranularityHour,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.SuggestionDto, 0)
	for _, series := range seriesByProviderFeature(rows) {
		var sum, peak int64
		for _, row := range series.rows {
			sum += row.Requests
			peak = max(peak, row.Requests)
		}
		avg := float64(sum) / float64(len(series.rows))
		if avg <= 0 || float64(peak) <= avg*burstFactor {
			continue
		}
		ratio := float64(peak) / avg
		out = append(out, dto.SuggestionDto{
			Type:     core.SuggestionRateLimiting,
			Priority: core.PriorityMedium,
			Provider: series.provider,
			Feature:  series.feature,
			Title:    "Implement Rate Limiting",
			Description: fmt.Sprintf("%s shows bursty API usage patterns. Peak usage is %.1fx the average.",
				series.feature, ratio),
			Impact: map[string]float64{
				"avgHourly": math.Floor(avg),
				"maxHourly": float64(peak),
				"ratio":     round2(ratio),
			},
			Recommendation: "Implement request throttling and queue mechanism to smooth out API calls",
		})
	}
	return out, nil
}

// 每分鐘 >= 10 次的分鐘數出現 >= 5 次
func (e *OptimizationEngine) detectBatching(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error) {
	rows, err := e.events.Aggregate(ctx, core.GroupQuery{
		Match:  match,
		By:     []core.GroupField{core.GroupByProvider, core.GroupByFeature},
		Bucket: core.GranularityMinute,
	})
	if err != nil {
		return nil, err
	}
	rows = filterRows(rows, func(r core.GroupRow) bool { return r.Requests >= rapidMinuteMinRequests })

	out := make([]dto.SuggestionDto, 0)
	for _, series := range seriesByProviderFeature(rows) {
		if len(series.rows) < rapidMinuteMinOccurs {
			continue
		}
		var sum int64
		for _, row := range series.rows {
			sum += row.Requests
		}
		perMinute := math.Floor(float64(sum) / float64(len(series.rows)))
		out = append(out, dto.SuggestionDto{
			Type:     core.SuggestionBatching,
			Priority: core.PriorityHigh,
			Provider: series.provider,
			Feature:  series.feature,
			Title:    "Use Batch API Requests",
			Description: fmt.Sprintf("%s makes %.0f requests per minute. Use batch API endpoints if available.",
				series.feature, perMinute),
			Impact: map[string]float64{
				"avgCallsPerMinute":     perMinute,
				"estimatedBatchSize":    math.Min(perMinute, maxBatchSize),
				"potentialReductionPct": batchReductionPct,
				"rapidMinutes":          float64(len(series.rows)),
			},
			Recommendation: "Aggregate multiple requests into batch API calls to reduce overhead and cost",
		})
	}
	return out, nil
}

// 相同 request body 的成功呼叫 >= 3 筆，取前 3 組；沒有 body 的組不算重複
func (e *OptimizationEngine) detectDuplicates(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error) {
	match.Status = core.EventStatusSuccess
	rows, err := e.events.Aggregate(ctx, core.GroupQuery{
		Match: match,
		By: []core.GroupField{
			core.GroupByProvider, core.GroupByEndpoint, core.GroupByFeature, core.GroupByFingerprint,
		},
	})
	if err != nil {
		return nil, err
	}
	rows = filterRows(rows, func(r core.GroupRow) bool { return r.Documents >= duplicateMinDocuments })
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Documents > rows[j].Documents })
	rows = rows[:min(duplicateTopN, len(rows))]

	out := make([]dto.SuggestionDto, 0, len(rows))
	for _, row := range rows {
		if row.Key.RequestFingerprint == "" {
			continue
		}
		out = append(out, dto.SuggestionDto{
			Type:     core.SuggestionDuplicateRemoval,
			Priority: core.PriorityMedium,
			Provider: row.Key.Provider,
			Feature:  row.Key.Feature,
			Endpoint: row.Key.Endpoint,
			Title:    "Remove Duplicate API Calls",
			Description: fmt.Sprintf("Identical requests detected %d times for %s. Implement request deduplication.",
				row.Documents, row.Key.Endpoint),
			Impact: map[string]float64{
				"duplicateCount": float64(row.Documents),
				"wastedCost":     round2(row.Cost),
			},
			Recommendation: "Add request deduplication logic or short-term caching (5-10 seconds)",
		})
	}
	return out, nil
}

// 成功呼叫平均回應 >= 2 秒且 >= 10 次，慢的排前面
func (e *OptimizationEngine) detectSlowCalls(ctx context.Context, match core.EventMatch) ([]dto.SuggestionDto, error) {
	match.Status = core.EventStatusSuccess
	rows, err := e.events.Aggregate(ctx, core.GroupQuery{
		Match: match,
		By:    []core.GroupField{core.GroupByProvider, core.GroupByEndpoint},
	})
	if err != nil {
		return nil, err
	}
	rows = filterRows(rows, func(r core.GroupRow) bool {
		return r.AvgResponseTimeMs >= slowAvgResponseMs && r.Requests >= slowMinRequests
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AvgResponseTimeMs > rows[j].AvgResponseTimeMs })

	out := make([]dto.SuggestionDto, 0, len(rows))
	for _, row := range rows {
		seconds := row.AvgResponseTimeMs / float64(time.Second/time.Millisecond)
		out = append(out, dto.SuggestionDto{
			Type:     core.SuggestionPerformance,
			Priority: core.PriorityMedium,
			Provider: row.Key.Provider,
			Endpoint: row.Key.Endpoint,
			Title:    "Optimize Slow API Calls",
			Description: fmt.Sprintf("%s has average response time of %.2fs. Consider optimization.",
				row.Key.Endpoint, seconds),
			Impact: map[string]float64{
				"avgResponseTimeSec": round2(seconds),
				"callCount":          float64(row.Requests),
			},
			Recommendation: "Review request payload, use pagination, or implement async processing for heavy operations",
		})
	}
	return out, nil
}

type providerFeatureSeries struct {
	provider string
	feature  string
	rows     []core.GroupRow
}

// seriesByProviderFeature 依 (provider, feature) 分組，保持 provider / feature 的字典序
func seriesByProviderFeature(rows []core.GroupRow) []*providerFeatureSeries {
	index := make(map[[2]string]*providerFeatureSeries)
	ordered := make([]*providerFeatureSeries, 0)
	for _, row := range rows {
		key := [2]string{row.Key.Provider, row.Key.Feature}
		series, ok := index[key]
		if !ok {
			series = &providerFeatureSeries{provider: row.Key.Provider, feature: row.Key.Feature}
			index[key] = series
			ordered = append(ordered, series)
		}
		series.rows = append(series.rows, row)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].provider != ordered[j].provider {
			return ordered[i].provider < ordered[j].provider
		}
		return ordered[i].feature < ordered[j].feature
	})
	return ordered
}

func filterRows(rows []core.GroupRow, keep func(core.GroupRow) bool) []core.GroupRow {
	out := make([]core.GroupRow, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
