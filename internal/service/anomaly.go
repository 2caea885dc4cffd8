package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"costlens/config"
	"costlens/internal/core"
	fluentdModel "costlens/internal/database/fluentd/model"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"go.uber.org/zap"
)

const (
	spikeCriticalRatio    = 5.0
	spikeBaselineHours    = 23
	errorRateThreshold    = 20.0
	errorRateCritical     = 50.0
	errorRateMinRequests  = 10
	budgetCriticalPercent = 100.0
	budgetHighPercent     = 90.0
)

// AnomalyDetector 排程與 API 共用同一個 detector；每個檢查各自吞掉錯誤，不影響其它檢查
type AnomalyDetector struct {
	trace          *telemetry.Trace
	metric         *telemetry.Metric
	logger         *zap.Logger
	clock          clock.Clock
	events         EventStore
	budgets        BudgetStore
	alerts         AlertStore
	audit          AuditLogger
	spikeThreshold float64

	// 查重與建立必須一起完成，排程重疊時才不會各自建立一筆
	raiseMu sync.Mutex
}

func NewAnomalyDetector(
	conf *config.Configuration,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	clock clock.Clock,
	events EventStore,
	budgets BudgetStore,
	alerts AlertStore,
	audit AuditLogger,
) *AnomalyDetector {
	return &AnomalyDetector{
		trace:          trace,
		metric:         metric,
		logger:         logger,
		clock:          clock,
		events:         events,
		budgets:        budgets,
		alerts:         alerts,
		audit:          audit,
		spikeThreshold: conf.Analytics.SpikeThresholdOrDefault(),
	}
}

// RunAllChecks 跑一輪 spike / budget / error rate 檢查，回傳本輪新建立的告警
func (d *AnomalyDetector) RunAllChecks(ctx context.Context) dto.AnomalyReportDto {
	ctx, span, end := d.trace.WithSpan(ctx)
	defer end(nil)

	now := core.NormalizeTime(d.clock.Now())
	report := dto.AnomalyReportDto{
		SpikeAlerts:  d.CheckSpikes(ctx, now),
		BudgetAlerts: d.CheckBudgets(ctx, now),
		ErrorAlerts:  d.CheckErrorRates(ctx, now),
	}
	report.Total = len(report.SpikeAlerts) + len(report.BudgetAlerts) + len(report.ErrorAlerts)

	d.trace.ApplyTraceAttributes(span, core.TraceAnomalyRunMeta{
		Now:          now.Format(time.RFC3339),
		SpikeAlerts:  len(report.SpikeAlerts),
		BudgetAlerts: len(report.BudgetAlerts),
		ErrorAlerts:  len(report.ErrorAlerts),
		Total:        report.Total,
	})
	if report.Total > 0 {
		d.logger.Info("anomaly checks created alerts",
			zap.Int("spikes", len(report.SpikeAlerts)),
			zap.Int("budgets", len(report.BudgetAlerts)),
			zap.Int("errors", len(report.ErrorAlerts)))
	}
	return report
}

// CheckSpikes 最近 1 小時的請求數 vs 前 23 小時的平均
func (d *AnomalyDetector) CheckSpikes(ctx context.Context, now time.Time) []*model.Alert {
	created := make([]*model.Alert, 0)
	hourAgo := now.Add(-time.Hour)

	current, err := d.requestsByProvider(ctx, core.EventMatch{From: hourAgo})
	if err != nil {
		d.checkFailed("spike", err)
		return created
	}
	past, err := d.requestsByProvider(ctx, core.EventMatch{From: now.Add(-24 * time.Hour), To: hourAgo})
	if err != nil {
		d.checkFailed("spike", err)
		return created
	}

	for _, provider := range sortedProviders(current) {
		pastRequests := past[provider].Requests
		if pastRequests <= 0 {
			continue
		}
		currentRequests := current[provider].Requests
		avgHourly := float64(pastRequests) / spikeBaselineHours
		ratio := float64(currentRequests) / avgHourly
		if ratio < d.spikeThreshold {
			continue
		}

		severity := core.SeverityHigh
		if ratio >= spikeCriticalRatio {
			severity = core.SeverityCritical
		}
		percent := int64(math.Round((ratio - 1) * 100))
		alert := &model.Alert{
			Type:     core.AlertTypeSpike,
			Severity: severity,
			Provider: provider,
			Title:    fmt.Sprintf("%s Usage Spike Detected", provider),
			Message: fmt.Sprintf("%s API usage increased by %d%% in the last hour (%d requests vs avg %.0f)",
				provider, percent, currentRequests, avgHourly),
			Metadata: map[string]any{
				"currentHourRequests": currentRequests,
				"avgHourlyRequests":   round2(avgHourly),
				"increaseRatio":       round2(ratio),
			},
		}
		lookup := core.AlertLookup{Type: core.AlertTypeSpike, Provider: provider, CreatedSince: hourAgo}
		if a, err := d.raise(ctx, "spike", lookup, alert, now); err != nil {
			d.checkFailed("spike", err)
		} else if a != nil {
			created = append(created, a)
		}
	}
	return created
}

// CheckBudgets 只讀取最近一次 recompute 的 currentSpend，不在這裡重算
func (d *AnomalyDetector) CheckBudgets(ctx context.Context, now time.Time) []*model.Alert {
	created := make([]*model.Alert, 0)
	period := core.PeriodOf(now)

	budgets, err := d.budgets.ListActiveForPeriod(ctx, period)
	if err != nil {
		d.checkFailed("budget", err)
		return created
	}
	sort.SliceStable(budgets, func(i, j int) bool { return budgets[i].Provider < budgets[j].Provider })

	for _, budget := range budgets {
		if budget.MonthlyLimit <= 0 {
			continue
		}
		percentage := budget.CurrentSpend / budget.MonthlyLimit * 100
		if percentage < budget.AlertThreshold {
			continue
		}

		severity := core.SeverityMedium
		switch {
		case percentage >= budgetCriticalPercent:
			severity = core.SeverityCritical
		case percentage >= budgetHighPercent:
			severity = core.SeverityHigh
		}
		alert := &model.Alert{
			Type:     core.AlertTypeBudget,
			Severity: severity,
			Provider: budget.Provider,
			Title:    fmt.Sprintf("Budget Alert: %s", budget.Provider),
			Message: fmt.Sprintf("%s has used %.1f%% of monthly budget ($%.2f / $%.2f)",
				budget.Provider, percentage, budget.CurrentSpend, budget.MonthlyLimit),
			Metadata: map[string]any{
				"currentSpend":       budget.CurrentSpend,
				"monthlyLimit":       budget.MonthlyLimit,
				"percentage":         round2(percentage),
				model.MetadataPeriod: period,
			},
		}
		lookup := core.AlertLookup{Type: core.AlertTypeBudget, Provider: budget.Provider, Period: period}
		if a, err := d.raise(ctx, "budget", lookup, alert, now); err != nil {
			d.checkFailed("budget", err)
		} else if a != nil {
			created = append(created, a)
		}
	}
	return created
}

// CheckErrorRates 最近 1 小時，非 success 皆視為失敗
func (d *AnomalyDetector) CheckErrorRates(ctx context.Context, now time.Time) []*model.Alert {
	created := make([]*model.Alert, 0)
	hourAgo := now.Add(-time.Hour)

	stats, err := d.requestsByProvider(ctx, core.EventMatch{From: hourAgo})
	if err != nil {
		d.checkFailed("error_rate", err)
		return created
	}

	for _, provider := range sortedProviders(stats) {
		row := stats[provider]
		if row.Requests < errorRateMinRequests {
			continue
		}
		errorRate := float64(row.FailedRequests) / float64(row.Requests) * 100
		if errorRate < errorRateThreshold {
			continue
		}

		severity := core.SeverityHigh
		if errorRate >= errorRateCritical {
			severity = core.SeverityCritical
		}
		alert := &model.Alert{
			Type:     core.AlertTypeError,
			Severity: severity,
			Provider: provider,
			Title:    fmt.Sprintf("High Error Rate: %s", provider),
			Message: fmt.Sprintf("%s API has %.1f%% error rate (%d/%d requests failed)",
				provider, errorRate, row.FailedRequests, row.Requests),
			Metadata: map[string]any{
				"totalRequests":  row.Requests,
				"failedRequests": row.FailedRequests,
				"errorRate":      round2(errorRate),
			},
		}
		lookup := core.AlertLookup{Type: core.AlertTypeError, Provider: provider, CreatedSince: hourAgo}
		if a, err := d.raise(ctx, "error_rate", lookup, alert, now); err != nil {
			d.checkFailed("error_rate", err)
		} else if a != nil {
			created = append(created, a)
		}
	}
	return created
}

// raise 已有相同的未解決告警時回傳 nil, nil
func (d *AnomalyDetector) raise(ctx context.Context, check string, lookup core.AlertLookup, alert *model.Alert, now time.Time) (*model.Alert, error) {
	d.raiseMu.Lock()
	defer d.raiseMu.Unlock()

	existing, err := d.alerts.FindUnresolved(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		d.logger.Debug("alert suppressed by unresolved duplicate",
			zap.String("check", check),
			zap.String("provider", alert.Provider),
			zap.String("existing", existing.ID.Hex()))
		return nil, nil
	}

	alert.CreatedAt = now
	created, err := d.alerts.Create(ctx, alert)
	if err != nil {
		return nil, err
	}
	d.metric.ObserveAlert(string(created.Type), string(created.Severity))
	if d.audit != nil {
		record := fluentdModel.AlertLog{
			AlertID:  created.ID.Hex(),
			Type:     string(created.Type),
			Severity: string(created.Severity),
			Provider: created.Provider,
			Title:    created.Title,
			Message:  created.Message,
			Metadata: created.Metadata,
		}
		if err := d.audit.LogAlert(ctx, record); err != nil {
			d.logger.Warn("failed to ship alert audit record", zap.String("alertID", record.AlertID), zap.Error(err))
		}
	}
	return created, nil
}

func (d *AnomalyDetector) requestsByProvider(ctx context.Context, match core.EventMatch) (map[string]core.GroupRow, error) {
	rows, err := d.events.Aggregate(ctx, core.GroupQuery{Match: match, By: []core.GroupField{core.GroupByProvider}})
	if err != nil {
		return nil, err
	}
	out := make(map[string]core.GroupRow, len(rows))
	for _, row := range rows {
		out[row.Key.Provider] = row
	}
	return out, nil
}

func (d *AnomalyDetector) checkFailed(check string, err error) {
	d.metric.ObserveAnalyticsFailure(check)
	d.logger.Error("anomaly check failed", zap.String("check", check), zap.Error(err))
}

func sortedProviders(rows map[string]core.GroupRow) []string {
	providers := make([]string, 0, len(rows))
	for provider := range rows {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
