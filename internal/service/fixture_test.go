package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"costlens/config"
	"costlens/internal/core"
	fluentdModel "costlens/internal/database/fluentd/model"
	"costlens/internal/database/memory"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store unavailable")

// 2025-03-15 12:00:00 UTC（星期六）
var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

type recordingAudit struct {
	mu     sync.Mutex
	usages []fluentdModel.CostUsageLog
	alerts []fluentdModel.AlertLog
}

func (a *recordingAudit) LogUsage(ctx context.Context, usage fluentdModel.CostUsageLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.usages = append(a.usages, usage)
	return nil
}

func (a *recordingAudit) LogAlert(ctx context.Context, alert fluentdModel.AlertLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alert)
	return nil
}

// failingEvents 彙總查詢一律失敗，其餘照常
type failingEvents struct {
	*memory.EventStore
}

func (f failingEvents) Aggregate(ctx context.Context, query core.GroupQuery) ([]core.GroupRow, error) {
	return nil, errStoreDown
}

type fixture struct {
	conf    *config.Configuration
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	logger  *zap.Logger
	clock   *clock.Fake
	events  *memory.EventStore
	pricing *memory.PricingStore
	budgets *memory.BudgetStore
	alerts  *memory.AlertStore
	audit   *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	return &fixture{
		conf:    &config.Configuration{},
		trace:   trace,
		metric:  telemetry.NewMetric(nil),
		logger:  zap.NewNop(),
		clock:   clock.NewFake(fixedNow),
		events:  memory.NewEventStore(),
		pricing: memory.NewPricingStore(),
		budgets: memory.NewBudgetStore(),
		alerts:  memory.NewAlertStore(),
		audit:   &recordingAudit{},
	}
}

func (f *fixture) calculator(events service.EventStore) *service.CostCalculator {
	return service.NewCostCalculator(f.trace, f.logger, events, f.pricing)
}

func (f *fixture) eventService() *service.EventService {
	return service.NewEventService(f.trace, f.metric, f.logger, f.clock, f.events, f.calculator(f.events), f.audit)
}

func (f *fixture) reportService(events service.EventStore) *service.ReportService {
	return service.NewReportService(f.trace, f.metric, f.logger, f.clock, events)
}

func (f *fixture) detector(events service.EventStore) *service.AnomalyDetector {
	return service.NewAnomalyDetector(f.conf, f.trace, f.metric, f.logger, f.clock, events, f.budgets, f.alerts, f.audit)
}

func (f *fixture) optimizer(events service.EventStore) *service.OptimizationEngine {
	return service.NewOptimizationEngine(f.conf, f.trace, f.metric, f.logger, f.clock, events)
}

func (f *fixture) pricingService() *service.PricingService {
	return service.NewPricingService(f.trace, f.logger, f.clock, f.pricing)
}

func (f *fixture) budgetService() *service.BudgetService {
	return service.NewBudgetService(f.trace, f.logger, f.clock, f.events, f.budgets)
}

func (f *fixture) alertService() *service.AlertService {
	return service.NewAlertService(f.trace, f.logger, f.clock, f.alerts, f.detector(f.events))
}

func (f *fixture) addRule(t *testing.T, rule model.PricingRule) *model.PricingRule {
	t.Helper()
	rule.IsActive = true
	created, err := f.pricing.Create(context.Background(), &rule)
	require.NoError(t, err)
	return created
}

// seed 直接寫入事件；未指定時預設 success、requestCount 1
func (f *fixture) seed(t *testing.T, events ...model.Event) {
	t.Helper()
	for i := range events {
		e := events[i]
		if e.Status == "" {
			e.Status = core.EventStatusSuccess
		}
		if e.RequestCount == 0 {
			e.RequestCount = 1
		}
		if e.Endpoint == "" {
			e.Endpoint = "/v1/default"
		}
		if e.Feature == "" {
			e.Feature = "default"
		}
		_, err := f.events.Insert(context.Background(), &e)
		require.NoError(t, err)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }
