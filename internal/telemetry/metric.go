package telemetry

import (
	"costlens/config"
	"costlens/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct；未啟用時所有欄位為 nil，輔助方法皆可安全呼叫
type Metric struct {
	HttpRequestsTotal      *prometheus.CounterVec
	HttpRequestDuration    *prometheus.HistogramVec
	EventsLoggedTotal      *prometheus.CounterVec
	EventCostTotal         *prometheus.CounterVec
	AlertsCreatedTotal     *prometheus.CounterVec
	AnalyticsFailuresTotal *prometheus.CounterVec
	RateLimitedTotal       *prometheus.CounterVec
	config                 *config.Configuration
}

// NewMetric 建立所有指標
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received API requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "API request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		EventsLoggedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricEventsLoggedTotal),
				Help: "Usage events persisted",
			},
			labelNames(core.MetricLabelProvider, core.MetricLabelStatus),
		),
		EventCostTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricEventCostTotal),
				Help: "Sum of calculated event cost",
			},
			labelNames(core.MetricLabelProvider, core.MetricLabelMode),
		),
		AlertsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricAlertsCreatedTotal),
				Help: "Alerts created by anomaly checks",
			},
			labelNames(core.MetricLabelType, core.MetricLabelSeverity),
		),
		AnalyticsFailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricAnalyticsFailuresTotal),
				Help: "Degraded analytics sub-checks",
			},
			labelNames(core.MetricLabelCheck),
		),
		RateLimitedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricRateLimitTotal),
				Help: "Ingest requests rejected by the rate limiter",
			},
			labelNames(core.MetricLabelReason),
		),
	}
}

func (m *Metric) ObserveEvent(provider, status, mode string, cost float64) {
	if m == nil || m.EventsLoggedTotal == nil {
		return
	}
	m.EventsLoggedTotal.WithLabelValues(provider, status).Inc()
	if cost > 0 {
		m.EventCostTotal.WithLabelValues(provider, mode).Add(cost)
	}
}

func (m *Metric) ObserveAlert(alertType, severity string) {
	if m == nil || m.AlertsCreatedTotal == nil {
		return
	}
	m.AlertsCreatedTotal.WithLabelValues(alertType, severity).Inc()
}

func (m *Metric) ObserveAnalyticsFailure(check string) {
	if m == nil || m.AnalyticsFailuresTotal == nil {
		return
	}
	m.AnalyticsFailuresTotal.WithLabelValues(check).Inc()
}

func (m *Metric) ObserveRateLimited(reason string) {
	if m == nil || m.RateLimitedTotal == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(reason).Inc()
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
