package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/client"
	fluentdRepo "costlens/internal/database/fluentd/repository"
	"costlens/internal/database/memory"
	"costlens/internal/database/mongodb/model"
	redisRepo "costlens/internal/database/redis/repository"
	"costlens/internal/handler"
	"costlens/internal/middleware"
	"costlens/internal/router"
	"costlens/internal/service"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

type envelope struct {
	RequestID   string          `json:"requestID"`
	Code        int             `json:"code"`
	Data        json.RawMessage `json:"data"`
	Message     string          `json:"message"`
	Description string          `json:"description"`
}

type server struct {
	engine  *gin.Engine
	events  *memory.EventStore
	pricing *memory.PricingStore
	budgets *memory.BudgetStore
	alerts  *memory.AlertStore
	health  *service.HealthService
	// readiness 的 mongodb 探針結果
	mongoErr error
}

func newServer(t *testing.T, ingest config.Ingest) *server {
	t.Helper()
	conf := &config.Configuration{
		App:    config.App{Env: "test", Name: "costlens"},
		Ingest: ingest,
	}
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	metric := telemetry.NewMetric(nil)
	logger := zap.NewNop()
	fake := clock.NewFake(fixedNow)
	logRepo := fluentdRepo.NewLogRepository(conf, &client.NoopClient{})

	redisClient := client.NewRedisClientFrom(nil, logger)
	if ingest.RateLimit > 0 {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		redisClient = client.NewRedisClientFrom(rdb, logger)
	}

	s := &server{
		events:  memory.NewEventStore(),
		pricing: memory.NewPricingStore(),
		budgets: memory.NewBudgetStore(),
		alerts:  memory.NewAlertStore(),
	}
	s.health = service.NewHealthService([]service.HealthProbe{{
		Name:  "mongodb",
		Check: func(context.Context) error { return s.mongoErr },
	}})
	calculator := service.NewCostCalculator(trace, logger, s.events, s.pricing)
	eventService := service.NewEventService(trace, metric, logger, fake, s.events, calculator, logRepo)
	reportService := service.NewReportService(trace, metric, logger, fake, s.events)
	detector := service.NewAnomalyDetector(conf, trace, metric, logger, fake, s.events, s.budgets, s.alerts, logRepo)
	engine := service.NewOptimizationEngine(conf, trace, metric, logger, fake, s.events)

	limiter := redisRepo.NewIngestLimiter(trace, redisClient)
	apiRouter := router.NewAPIRouter(
		middleware.NewRateLimit(logger, trace, metric, conf, limiter),
		middleware.NewDecompress(logger, trace, conf),
		handler.NewEventHandler(trace, eventService),
		handler.NewIngestQuotaHandler(trace, service.NewIngestQuotaService(conf, trace, logger, limiter)),
		handler.NewAnalyticsHandler(trace, reportService, eventService),
		handler.NewPricingHandler(trace, service.NewPricingService(trace, logger, fake, s.pricing)),
		handler.NewBudgetHandler(trace, service.NewBudgetService(trace, logger, fake, s.events, s.budgets)),
		handler.NewAlertHandler(trace, service.NewAlertService(trace, logger, fake, s.alerts, detector)),
		handler.NewOptimizationHandler(trace, engine),
	)
	s.engine = router.NewRouter(
		conf,
		middleware.NewTraceEntry(trace, metric, conf),
		middleware.NewRecovery(logger, trace, conf, logRepo),
		middleware.NewCors(trace, conf),
		middleware.NewLogger(logger, trace, conf, logRepo),
		middleware.NewResponse(logger, trace, conf, logRepo),
		router.NewHealthRouter(handler.NewHealthHandler(s.health)),
		apiRouter,
	)
	return s
}

func (s *server) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func chatEvent(count int64) gin.H {
	return gin.H{
		"provider":       "openai",
		"endpoint":       "/v1/chat/completions",
		"feature":        "chat",
		"requestCount":   count,
		"responseTimeMs": 320,
		"status":         "success",
		"requestBody":    gin.H{"b": 1, "a": 2},
	}
}

func TestLogEventCreatesBilledEvent(t *testing.T) {
	s := newServer(t, config.Ingest{})
	_, err := s.pricing.Create(context.Background(), &model.PricingRule{
		Provider:     "openai",
		CostPerUnit:  0.01,
		BillingCycle: core.BillingCycleMonthly,
		Currency:     "USD",
		IsActive:     true,
	})
	require.NoError(t, err)

	w, env := s.do(t, http.MethodPost, "/api/logs", chatEvent(5))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "Create Success", env.Description)

	var event map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, "openai", event["provider"])
	assert.InDelta(t, 0.05, event["calculatedCost"].(float64), 1e-9)
	assert.Equal(t, 1, s.events.Len())
}

func TestLogEventValidation(t *testing.T) {
	s := newServer(t, config.Ingest{})
	body := chatEvent(1)
	delete(body, "provider")

	w, env := s.do(t, http.MethodPost, "/api/logs", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotZero(t, env.Code)
	assert.Equal(t, 0, s.events.Len())
}

func TestBulkLogEvents(t *testing.T) {
	s := newServer(t, config.Ingest{})

	w, env := s.do(t, http.MethodPost, "/api/logs/bulk", gin.H{"logs": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotZero(t, env.Code)

	_, err := s.pricing.Create(context.Background(), &model.PricingRule{Provider: "openai", CostPerUnit: 0.002, IsActive: true})
	require.NoError(t, err)
	other := chatEvent(1)
	other["provider"] = "stripe"

	w, env = s.do(t, http.MethodPost, "/api/logs/bulk", gin.H{"logs": []gin.H{chatEvent(1), other}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result struct {
		Processed int `json:"processed"`
		Failed    int `json:"failed"`
		Errors    []struct {
			Index int    `json:"index"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Error, "stripe")
}

func TestBulkLogEventsCompressedBody(t *testing.T) {
	s := newServer(t, config.Ingest{})
	_, err := s.pricing.Create(context.Background(), &model.PricingRule{Provider: "openai", CostPerUnit: 0.002, IsActive: true})
	require.NoError(t, err)

	raw, err := json.Marshal(gin.H{"logs": []gin.H{chatEvent(1), chatEvent(2)}})
	require.NoError(t, err)

	writers := map[string]func(io.Writer) io.WriteCloser{
		"gzip": func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
		"br":   func(w io.Writer) io.WriteCloser { return brotli.NewWriter(w) },
	}
	for encoding, newWriter := range writers {
		var buf bytes.Buffer
		zw := newWriter(&buf)
		_, err := zw.Write(raw)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/logs/bulk", &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Content-Encoding", encoding)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code, "%s: %s", encoding, w.Body.String())
	}
	assert.Equal(t, 4, s.events.Len())

	req := httptest.NewRequest(http.MethodPost, "/api/logs", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "lz4")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, 41500, env.Code)
}

func TestAnalyticsLogsRoundTrip(t *testing.T) {
	s := newServer(t, config.Ingest{})
	for i := 0; i < 3; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := s.do(t, http.MethodGet, "/api/analytics/logs?limit=2&provider=openai", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
			Pages int64 `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Data, 2)
	assert.EqualValues(t, 3, list.Pagination.Total)
	assert.EqualValues(t, 2, list.Pagination.Pages)

	w, env = s.do(t, http.MethodGet, "/api/analytics/providers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var providers []string
	require.NoError(t, json.Unmarshal(env.Data, &providers))
	assert.Equal(t, []string{"openai"}, providers)
}

func TestDashboardRejectsBadDate(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodGet, "/api/analytics/dashboard?startDate=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/analytics/dashboard?startDate=2025-03-01&endDate=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dashboard map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &dashboard))
	assert.Contains(t, dashboard, "totalMetrics")
}

func TestCostTrendsRejectsUnknownPeriod(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodGet, "/api/analytics/cost-trends?period=yearly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingConflict(t *testing.T) {
	s := newServer(t, config.Ingest{})
	rule := gin.H{"provider": "openai", "costPerUnit": 0.01, "freeTierLimit": 100}

	w, env := s.do(t, http.MethodPost, "/api/pricing", rule)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "USD", created["currency"])

	w, _ = s.do(t, http.MethodPost, "/api/pricing", rule)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/pricing/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetUpdateSpend(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodPost, "/api/budgets", gin.H{"provider": "openai", "monthlyLimit": 50})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodPost, "/api/budgets/update-spend", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Period  string `json:"period"`
		Updated int    `json:"updated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "2025-03", result.Period)
	assert.Equal(t, 1, result.Updated)
}

func TestAlertLifecycle(t *testing.T) {
	s := newServer(t, config.Ingest{})
	alert, err := s.alerts.Create(context.Background(), &model.Alert{
		Type:      core.AlertTypeSpike,
		Severity:  core.SeverityHigh,
		Provider:  "openai",
		Title:     "Cost Spike Detected: openai",
		CreatedAt: fixedNow,
	})
	require.NoError(t, err)

	w, _ := s.do(t, http.MethodGet, "/api/alerts?isRead=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/alerts?isResolved=false", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var alerts []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &alerts))
	assert.Len(t, alerts, 1)

	w, env = s.do(t, http.MethodPut, "/api/alerts/"+alert.ID.Hex()+"/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resolved map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.Equal(t, true, resolved["isResolved"])
	assert.Equal(t, "system", resolved["resolvedBy"])

	w, _ = s.do(t, http.MethodDelete, "/api/alerts/"+alert.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPut, "/api/alerts/"+alert.ID.Hex()+"/read", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetectOnEmptyStore(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, env := s.do(t, http.MethodPost, "/api/alerts/detect", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.EqualValues(t, 0, report["total"])
}

func TestSuggestionsByType(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodGet, "/api/optimization/suggestions/magic", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/optimization/suggestions/caching?days=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.EqualValues(t, 3, result["days"])
}

func TestClearEventsRequiresOwner(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodDelete, "/api/logs", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestRateLimit(t *testing.T) {
	s := newServer(t, config.Ingest{RateLimit: 1, WindowSeconds: 60})

	w, _ := s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w, env := s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotZero(t, env.Code)
	assert.Equal(t, 1, s.events.Len())

	// 讀取路徑不受限
	w, _ = s.do(t, http.MethodGet, "/api/analytics/providers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIngestQuotaWindowAndReset(t *testing.T) {
	s := newServer(t, config.Ingest{RateLimit: 1, WindowSeconds: 60})

	w, _ := s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := s.do(t, http.MethodGet, "/api/logs/rate-limit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var quota struct {
		ClientIP       string `json:"clientIP"`
		Enabled        bool   `json:"enabled"`
		Used           int    `json:"used"`
		Remaining      int    `json:"remaining"`
		ResetInSeconds int64  `json:"resetInSeconds"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &quota))
	assert.Equal(t, "192.0.2.1", quota.ClientIP)
	assert.True(t, quota.Enabled)
	assert.Equal(t, 1, quota.Used)
	assert.Equal(t, 0, quota.Remaining)
	assert.Positive(t, quota.ResetInSeconds)

	w, _ = s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/logs/rate-limit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, "/api/logs", chatEvent(1))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodDelete, "/api/logs/rate-limit?ip=not-an-ip", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestQuotaDisabled(t *testing.T) {
	s := newServer(t, config.Ingest{})

	w, env := s.do(t, http.MethodGet, "/api/logs/rate-limit", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(env.Data), `"enabled":false`)
	assert.Contains(t, string(env.Data), `"windowSeconds":60`)
}

func TestHealthProbes(t *testing.T) {
	s := newServer(t, config.Ingest{})
	w, _ := s.do(t, http.MethodGet, "/health/liveness", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/health/readiness", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.health.SetReady(true)
	w, _ = s.do(t, http.MethodGet, "/health/readiness", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"mongodb","status":"up"`)

	s.mongoErr = errors.New("no reachable servers")
	w, _ = s.do(t, http.MethodGet, "/health/readiness", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no reachable servers")
}
