package service_test

import (
	"context"
	"testing"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_Caching(t *testing.T) {
	f := newFixture(t)
	f.seed(t,
		model.Event{Provider: "maps", Endpoint: "/geocode", Feature: "checkout", RequestCount: 80, CalculatedCost: 4, Timestamp: fixedNow.Add(-24 * time.Hour)},
		model.Event{Provider: "maps", Endpoint: "/geocode", Feature: "checkout", RequestCount: 40, CalculatedCost: 2, Timestamp: fixedNow.Add(-2 * time.Hour)},
		// 失敗的不計入
		model.Event{Provider: "maps", Endpoint: "/route", Feature: "checkout", RequestCount: 500, Status: core.EventStatusFailure, Timestamp: fixedNow.Add(-time.Hour)},
		// 超出 7 天
		model.Event{Provider: "maps", Endpoint: "/tiles", Feature: "checkout", RequestCount: 500, Timestamp: fixedNow.AddDate(0, 0, -8)},
	)

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionCaching, 0)
	assert.Equal(t, 7, result.Days)
	require.Equal(t, 1, result.Count)
	s := result.Data[0]
	assert.Equal(t, core.PriorityHigh, s.Priority)
	assert.Equal(t, "/geocode", s.Endpoint)
	assert.Equal(t, "Implement Caching Strategy", s.Title)
	assert.Equal(t, "maps - /geocode is called 120 times. Implement Redis/in-memory caching to reduce API calls by 70%.", s.Description)
	assert.Equal(t, 120.0, s.Impact["currentCalls"])
	assert.Equal(t, 84.0, s.Impact["estimatedReduction"])
	assert.InDelta(t, 4.2, s.Impact["potentialSavings"], 1e-9)
	assert.Len(t, result.Grouped.High, 1)
}

func TestSuggestions_CachingTopFive(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.seed(t, model.Event{
			Provider: "maps", Endpoint: "/e" + string(rune('a'+i)), Feature: "f",
			RequestCount: int64(100 + i), Timestamp: fixedNow.Add(-time.Hour),
		})
	}

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionCaching, 7)
	require.Len(t, result.Data, 5)
	assert.Equal(t, "/eg", result.Data[0].Endpoint)
	assert.Equal(t, "/ec", result.Data[4].Endpoint)
}

func TestSuggestions_RateLimiting(t *testing.T) {
	f := newFixture(t)
	for h := 1; h <= 6; h++ {
		f.seed(t, model.Event{Provider: "openai", Feature: "reports", Timestamp: fixedNow.Add(-time.Duration(h) * time.Hour)})
	}
	f.seed(t, model.Event{Provider: "openai", Feature: "reports", RequestCount: 30, Timestamp: fixedNow.Add(-10 * time.Hour)})
	// 平穩的流量不提示
	for h := 1; h <= 6; h++ {
		f.seed(t, model.Event{Provider: "openai", Feature: "steady", RequestCount: 4, Timestamp: fixedNow.Add(-time.Duration(h) * time.Hour)})
	}

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionRateLimiting, 7)
	require.Len(t, result.Data, 1)
	s := result.Data[0]
	assert.Equal(t, "reports", s.Feature)
	assert.Equal(t, core.PriorityMedium, s.Priority)
	assert.Equal(t, 5.0, s.Impact["avgHourly"])
	assert.Equal(t, 30.0, s.Impact["maxHourly"])
	assert.InDelta(t, 5.83, s.Impact["ratio"], 1e-9)
	assert.Equal(t, "reports shows bursty API usage patterns. Peak usage is 5.8x the average.", s.Description)
}

func TestSuggestions_Batching(t *testing.T) {
	f := newFixture(t)
	for m := 0; m < 5; m++ {
		f.seed(t, model.Event{Provider: "sms", Feature: "notify", RequestCount: 12, Timestamp: fixedNow.Add(-time.Duration(m*10) * time.Minute)})
	}
	// 只有 4 個密集分鐘
	for m := 0; m < 4; m++ {
		f.seed(t, model.Event{Provider: "sms", Feature: "otp", RequestCount: 50, Timestamp: fixedNow.Add(-time.Duration(m*10) * time.Minute)})
	}

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionBatching, 7)
	require.Len(t, result.Data, 1)
	s := result.Data[0]
	assert.Equal(t, "notify", s.Feature)
	assert.Equal(t, core.PriorityHigh, s.Priority)
	assert.Equal(t, 12.0, s.Impact["avgCallsPerMinute"])
	assert.Equal(t, 12.0, s.Impact["estimatedBatchSize"])
	assert.Equal(t, 90.0, s.Impact["potentialReductionPct"])
}

func TestSuggestions_BatchSizeCapped(t *testing.T) {
	f := newFixture(t)
	for m := 0; m < 5; m++ {
		f.seed(t, model.Event{Provider: "sms", Feature: "blast", RequestCount: 250, Timestamp: fixedNow.Add(-time.Duration(m) * time.Minute)})
	}

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionBatching, 7)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 250.0, result.Data[0].Impact["avgCallsPerMinute"])
	assert.Equal(t, 100.0, result.Data[0].Impact["estimatedBatchSize"])
}

func TestSuggestions_DuplicateRemoval(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.seed(t,
			model.Event{Provider: "openai", Endpoint: "/v1/embeddings", Feature: "search", RequestFingerprint: "abc",
				CalculatedCost: 0.5, Timestamp: fixedNow.Add(-time.Duration(i) * time.Hour)},
			// 沒有 body 的呼叫無法判斷重複
			model.Event{Provider: "openai", Endpoint: "/v1/models", Feature: "search", Timestamp: fixedNow.Add(-time.Duration(i) * time.Hour)},
		)
	}
	f.seed(t, model.Event{Provider: "openai", Endpoint: "/v1/embeddings", Feature: "search", RequestFingerprint: "other", Timestamp: fixedNow})

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionDuplicateRemoval, 7)
	require.Len(t, result.Data, 1)
	s := result.Data[0]
	assert.Equal(t, "/v1/embeddings", s.Endpoint)
	assert.Equal(t, 3.0, s.Impact["duplicateCount"])
	assert.InDelta(t, 1.5, s.Impact["wastedCost"], 1e-9)
	assert.Equal(t, "Identical requests detected 3 times for /v1/embeddings. Implement request deduplication.", s.Description)
}

func TestSuggestions_Performance(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 10; i++ {
		f.seed(t,
			model.Event{Provider: "ocr", Endpoint: "/scan", ResponseTimeMs: 2500, Timestamp: fixedNow.Add(-time.Duration(i) * time.Minute)},
			model.Event{Provider: "ocr", Endpoint: "/deep-scan", ResponseTimeMs: 4000, Timestamp: fixedNow.Add(-time.Duration(i) * time.Minute)},
			model.Event{Provider: "ocr", Endpoint: "/fast", ResponseTimeMs: 1999, Timestamp: fixedNow.Add(-time.Duration(i) * time.Minute)},
		)
	}
	// 樣本不足
	f.seed(t, model.Event{Provider: "ocr", Endpoint: "/rare", ResponseTimeMs: 9000, RequestCount: 9, Timestamp: fixedNow})

	result := f.optimizer(f.events).SuggestionsByType(context.Background(), core.SuggestionPerformance, 7)
	require.Len(t, result.Data, 2)
	assert.Equal(t, "/deep-scan", result.Data[0].Endpoint)
	assert.Equal(t, 4.0, result.Data[0].Impact["avgResponseTimeSec"])
	assert.Equal(t, "/scan", result.Data[1].Endpoint)
	assert.Equal(t, "/scan has average response time of 2.50s. Consider optimization.", result.Data[1].Description)
}

func TestSuggestions_AllDetectorsAndGrouping(t *testing.T) {
	f := newFixture(t)
	f.seed(t, model.Event{Provider: "maps", Endpoint: "/geocode", Feature: "checkout", RequestCount: 150, Timestamp: fixedNow.Add(-time.Hour)})
	for i := 0; i < 10; i++ {
		f.seed(t, model.Event{Provider: "ocr", Endpoint: "/scan", Feature: "kyc", ResponseTimeMs: 3000, Timestamp: fixedNow.Add(-time.Duration(i) * time.Hour)})
	}

	result := f.optimizer(f.events).Suggestions(context.Background(), 7)
	assert.Equal(t, result.Count, len(result.Data))
	assert.Len(t, result.Grouped.High, 1)
	assert.Len(t, result.Grouped.Medium, 1)
	assert.Empty(t, result.Grouped.Low)
}

func TestSuggestions_StoreFailureYieldsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seed(t, model.Event{Provider: "maps", Endpoint: "/geocode", Feature: "checkout", RequestCount: 150, Timestamp: fixedNow})

	result := f.optimizer(failingEvents{f.events}).Suggestions(context.Background(), 7)
	assert.Zero(t, result.Count)
	assert.NotNil(t, result.Data)
	assert.NotNil(t, result.Grouped.High)
}
