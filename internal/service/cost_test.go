package service_test

import (
	"context"
	"testing"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCost_TieredPricing(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, model.PricingRule{
		Provider: "twilio",
		TierPricing: []model.PricingTier{
			{From: 1000, To: nil, CostPerUnit: 0.005},
			{From: 0, To: int64Ptr(999), CostPerUnit: 0.01},
		},
	})

	cost, err := f.calculator(f.events).CalculateCost(context.Background(), "twilio", 1500, fixedNow)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(12.5).Equal(cost), "got %s", cost)
}

func TestQuote_FreeTierExhaustion(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, model.PricingRule{Provider: "sendgrid", FreeTierLimit: 1000, CostPerUnit: 0.002})
	f.seed(t,
		model.Event{Provider: "sendgrid", RequestCount: 500, Timestamp: fixedNow.Add(-48 * time.Hour)},
		model.Event{Provider: "sendgrid", RequestCount: 300, Status: core.EventStatusFailure, Timestamp: fixedNow.Add(-time.Hour)},
		// 上個月與其它 provider 不計入
		model.Event{Provider: "sendgrid", RequestCount: 5000, Timestamp: time.Date(2025, time.February, 28, 23, 0, 0, 0, time.UTC)},
		model.Event{Provider: "stripe", RequestCount: 5000, Timestamp: fixedNow.Add(-time.Hour)},
	)

	quote, err := f.calculator(f.events).Quote(context.Background(), service.CostInput{Provider: "sendgrid", RequestCount: 500}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, core.BillingModeRequest, quote.Mode)
	assert.Equal(t, int64(800), quote.MonthUsage)
	assert.Equal(t, int64(200), quote.RemainingFree)
	assert.Equal(t, int64(300), quote.Billable)
	assert.True(t, decimal.NewFromFloat(0.6).Equal(quote.Cost), "got %s", quote.Cost)
}

func TestQuote_NoRuleIsUnbilled(t *testing.T) {
	f := newFixture(t)

	quote, err := f.calculator(f.events).Quote(context.Background(), service.CostInput{Provider: "unknown", RequestCount: 10}, fixedNow)
	require.NoError(t, err)
	assert.True(t, quote.Cost.IsZero())
	assert.Equal(t, core.BillingModeUnbilled, quote.Mode)
	assert.Nil(t, quote.Rule)
}

func TestQuote_TokenMode(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, model.PricingRule{Provider: "openai", CostPerUnit: 1, InputCostPer1K: 0.03, OutputCostPer1K: 0.06})
	calc := f.calculator(f.events)

	quote, err := calc.Quote(context.Background(), service.CostInput{
		Provider: "openai", RequestCount: 1, InputTokens: 1000, OutputTokens: 500,
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, core.BillingModeToken, quote.Mode)
	assert.True(t, decimal.NewFromFloat(0.06).Equal(quote.Cost), "got %s", quote.Cost)

	// 沒有 token 時回到 request 計費
	quote, err = calc.Quote(context.Background(), service.CostInput{Provider: "openai", RequestCount: 2}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, core.BillingModeRequest, quote.Mode)
	assert.True(t, decimal.NewFromInt(2).Equal(quote.Cost))
}

func TestQuote_RoundsToSixDecimals(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, model.PricingRule{Provider: "maps", CostPerUnit: 0.0000001234})

	cost, err := f.calculator(f.events).CalculateCost(context.Background(), "maps", 7, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "0.000001", cost.String())
}

// 兩個並行請求在寫入前讀到相同用量，都以為仍在免費額度內
func TestQuote_ConcurrentWritesShareFreeTier(t *testing.T) {
	f := newFixture(t)
	f.addRule(t, model.PricingRule{Provider: "sms", FreeTierLimit: 1000, CostPerUnit: 0.01})
	f.seed(t, model.Event{Provider: "sms", RequestCount: 900, Timestamp: fixedNow.Add(-time.Hour)})
	calc := f.calculator(f.events)
	in := service.CostInput{Provider: "sms", RequestCount: 100}

	first, err := calc.Quote(context.Background(), in, fixedNow)
	require.NoError(t, err)
	second, err := calc.Quote(context.Background(), in, fixedNow)
	require.NoError(t, err)

	assert.True(t, first.Cost.IsZero())
	assert.True(t, second.Cost.IsZero())
	assert.Equal(t, first.MonthUsage, second.MonthUsage)
}

func TestTierCost(t *testing.T) {
	tiers := []model.PricingTier{
		{From: 0, To: int64Ptr(99), CostPerUnit: 0.1},
		{From: 100, To: int64Ptr(199), CostPerUnit: 0.05},
		{From: 200, To: nil, CostPerUnit: 0.01},
	}
	cases := []struct {
		name     string
		billable int64
		want     string
	}{
		{"first tier only", 50, "5"},
		{"exactly first tier", 100, "10"},
		{"spans two tiers", 150, "12.5"},
		{"into unbounded tier", 1200, "25"},
		{"zero", 0, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, service.TierCost(tc.billable, tiers).String())
		})
	}
}

func TestTierCost_BoundedTableStopsAtLastTier(t *testing.T) {
	tiers := []model.PricingTier{{From: 0, To: int64Ptr(9), CostPerUnit: 1}}
	assert.Equal(t, "10", service.TierCost(25, tiers).String())
}
