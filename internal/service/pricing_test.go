package service_test

import (
	"context"
	"net/http"
	"testing"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateTiers(t *testing.T) {
	cases := []struct {
		name  string
		tiers []model.PricingTier
		ok    bool
	}{
		{"empty", nil, true},
		{"sorted", []model.PricingTier{{From: 0, To: int64Ptr(999), CostPerUnit: 0.01}, {From: 1000, CostPerUnit: 0.005}}, true},
		{"unsorted input", []model.PricingTier{{From: 1000, CostPerUnit: 0.005}, {From: 0, To: int64Ptr(999), CostPerUnit: 0.01}}, true},
		{"overlap", []model.PricingTier{{From: 0, To: int64Ptr(1000), CostPerUnit: 0.01}, {From: 1000, CostPerUnit: 0.005}}, false},
		{"unbounded in the middle", []model.PricingTier{{From: 0, CostPerUnit: 0.01}, {From: 1000, CostPerUnit: 0.005}}, false},
		{"to before from", []model.PricingTier{{From: 10, To: int64Ptr(5), CostPerUnit: 0.01}}, false},
		{"negative from", []model.PricingTier{{From: -1, CostPerUnit: 0.01}}, false},
		{"negative rate", []model.PricingTier{{From: 0, CostPerUnit: -0.01}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateTiers(tc.tiers)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, cErr.INVALID_PRICING_TIERS, err.(*cErr.Error).ErrorCode())
		})
	}
}

func TestPricingService_CreateDefaultsAndConflict(t *testing.T) {
	f := newFixture(t)
	svc := f.pricingService()
	ctx := context.Background()

	rule, err := svc.Create(ctx, &dto.CreatePricingRuleDto{
		Provider:    "twilio",
		CostPerUnit: 0.0079,
		TierPricing: []dto.PricingTierDto{
			{From: 1000, CostPerUnit: 0.005},
			{From: 0, To: int64Ptr(999), CostPerUnit: 0.01},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", rule.Currency)
	assert.Equal(t, core.BillingCycleMonthly, rule.BillingCycle)
	assert.True(t, rule.IsActive)
	assert.Equal(t, int64(0), rule.TierPricing[0].From)

	_, err = svc.Create(ctx, &dto.CreatePricingRuleDto{Provider: "twilio", CostPerUnit: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*cErr.Error).HttpCode())

	_, err = svc.Create(ctx, &dto.CreatePricingRuleDto{
		Provider:    "vonage",
		TierPricing: []dto.PricingTierDto{{From: 0, To: int64Ptr(10)}, {From: 5, To: int64Ptr(20)}},
	})
	require.Error(t, err)
	assert.Equal(t, cErr.INVALID_PRICING_TIERS, err.(*cErr.Error).ErrorCode())

	_, err = svc.Create(ctx, &dto.CreatePricingRuleDto{CostPerUnit: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*cErr.Error).HttpCode())
}

func TestPricingService_UpdateGetListDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.pricingService()
	ctx := context.Background()

	rule, err := svc.Create(ctx, &dto.CreatePricingRuleDto{Provider: "openai", CostPerUnit: 0.002, Description: "chat"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreatePricingRuleDto{Provider: "anthropic", CostPerUnit: 0.003})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, rule.ID, &dto.UpdatePricingRuleDto{
		InputCostPer1K: float64Ptr(0.01),
		IsActive:       boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "chat", updated.Description)
	assert.Equal(t, 0.002, updated.CostPerUnit)
	assert.Equal(t, 0.01, updated.InputCostPer1K)
	assert.False(t, updated.IsActive)

	active, err := f.pricing.FindActive(ctx, "openai")
	require.NoError(t, err)
	assert.Nil(t, active)

	rename := "anthropic"
	_, err = svc.Update(ctx, rule.ID, &dto.UpdatePricingRuleDto{Provider: &rename})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*cErr.Error).HttpCode())

	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "anthropic", rules[0].Provider)

	require.NoError(t, svc.Delete(ctx, rule.ID))
	_, err = svc.Get(ctx, rule.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*cErr.Error).HttpCode())

	_, err = svc.Update(ctx, primitive.NewObjectID(), &dto.UpdatePricingRuleDto{})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, err.(*cErr.Error).HttpCode())
}
