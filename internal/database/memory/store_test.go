package memory_test

import (
	"context"
	"testing"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/memory"
	"costlens/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingStore_UniqueProviderAndCopies(t *testing.T) {
	store := memory.NewPricingStore()
	ctx := context.Background()
	to := int64(1000)

	created, err := store.Create(ctx, &model.PricingRule{
		Provider: "openai", IsActive: true,
		TierPricing: []model.PricingTier{{From: 0, To: &to, CostPerUnit: 0.01}},
	})
	require.NoError(t, err)

	_, err = store.Create(ctx, &model.PricingRule{Provider: "openai"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	created.TierPricing[0].CostPerUnit = 99
	active, err := store.FindActive(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, 0.01, active.TierPricing[0].CostPerUnit)

	missing, err := store.FindActive(ctx, "stripe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPricingStore_InactiveRuleIsNotActive(t *testing.T) {
	store := memory.NewPricingStore()
	ctx := context.Background()

	rule, err := store.Create(ctx, &model.PricingRule{Provider: "openai", IsActive: true})
	require.NoError(t, err)
	rule.IsActive = false
	require.NoError(t, store.Update(ctx, rule))

	active, err := store.FindActive(ctx, "openai")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestBudgetStore_UniquePeriodAndSpend(t *testing.T) {
	store := memory.NewBudgetStore()
	ctx := context.Background()

	budget, err := store.Create(ctx, &model.Budget{Provider: "openai", Period: "2024-03", MonthlyLimit: 100, IsActive: true})
	require.NoError(t, err)
	_, err = store.Create(ctx, &model.Budget{Provider: "openai", Period: "2024-03"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
	_, err = store.Create(ctx, &model.Budget{Provider: "openai", Period: "2024-04", IsActive: false})
	require.NoError(t, err)

	active, err := store.ListActiveForPeriod(ctx, "2024-03")
	require.NoError(t, err)
	require.Len(t, active, 1)

	at := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateSpend(ctx, budget.ID, 42.5, at))
	got, err := store.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.CurrentSpend)
	assert.Equal(t, at, *got.RecomputedAt)
}

func TestAlertStore_FindUnresolvedAndResolve(t *testing.T) {
	store := memory.NewAlertStore()
	ctx := context.Background()
	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	alert, err := store.Create(ctx, &model.Alert{
		Type: core.AlertTypeBudget, Provider: "openai", Severity: core.SeverityHigh,
		Metadata:  map[string]any{model.MetadataPeriod: "2024-03"},
		CreatedAt: created,
	})
	require.NoError(t, err)

	found, err := store.FindUnresolved(ctx, core.AlertLookup{Type: core.AlertTypeBudget, Provider: "openai", Period: "2024-03"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, alert.ID, found.ID)

	other, err := store.FindUnresolved(ctx, core.AlertLookup{Type: core.AlertTypeBudget, Provider: "openai", Period: "2024-04"})
	require.NoError(t, err)
	assert.Nil(t, other)

	stale, err := store.FindUnresolved(ctx, core.AlertLookup{Type: core.AlertTypeBudget, Provider: "openai", CreatedSince: created.Add(time.Minute)})
	require.NoError(t, err)
	assert.Nil(t, stale)

	resolved, err := store.Resolve(ctx, alert.ID, "ops", created.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	assert.Equal(t, "ops", resolved.ResolvedBy)

	found, err = store.FindUnresolved(ctx, core.AlertLookup{Type: core.AlertTypeBudget, Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAlertStore_ListFiltersNewestFirst(t *testing.T) {
	store := memory.NewAlertStore()
	ctx := context.Background()
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.Create(ctx, &model.Alert{Type: core.AlertTypeSpike, Provider: "p", Severity: core.SeverityHigh, CreatedAt: start.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	first, err := store.List(ctx, core.AlertQuery{})
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, start.Add(2*time.Minute), first[0].CreatedAt)

	_, err = store.MarkRead(ctx, first[0].ID)
	require.NoError(t, err)
	unread := false
	rest, err := store.List(ctx, core.AlertQuery{IsRead: &unread, Limit: 1})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, start.Add(time.Minute), rest[0].CreatedAt)
}
