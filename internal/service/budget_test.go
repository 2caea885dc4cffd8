package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_CreateDefaults(t *testing.T) {
	f := newFixture(t)

	budget, err := f.budgetService().Create(context.Background(), &dto.CreateBudgetDto{Provider: "openai", MonthlyLimit: 500})
	require.NoError(t, err)
	assert.Equal(t, "2025-03", budget.Period)
	assert.Equal(t, 80.0, budget.AlertThreshold)
	assert.True(t, budget.IsActive)
	assert.Zero(t, budget.CurrentSpend)
}

func TestBudgetService_CreateRejectsDuplicateAndBadPeriod(t *testing.T) {
	f := newFixture(t)
	svc := f.budgetService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.CreateBudgetDto{Provider: "openai", Period: "2025-03", MonthlyLimit: 100})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &dto.CreateBudgetDto{Provider: "openai", Period: "2025-03", MonthlyLimit: 200})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*cErr.Error).HttpCode())

	for _, period := range []string{"2025-13", "2025-3", "march"} {
		_, err = svc.Create(ctx, &dto.CreateBudgetDto{Provider: "stripe", Period: period, MonthlyLimit: 1})
		require.Error(t, err, period)
		assert.Equal(t, http.StatusBadRequest, err.(*cErr.Error).HttpCode())
	}

	_, err = svc.Create(ctx, &dto.CreateBudgetDto{Provider: "stripe", MonthlyLimit: 1, AlertThreshold: float64Ptr(120)})
	require.Error(t, err)
}

func TestBudgetService_UpdateAndList(t *testing.T) {
	f := newFixture(t)
	svc := f.budgetService()
	ctx := context.Background()

	budget, err := svc.Create(ctx, &dto.CreateBudgetDto{Provider: "openai", MonthlyLimit: 100})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &dto.CreateBudgetDto{Provider: "openai", Period: "2025-02", MonthlyLimit: 100})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, budget.ID, &dto.UpdateBudgetDto{AlertThreshold: float64Ptr(60), MonthlyLimit: float64Ptr(250)})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.AlertThreshold)
	assert.Equal(t, 250.0, updated.MonthlyLimit)

	clash := "2025-02"
	_, err = svc.Update(ctx, budget.ID, &dto.UpdateBudgetDto{Period: &clash})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, err.(*cErr.Error).HttpCode())

	list, err := svc.List(ctx, &dto.ListBudgetsQueryDto{Provider: "openai"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-03", list[0].Period)

	require.NoError(t, svc.Delete(ctx, budget.ID))
	_, err = svc.Get(ctx, budget.ID)
	require.Error(t, err)
}

func TestBudgetService_RecomputeSpend(t *testing.T) {
	f := newFixture(t)
	svc := f.budgetService()
	ctx := context.Background()

	openai, err := svc.Create(ctx, &dto.CreateBudgetDto{Provider: "openai", MonthlyLimit: 100})
	require.NoError(t, err)
	idle, err := svc.Create(ctx, &dto.CreateBudgetDto{Provider: "idle", MonthlyLimit: 100})
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, &dto.CreateBudgetDto{Provider: "stripe", MonthlyLimit: 100, IsActive: boolPtr(false)})
	require.NoError(t, err)

	f.seed(t,
		model.Event{Provider: "openai", CalculatedCost: 10.25, Timestamp: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
		model.Event{Provider: "openai", CalculatedCost: 5, Status: core.EventStatusFailure, Timestamp: fixedNow.Add(-time.Hour)},
		model.Event{Provider: "openai", CalculatedCost: 1000, Timestamp: time.Date(2025, time.February, 28, 23, 59, 0, 0, time.UTC)},
		model.Event{Provider: "stripe", CalculatedCost: 7, Timestamp: fixedNow.Add(-time.Hour)},
	)

	result, err := svc.RecomputeSpend(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03", result.Period)
	assert.Equal(t, 2, result.Updated)

	got, err := svc.Get(ctx, openai.ID)
	require.NoError(t, err)
	assert.InDelta(t, 15.25, got.CurrentSpend, 1e-9)
	require.NotNil(t, got.RecomputedAt)
	assert.True(t, got.RecomputedAt.Equal(fixedNow))

	got, err = svc.Get(ctx, idle.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CurrentSpend)

	got, err = svc.Get(ctx, inactive.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CurrentSpend)
}

// 重算後的 currentSpend 才會觸發預算告警
func TestBudgetService_RecomputeFeedsBudgetCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.budgetService().Create(ctx, &dto.CreateBudgetDto{Provider: "openai", MonthlyLimit: 10})
	require.NoError(t, err)
	f.seed(t, model.Event{Provider: "openai", CalculatedCost: 9.2, Timestamp: fixedNow.Add(-time.Hour)})

	detector := f.detector(f.events)
	assert.Empty(t, detector.CheckBudgets(ctx, fixedNow))

	_, err = f.budgetService().RecomputeSpendAt(ctx, fixedNow)
	require.NoError(t, err)
	created := detector.CheckBudgets(ctx, fixedNow)
	require.Len(t, created, 1)
	assert.Equal(t, core.SeverityHigh, created[0].Severity)
}
