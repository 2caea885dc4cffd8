package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/request"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultAlertThreshold = 80.0

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type BudgetService struct {
	trace   *telemetry.Trace
	logger  *zap.Logger
	clock   clock.Clock
	events  EventStore
	budgets BudgetStore
}

func NewBudgetService(trace *telemetry.Trace, logger *zap.Logger, clock clock.Clock, events EventStore, budgets BudgetStore) *BudgetService {
	return &BudgetService{trace: trace, logger: logger, clock: clock, events: events, budgets: budgets}
}

func (s *BudgetService) Create(ctx context.Context, input *dto.CreateBudgetDto) (result *model.Budget, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if validationErr := request.ValidateStruct(input); validationErr != nil {
		return nil, validationErr
	}
	now := core.NormalizeTime(s.clock.Now())
	period := input.Period
	if period == "" {
		period = core.PeriodOf(now)
	}
	if !periodPattern.MatchString(period) {
		return nil, cErr.ValidateErr("period must be in YYYY-MM format")
	}

	budget := &model.Budget{
		Provider:       strings.TrimSpace(input.Provider),
		Period:         period,
		MonthlyLimit:   input.MonthlyLimit,
		AlertThreshold: defaultAlertThreshold,
		IsActive:       true,
		CreatedAt:      now,
	}
	if input.AlertThreshold != nil {
		budget.AlertThreshold = *input.AlertThreshold
	}
	if input.IsActive != nil {
		budget.IsActive = *input.IsActive
	}

	created, err := s.budgets.Create(ctx, budget)
	if err != nil {
		return nil, storeError(err, "budget", "CreateBudget")
	}
	return created, nil
}

func (s *BudgetService) Get(ctx context.Context, id primitive.ObjectID) (*model.Budget, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "budget", "GetBudget")
	}
	return budget, nil
}

func (s *BudgetService) List(ctx context.Context, query *dto.ListBudgetsQueryDto) ([]*model.Budget, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	budgets, err := s.budgets.List(ctx, core.BudgetQuery{Provider: query.Provider, Period: query.Period})
	if err != nil {
		return nil, storeError(err, "budget", "ListBudgets")
	}
	return budgets, nil
}

// Update currentSpend 不可由外部修改，只由 RecomputeSpend 寫入
func (s *BudgetService) Update(ctx context.Context, id primitive.ObjectID, input *dto.UpdateBudgetDto) (result *model.Budget, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if validationErr := request.ValidateStruct(input); validationErr != nil {
		return nil, validationErr
	}
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "budget", "GetBudget")
	}
	if input.Provider != nil {
		budget.Provider = strings.TrimSpace(*input.Provider)
	}
	if input.Period != nil {
		if !periodPattern.MatchString(*input.Period) {
			return nil, cErr.ValidateErr("period must be in YYYY-MM format")
		}
		budget.Period = *input.Period
	}
	if input.MonthlyLimit != nil {
		budget.MonthlyLimit = *input.MonthlyLimit
	}
	if input.AlertThreshold != nil {
		budget.AlertThreshold = *input.AlertThreshold
	}
	if input.IsActive != nil {
		budget.IsActive = *input.IsActive
	}

	if err := s.budgets.Update(ctx, budget); err != nil {
		return nil, storeError(err, "budget", "UpdateBudget")
	}
	updated, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "budget", "GetBudget")
	}
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return storeError(s.budgets.DeleteByID(ctx, id), "budget", "DeleteBudget")
}

func (s *BudgetService) RecomputeSpend(ctx context.Context) (*dto.RecomputeResultDto, error) {
	return s.RecomputeSpendAt(ctx, s.clock.Now())
}

// RecomputeSpendAt 以 now 所在月份重算所有啟用中預算的 currentSpend（本月 1 號起所有狀態的成本加總）
func (s *BudgetService) RecomputeSpendAt(ctx context.Context, now time.Time) (result *dto.RecomputeResultDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	now = core.NormalizeTime(now)
	period := core.PeriodOf(now)
	budgets, err := s.budgets.ListActiveForPeriod(ctx, period)
	if err != nil {
		return nil, storeError(err, "budget", "ListActiveBudgets")
	}
	result = &dto.RecomputeResultDto{Period: period}
	if len(budgets) == 0 {
		return result, nil
	}

	rows, err := s.events.Aggregate(ctx, core.GroupQuery{
		Match: core.EventMatch{From: core.MonthStart(now)},
		By:    []core.GroupField{core.GroupByProvider},
	})
	if err != nil {
		return nil, storeError(err, "event", "AggregateSpend")
	}
	spend := make(map[string]float64, len(rows))
	for _, row := range rows {
		spend[row.Key.Provider] = roundMoney(row.Cost)
	}

	for _, budget := range budgets {
		if err := s.budgets.UpdateSpend(ctx, budget.ID, spend[budget.Provider], now); err != nil {
			s.logger.Error("failed to update budget spend",
				zap.String("budgetID", budget.ID.Hex()),
				zap.String("provider", budget.Provider),
				zap.Error(err))
			continue
		}
		result.Updated++
	}
	s.logger.Info("budget spend recomputed", zap.String("period", period), zap.Int("updated", result.Updated))
	return result, nil
}
