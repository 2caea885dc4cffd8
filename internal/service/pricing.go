package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

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

const defaultCurrency = "USD"

type PricingService struct {
	trace   *telemetry.Trace
	logger  *zap.Logger
	clock   clock.Clock
	pricing PricingCatalog
}

func NewPricingService(trace *telemetry.Trace, logger *zap.Logger, clock clock.Clock, pricing PricingCatalog) *PricingService {
	return &PricingService{trace: trace, logger: logger, clock: clock, pricing: pricing}
}

func (s *PricingService) Create(ctx context.Context, input *dto.CreatePricingRuleDto) (result *model.PricingRule, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if validationErr := request.ValidateStruct(input); validationErr != nil {
		return nil, validationErr
	}
	tiers, err := toTiers(input.TierPricing)
	if err != nil {
		return nil, err
	}

	rule := &model.PricingRule{
		Provider:        strings.TrimSpace(input.Provider),
		Description:     input.Description,
		CostPerUnit:     input.CostPerUnit,
		InputCostPer1K:  input.InputCostPer1K,
		OutputCostPer1K: input.OutputCostPer1K,
		FreeTierLimit:   input.FreeTierLimit,
		TierPricing:     tiers,
		BillingCycle:    input.BillingCycle,
		Currency:        strings.ToUpper(input.Currency),
		IsActive:        true,
		CreatedAt:       core.NormalizeTime(s.clock.Now()),
	}
	if rule.BillingCycle == "" {
		rule.BillingCycle = core.BillingCycleMonthly
	}
	if rule.Currency == "" {
		rule.Currency = defaultCurrency
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	created, err := s.pricing.Create(ctx, rule)
	if err != nil {
		return nil, storeError(err, "pricing rule", "CreatePricingRule")
	}
	s.logger.Info("pricing rule created", zap.String("provider", created.Provider), zap.String("id", created.ID.Hex()))
	return created, nil
}

func (s *PricingService) Get(ctx context.Context, id primitive.ObjectID) (*model.PricingRule, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	rule, err := s.pricing.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "pricing rule", "GetPricingRule")
	}
	return rule, nil
}

func (s *PricingService) List(ctx context.Context) ([]*model.PricingRule, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	rules, err := s.pricing.List(ctx)
	if err != nil {
		return nil, storeError(err, "pricing rule", "ListPricingRules")
	}
	return rules, nil
}

// Update 只覆寫有帶的欄位；已寫入事件的成本不受影響
func (s *PricingService) Update(ctx context.Context, id primitive.ObjectID, input *dto.UpdatePricingRuleDto) (result *model.PricingRule, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if validationErr := request.ValidateStruct(input); validationErr != nil {
		return nil, validationErr
	}
	rule, err := s.pricing.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "pricing rule", "GetPricingRule")
	}

	if input.Provider != nil {
		rule.Provider = strings.TrimSpace(*input.Provider)
	}
	if input.Description != nil {
		rule.Description = *input.Description
	}
	if input.CostPerUnit != nil {
		rule.CostPerUnit = *input.CostPerUnit
	}
	if input.InputCostPer1K != nil {
		rule.InputCostPer1K = *input.InputCostPer1K
	}
	if input.OutputCostPer1K != nil {
		rule.OutputCostPer1K = *input.OutputCostPer1K
	}
	if input.FreeTierLimit != nil {
		rule.FreeTierLimit = *input.FreeTierLimit
	}
	if input.TierPricing != nil {
		tiers, err := toTiers(input.TierPricing)
		if err != nil {
			return nil, err
		}
		rule.TierPricing = tiers
	}
	if input.BillingCycle != nil {
		rule.BillingCycle = *input.BillingCycle
	}
	if input.Currency != nil {
		rule.Currency = strings.ToUpper(*input.Currency)
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	if err := s.pricing.Update(ctx, rule); err != nil {
		return nil, storeError(err, "pricing rule", "UpdatePricingRule")
	}
	updated, err := s.pricing.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "pricing rule", "GetPricingRule")
	}
	return updated, nil
}

func (s *PricingService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return storeError(s.pricing.DeleteByID(ctx, id), "pricing rule", "DeletePricingRule")
}

func toTiers(input []dto.PricingTierDto) ([]model.PricingTier, error) {
	tiers := make([]model.PricingTier, len(input))
	for i, t := range input {
		tiers[i] = model.PricingTier{From: t.From, To: t.To, CostPerUnit: t.CostPerUnit}
	}
	if err := ValidateTiers(tiers); err != nil {
		return nil, err
	}
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].From < tiers[j].From })
	return tiers, nil
}

// ValidateTiers from >= 0、to >= from、單價非負，排序後區間不可重疊，且只有最後一級可以沒有上限
func ValidateTiers(tiers []model.PricingTier) error {
	sorted := make([]model.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	for i, tier := range sorted {
		if tier.From < 0 {
			return cErr.InvalidPricingTiers(fmt.Sprintf("tier %d: from must be >= 0", i))
		}
		if tier.CostPerUnit < 0 {
			return cErr.InvalidPricingTiers(fmt.Sprintf("tier %d: costPerUnit must be >= 0", i))
		}
		if tier.To != nil && *tier.To < tier.From {
			return cErr.InvalidPricingTiers(fmt.Sprintf("tier %d: to must be >= from", i))
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.To == nil {
			return cErr.InvalidPricingTiers("only the last tier may be unbounded")
		}
		if tier.From <= *prev.To {
			return cErr.InvalidPricingTiers(fmt.Sprintf("tier %d overlaps the previous tier", i))
		}
	}
	return nil
}
