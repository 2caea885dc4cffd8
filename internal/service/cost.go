package service

import (
	"context"
	"sort"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/telemetry"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 成本保留 6 位小數，足以表示單次 sub-cent 計價
const costPrecision = 6

var thousand = decimal.NewFromInt(1000)

type CostInput struct {
	Provider     string
	RequestCount int64
	InputTokens  int64
	OutputTokens int64
}

// CostQuote 一次計價的結果與中間值
type CostQuote struct {
	Cost          decimal.Decimal
	Mode          core.BillingMode
	Rule          *model.PricingRule
	MonthUsage    int64
	RemainingFree int64
	Billable      int64
}

type CostCalculator struct {
	trace   *telemetry.Trace
	logger  *zap.Logger
	events  EventStore
	pricing PricingCatalog
}

func NewCostCalculator(trace *telemetry.Trace, logger *zap.Logger, events EventStore, pricing PricingCatalog) *CostCalculator {
	return &CostCalculator{trace: trace, logger: logger, events: events, pricing: pricing}
}

// CalculateCost requestCount 次請求在 now 當下的成本（request 計費）
func (c *CostCalculator) CalculateCost(ctx context.Context, provider string, requestCount int64, now time.Time) (decimal.Decimal, error) {
	quote, err := c.Quote(ctx, CostInput{Provider: provider, RequestCount: requestCount}, now)
	if err != nil {
		return decimal.Zero, err
	}
	return quote.Cost, nil
}

// Quote 沒有啟用中的規則時回傳 0 成本（unbilled），不是錯誤。
// 有 token 用量且規則設定了 per-1k 單價時走 token 計費，否則走 request 計費（含免費額度與階梯）。
// 本月用量是在計價前才查詢，並行寫入同一 provider 時可能都以為仍在免費額度內。
func (c *CostCalculator) Quote(ctx context.Context, in CostInput, now time.Time) (quote CostQuote, returnedError error) {
	ctx, span, end := c.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if in.RequestCount <= 0 {
		in.RequestCount = 1
	}
	quote = CostQuote{Cost: decimal.Zero, Mode: core.BillingModeUnbilled}

	rule, err := c.pricing.FindActive(ctx, in.Provider)
	if err != nil {
		return quote, err
	}
	if rule == nil {
		c.logger.Debug("no active pricing rule, event is unbilled", zap.String("provider", in.Provider))
		return quote, nil
	}
	quote.Rule = rule

	if in.InputTokens+in.OutputTokens > 0 && rule.HasTokenPricing() {
		quote.Mode = core.BillingModeToken
		quote.Cost = TokenCost(in.InputTokens, in.OutputTokens, rule).Round(costPrecision)
	} else {
		quote.Mode = core.BillingModeRequest
		usage, err := c.monthUsage(ctx, in.Provider, now)
		if err != nil {
			return quote, err
		}
		quote.MonthUsage = usage
		quote.RemainingFree = max(0, rule.FreeTierLimit-usage)
		quote.Billable = max(0, in.RequestCount-quote.RemainingFree)

		cost := decimal.Zero
		if quote.Billable > 0 {
			if len(rule.TierPricing) > 0 {
				cost = TierCost(quote.Billable, rule.TierPricing)
			} else {
				cost = decimal.NewFromInt(quote.Billable).Mul(decimal.NewFromFloat(rule.CostPerUnit))
			}
		}
		quote.Cost = cost.Round(costPrecision)
	}

	amount, _ := quote.Cost.Float64()
	c.trace.ApplyTraceAttributes(span, core.TraceCostQuoteMeta{
		Provider:      in.Provider,
		RequestCount:  in.RequestCount,
		InputTokens:   in.InputTokens,
		OutputTokens:  in.OutputTokens,
		MonthUsage:    quote.MonthUsage,
		RemainingFree: quote.RemainingFree,
		Billable:      quote.Billable,
		Mode:          string(quote.Mode),
		Cost:          amount,
	})
	return quote, nil
}

// monthUsage 本月（UTC 自然月）所有狀態的請求數加總
func (c *CostCalculator) monthUsage(ctx context.Context, provider string, now time.Time) (int64, error) {
	rows, err := c.events.Aggregate(ctx, core.GroupQuery{
		Match: core.EventMatch{Provider: provider, From: core.MonthStart(now.UTC())},
	})
	if err != nil {
		return 0, err
	}
	var total int64
	for _, row := range rows {
		total += row.Requests
	}
	return total, nil
}

// TierCost 依 from 由小到大逐級消耗；to 為 nil 表示無上限
func TierCost(billable int64, tiers []model.PricingTier) decimal.Decimal {
	sorted := make([]model.PricingTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })

	cost := decimal.Zero
	remaining := billable
	for _, tier := range sorted {
		if remaining <= 0 {
			break
		}
		inTier := remaining
		if tier.To != nil {
			size := *tier.To - tier.From + 1
			if size <= 0 {
				continue
			}
			inTier = min(remaining, size)
		}
		cost = cost.Add(decimal.NewFromInt(inTier).Mul(decimal.NewFromFloat(tier.CostPerUnit)))
		remaining -= inTier
	}
	return cost
}

// TokenCost 依 per-1k 單價計算 token 成本
func TokenCost(inputTokens, outputTokens int64, rule *model.PricingRule) decimal.Decimal {
	input := decimal.NewFromInt(inputTokens).Div(thousand).Mul(decimal.NewFromFloat(rule.InputCostPer1K))
	output := decimal.NewFromInt(outputTokens).Div(thousand).Mul(decimal.NewFromFloat(rule.OutputCostPer1K))
	return input.Add(output)
}
