package service

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	NewHealthService,
	NewCostCalculator,
	NewEventService,
	NewReportService,
	NewAnomalyDetector,
	NewOptimizationEngine,
	NewPricingService,
	NewBudgetService,
	NewAlertService,
	NewIngestQuotaService,
)
