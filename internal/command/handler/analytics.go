package command

import (
	"encoding/json"

	"costlens/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	logger        *zap.Logger
	detector      *service.AnomalyDetector
	budgetService *service.BudgetService
	engine        *service.OptimizationEngine
}

func NewAnalyticsHandler(
	logger *zap.Logger,
	detector *service.AnomalyDetector,
	budgetService *service.BudgetService,
	engine *service.OptimizationEngine,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		logger:        logger,
		detector:      detector,
		budgetService: budgetService,
		engine:        engine,
	}
}

// Detect 執行一次異常偵測並輸出新建立的告警
func (handler *AnalyticsHandler) Detect(cmd *cobra.Command, args []string) error {
	report := handler.detector.RunAllChecks(cmd.Context())
	return printJSON(cmd, report)
}

func (handler *AnalyticsHandler) RecomputeBudgets(cmd *cobra.Command, args []string) error {
	result, err := handler.budgetService.RecomputeSpend(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

// Suggest days <= 0 時使用設定檔預設值
func (handler *AnalyticsHandler) Suggest(cmd *cobra.Command, days int) error {
	return printJSON(cmd, handler.engine.Suggestions(cmd.Context(), days))
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
