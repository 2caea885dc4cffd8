package dto

import (
	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
)

type AnomalyReportDto struct {
	SpikeAlerts  []*model.Alert `json:"spikes"`
	BudgetAlerts []*model.Alert `json:"budgets"`
	ErrorAlerts  []*model.Alert `json:"errors"`
	Total        int            `json:"total"`
}

type ListAlertsQueryDto struct {
	Type     core.AlertType     `form:"type" binding:"omitempty,oneof=spike budget error anomaly"`
	Severity core.AlertSeverity `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	Limit    int64              `form:"limit" binding:"omitempty,min=1,max=500"`
}

type ResolveAlertDto struct {
	ResolvedBy string `json:"resolvedBy,omitempty"`
}
