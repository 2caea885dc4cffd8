package service

import (
	"context"
	"strings"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultResolvedBy = "system"

type AlertService struct {
	trace    *telemetry.Trace
	logger   *zap.Logger
	clock    clock.Clock
	alerts   AlertStore
	detector *AnomalyDetector
}

func NewAlertService(trace *telemetry.Trace, logger *zap.Logger, clock clock.Clock, alerts AlertStore, detector *AnomalyDetector) *AlertService {
	return &AlertService{trace: trace, logger: logger, clock: clock, alerts: alerts, detector: detector}
}

// AlertFilter isRead / isResolved 為 nil 時不篩選
type AlertFilter struct {
	IsRead     *bool
	IsResolved *bool
	Type       core.AlertType
	Severity   core.AlertSeverity
	Limit      int64
}

func (s *AlertService) List(ctx context.Context, filter AlertFilter) ([]*model.Alert, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	alerts, err := s.alerts.List(ctx, core.AlertQuery{
		IsRead:     filter.IsRead,
		IsResolved: filter.IsResolved,
		Type:       filter.Type,
		Severity:   filter.Severity,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, storeError(err, "alert", "ListAlerts")
	}
	return alerts, nil
}

func (s *AlertService) MarkRead(ctx context.Context, id primitive.ObjectID) (*model.Alert, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	alert, err := s.alerts.MarkRead(ctx, id)
	if err != nil {
		return nil, storeError(err, "alert", "MarkAlertRead")
	}
	return alert, nil
}

// Resolve 解決後同類型告警可再次被建立
func (s *AlertService) Resolve(ctx context.Context, id primitive.ObjectID, input *dto.ResolveAlertDto) (*model.Alert, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	resolvedBy := defaultResolvedBy
	if input != nil && strings.TrimSpace(input.ResolvedBy) != "" {
		resolvedBy = strings.TrimSpace(input.ResolvedBy)
	}
	alert, err := s.alerts.Resolve(ctx, id, resolvedBy, core.NormalizeTime(s.clock.Now()))
	if err != nil {
		return nil, storeError(err, "alert", "ResolveAlert")
	}
	s.logger.Info("alert resolved", zap.String("alertID", id.Hex()), zap.String("resolvedBy", resolvedBy))
	return alert, nil
}

func (s *AlertService) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return storeError(s.alerts.DeleteByID(ctx, id), "alert", "DeleteAlert")
}

// RunChecks 手動觸發一輪異常偵測，與排程使用同一個 detector
func (s *AlertService) RunChecks(ctx context.Context) dto.AnomalyReportDto {
	return s.detector.RunAllChecks(ctx)
}
