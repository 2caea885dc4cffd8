package cron

import (
	"context"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/service"
	"costlens/internal/telemetry"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

type Cron struct {
	conf          *config.Configuration
	logger        *zap.Logger
	trace         *telemetry.Trace
	server        *cron.Cron
	detector      *service.AnomalyDetector
	budgetService *service.BudgetService
}

// NewCron .
func NewCron(
	conf *config.Configuration,
	logger *zap.Logger,
	trace *telemetry.Trace,
	detector *service.AnomalyDetector,
	budgetService *service.BudgetService,
) *Cron {
	// 不加 SkipIfStillRunning：偵測比間隔慢時下一輪照跑，由告警查重保證不重複
	server := cron.New(cron.WithSeconds())

	return &Cron{
		conf:          conf,
		logger:        logger,
		trace:         trace,
		server:        server,
		detector:      detector,
		budgetService: budgetService,
	}
}

func (c *Cron) Run() error {
	interval := c.conf.Analytics.AlertCheckInterval()
	if _, err := c.server.AddFunc("@every "+interval.String(), c.AnomalyChecks); err != nil {
		return err
	}
	c.logger.Info("anomaly checks scheduled", zap.Duration("interval", interval))

	if spec := c.conf.Analytics.BudgetRecomputeSpec; spec != "" {
		if _, err := c.server.AddFunc(spec, c.BudgetRecompute); err != nil {
			return err
		}
		c.logger.Info("budget recompute scheduled", zap.String("spec", spec))
	}

	c.server.Start()
	return nil
}

// AnomalyChecks 單次排程執行，錯誤已在偵測器內部吞掉
func (c *Cron) AnomalyChecks() {
	ctx, _, end := c.trace.WithSpan(context.Background(), string(core.SpanAnomalyCronJob))
	defer end(nil)

	report := c.detector.RunAllChecks(ctx)
	c.logger.Info("anomaly checks completed",
		zap.Int("spikes", len(report.SpikeAlerts)),
		zap.Int("budgets", len(report.BudgetAlerts)),
		zap.Int("errors", len(report.ErrorAlerts)),
	)
}

func (c *Cron) BudgetRecompute() {
	ctx, _, end := c.trace.WithSpan(context.Background(), string(core.SpanBudgetCronJob))
	result, err := c.budgetService.RecomputeSpend(ctx)
	end(err)
	if err != nil {
		c.logger.Error("budget recompute failed", zap.Error(err))
		return
	}
	c.logger.Info("budget spend recomputed", zap.String("period", result.Period), zap.Int("updated", result.Updated))
}

// Stop 等待執行中的 job 結束或 ctx 逾時
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
