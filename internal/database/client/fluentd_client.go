package client

import (
	"context"
	"time"

	"costlens/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

const defaultFluentdTagPrefix = "costlens"

// Client 稽核紀錄的送出端，測試時以 NoopClient 或自訂 recorder 取代
type Client interface {
	Post(ctx context.Context, tag string, rec map[string]any) error
	Close() error
}

type FluentdClient struct {
	client *fluent.Fluent
}

// NewFluentdClient 未啟用時回傳 NoopClient
func NewFluentdClient(logger *zap.Logger, conf *config.Configuration) (Client, func(), error) {
	if !conf.Fluentd.Enabled {
		logger.Info("Fluentd disabled, audit records are dropped")
		return &NoopClient{}, func() {}, nil
	}

	f, err := fluent.New(fluentConfig(conf.Fluentd, logger))
	if err != nil {
		logger.Error("failed to connect to Fluentd", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Fluentd client ready",
		zap.String("host", conf.Fluentd.Host),
		zap.Int("port", conf.Fluentd.Port),
		zap.Bool("async", !conf.Fluentd.Sync),
	)

	fluentdClient := &FluentdClient{client: f}
	cleanup := func() {
		logger.Info("closing the Fluentd resources")
		if err := fluentdClient.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return fluentdClient, cleanup, nil
}

func fluentConfig(c config.Fluentd, logger *zap.Logger) fluent.Config {
	cfg := fluent.Config{
		FluentHost:         c.Host,
		FluentPort:         c.Port,
		TagPrefix:          c.TagPrefix,
		Async:              !c.Sync,
		BufferLimit:        c.BufferLimit,
		SubSecondPrecision: true,
	}
	if cfg.TagPrefix == "" {
		cfg.TagPrefix = defaultFluentdTagPrefix
	}
	if c.Timeout > 0 {
		cfg.Timeout = time.Duration(c.Timeout) * time.Millisecond
	}
	if cfg.Async {
		// 非同步送出失敗不會回到呼叫端，只能在這裡記錄
		cfg.AsyncResultCallback = func(_ []byte, err error) {
			if err != nil {
				logger.Warn("fluentd async post failed", zap.Error(err))
			}
		}
	}
	return cfg
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Post tag 會由 fluent-logger 自動補上 TagPrefix；fluent-logger 不支援 context，只在送出前檢查
func (c *FluentdClient) Post(ctx context.Context, tag string, rec map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.client.PostWithTime(tag, time.Now(), rec)
}

// NoopClient Fluentd 關閉時使用
type NoopClient struct{}

func (n *NoopClient) Post(context.Context, string, map[string]any) error { return nil }
func (n *NoopClient) Close() error                                       { return nil }
