package service

import (
	"context"
	"net"

	"costlens/config"
	"costlens/internal/database/redis/repository"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/telemetry"

	"go.uber.org/zap"
)

// IngestQuotaService 查詢 / 重設寫入限流視窗，與 RateLimit middleware 共用同一個 limiter
type IngestQuotaService struct {
	conf    *config.Configuration
	trace   *telemetry.Trace
	logger  *zap.Logger
	limiter *repository.IngestLimiter
}

func NewIngestQuotaService(
	conf *config.Configuration,
	trace *telemetry.Trace,
	logger *zap.Logger,
	limiter *repository.IngestLimiter,
) *IngestQuotaService {
	return &IngestQuotaService{conf: conf, trace: trace, logger: logger, limiter: limiter}
}

func (s *IngestQuotaService) enabled() bool {
	return s.conf.Ingest.RateLimit > 0 && s.limiter.Enabled()
}

func (s *IngestQuotaService) quota(clientIP string) *dto.IngestQuotaDto {
	return &dto.IngestQuotaDto{
		ClientIP:      clientIP,
		Enabled:       s.enabled(),
		Limit:         s.conf.Ingest.RateLimit,
		Remaining:     s.conf.Ingest.RateLimit,
		WindowSeconds: s.conf.Ingest.WindowOrDefault(),
	}
}

// Window 限流關閉時回傳 enabled=false，不碰 Redis
func (s *IngestQuotaService) Window(ctx context.Context, clientIP string) (_ *dto.IngestQuotaDto, err error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(err) }()

	if net.ParseIP(clientIP) == nil {
		return nil, cErr.BadRequestParams("invalid client ip: " + clientIP)
	}
	quota := s.quota(clientIP)
	if !quota.Enabled {
		return quota, nil
	}

	window, err := s.limiter.Usage(ctx, repository.IngestSubject(clientIP), quota.Limit)
	if err != nil {
		s.logger.Error("failed to read ingest window", zap.String("clientIP", clientIP), zap.Error(err))
		return nil, cErr.DatabaseError("rate limit store error")
	}
	quota.Used = window.Used
	quota.Remaining = window.Remaining
	quota.ResetInSeconds = int64(window.TTL.Seconds())
	return quota, nil
}

// Reset 清掉來源 IP 的計數並回傳重設後的視窗
func (s *IngestQuotaService) Reset(ctx context.Context, clientIP string) (_ *dto.IngestQuotaDto, err error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(err) }()

	if net.ParseIP(clientIP) == nil {
		return nil, cErr.BadRequestParams("invalid client ip: " + clientIP)
	}
	quota := s.quota(clientIP)
	if !quota.Enabled {
		return quota, nil
	}

	if err := s.limiter.Clear(ctx, repository.IngestSubject(clientIP)); err != nil {
		s.logger.Error("failed to clear ingest window", zap.String("clientIP", clientIP), zap.Error(err))
		return nil, cErr.DatabaseError("rate limit store error")
	}
	s.logger.Info("ingest window cleared", zap.String("clientIP", clientIP))
	return quota, nil
}
