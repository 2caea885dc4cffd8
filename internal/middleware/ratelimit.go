package middleware

import (
	"errors"
	"strconv"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/redis/repository"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 以來源 IP 限制事件寫入頻率
type RateLimit struct {
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	conf    *config.Configuration
	limiter *repository.IngestLimiter
}

func NewRateLimit(
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	conf *config.Configuration,
	limiter *repository.IngestLimiter,
) *RateLimit {
	return &RateLimit{
		logger:  logger,
		trace:   trace,
		metric:  metric,
		conf:    conf,
		limiter: limiter,
	}
}

func (middleware *RateLimit) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := middleware.conf.Ingest.RateLimit
		if limit <= 0 || !middleware.limiter.Enabled() {
			c.Next()
			return
		}
		window := middleware.conf.Ingest.WindowOrDefault()

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRateLimitMiddleware))
		subject := repository.IngestSubject(c.ClientIP())
		win, err := middleware.limiter.Consume(ctx, subject, window, limit)
		remaining, ttlSec := win.Remaining, int64(win.TTL.Seconds())

		meta := core.TraceRateLimitMiddlewareMeta{
			Subject:     subject,
			ConfigLimit: limit,
			Remaining:   remaining,
			TTLSeconds:  ttlSec,
		}

		switch {
		case err == nil:
		case errors.Is(err, repository.ErrRateLimitExceeded):
			meta.Blocked = true
		default:
			// Redis 異常不阻斷寫入
			meta.Degraded = true
			middleware.trace.ApplyTraceAttributes(span, meta)
			middleware.logger.Warn("ingest rate limiter unavailable", zap.String("subject", subject), zap.Error(err))
			end(nil)
			c.Next()
			return
		}
		middleware.trace.ApplyTraceAttributes(span, meta)

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ttlSec > 0 {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(ttlSec, 10))
		}

		if meta.Blocked {
			if ttlSec > 0 {
				c.Header("Retry-After", strconv.FormatInt(ttlSec, 10))
			}
			middleware.metric.ObserveRateLimited("ingest")
			appErr := cErr.RateLimitExceeded("too many events from " + c.ClientIP())
			end(appErr)
			response.AbortWithError(c, appErr)
			return
		}
		end(nil)
		c.Next()
	}
}
