package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/fluentd/model"
	"costlens/internal/database/fluentd/repository"
	cErr "costlens/internal/pkg/error"
	res "costlens/internal/pkg/response"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	panicMessageLimit = 8000
	panicStackLimit   = 16000
)

type Recovery struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewRecovery(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Recovery {
	return &Recovery{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := requestStart(c)

		// panic recover 必須在 c.Next() 之前註冊
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
			requestID := requestIDOf(c, span.SpanContext().TraceID())

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    preview([]byte(fmt.Sprint(rec)), panicMessageLimit),
				Stack:      preview(debug.Stack(), panicStackLimit),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", requestID),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			if !c.Writer.Written() {
				res.FailByErr(c, requestID, err)
			}
			middleware.ship(ctx, c, requestID, cErr.INTERNAL_ERROR, http.StatusInternalServerError, meta.Message, duration)
			c.Abort()
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		duration := time.Since(requestTime)
		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanRecoveryMiddleware))
		requestID := requestIDOf(c, span.SpanContext().TraceID())

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			appErr, ok := cErr.As(e.Err)
			if !ok {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: float64(duration.Milliseconds()),
				Status:     appErr.HttpCode(),
			})
			middleware.logger.Warn(appErr.Error(),
				zap.Int("code", appErr.ErrorCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.Duration("duration", duration),
				zap.String("requestId", requestID),
			)
			end(appErr)
			res.FailByErr(c, requestID, appErr)
			middleware.ship(ctx, c, requestID, appErr.ErrorCode(), appErr.HttpCode(), appErr.ErrorDesc(), duration)
			c.Abort()
			return
		}

		// 其餘未知錯誤
		unknown := c.Errors.String()
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     preview([]byte(unknown), panicMessageLimit),
			DurationMs: float64(duration.Milliseconds()),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
		)
		end(c.Errors.Last().Err)
		res.Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", unknown)
		middleware.ship(ctx, c, requestID, cErr.INTERNAL_ERROR, http.StatusInternalServerError, preview([]byte(unknown), panicMessageLimit), duration)
		c.Abort()
	}
}

func (middleware *Recovery) ship(ctx context.Context, c *gin.Context, requestID string, code, status int, message string, duration time.Duration) {
	err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
		RequestID:   requestID,
		Route:       c.FullPath(),
		ProjectName: middleware.config.App.Name,
		Code:        code,
		StatusCode:  status,
		DurationMs:  float64(duration.Milliseconds()),
		Error:       message,
		ResponseTS:  fluentdTime(time.Now()),
	})
	if err != nil {
		middleware.logger.Warn("fluentd error log failed", zap.Error(err))
	}
}
