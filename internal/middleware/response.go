package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/fluentd/model"
	"costlens/internal/database/fluentd/repository"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const responsePreviewLimit = 2000

type Response struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewResponse(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Response {
	return &Response{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// FormatHandler 把 handler 設定的資料包成 response.Response；錯誤交給 Recovery
func (middleware *Response) FormatHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPath(c.FullPath()) {
			c.Next()
			return
		}
		requestTime := requestStart(c)

		c.Next()

		// 已寫出回應（例如 health 探針）則不再包裝
		if len(c.Errors) > 0 || c.Writer.Written() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode >= http.StatusBadRequest {
			response.AbortWithError(c, cErr.MapHttpStatusToError(statusCode, "request error"))
			return
		}

		ctx, span, end := middleware.trace.WithSpan(c.Request.Context(), string(core.SpanResponseMiddleware))
		defer end(nil)

		data, message := response.Payload(c)
		duration := time.Since(requestTime)
		requestID := requestIDOf(c, span.SpanContext().TraceID())
		body := previewJSON(data, responsePreviewLimit)

		middleware.trace.ApplyTraceAttributes(span, core.TraceResponseMeta{
			Path:       c.Request.URL.Path,
			Method:     c.Request.Method,
			Status:     statusCode,
			Message:    message,
			Code:       cErr.SUCCESS,
			DurationMs: float64(duration.Milliseconds()),
			Data:       body,
		})
		middleware.logger.Info("[Response] "+message,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.String("spanId", span.SpanContext().SpanID().String()),
			zap.String("requestId", requestID),
		)

		payload, err := json.Marshal(response.OK(requestID, data, message))
		if err != nil {
			response.AbortWithError(c, cErr.InternalServer("marshal response failed"))
			return
		}

		if err := middleware.fluentdRepository.LogResponse(ctx, model.ResponseLog{
			RequestID:   requestID,
			Route:       c.FullPath(),
			ProjectName: middleware.config.App.Name,
			Code:        cErr.SUCCESS,
			StatusCode:  statusCode,
			DurationMs:  float64(duration.Milliseconds()),
			Body:        body,
			ResponseTS:  fluentdTime(time.Now()),
		}); err != nil {
			middleware.logger.Warn("fluentd response log failed", zap.Error(err))
		}

		c.Data(statusCode, "application/json; charset=utf-8", payload)
	}
}
