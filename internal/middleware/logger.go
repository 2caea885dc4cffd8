package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/database/fluentd/model"
	"costlens/internal/database/fluentd/repository"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestPreviewLimit = 2000

// 不寫進 log / span 的標頭
var redactedHeaders = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"proxy-authorization": {},
	"x-api-key":           {},
}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger,
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// ingestSummary 事件寫入請求的摘要
type ingestSummary struct {
	Provider  string
	BatchSize int
}

// LoggerHandler 記錄每個請求；事件寫入另外解析 provider 與批次大小
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if skipPath(route) {
			c.Next()
			return
		}

		ctx, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanLoggerMiddleware))

		requestTime := requestStart(c)

		mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
		var (
			raw  []byte
			body string
		)
		switch {
		case isBinaryContent(mediaType):
			body = fmt.Sprintf("(binary %s, %d bytes)", mediaType, c.Request.ContentLength)
		case c.Request.Body != nil && c.Request.ContentLength != 0:
			raw, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			body = preview(raw, requestPreviewLimit)
		}
		summary := summarizeIngest(c.Request.Method, route, raw)

		requestID := requestIDOf(c, span.SpanContext().TraceID())
		headers := redactHeaders(c.Request.Header)
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			FullPath:   route,
			Query:      c.Request.URL.RawQuery,
			Body:       body,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headers,
			Params:     params,
			Provider:   summary.Provider,
			BatchSize:  summary.BatchSize,
		})

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Any("headers", headers),
			zap.String("spanId", span.SpanContext().SpanID().String()),
			zap.String("requestId", requestID),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(params) > 0 {
			fields = append(fields, zap.Any("params", params))
		}
		if summary.Provider != "" {
			fields = append(fields, zap.String("provider", summary.Provider))
		}
		if summary.BatchSize > 0 {
			fields = append(fields, zap.Int("batchSize", summary.BatchSize))
		} else if body != "" {
			// 批次寫入只記數量
			fields = append(fields, zap.String("body", body))
		}
		m.logger.Info("[Request] "+c.Request.Method+" "+c.Request.URL.Path, fields...)

		err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID:   requestID,
			Route:       route,
			Method:      c.Request.Method,
			Path:        c.Request.URL.Path,
			ProjectName: m.config.App.Name,
			RequestTS:   fluentdTime(requestTime),
			Body:        body,
			IPHash:      hashClientIP(c.ClientIP()),
			UserAgent:   c.Request.UserAgent(),
			Provider:    summary.Provider,
			BatchSize:   summary.BatchSize,
		})
		if err != nil {
			m.logger.Warn("fluentd request log failed", zap.Error(err))
		}
		end(nil)
		c.Next()
	}
}

// summarizeIngest 只處理 POST /api/logs 與 /api/logs/bulk；解析失敗回傳空摘要
func summarizeIngest(method, route string, body []byte) ingestSummary {
	if method != http.MethodPost || len(body) == 0 {
		return ingestSummary{}
	}
	switch route {
	case "/api/logs":
		var single struct {
			Provider string `json:"provider"`
		}
		if json.Unmarshal(body, &single) == nil {
			return ingestSummary{Provider: single.Provider}
		}
	case "/api/logs/bulk":
		var bulk struct {
			Logs []json.RawMessage `json:"logs"`
		}
		if json.Unmarshal(body, &bulk) == nil {
			return ingestSummary{BatchSize: len(bulk.Logs)}
		}
	}
	return ingestSummary{}
}

func redactHeaders(header http.Header) map[string]string {
	out := make(map[string]string, len(header))
	for k, v := range header {
		key := strings.ToLower(k)
		if _, secret := redactedHeaders[key]; secret {
			out[key] = "[redacted]"
			continue
		}
		out[key] = strings.Join(v, ",")
	}
	return out
}

// fluentd 只保留來源 IP 的雜湊
func hashClientIP(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}

func isBinaryContent(mediaType string) bool {
	return strings.HasPrefix(mediaType, "multipart/") ||
		strings.HasPrefix(mediaType, "image/") ||
		strings.HasPrefix(mediaType, "audio/") ||
		strings.HasPrefix(mediaType, "video/") ||
		mediaType == "application/octet-stream"
}
