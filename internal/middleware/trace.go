package middleware

import (
	"net"
	"strconv"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// 沒有對應路由時的 metric label
const unmatchedRoute = "unmatched"

type TraceEntry struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	conf   *config.Configuration
}

func NewTraceEntry(trace *telemetry.Trace, metric *telemetry.Metric, conf *config.Configuration) *TraceEntry {
	return &TraceEntry{trace: trace, metric: metric, conf: conf}
}

// Handler 開 server span（名稱用路由樣板，例如 PUT /api/alerts/:id/resolve）並記錄 http 指標
func (m *TraceEntry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if skipPath(route) {
			c.Next()
			return
		}
		label := route
		if label == "" {
			label = unmatchedRoute
		}

		parent := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := m.trace.StartSpanForLayer(parent,
			core.TraceSpanName(c.Request.Method+" "+label),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Set(core.ContextTraceKey, ctx)

		start := time.Now().UTC()
		c.Set(ctxRequestStart, start)
		c.Header("X-Request-Id", requestIDOf(c, span.SpanContext().TraceID()))
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header("X-Trace-Id", sc.TraceID().String())
		}

		meta := core.TraceHttpServerMeta{
			ClientAddr:        c.ClientIP(),
			HttpRequestMethod: c.Request.Method,
			HttpRoute:         label,
			UrlPath:           c.Request.URL.Path,
			UrlScheme:         requestScheme(c),
			UserAgent:         c.Request.UserAgent(),
			ServerAddress:     m.conf.App.Name,
			NetworkProtoVer:   c.Request.Proto,
			SpanKind:          trace.SpanKindServer.String(),
			SpanTraceID:       span.SpanContext().TraceID().String(),
		}
		meta.NetworkPeerAddr, meta.NetworkPeerPort = peerAddress(c)
		m.trace.ApplyTraceAttributes(span, &meta)

		c.Next()

		status := c.Writer.Status()
		meta.HttpStatusCode = status
		m.trace.ApplyTraceAttributes(span, &meta)

		var spanErr error
		if status >= 400 && len(c.Errors) > 0 {
			spanErr = c.Errors.Last().Err
		}
		if m.metric.HttpRequestsTotal != nil && m.metric.HttpRequestDuration != nil {
			m.metric.HttpRequestsTotal.WithLabelValues(label, strconv.Itoa(status)).Inc()
			m.metric.HttpRequestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		}
		m.trace.EndSpan(span, spanErr)
	}
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}

func peerAddress(c *gin.Context) (string, int) {
	host, port, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.ClientIP(), 0
	}
	p, _ := strconv.Atoi(port)
	return host, p
}
