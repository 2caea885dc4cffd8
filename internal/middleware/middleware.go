package middleware

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/google/wire"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var ProviderSet = wire.NewSet(
	NewCors,
	NewLogger,
	NewRecovery,
	NewTraceEntry,
	NewRateLimit,
	NewDecompress,
	NewResponse,
)

// gin.Context keys，由 TraceEntry 寫入
const (
	ctxRequestStart = "requestStart"
	ctxRequestID    = "requestID"
)

const fluentdTimeLayout = "2006-01-02 15:04:05.999999 UTC"

// skipPath 不包裝、不追蹤的系統路徑
func skipPath(endpoint string) bool {
	for _, prefix := range []string{"/swagger", "/metrics", "/version", "/health-check", "/debug/pprof"} {
		if strings.HasPrefix(endpoint, prefix) {
			return true
		}
	}
	return false
}

func requestStart(c *gin.Context) time.Time {
	if t, ok := c.Get(ctxRequestStart); ok {
		if start, ok := t.(time.Time); ok {
			return start
		}
	}
	start := time.Now().UTC()
	c.Set(ctxRequestStart, start)
	return start
}

// requestIDOf 整個請求共用同一個 ID：有 trace 時為 trace id，否則為 uuid v7
func requestIDOf(c *gin.Context, traceID oteltrace.TraceID) string {
	if id := c.GetString(ctxRequestID); id != "" {
		return id
	}
	id := newRequestID(traceID)
	c.Set(ctxRequestID, id)
	return id
}

func newRequestID(traceID oteltrace.TraceID) string {
	if traceID.IsValid() {
		return traceID.String()
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func fluentdTime(t time.Time) string {
	return t.UTC().Format(fluentdTimeLayout)
}

// preview UTF-8 截斷到 max bytes；非 UTF-8 以 Base64 表示
func preview(b []byte, max int) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

// previewJSON 字串若本身是 JSON 先正規化
func previewJSON(data any, max int) string {
	if s, ok := data.(string); ok {
		var js any
		if json.Unmarshal([]byte(s), &js) != nil {
			return preview([]byte(s), max)
		}
		data = js
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("[marshal error: %v]", err)
	}
	return preview(b, max)
}
