package middleware

import (
	"net/http"
	"time"

	"costlens/config"
	"costlens/internal/core"
	"costlens/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultCorsMaxAge = 12 * time.Hour

type Cors struct {
	trace  *telemetry.Trace
	config cors.Config
}

func NewCors(trace *telemetry.Trace, conf *config.Configuration) *Cors {
	return &Cors{trace: trace, config: corsConfig(conf.Cors)}
}

// corsConfig 沒有設定來源時開放全部，指定來源時才允許 credentials
func corsConfig(c config.Cors) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Traceparent", "Tracestate"},
		ExposeHeaders: []string{
			"X-Request-Id", "X-Trace-Id", "X-App-Version",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After",
		},
		MaxAge: defaultCorsMaxAge,
	}
	if c.MaxAge > 0 {
		cfg.MaxAge = time.Duration(c.MaxAge) * time.Second
	}
	if len(c.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = c.AllowOrigins
	cfg.AllowCredentials = true
	return cfg
}

func (m *Cors) CorsHandler() gin.HandlerFunc {
	corsHandler := cors.New(m.config)

	type corsMeta struct {
		AllowAll     bool     `trace:"http.cors.allow_all"`
		AllowOrigins []string `trace:"http.cors.allow_origins,omitempty"`
		Origin       string   `trace:"http.request.header.origin,omitempty"`
		Preflight    bool     `trace:"http.cors.preflight"`
	}

	return func(c *gin.Context) {
		// 系統路徑仍套用 CORS，只是不建 span
		if skipPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(c.Request.Context(), string(core.SpanCorsMiddleware))
		defer end(nil)
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowAll:     m.config.AllowAllOrigins,
			AllowOrigins: m.config.AllowOrigins,
			Origin:       c.GetHeader("Origin"),
			Preflight:    c.Request.Method == http.MethodOptions,
		})

		corsHandler(c)
	}
}
