package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"costlens/config"
	"costlens/internal/database/client"
	fluentdRepo "costlens/internal/database/fluentd/repository"
	"costlens/internal/middleware"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/response"
	"costlens/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{App: config.App{Env: "test", Name: "costlens"}}
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	logger := zap.NewNop()
	logRepo := fluentdRepo.NewLogRepository(conf, &client.NoopClient{})

	r := gin.New()
	r.Use(middleware.NewTraceEntry(trace, telemetry.NewMetric(nil), conf).Handler())
	r.Use(middleware.NewRecovery(logger, trace, conf, logRepo).ErrorHandler())
	r.Use(middleware.NewResponse(logger, trace, conf, logRepo).FormatHandler())

	r.GET("/ok", func(c *gin.Context) { response.Success(c, gin.H{"value": 1}) })
	r.GET("/created", func(c *gin.Context) { response.Create(c, gin.H{"message": "Event logged"}) })
	r.GET("/conflict", func(c *gin.Context) { response.AbortWithError(c, cErr.Conflict("already exists")) })
	r.GET("/plain", func(c *gin.Context) { response.AbortWithError(c, errors.New("boom")) })
	r.GET("/status", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })
	return r
}

func serve(t *testing.T, r *gin.Engine, path string) (int, response.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestEnvelope(t *testing.T) {
	r := newEngine(t)

	status, body := serve(t, r, "/ok")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, body.Code)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, map[string]any{"value": float64(1)}, body.Data)

	status, body = serve(t, r, "/created")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Event logged", body.Description)
}

func TestErrorRendering(t *testing.T) {
	r := newEngine(t)

	status, body := serve(t, r, "/conflict")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already exists", body.Description)
	assert.NotZero(t, body.Code)

	status, body = serve(t, r, "/plain")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, cErr.INTERNAL_ERROR, body.Code)

	status, _ = serve(t, r, "/status")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestPanicRecovered(t *testing.T) {
	r := newEngine(t)
	status, body := serve(t, r, "/panic")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, cErr.INTERNAL_ERROR, body.Code)
	assert.Equal(t, "unexpected panic", body.Description)
}

func TestTraceHeaderOnlyWhenTracing(t *testing.T) {
	r := newEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, w.Header().Get("X-Trace-Id"))
}

func TestRequestIDSharedAcrossMiddlewares(t *testing.T) {
	r := newEngine(t)
	for _, path := range []string{"/ok", "/conflict", "/panic"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		var body response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.RequestID, path)
		assert.Equal(t, w.Header().Get("X-Request-Id"), body.RequestID, path)
	}
}
