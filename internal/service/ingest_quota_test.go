package service_test

import (
	"context"
	"net/http"
	"testing"

	"costlens/config"
	"costlens/internal/database/client"
	"costlens/internal/database/redis/repository"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/service"
	"costlens/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newQuotaService(t *testing.T, ingest config.Ingest) (*service.IngestQuotaService, *repository.IngestLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	limiter := repository.NewIngestLimiter(trace, client.NewRedisClientFrom(rdb, zap.NewNop()))
	conf := &config.Configuration{Ingest: ingest}
	return service.NewIngestQuotaService(conf, trace, zap.NewNop(), limiter), limiter, mr
}

func TestIngestQuotaService_WindowAndReset(t *testing.T) {
	quotas, limiter, _ := newQuotaService(t, config.Ingest{RateLimit: 3, WindowSeconds: 30})
	ctx := context.Background()

	_, err := limiter.Consume(ctx, repository.IngestSubject("10.0.0.7"), 30, 3)
	require.NoError(t, err)

	quota, err := quotas.Window(ctx, "10.0.0.7")
	require.NoError(t, err)
	assert.True(t, quota.Enabled)
	assert.Equal(t, 1, quota.Used)
	assert.Equal(t, 2, quota.Remaining)
	assert.Equal(t, int64(30), quota.WindowSeconds)
	assert.Equal(t, int64(30), quota.ResetInSeconds)

	quota, err = quotas.Reset(ctx, "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, 3, quota.Remaining)

	quota, err = quotas.Window(ctx, "10.0.0.7")
	require.NoError(t, err)
	assert.Zero(t, quota.Used)
}

func TestIngestQuotaService_Errors(t *testing.T) {
	quotas, _, mr := newQuotaService(t, config.Ingest{RateLimit: 3})
	ctx := context.Background()

	_, err := quotas.Window(ctx, "nope")
	appErr, ok := cErr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.HttpCode())

	mr.Close()
	_, err = quotas.Window(ctx, "10.0.0.7")
	appErr, ok = cErr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HttpCode())
}

func TestIngestQuotaService_DisabledSkipsRedis(t *testing.T) {
	quotas, _, mr := newQuotaService(t, config.Ingest{})
	mr.Close()

	quota, err := quotas.Reset(context.Background(), "10.0.0.7")
	require.NoError(t, err)
	assert.False(t, quota.Enabled)
	assert.Equal(t, int64(60), quota.WindowSeconds)
}
