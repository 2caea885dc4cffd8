package repository

import (
	"context"
	"testing"
	"time"

	client "costlens/internal/database/client"
	"costlens/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimiter(t *testing.T) (*IngestLimiter, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	trace, err := telemetry.NewTrace(nil)
	require.NoError(t, err)
	return NewIngestLimiter(trace, client.NewRedisClientFrom(rdb, zap.NewNop())), server
}

func TestIngestLimiter_ConsumeUntilExceeded(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	window, err := limiter.Consume(ctx, "10.0.0.1", 60, 2)
	require.NoError(t, err)
	assert.Equal(t, Window{Used: 1, Remaining: 1, TTL: time.Minute}, window)

	window, err = limiter.Consume(ctx, "10.0.0.1", 60, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, window.Remaining)

	window, err = limiter.Consume(ctx, "10.0.0.1", 60, 2)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.Equal(t, 3, window.Used)
	assert.Equal(t, 0, window.Remaining)
	assert.Positive(t, window.TTL)

	// 其他來源不受影響
	window, err = limiter.Consume(ctx, "10.0.0.2", 60, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, window.Remaining)
}

func TestIngestLimiter_WindowExpires(t *testing.T) {
	limiter, server := newLimiter(t)
	ctx := context.Background()

	_, err := limiter.Consume(ctx, "ip", 10, 1)
	require.NoError(t, err)
	_, err = limiter.Consume(ctx, "ip", 10, 1)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	server.FastForward(11 * time.Second)
	_, err = limiter.Consume(ctx, "ip", 10, 1)
	assert.NoError(t, err)
}

func TestIngestLimiter_UsageAndClear(t *testing.T) {
	limiter, server := newLimiter(t)
	ctx := context.Background()

	window, err := limiter.Usage(ctx, "ip", 5)
	require.NoError(t, err)
	assert.Equal(t, Window{Remaining: 5}, window)

	_, err = limiter.Consume(ctx, "ip", 30, 5)
	require.NoError(t, err)
	window, err = limiter.Usage(ctx, "ip", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, window.Used)
	assert.Equal(t, 4, window.Remaining)
	assert.True(t, server.Exists("costlens:ingest_window:ip"))

	require.NoError(t, limiter.Clear(ctx, "ip"))
	assert.False(t, server.Exists("costlens:ingest_window:ip"))
	window, err = limiter.Usage(ctx, "ip", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, window.Remaining)
}

func TestIngestLimiter_Disabled(t *testing.T) {
	trace, _ := telemetry.NewTrace(nil)
	limiter := NewIngestLimiter(trace, &client.RedisClient{})

	assert.False(t, limiter.Enabled())
	window, err := limiter.Consume(context.Background(), "ip", 60, 1)
	assert.ErrorIs(t, err, ErrLimiterDisabled)
	assert.Equal(t, 1, window.Remaining)
	assert.ErrorIs(t, limiter.Clear(context.Background(), "ip"), ErrLimiterDisabled)
}
