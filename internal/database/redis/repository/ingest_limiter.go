package repository

import (
	"context"
	"errors"
	"time"

	"costlens/internal/core"
	client "costlens/internal/database/client"
	"costlens/internal/telemetry"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

var ProviderSet = wire.NewSet(NewIngestLimiter)

var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrLimiterDisabled   = errors.New("rate limiter disabled")
)

// 第一次命中時設定過期，之後只累加；回傳 {count, ttl}
var hitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

// IngestLimiter 固定視窗計數器，限制每個來源寫入事件的頻率
type IngestLimiter struct {
	trace  *telemetry.Trace
	client *redis.Client
}

// Window 單一來源在目前視窗內的狀態
type Window struct {
	Used      int
	Remaining int
	TTL       time.Duration
}

func NewIngestLimiter(trace *telemetry.Trace, redisClient *client.RedisClient) *IngestLimiter {
	limiter := &IngestLimiter{trace: trace}
	if redisClient.Enabled() {
		limiter.client = redisClient.Client()
	}
	return limiter
}

// Enabled Redis 未啟用時，middleware 直接放行
func (limiter *IngestLimiter) Enabled() bool {
	return limiter != nil && limiter.client != nil
}

// Consume 記一次寫入；超過 limit 時回傳 ErrRateLimitExceeded，視窗內容仍會回傳供 header 使用
func (limiter *IngestLimiter) Consume(ctx context.Context, subject string, windowSeconds int64, limit int) (window Window, err error) {
	if !limiter.Enabled() {
		return Window{Remaining: limit}, ErrLimiterDisabled
	}
	if windowSeconds <= 0 {
		windowSeconds = 1
	}

	ctx, span, end := limiter.trace.WithSpan(ctx)
	defer func() { end(err) }()

	meta := core.TraceRateLimitMeta{Subject: subject, Limit: limit, WindowSec: windowSeconds, Op: "consume"}
	defer func() {
		meta.Used, meta.Remaining, meta.TTL = window.Used, window.Remaining, int64(window.TTL.Seconds())
		limiter.trace.ApplyTraceAttributes(span, meta)
	}()

	values, err := hitScript.Run(ctx, limiter.client, []string{limiter.key(subject)}, windowSeconds).Int64Slice()
	if err != nil {
		return Window{}, err
	}
	if len(values) != 2 {
		return Window{}, errors.New("unexpected rate limit script reply")
	}

	window = newWindow(int(values[0]), limit, values[1])
	if window.Used > limit {
		return window, ErrRateLimitExceeded
	}
	return window, nil
}

// Usage 只讀取目前視窗，不計數
func (limiter *IngestLimiter) Usage(ctx context.Context, subject string, limit int) (window Window, err error) {
	if !limiter.Enabled() {
		return Window{Remaining: limit}, ErrLimiterDisabled
	}

	ctx, span, end := limiter.trace.WithSpan(ctx)
	defer func() { end(err) }()

	key := limiter.key(subject)
	var get *redis.StringCmd
	var ttl *redis.DurationCmd
	_, err = limiter.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.Get(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return Window{}, err
	}

	used, getErr := get.Int()
	switch {
	case errors.Is(getErr, redis.Nil):
		used = 0
	case getErr != nil:
		return Window{}, getErr
	}

	window = newWindow(used, limit, int64(ttl.Val().Seconds()))
	limiter.trace.ApplyTraceAttributes(span, core.TraceRateLimitMeta{
		Subject: subject, Limit: limit, Used: window.Used, Remaining: window.Remaining, Op: "usage",
	})
	return window, nil
}

// Clear 清掉來源的計數，下一次寫入重新開窗
func (limiter *IngestLimiter) Clear(ctx context.Context, subject string) (err error) {
	if !limiter.Enabled() {
		return ErrLimiterDisabled
	}

	ctx, span, end := limiter.trace.WithSpan(ctx)
	defer func() { end(err) }()

	limiter.trace.ApplyTraceAttributes(span, core.TraceRateLimitMeta{Subject: subject, Op: "clear"})
	return limiter.client.Del(ctx, limiter.key(subject)).Err()
}

// IngestSubject 寫入限流以來源 IP 為單位
func IngestSubject(clientIP string) string {
	return "ingest:" + clientIP
}

// key costlens:ingest_window:<subject>
func (limiter *IngestLimiter) key(subject string) string {
	return string(core.RedisKeyServerName) + ":" + string(core.RedisKeyIngest) + ":" + subject
}

func newWindow(used, limit int, ttlSeconds int64) Window {
	window := Window{Used: used, Remaining: limit - used}
	if window.Remaining < 0 {
		window.Remaining = 0
	}
	if ttlSeconds > 0 {
		window.TTL = time.Duration(ttlSeconds) * time.Second
	}
	return window
}
