package client

import (
	"context"
	"fmt"

	"costlens/config"
	"costlens/internal/core"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient 連接 Redis；REDIS__ENABLED=false 時 client 為 nil
type RedisClient struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisClient(logger *zap.Logger, config *config.Configuration) (*RedisClient, func(), error) {
	redisClient := &RedisClient{logger: logger}
	if !config.Redis.Enabled {
		logger.Info("Redis disabled, ingest rate limiting is off")
		return redisClient, func() {}, nil
	}
	client, err := redisClient.connectDB(config)
	if err != nil {
		logger.Error("failed to connect to Redis", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to Redis")
	redisClient.client = client

	cleanup := func() {
		logger.Info("closing the Redis resources")
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close Redis client", zap.Error(err))
		}
	}

	return redisClient, cleanup, nil
}

// NewRedisClientFrom 測試用，直接包裝既有連線
func NewRedisClientFrom(client *redis.Client, logger *zap.Logger) *RedisClient {
	return &RedisClient{client: client, logger: logger}
}

func (client *RedisClient) connectDB(config *config.Configuration) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Redis.Host, config.Redis.Port),
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
	if _, err := r.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return r, nil
}

// Enabled 是否有可用連線
func (redisClient *RedisClient) Enabled() bool {
	return redisClient != nil && redisClient.client != nil
}

// Ping Redis 關閉時回傳 core.ErrStoreUnavailable
func (redisClient *RedisClient) Ping(ctx context.Context) error {
	if !redisClient.Enabled() {
		return core.ErrStoreUnavailable
	}
	return redisClient.client.Ping(ctx).Err()
}

// Close 關閉 Redis 連線
func (redisClient *RedisClient) Close() error {
	if !redisClient.Enabled() {
		return nil
	}
	return redisClient.client.Close()
}

// Client 回傳 Redis 連線
func (redisClient *RedisClient) Client() *redis.Client {
	return redisClient.client
}
