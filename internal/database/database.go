package database

import (
	client "costlens/internal/database/client"
	fluentdRepo "costlens/internal/database/fluentd/repository"
	mongoRepo "costlens/internal/database/mongodb/repository"
	redisRepo "costlens/internal/database/redis/repository"
	"costlens/internal/service"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	NewHealthProbes,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)

// NewHealthProbes readiness 檢查的依賴；Redis 只影響限流，列為 optional
func NewHealthProbes(mongoClient *client.MongoClient, redisClient *client.RedisClient) []service.HealthProbe {
	return []service.HealthProbe{
		{Name: "mongodb", Check: mongoClient.Ping},
		{Name: "redis", Optional: true, Check: redisClient.Ping},
	}
}
