package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"costlens/config"
	"costlens/internal/core"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const defaultMongoConnectTimeout = 10 * time.Second

// MongoClient 持有事件、價目、預算與告警共用的 MongoDB 連線
type MongoClient struct {
	client   *mongo.Client
	database string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewMongoClient(logger *zap.Logger, conf *config.Configuration) (*MongoClient, func(), error) {
	m := &MongoClient{
		database: mongoDatabaseName(conf.MongoDB.Database),
		timeout:  mongoConnectTimeout(conf.MongoDB.ConnectTimeout),
		logger:   logger,
	}

	opts := options.Client().
		ApplyURI(joinMongoOptions(conf.MongoDB.URI, conf.MongoDB.Options)).
		SetAppName(conf.App.Name).
		SetConnectTimeout(m.timeout)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return nil, nil, err
	}
	m.client = client

	// Connect 不會真的建立連線，啟動時先 ping 一次
	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return nil, nil, fmt.Errorf("mongodb ping: %w", err)
	}
	logger.Info("Connected to MongoDB", zap.String("database", m.database))

	cleanup := func() {
		logger.Info("closing the MongoDB resources")
		if err := m.Close(); err != nil {
			logger.Error("failed to close MongoDB client", zap.Error(err))
		}
	}
	return m, cleanup, nil
}

func mongoDatabaseName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return string(core.MongoDBCostLens)
}

func mongoConnectTimeout(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultMongoConnectTimeout
	}
	return time.Duration(seconds) * time.Second
}

func joinMongoOptions(uri, query string) string {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	switch {
	case query == "":
		return uri
	case strings.Contains(uri, "?"):
		return uri + "&" + query
	default:
		return uri + "?" + query
	}
}

// Ping 供 readiness 檢查使用
func (m *MongoClient) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return core.ErrStoreUnavailable
	}
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// Collection 回傳設定資料庫下的集合
func (m *MongoClient) Collection(name core.MongoCollection) *mongo.Collection {
	return m.client.Database(m.database).Collection(string(name))
}
