package repository

import (
	"context"
	"errors"

	"costlens/internal/core"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewEventRepository,
	NewPricingRuleRepository,
	NewBudgetRepository,
	NewAlertRepository)

// 索引已存在時不視為致命錯誤
func ensureIndexes(contextValue context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, returnedError := coll.Indexes().CreateMany(contextValue, models)
	if returnedError != nil && !mongo.IsDuplicateKeyError(returnedError) {
		return returnedError
	}
	return nil
}

// translateError 把 driver 錯誤轉成 core 的共用錯誤
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return core.ErrRecordNotFound
	case mongo.IsDuplicateKeyError(err):
		return core.ErrDuplicateKey
	default:
		return err
	}
}

func withUpdatedAt(update bson.M) bson.M {
	// 確保 $currentDate 存在
	currentDate, ok := update["$currentDate"].(bson.M)
	if !ok || currentDate == nil {
		currentDate = bson.M{}
	}
	currentDate["updatedAt"] = true
	update["$currentDate"] = currentDate
	return update
}
