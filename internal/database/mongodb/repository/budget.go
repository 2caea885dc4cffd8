package repository

import (
	"context"
	"time"

	"costlens/internal/core"
	client "costlens/internal/database/client"
	"costlens/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BudgetRepository struct {
	collection *mongo.Collection
}

func NewBudgetRepository(mongoClient *client.MongoClient) *BudgetRepository {
	repository := &BudgetRepository{
		collection: mongoClient.Collection(core.MongoCollectionBudgets),
	}
	_ = ensureIndexes(context.Background(), repository.collection, model.BudgetIndexes)
	return repository
}

// Create 新增預算，(provider, period) 重覆時回傳 core.ErrDuplicateKey
func (repository *BudgetRepository) Create(contextValue context.Context, budget *model.Budget) (_ *model.Budget, returnedError error) {
	budget.ID = primitive.NewObjectID()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	budget.UpdatedAt = budget.CreatedAt
	if _, insertError := repository.collection.InsertOne(contextValue, budget); insertError != nil {
		return nil, translateError(insertError)
	}
	return budget, nil
}

func (repository *BudgetRepository) GetByID(contextValue context.Context, budgetID primitive.ObjectID) (_ *model.Budget, returnedError error) {
	var budget model.Budget
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": budgetID}).Decode(&budget); returnedError != nil {
		return nil, translateError(returnedError)
	}
	return &budget, nil
}

func (repository *BudgetRepository) List(contextValue context.Context, query core.BudgetQuery) (_ []*model.Budget, returnedError error) {
	filter := bson.M{}
	if query.Provider != "" {
		filter["provider"] = query.Provider
	}
	if query.Period != "" {
		filter["period"] = query.Period
	}
	if query.Active != nil {
		filter["isActive"] = *query.Active
	}
	cursor, findError := repository.collection.Find(contextValue, filter,
		options.Find().SetSort(bson.D{{Key: "period", Value: -1}, {Key: "provider", Value: 1}}))
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	results := make([]*model.Budget, 0)
	if returnedError = cursor.All(contextValue, &results); returnedError != nil {
		return nil, returnedError
	}
	return results, nil
}

// ListActiveForPeriod 指定期間內啟用中的預算
func (repository *BudgetRepository) ListActiveForPeriod(contextValue context.Context, period string) (_ []*model.Budget, returnedError error) {
	active := true
	return repository.List(contextValue, core.BudgetQuery{Period: period, Active: &active})
}

// Update 覆寫可編輯欄位（currentSpend 除外）
func (repository *BudgetRepository) Update(contextValue context.Context, budget *model.Budget) (returnedError error) {
	update := bson.M{"$set": bson.M{
		"provider":       budget.Provider,
		"period":         budget.Period,
		"monthlyLimit":   budget.MonthlyLimit,
		"alertThreshold": budget.AlertThreshold,
		"isActive":       budget.IsActive,
	}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": budget.ID}, withUpdatedAt(update))
	if updateError != nil {
		return translateError(updateError)
	}
	if result.MatchedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

// UpdateSpend 只由 recompute 呼叫
func (repository *BudgetRepository) UpdateSpend(contextValue context.Context, budgetID primitive.ObjectID, spend float64, at time.Time) (returnedError error) {
	update := bson.M{"$set": bson.M{"currentSpend": spend, "recomputedAt": at}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": budgetID}, withUpdatedAt(update))
	if updateError != nil {
		return updateError
	}
	if result.MatchedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (repository *BudgetRepository) DeleteByID(contextValue context.Context, budgetID primitive.ObjectID) (returnedError error) {
	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"_id": budgetID})
	if deleteError != nil {
		return deleteError
	}
	if result.DeletedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
