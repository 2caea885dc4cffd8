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

type PricingRuleRepository struct {
	collection *mongo.Collection
}

func NewPricingRuleRepository(mongoClient *client.MongoClient) *PricingRuleRepository {
	repository := &PricingRuleRepository{
		collection: mongoClient.Collection(core.MongoCollectionPricingRules),
	}
	_ = ensureIndexes(context.Background(), repository.collection, model.PricingRuleIndexes)
	return repository
}

// FindActive 取得 provider 的啟用中規則；沒有時回傳 nil, nil
func (repository *PricingRuleRepository) FindActive(contextValue context.Context, provider string) (_ *model.PricingRule, returnedError error) {
	var rule model.PricingRule
	returnedError = repository.collection.FindOne(contextValue, bson.M{"provider": provider, "isActive": true}).Decode(&rule)
	if returnedError == mongo.ErrNoDocuments {
		return nil, nil
	}
	if returnedError != nil {
		return nil, returnedError
	}
	return &rule, nil
}

// Create 新增規則，provider 重覆時回傳 core.ErrDuplicateKey
func (repository *PricingRuleRepository) Create(contextValue context.Context, rule *model.PricingRule) (_ *model.PricingRule, returnedError error) {
	rule.ID = primitive.NewObjectID()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	rule.UpdatedAt = rule.CreatedAt
	if _, insertError := repository.collection.InsertOne(contextValue, rule); insertError != nil {
		return nil, translateError(insertError)
	}
	return rule, nil
}

func (repository *PricingRuleRepository) GetByID(contextValue context.Context, ruleID primitive.ObjectID) (_ *model.PricingRule, returnedError error) {
	var rule model.PricingRule
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": ruleID}).Decode(&rule); returnedError != nil {
		return nil, translateError(returnedError)
	}
	return &rule, nil
}

func (repository *PricingRuleRepository) List(contextValue context.Context) (_ []*model.PricingRule, returnedError error) {
	cursor, findError := repository.collection.Find(contextValue, bson.M{}, options.Find().SetSort(bson.D{{Key: "provider", Value: 1}}))
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	results := make([]*model.PricingRule, 0)
	if returnedError = cursor.All(contextValue, &results); returnedError != nil {
		return nil, returnedError
	}
	return results, nil
}

// Update 覆寫可編輯欄位
func (repository *PricingRuleRepository) Update(contextValue context.Context, rule *model.PricingRule) (returnedError error) {
	update := bson.M{"$set": bson.M{
		"provider":        rule.Provider,
		"description":     rule.Description,
		"costPerUnit":     rule.CostPerUnit,
		"inputCostPer1k":  rule.InputCostPer1K,
		"outputCostPer1k": rule.OutputCostPer1K,
		"freeTierLimit":   rule.FreeTierLimit,
		"tierPricing":     rule.TierPricing,
		"billingCycle":    rule.BillingCycle,
		"currency":        rule.Currency,
		"isActive":        rule.IsActive,
	}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"_id": rule.ID}, withUpdatedAt(update))
	if updateError != nil {
		return translateError(updateError)
	}
	if result.MatchedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (repository *PricingRuleRepository) DeleteByID(contextValue context.Context, ruleID primitive.ObjectID) (returnedError error) {
	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"_id": ruleID})
	if deleteError != nil {
		return deleteError
	}
	if result.DeletedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
