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

const defaultAlertLimit int64 = 100

type AlertRepository struct {
	collection *mongo.Collection
}

func NewAlertRepository(mongoClient *client.MongoClient) *AlertRepository {
	repository := &AlertRepository{
		collection: mongoClient.Collection(core.MongoCollectionAlerts),
	}
	_ = ensureIndexes(context.Background(), repository.collection, model.AlertIndexes)
	return repository
}

func (repository *AlertRepository) Create(contextValue context.Context, alert *model.Alert) (_ *model.Alert, returnedError error) {
	alert.ID = primitive.NewObjectID()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	alert.UpdatedAt = alert.CreatedAt
	if _, insertError := repository.collection.InsertOne(contextValue, alert); insertError != nil {
		return nil, translateError(insertError)
	}
	return alert, nil
}

func buildAlertLookupFilter(lookup core.AlertLookup) bson.M {
	filter := bson.M{
		"type":       lookup.Type,
		"provider":   lookup.Provider,
		"isResolved": false,
	}
	if !lookup.CreatedSince.IsZero() {
		filter["createdAt"] = bson.M{"$gte": lookup.CreatedSince}
	}
	if lookup.Period != "" {
		filter["metadata."+model.MetadataPeriod] = lookup.Period
	}
	return filter
}

// FindUnresolved 找出相同類型/provider 尚未解決的告警；沒有時回傳 nil, nil
func (repository *AlertRepository) FindUnresolved(contextValue context.Context, lookup core.AlertLookup) (_ *model.Alert, returnedError error) {
	var alert model.Alert
	returnedError = repository.collection.FindOne(contextValue, buildAlertLookupFilter(lookup),
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})).Decode(&alert)
	if returnedError == mongo.ErrNoDocuments {
		return nil, nil
	}
	if returnedError != nil {
		return nil, returnedError
	}
	return &alert, nil
}

func buildAlertListFilter(query core.AlertQuery) bson.M {
	filter := bson.M{}
	if query.IsRead != nil {
		filter["isRead"] = *query.IsRead
	}
	if query.IsResolved != nil {
		filter["isResolved"] = *query.IsResolved
	}
	if query.Type != "" {
		filter["type"] = query.Type
	}
	if query.Severity != "" {
		filter["severity"] = query.Severity
	}
	return filter
}

// List 新到舊，預設最多 100 筆
func (repository *AlertRepository) List(contextValue context.Context, query core.AlertQuery) (_ []*model.Alert, returnedError error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	cursor, findError := repository.collection.Find(contextValue, buildAlertListFilter(query),
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(limit))
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	results := make([]*model.Alert, 0)
	if returnedError = cursor.All(contextValue, &results); returnedError != nil {
		return nil, returnedError
	}
	return results, nil
}

func (repository *AlertRepository) GetByID(contextValue context.Context, alertID primitive.ObjectID) (_ *model.Alert, returnedError error) {
	var alert model.Alert
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": alertID}).Decode(&alert); returnedError != nil {
		return nil, translateError(returnedError)
	}
	return &alert, nil
}

func (repository *AlertRepository) updateOne(contextValue context.Context, alertID primitive.ObjectID, set bson.M) (_ *model.Alert, returnedError error) {
	var alert model.Alert
	returnedError = repository.collection.FindOneAndUpdate(contextValue,
		bson.M{"_id": alertID},
		withUpdatedAt(bson.M{"$set": set}),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&alert)
	if returnedError != nil {
		return nil, translateError(returnedError)
	}
	return &alert, nil
}

func (repository *AlertRepository) MarkRead(contextValue context.Context, alertID primitive.ObjectID) (_ *model.Alert, returnedError error) {
	return repository.updateOne(contextValue, alertID, bson.M{"isRead": true})
}

func (repository *AlertRepository) Resolve(contextValue context.Context, alertID primitive.ObjectID, resolvedBy string, at time.Time) (_ *model.Alert, returnedError error) {
	set := bson.M{"isResolved": true, "resolvedAt": at}
	if resolvedBy != "" {
		set["resolvedBy"] = resolvedBy
	}
	return repository.updateOne(contextValue, alertID, set)
}

func (repository *AlertRepository) DeleteByID(contextValue context.Context, alertID primitive.ObjectID) (returnedError error) {
	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"_id": alertID})
	if deleteError != nil {
		return deleteError
	}
	if result.DeletedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}
