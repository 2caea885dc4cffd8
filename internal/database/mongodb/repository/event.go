package repository

import (
	"context"
	"fmt"
	"sort"

	"costlens/internal/core"
	client "costlens/internal/database/client"
	"costlens/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventRepository struct {
	collection *mongo.Collection
}

func NewEventRepository(mongoClient *client.MongoClient) *EventRepository {
	repository := &EventRepository{
		collection: mongoClient.Collection(core.MongoCollectionEvents),
	}
	_ = ensureIndexes(context.Background(), repository.collection, model.EventIndexes)
	return repository
}

// Insert 新增事件
func (repository *EventRepository) Insert(contextValue context.Context, event *model.Event) (_ *model.Event, returnedError error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	insertResult, insertError := repository.collection.InsertOne(contextValue, event)
	if insertError != nil {
		return nil, translateError(insertError)
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	event.ID = objectID
	return event, nil
}

// GetByID 依 ID 取得事件
func (repository *EventRepository) GetByID(contextValue context.Context, eventID primitive.ObjectID) (_ *model.Event, returnedError error) {
	var event model.Event
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": eventID}).Decode(&event); returnedError != nil {
		return nil, translateError(returnedError)
	}
	return &event, nil
}

// Find 依條件分頁查詢，新到舊
func (repository *EventRepository) Find(contextValue context.Context, match core.EventMatch, page core.Page) (_ []*model.Event, total int64, returnedError error) {
	filter := buildEventFilter(match)
	total, returnedError = repository.collection.CountDocuments(contextValue, filter)
	if returnedError != nil {
		return nil, 0, returnedError
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip())
	if page.Size > 0 {
		findOptions.SetLimit(page.Size)
	}
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, 0, findError
	}
	defer cursor.Close(contextValue)

	results := make([]*model.Event, 0)
	for cursor.Next(contextValue) {
		var event model.Event
		if decodeError := cursor.Decode(&event); decodeError != nil {
			return nil, 0, decodeError
		}
		results = append(results, &event)
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, 0, cursorError
	}
	return results, total, nil
}

// Aggregate 執行分組彙總
func (repository *EventRepository) Aggregate(contextValue context.Context, query core.GroupQuery) (_ []core.GroupRow, returnedError error) {
	cursor, aggregateError := repository.collection.Aggregate(contextValue, buildGroupPipeline(query))
	if aggregateError != nil {
		return nil, aggregateError
	}
	defer cursor.Close(contextValue)

	rows := make([]core.GroupRow, 0)
	for cursor.Next(contextValue) {
		var result groupResult
		if decodeError := cursor.Decode(&result); decodeError != nil {
			return nil, decodeError
		}
		rows = append(rows, result.toRow(query))
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}
	return rows, nil
}

// Distinct 取得欄位的所有不重複值（排序後）
func (repository *EventRepository) Distinct(contextValue context.Context, field core.GroupField) (_ []string, returnedError error) {
	values, distinctError := repository.collection.Distinct(contextValue, string(field), bson.M{})
	if distinctError != nil {
		return nil, distinctError
	}
	results := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok && s != "" {
			results = append(results, s)
		}
	}
	sort.Strings(results)
	return results, nil
}

// DeleteByID 依 ID 刪除
func (repository *EventRepository) DeleteByID(contextValue context.Context, eventID primitive.ObjectID) (returnedError error) {
	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"_id": eventID})
	if deleteError != nil {
		return deleteError
	}
	if result.DeletedCount == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

// DeleteByOwner 刪除某 owner 的所有事件
func (repository *EventRepository) DeleteByOwner(contextValue context.Context, owner string) (_ int64, returnedError error) {
	result, deleteError := repository.collection.DeleteMany(contextValue, bson.M{"owner": owner})
	if deleteError != nil {
		return 0, deleteError
	}
	return result.DeletedCount, nil
}
