package repository

import (
	"time"

	"costlens/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// buildEventFilter EventMatch → $match 條件
func buildEventFilter(match core.EventMatch) bson.M {
	filter := bson.M{}
	timeRange := bson.M{}
	if !match.From.IsZero() {
		timeRange["$gte"] = match.From
	}
	if !match.To.IsZero() {
		timeRange["$lt"] = match.To
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}
	if match.Provider != "" {
		filter["provider"] = match.Provider
	}
	if match.Feature != "" {
		filter["feature"] = match.Feature
	}
	if match.Status != "" {
		filter["status"] = match.Status
	}
	return filter
}

type datePart struct {
	key string
	op  string
}

// 各粒度需要的日期分量，Mongo 的日期運算子預設為 UTC
var bucketParts = map[core.Granularity][]datePart{
	core.GranularityMinute: {{"year", "$year"}, {"month", "$month"}, {"day", "$dayOfMonth"}, {"hour", "$hour"}, {"minute", "$minute"}},
	core.GranularityHour:   {{"year", "$year"}, {"month", "$month"}, {"day", "$dayOfMonth"}, {"hour", "$hour"}},
	core.GranularityDay:    {{"year", "$year"}, {"month", "$month"}, {"day", "$dayOfMonth"}},
	core.GranularityWeek:   {{"year", "$year"}, {"week", "$week"}},
	core.GranularityMonth:  {{"year", "$year"}, {"month", "$month"}},
}

// buildGroupPipeline GroupQuery → $match + $group
func buildGroupPipeline(query core.GroupQuery) mongo.Pipeline {
	groupKey := bson.D{}
	for _, field := range query.By {
		groupKey = append(groupKey, bson.E{Key: string(field), Value: "$" + string(field)})
	}
	for _, part := range bucketParts[query.Bucket] {
		groupKey = append(groupKey, bson.E{Key: part.key, Value: bson.D{{Key: part.op, Value: "$timestamp"}}})
	}
	var groupID any
	if len(groupKey) > 0 {
		groupID = groupKey
	}

	isSuccess := bson.D{{Key: "$eq", Value: bson.A{"$status", core.EventStatusSuccess}}}
	group := bson.D{
		{Key: "_id", Value: groupID},
		{Key: "documents", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "requests", Value: bson.D{{Key: "$sum", Value: "$requestCount"}}},
		{Key: "successRequests", Value: bson.D{{Key: "$sum", Value: bson.D{
			{Key: "$cond", Value: bson.A{isSuccess, "$requestCount", 0}},
		}}}},
		{Key: "failedRequests", Value: bson.D{{Key: "$sum", Value: bson.D{
			{Key: "$cond", Value: bson.A{isSuccess, 0, "$requestCount"}},
		}}}},
		{Key: "cost", Value: bson.D{{Key: "$sum", Value: "$calculatedCost"}}},
		{Key: "avgResponseTimeMs", Value: bson.D{{Key: "$avg", Value: "$responseTimeMs"}}},
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: buildEventFilter(query.Match)}},
		{{Key: "$group", Value: group}},
	}
}

type groupID struct {
	Provider           string `bson:"provider"`
	Feature            string `bson:"feature"`
	Endpoint           string `bson:"endpoint"`
	RequestFingerprint string `bson:"requestFingerprint"`
	Year               int    `bson:"year"`
	Month              int    `bson:"month"`
	Day                int    `bson:"day"`
	Hour               int    `bson:"hour"`
	Minute             int    `bson:"minute"`
	Week               int    `bson:"week"`
}

type groupResult struct {
	ID                groupID `bson:"_id"`
	Documents         int64   `bson:"documents"`
	Requests          int64   `bson:"requests"`
	SuccessRequests   int64   `bson:"successRequests"`
	FailedRequests    int64   `bson:"failedRequests"`
	Cost              float64 `bson:"cost"`
	AvgResponseTimeMs float64 `bson:"avgResponseTimeMs"`
}

// bucketStart 由日期分量還原分桶起點
func (id groupID) bucketStart(granularity core.Granularity) time.Time {
	switch granularity {
	case core.GranularityMinute:
		return time.Date(id.Year, time.Month(id.Month), id.Day, id.Hour, id.Minute, 0, 0, time.UTC)
	case core.GranularityHour:
		return time.Date(id.Year, time.Month(id.Month), id.Day, id.Hour, 0, 0, 0, time.UTC)
	case core.GranularityDay:
		return time.Date(id.Year, time.Month(id.Month), id.Day, 0, 0, 0, 0, time.UTC)
	case core.GranularityWeek:
		return core.WeekStart(id.Year, id.Week)
	case core.GranularityMonth:
		return time.Date(id.Year, time.Month(id.Month), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

func (r groupResult) toRow(query core.GroupQuery) core.GroupRow {
	return core.GroupRow{
		Key: core.GroupKey{
			Provider:           r.ID.Provider,
			Feature:            r.ID.Feature,
			Endpoint:           r.ID.Endpoint,
			RequestFingerprint: r.ID.RequestFingerprint,
			Bucket:             r.ID.bucketStart(query.Bucket),
		},
		Documents:         r.Documents,
		Requests:          r.Requests,
		SuccessRequests:   r.SuccessRequests,
		FailedRequests:    r.FailedRequests,
		Cost:              r.Cost,
		AvgResponseTimeMs: r.AvgResponseTimeMs,
	}
}
