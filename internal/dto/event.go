package dto

import (
	"encoding/json"
	"time"

	"costlens/internal/core"
	"costlens/internal/pkg/request"
)

// 紀錄一次外部 API 呼叫
type LogEventDto struct {
	Owner          string           `json:"owner,omitempty"`
	Provider       string           `json:"provider" binding:"required"`
	Endpoint       string           `json:"endpoint" binding:"required"`
	Method         string           `json:"method,omitempty"`
	Feature        string           `json:"feature" binding:"required"`
	RequestCount   int64            `json:"requestCount,omitempty" binding:"min=0"` // 0 視為 1
	InputTokens    int64            `json:"inputTokens,omitempty" binding:"min=0"`
	OutputTokens   int64            `json:"outputTokens,omitempty" binding:"min=0"`
	ResponseTimeMs int64            `json:"responseTimeMs" binding:"min=0"`
	Status         core.EventStatus `json:"status,omitempty" binding:"omitempty,oneof=success failure error"`
	StatusCode     *int             `json:"statusCode,omitempty"`
	ErrorMessage   string           `json:"errorMessage,omitempty"`
	RequestBody    json.RawMessage  `json:"requestBody,omitempty" swaggertype:"object"`
}

func (LogEventDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Provider.required": "provider is required",
		"Endpoint.required": "endpoint is required",
		"Feature.required":  "feature is required",
		"Status.oneof":      "status must be one of success, failure, error",
	}
}

type BulkLogEventsDto struct {
	Logs []LogEventDto `json:"logs"`
}

type BulkItemErrorDto struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type BulkLogResultDto struct {
	ProcessedCount int                `json:"processed"`
	FailedCount    int                `json:"failed"`
	Logs           []*EventDto        `json:"logs"`
	Errors         []BulkItemErrorDto `json:"errors"`
}

type EventDto struct {
	ID                 string           `json:"id"`
	Owner              string           `json:"owner,omitempty"`
	Provider           string           `json:"provider"`
	Endpoint           string           `json:"endpoint"`
	Method             string           `json:"method,omitempty"`
	Feature            string           `json:"feature"`
	RequestCount       int64            `json:"requestCount"`
	InputTokens        int64            `json:"inputTokens"`
	OutputTokens       int64            `json:"outputTokens"`
	TotalTokens        int64            `json:"totalTokens"`
	ResponseTimeMs     int64            `json:"responseTimeMs"`
	Status             core.EventStatus `json:"status"`
	StatusCode         *int             `json:"statusCode,omitempty"`
	ErrorMessage       string           `json:"errorMessage,omitempty"`
	CalculatedCost     float64          `json:"calculatedCost"`
	BillingMode        core.BillingMode `json:"billingMode"`
	RequestBody        json.RawMessage  `json:"requestBody,omitempty" swaggertype:"object"`
	RequestFingerprint string           `json:"requestFingerprint,omitempty"`
	Timestamp          time.Time        `json:"timestamp"`
}

// 查詢事件列表（query string）
type ListEventsQueryDto struct {
	Page      int64            `form:"page"`
	Limit     int64            `form:"limit"`
	Provider  string           `form:"provider"`
	Feature   string           `form:"feature"`
	Status    core.EventStatus `form:"status" binding:"omitempty,oneof=success failure error"`
	StartDate string           `form:"startDate"`
	EndDate   string           `form:"endDate"`
}

type PaginationDto struct {
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Pages int64 `json:"pages"`
}

type EventListDto struct {
	Data       []*EventDto   `json:"data"`
	Pagination PaginationDto `json:"pagination"`
}

type DeletedCountDto struct {
	DeletedCount int64 `json:"deletedCount"`
}
