package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"costlens/internal/core"
	fluentdModel "costlens/internal/database/fluentd/model"
	"costlens/internal/database/mongodb/model"
	"costlens/internal/dto"
	cErr "costlens/internal/pkg/error"
	"costlens/internal/pkg/request"
	"costlens/internal/telemetry"
	"costlens/utils/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultEventPage  = 1
	defaultEventLimit = 50
	maxEventLimit     = 500
)

type EventService struct {
	trace      *telemetry.Trace
	metric     *telemetry.Metric
	logger     *zap.Logger
	clock      clock.Clock
	events     EventStore
	calculator *CostCalculator
	audit      AuditLogger
}

func NewEventService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	clock clock.Clock,
	events EventStore,
	calculator *CostCalculator,
	audit AuditLogger,
) *EventService {
	return &EventService{
		trace:      trace,
		metric:     metric,
		logger:     logger,
		clock:      clock,
		events:     events,
		calculator: calculator,
		audit:      audit,
	}
}

// LogEvent 驗證、計價後寫入一筆事件。沒有定價規則時以 0 成本寫入
func (s *EventService) LogEvent(ctx context.Context, input *dto.LogEventDto) (*dto.EventDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	event, err := s.record(ctx, input, false)
	if err != nil {
		return nil, err
	}
	return modelToEventDto(event), nil
}

// BulkLogEvents 逐筆處理；單筆失敗（驗證、無定價規則、寫入錯誤）只記錄 index 與原因
func (s *EventService) BulkLogEvents(ctx context.Context, input *dto.BulkLogEventsDto) (*dto.BulkLogResultDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if input == nil || len(input.Logs) == 0 {
		return nil, cErr.EmptyBatch("logs must be a non-empty array")
	}

	result := &dto.BulkLogResultDto{
		Logs:   make([]*dto.EventDto, 0, len(input.Logs)),
		Errors: make([]dto.BulkItemErrorDto, 0),
	}
	for i := range input.Logs {
		event, err := s.record(ctx, &input.Logs[i], true)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemErrorDto{Index: i, Error: describeError(err)})
			continue
		}
		result.Logs = append(result.Logs, modelToEventDto(event))
	}
	result.ProcessedCount = len(result.Logs)
	result.FailedCount = len(result.Errors)
	s.logger.Info("bulk events logged",
		zap.Int("processed", result.ProcessedCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

func (s *EventService) record(ctx context.Context, input *dto.LogEventDto, requireRule bool) (*model.Event, error) {
	if input == nil {
		return nil, cErr.ValidateErr("event is required")
	}
	if validationErr := request.ValidateStruct(input); validationErr != nil {
		return nil, validationErr
	}

	requestCount := input.RequestCount
	if requestCount <= 0 {
		requestCount = 1
	}
	status := input.Status
	if status == "" {
		status = core.EventStatusSuccess
	}
	body, fingerprint, err := canonicalBody(input.RequestBody)
	if err != nil {
		return nil, cErr.ValidateErr("requestBody must be valid JSON")
	}

	now := core.NormalizeTime(s.clock.Now())
	quote, err := s.calculator.Quote(ctx, CostInput{
		Provider:     input.Provider,
		RequestCount: requestCount,
		InputTokens:  input.InputTokens,
		OutputTokens: input.OutputTokens,
	}, now)
	if err != nil {
		s.logger.Error("cost calculation failed", zap.String("provider", input.Provider), zap.Error(err))
		return nil, cErr.DatabaseError("database cost calculation error")
	}
	if requireRule && quote.Rule == nil {
		return nil, cErr.NotFound(fmt.Sprintf("No pricing rule found for %s", input.Provider))
	}
	cost, _ := quote.Cost.Float64()

	event := &model.Event{
		ID:                 primitive.NewObjectID(),
		Owner:              input.Owner,
		Provider:           input.Provider,
		Endpoint:           input.Endpoint,
		Method:             strings.ToUpper(input.Method),
		Feature:            input.Feature,
		RequestCount:       requestCount,
		InputTokens:        input.InputTokens,
		OutputTokens:       input.OutputTokens,
		TotalTokens:        input.InputTokens + input.OutputTokens,
		ResponseTimeMs:     input.ResponseTimeMs,
		Status:             status,
		StatusCode:         input.StatusCode,
		ErrorMessage:       input.ErrorMessage,
		CalculatedCost:     cost,
		BillingMode:        quote.Mode,
		RequestBody:        body,
		RequestFingerprint: fingerprint,
		Timestamp:          now,
	}
	created, err := s.events.Insert(ctx, event)
	if err != nil {
		return nil, storeError(err, "event", "InsertEvent")
	}

	s.metric.ObserveEvent(created.Provider, string(created.Status), string(created.BillingMode), created.CalculatedCost)
	s.shipUsage(ctx, created)
	return created, nil
}

func (s *EventService) shipUsage(ctx context.Context, event *model.Event) {
	if s.audit == nil {
		return
	}
	usage := fluentdModel.CostUsageLog{
		EventID:        event.ID.Hex(),
		Owner:          event.Owner,
		Provider:       event.Provider,
		Endpoint:       event.Endpoint,
		Method:         event.Method,
		Feature:        event.Feature,
		RequestCount:   event.RequestCount,
		InputTokens:    event.InputTokens,
		OutputTokens:   event.OutputTokens,
		ResponseTimeMs: event.ResponseTimeMs,
		Status:         string(event.Status),
		BillingMode:    string(event.BillingMode),
		Cost:           event.CalculatedCost,
		EventTS:        event.Timestamp.Format("2006-01-02T15:04:05.000Z"),
	}
	if event.StatusCode != nil {
		usage.StatusCode = *event.StatusCode
	}
	if err := s.audit.LogUsage(ctx, usage); err != nil {
		s.logger.Warn("failed to ship usage audit record", zap.String("eventID", usage.EventID), zap.Error(err))
	}
}

// ListEvents 新到舊分頁；時間區間的 end 為包含
func (s *EventService) ListEvents(ctx context.Context, query *dto.ListEventsQueryDto, match core.EventMatch) (*dto.EventListDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	page := query.Page
	if page <= 0 {
		page = defaultEventPage
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	match.Provider = query.Provider
	match.Feature = query.Feature
	match.Status = query.Status

	events, total, err := s.events.Find(ctx, match, core.Page{Page: page, Size: limit})
	if err != nil {
		return nil, storeError(err, "event", "ListEvents")
	}
	data := make([]*dto.EventDto, len(events))
	for i, e := range events {
		data[i] = modelToEventDto(e)
	}
	return &dto.EventListDto{
		Data: data,
		Pagination: dto.PaginationDto{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

func (s *EventService) ListProviders(ctx context.Context) ([]string, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	values, err := s.events.Distinct(ctx, core.GroupByProvider)
	if err != nil {
		return nil, storeError(err, "event", "ListProviders")
	}
	return values, nil
}

func (s *EventService) ListFeatures(ctx context.Context) ([]string, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	values, err := s.events.Distinct(ctx, core.GroupByFeature)
	if err != nil {
		return nil, storeError(err, "event", "ListFeatures")
	}
	return values, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	return storeError(s.events.DeleteByID(ctx, id), "event", "DeleteEvent")
}

// ClearEvents 刪除某 owner 的所有事件
func (s *EventService) ClearEvents(ctx context.Context, owner string) (*dto.DeletedCountDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if strings.TrimSpace(owner) == "" {
		return nil, cErr.BadRequestParams("owner is required")
	}
	deleted, err := s.events.DeleteByOwner(ctx, owner)
	if err != nil {
		return nil, storeError(err, "event", "ClearEvents")
	}
	return &dto.DeletedCountDto{DeletedCount: deleted}, nil
}

// canonicalBody 重新編碼成 key 排序後的 JSON，指紋與欄位順序無關；空 body 回傳空字串
func canonicalBody(raw json.RawMessage) (body string, fingerprint string, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", "", nil
	}
	var decoded any
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return "", "", err
	}
	// encoding/json 輸出 map 時 key 已排序
	canonical, err := json.Marshal(decoded)
	if err != nil {
		return "", "", err
	}
	sum := sha256.Sum256(canonical)
	return string(canonical), hex.EncodeToString(sum[:]), nil
}

func describeError(err error) string {
	if appErr, ok := cErr.As(err); ok && appErr.ErrorDesc() != "" {
		return appErr.ErrorDesc()
	}
	return err.Error()
}

func modelToEventDto(e *model.Event) *dto.EventDto {
	out := &dto.EventDto{
		ID:                 e.ID.Hex(),
		Owner:              e.Owner,
		Provider:           e.Provider,
		Endpoint:           e.Endpoint,
		Method:             e.Method,
		Feature:            e.Feature,
		RequestCount:       e.RequestCount,
		InputTokens:        e.InputTokens,
		OutputTokens:       e.OutputTokens,
		TotalTokens:        e.TotalTokens,
		ResponseTimeMs:     e.ResponseTimeMs,
		Status:             e.Status,
		StatusCode:         e.StatusCode,
		ErrorMessage:       e.ErrorMessage,
		CalculatedCost:     e.CalculatedCost,
		BillingMode:        e.BillingMode,
		RequestFingerprint: e.RequestFingerprint,
		Timestamp:          e.Timestamp,
	}
	if e.RequestBody != "" {
		out.RequestBody = json.RawMessage(e.RequestBody)
	}
	return out
}
