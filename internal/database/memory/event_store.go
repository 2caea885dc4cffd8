package memory

import (
	"context"
	"sort"
	"sync"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventStore 記憶體版事件儲存，行為與 Mongo repository 相同
type EventStore struct {
	mu     sync.RWMutex
	events []model.Event
}

func NewEventStore() *EventStore {
	return &EventStore{events: make([]model.Event, 0)}
}

func (s *EventStore) Insert(ctx context.Context, event *model.Event) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	for _, existing := range s.events {
		if existing.ID == event.ID {
			return nil, core.ErrDuplicateKey
		}
	}
	event.Timestamp = core.NormalizeTime(event.Timestamp)
	s.events = append(s.events, *event)
	stored := *event
	return &stored, nil
}

func (s *EventStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.events {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, core.ErrRecordNotFound
}

func matches(e *model.Event, match core.EventMatch) bool {
	if !match.Contains(e.Timestamp) {
		return false
	}
	if match.Provider != "" && e.Provider != match.Provider {
		return false
	}
	if match.Feature != "" && e.Feature != match.Feature {
		return false
	}
	if match.Status != "" && e.Status != match.Status {
		return false
	}
	return true
}

func (s *EventStore) Find(ctx context.Context, match core.EventMatch, page core.Page) ([]*model.Event, int64, error) {
	s.mu.RLock()
	matching := make([]model.Event, 0)
	for i := range s.events {
		if matches(&s.events[i], match) {
			matching = append(matching, s.events[i])
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matching, func(i, j int) bool {
		if !matching[i].Timestamp.Equal(matching[j].Timestamp) {
			return matching[i].Timestamp.After(matching[j].Timestamp)
		}
		return matching[i].ID.Hex() > matching[j].ID.Hex()
	})

	total := int64(len(matching))
	start := page.Skip()
	if start > total {
		start = total
	}
	end := total
	if page.Size > 0 && start+page.Size < end {
		end = start + page.Size
	}

	results := make([]*model.Event, 0, end-start)
	for i := start; i < end; i++ {
		e := matching[i]
		results = append(results, &e)
	}
	return results, total, nil
}

type groupAcc struct {
	row     core.GroupRow
	latency int64
}

func groupKeyOf(e *model.Event, query core.GroupQuery) core.GroupKey {
	var key core.GroupKey
	if query.Has(core.GroupByProvider) {
		key.Provider = e.Provider
	}
	if query.Has(core.GroupByFeature) {
		key.Feature = e.Feature
	}
	if query.Has(core.GroupByEndpoint) {
		key.Endpoint = e.Endpoint
	}
	if query.Has(core.GroupByFingerprint) {
		key.RequestFingerprint = e.RequestFingerprint
	}
	if query.Bucket != core.GranularityNone {
		key.Bucket = core.TruncateBucket(e.Timestamp.UTC(), query.Bucket)
	}
	return key
}

// Aggregate 與 $group 管線相同的語意；結果依 key 排序以便測試
func (s *EventStore) Aggregate(ctx context.Context, query core.GroupQuery) ([]core.GroupRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[core.GroupKey]*groupAcc)
	for i := range s.events {
		e := &s.events[i]
		if !matches(e, query.Match) {
			continue
		}
		key := groupKeyOf(e, query)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{row: core.GroupRow{Key: key}}
			groups[key] = acc
		}
		acc.row.Documents++
		acc.row.Requests += e.RequestCount
		if e.IsSuccess() {
			acc.row.SuccessRequests += e.RequestCount
		} else {
			acc.row.FailedRequests += e.RequestCount
		}
		acc.row.Cost += e.CalculatedCost
		acc.latency += e.ResponseTimeMs
	}

	rows := make([]core.GroupRow, 0, len(groups))
	for _, acc := range groups {
		row := acc.row
		row.AvgResponseTimeMs = float64(acc.latency) / float64(row.Documents)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return lessKey(rows[i].Key, rows[j].Key) })
	return rows, nil
}

func lessKey(a, b core.GroupKey) bool {
	if a.Provider != b.Provider {
		return a.Provider < b.Provider
	}
	if a.Feature != b.Feature {
		return a.Feature < b.Feature
	}
	if a.Endpoint != b.Endpoint {
		return a.Endpoint < b.Endpoint
	}
	if a.RequestFingerprint != b.RequestFingerprint {
		return a.RequestFingerprint < b.RequestFingerprint
	}
	return a.Bucket.Before(b.Bucket)
}

func (s *EventStore) Distinct(ctx context.Context, field core.GroupField) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for i := range s.events {
		var v string
		switch field {
		case core.GroupByProvider:
			v = s.events[i].Provider
		case core.GroupByFeature:
			v = s.events[i].Feature
		case core.GroupByEndpoint:
			v = s.events[i].Endpoint
		case core.GroupByFingerprint:
			v = s.events[i].RequestFingerprint
		}
		if v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func (s *EventStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return core.ErrRecordNotFound
}

func (s *EventStore) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	var deleted int64
	for _, e := range s.events {
		if e.Owner == owner {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

// Len 測試用
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
