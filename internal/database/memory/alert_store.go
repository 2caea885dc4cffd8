package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"costlens/internal/core"
	"costlens/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultAlertLimit = 100

type AlertStore struct {
	mu     sync.RWMutex
	alerts []model.Alert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: make([]model.Alert, 0)}
}

func copyAlert(a model.Alert) *model.Alert {
	if a.Metadata != nil {
		metadata := make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			metadata[k] = v
		}
		a.Metadata = metadata
	}
	return &a
}

func (s *AlertStore) Create(ctx context.Context, alert *model.Alert) (*model.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = primitive.NewObjectID()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	alert.UpdatedAt = alert.CreatedAt
	s.alerts = append(s.alerts, *copyAlert(*alert))
	return copyAlert(*alert), nil
}

func (s *AlertStore) FindUnresolved(ctx context.Context, lookup core.AlertLookup) (*model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *model.Alert
	for i := range s.alerts {
		a := &s.alerts[i]
		if a.IsResolved || a.Type != lookup.Type || a.Provider != lookup.Provider {
			continue
		}
		if !lookup.CreatedSince.IsZero() && a.CreatedAt.Before(lookup.CreatedSince) {
			continue
		}
		if lookup.Period != "" {
			if period, _ := a.Metadata[model.MetadataPeriod].(string); period != lookup.Period {
				continue
			}
		}
		if found == nil || a.CreatedAt.After(found.CreatedAt) {
			found = a
		}
	}
	if found == nil {
		return nil, nil
	}
	return copyAlert(*found), nil
}

func (s *AlertStore) List(ctx context.Context, query core.AlertQuery) ([]*model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.Alert, 0)
	for _, a := range s.alerts {
		if query.IsRead != nil && a.IsRead != *query.IsRead {
			continue
		}
		if query.IsResolved != nil && a.IsResolved != *query.IsResolved {
			continue
		}
		if query.Type != "" && a.Type != query.Type {
			continue
		}
		if query.Severity != "" && a.Severity != query.Severity {
			continue
		}
		results = append(results, copyAlert(a))
	}
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID.Hex() > results[j].ID.Hex()
	})

	limit := int(query.Limit)
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *AlertStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.alerts {
		if a.ID == id {
			return copyAlert(a), nil
		}
	}
	return nil, core.ErrRecordNotFound
}

func (s *AlertStore) update(id primitive.ObjectID, apply func(a *model.Alert)) (*model.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			apply(&s.alerts[i])
			s.alerts[i].UpdatedAt = time.Now().UTC()
			return copyAlert(s.alerts[i]), nil
		}
	}
	return nil, core.ErrRecordNotFound
}

func (s *AlertStore) MarkRead(ctx context.Context, id primitive.ObjectID) (*model.Alert, error) {
	return s.update(id, func(a *model.Alert) { a.IsRead = true })
}

func (s *AlertStore) Resolve(ctx context.Context, id primitive.ObjectID, resolvedBy string, at time.Time) (*model.Alert, error) {
	return s.update(id, func(a *model.Alert) {
		a.IsResolved = true
		a.ResolvedAt = &at
		if resolvedBy != "" {
			a.ResolvedBy = resolvedBy
		}
	})
}

func (s *AlertStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return core.ErrRecordNotFound
}
