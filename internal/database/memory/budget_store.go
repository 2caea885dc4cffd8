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

// BudgetStore 記憶體版預算儲存，(provider, period) 唯一
type BudgetStore struct {
	mu      sync.RWMutex
	budgets map[primitive.ObjectID]model.Budget
}

func NewBudgetStore() *BudgetStore {
	return &BudgetStore{budgets: make(map[primitive.ObjectID]model.Budget)}
}

func (s *BudgetStore) taken(provider, period string, except primitive.ObjectID) bool {
	for id, b := range s.budgets {
		if id != except && b.Provider == provider && b.Period == period {
			return true
		}
	}
	return false
}

func (s *BudgetStore) Create(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(budget.Provider, budget.Period, primitive.NilObjectID) {
		return nil, core.ErrDuplicateKey
	}
	budget.ID = primitive.NewObjectID()
	if budget.CreatedAt.IsZero() {
		budget.CreatedAt = time.Now().UTC()
	}
	budget.UpdatedAt = budget.CreatedAt
	s.budgets[budget.ID] = *budget
	stored := *budget
	return &stored, nil
}

func (s *BudgetStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return &b, nil
}

func (s *BudgetStore) List(ctx context.Context, query core.BudgetQuery) ([]*model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.Budget, 0)
	for _, b := range s.budgets {
		if query.Provider != "" && b.Provider != query.Provider {
			continue
		}
		if query.Period != "" && b.Period != query.Period {
			continue
		}
		if query.Active != nil && b.IsActive != *query.Active {
			continue
		}
		budget := b
		results = append(results, &budget)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Period != results[j].Period {
			return results[i].Period > results[j].Period
		}
		return results[i].Provider < results[j].Provider
	})
	return results, nil
}

func (s *BudgetStore) ListActiveForPeriod(ctx context.Context, period string) ([]*model.Budget, error) {
	active := true
	return s.List(ctx, core.BudgetQuery{Period: period, Active: &active})
}

func (s *BudgetStore) Update(ctx context.Context, budget *model.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[budget.ID]
	if !ok {
		return core.ErrRecordNotFound
	}
	if s.taken(budget.Provider, budget.Period, budget.ID) {
		return core.ErrDuplicateKey
	}
	existing.Provider = budget.Provider
	existing.Period = budget.Period
	existing.MonthlyLimit = budget.MonthlyLimit
	existing.AlertThreshold = budget.AlertThreshold
	existing.IsActive = budget.IsActive
	existing.UpdatedAt = time.Now().UTC()
	s.budgets[budget.ID] = existing
	return nil
}

func (s *BudgetStore) UpdateSpend(ctx context.Context, id primitive.ObjectID, spend float64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[id]
	if !ok {
		return core.ErrRecordNotFound
	}
	b.CurrentSpend = spend
	b.RecomputedAt = &at
	b.UpdatedAt = at
	s.budgets[id] = b
	return nil
}

func (s *BudgetStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[id]; !ok {
		return core.ErrRecordNotFound
	}
	delete(s.budgets, id)
	return nil
}
