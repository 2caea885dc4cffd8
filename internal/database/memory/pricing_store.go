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

// PricingStore 記憶體版定價目錄，provider 唯一
type PricingStore struct {
	mu    sync.RWMutex
	rules map[primitive.ObjectID]model.PricingRule
}

func NewPricingStore() *PricingStore {
	return &PricingStore{rules: make(map[primitive.ObjectID]model.PricingRule)}
}

func copyRule(r model.PricingRule) *model.PricingRule {
	tiers := make([]model.PricingTier, len(r.TierPricing))
	copy(tiers, r.TierPricing)
	r.TierPricing = tiers
	return &r
}

func (s *PricingStore) FindActive(ctx context.Context, provider string) (*model.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rules {
		if r.Provider == provider && r.IsActive {
			return copyRule(r), nil
		}
	}
	return nil, nil
}

func (s *PricingStore) providerTaken(provider string, except primitive.ObjectID) bool {
	for id, r := range s.rules {
		if id != except && r.Provider == provider {
			return true
		}
	}
	return false
}

func (s *PricingStore) Create(ctx context.Context, rule *model.PricingRule) (*model.PricingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.providerTaken(rule.Provider, primitive.NilObjectID) {
		return nil, core.ErrDuplicateKey
	}
	rule.ID = primitive.NewObjectID()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	rule.UpdatedAt = rule.CreatedAt
	s.rules[rule.ID] = *copyRule(*rule)
	return copyRule(*rule), nil
}

func (s *PricingStore) GetByID(ctx context.Context, id primitive.ObjectID) (*model.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[id]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return copyRule(r), nil
}

func (s *PricingStore) List(ctx context.Context) ([]*model.PricingRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*model.PricingRule, 0, len(s.rules))
	for _, r := range s.rules {
		results = append(results, copyRule(r))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Provider < results[j].Provider })
	return results, nil
}

func (s *PricingStore) Update(ctx context.Context, rule *model.PricingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rules[rule.ID]
	if !ok {
		return core.ErrRecordNotFound
	}
	if s.providerTaken(rule.Provider, rule.ID) {
		return core.ErrDuplicateKey
	}
	updated := *copyRule(*rule)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	s.rules[rule.ID] = updated
	return nil
}

func (s *PricingStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return core.ErrRecordNotFound
	}
	delete(s.rules, id)
	return nil
}
