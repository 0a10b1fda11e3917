package store

import (
	"context"
	"sort"
	"sync"

	"GoalSentinel/internal/model"
)

// MemoryStore is an in-memory Store used in tests and as a fallback when no
// database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]model.FinancialSnapshot
	plans     map[string]model.CyclePlan
	results   map[string]model.AnalysisResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]model.FinancialSnapshot),
		plans:     make(map[string]model.CyclePlan),
		results:   make(map[string]model.AnalysisResult),
	}
}

func (m *MemoryStore) ListUsers(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.snapshots))
	for id := range m.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) GetSnapshot(_ context.Context, userID string) (*model.FinancialSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &snap, nil
}

// PutSnapshot upserts a snapshot, enrolling the user if new.
func (m *MemoryStore) PutSnapshot(_ context.Context, snap *model.FinancialSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snapshots[snap.UserID] = *snap
	return nil
}

func (m *MemoryStore) GetPlan(_ context.Context, userID string) (*model.CyclePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) PutPlan(_ context.Context, p *model.CyclePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans[p.UserID] = *p
	return nil
}

func (m *MemoryStore) GetResult(_ context.Context, userID string) (*model.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.results[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStore) PutResult(_ context.Context, r *model.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results[r.UserID] = *r
	return nil
}

func (m *MemoryStore) Close() error { return nil }
