package store

import (
	"fmt"
	"sync"

	"github.com/finplan/scenario-engine/internal/domain"
)

// MemoryStore is an in-process Repository guarded for concurrent writers.
// Scope one per session; distinct comparisons should not share a store.
type MemoryStore struct {
	mu        sync.RWMutex
	scenarios map[string]*domain.ScenarioResult
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scenarios: make(map[string]*domain.ScenarioResult)}
}

// Put stores a copy-safe reference to the result under name, replacing any
// previous entry.
func (ms *MemoryStore) Put(name string, result *domain.ScenarioResult) error {
	if name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if result == nil {
		return fmt.Errorf("scenario result is required")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.scenarios[name] = result
	return nil
}

// Get returns the result stored under name, or ErrNotFound.
func (ms *MemoryStore) Get(name string) (*domain.ScenarioResult, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result, ok := ms.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return result, nil
}

// Names returns the stored scenario names.
func (ms *MemoryStore) Names() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	names := make([]string, 0, len(ms.scenarios))
	for name := range ms.scenarios {
		names = append(names, name)
	}
	return names
}
