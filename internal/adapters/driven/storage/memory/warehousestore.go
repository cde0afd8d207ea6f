package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// Ensure WarehouseStore implements the interface.
var _ driven.WarehouseStore = (*WarehouseStore)(nil)

// WarehouseStore is an in-memory implementation of driven.WarehouseStore.
type WarehouseStore struct {
	mu         sync.RWMutex
	warehouses map[string]domain.Warehouse
}

// NewWarehouseStore creates a new in-memory warehouse store.
func NewWarehouseStore() *WarehouseStore {
	return &WarehouseStore{
		warehouses: make(map[string]domain.Warehouse),
	}
}

// Save stores or updates a warehouse.
func (s *WarehouseStore) Save(_ context.Context, warehouse domain.Warehouse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[warehouse.Name] = warehouse
	return nil
}

// Get retrieves a warehouse by name.
func (s *WarehouseStore) Get(_ context.Context, name string) (*domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	warehouse, ok := s.warehouses[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &warehouse, nil
}

// Delete removes a warehouse.
func (s *WarehouseStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.warehouses, name)
	return nil
}

// List returns all warehouses ordered by name.
func (s *WarehouseStore) List(_ context.Context) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Warehouse, 0, len(s.warehouses))
	for _, w := range s.warehouses {
		result = append(result, w)
	}
	sortWarehouses(result)
	return result, nil
}

// Descendants returns every warehouse below the named group.
func (s *WarehouseStore) Descendants(_ context.Context, name string) ([]domain.Warehouse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	children := make(map[string][]domain.Warehouse)
	for _, w := range s.warehouses {
		if w.Parent != "" {
			children[w.Parent] = append(children[w.Parent], w)
		}
	}

	var result []domain.Warehouse
	seen := map[string]bool{name: true}
	queue := []string{name}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent] {
			if seen[child.Name] {
				continue
			}
			seen[child.Name] = true
			result = append(result, child)
			queue = append(queue, child.Name)
		}
	}
	sortWarehouses(result)
	return result, nil
}

func sortWarehouses(ws []domain.Warehouse) {
	sort.Slice(ws, func(i, j int) bool { return ws[i].Name < ws[j].Name })
}
