package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// Ensure LocationStore implements the interface.
var _ driven.LocationStore = (*LocationStore)(nil)

// LocationStore is an in-memory implementation of driven.LocationStore.
type LocationStore struct {
	mu        sync.RWMutex
	locations map[string]domain.Location
}

// NewLocationStore creates a new in-memory location store.
func NewLocationStore() *LocationStore {
	return &LocationStore{
		locations: make(map[string]domain.Location),
	}
}

// Save stores or updates a location.
func (s *LocationStore) Save(_ context.Context, location domain.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[location.Name] = location
	return nil
}

// Get retrieves a location by name.
func (s *LocationStore) Get(_ context.Context, name string) (*domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	location, ok := s.locations[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &location, nil
}

// Delete removes a location.
func (s *LocationStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locations, name)
	return nil
}

// List returns all locations ordered by name.
func (s *LocationStore) List(_ context.Context) ([]domain.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Location, 0, len(s.locations))
	for _, location := range s.locations {
		result = append(result, location)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
