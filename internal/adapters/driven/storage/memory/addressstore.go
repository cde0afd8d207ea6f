package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// Ensure AddressStore implements the interface.
var _ driven.AddressStore = (*AddressStore)(nil)

// AddressStore is an in-memory implementation of driven.AddressStore.
type AddressStore struct {
	mu        sync.RWMutex
	addresses map[string]domain.Address
	links     map[string]domain.AddressLink
}

// NewAddressStore creates a new in-memory address store.
func NewAddressStore() *AddressStore {
	return &AddressStore{
		addresses: make(map[string]domain.Address),
		links:     make(map[string]domain.AddressLink),
	}
}

// Save stores or updates an address.
func (s *AddressStore) Save(_ context.Context, address domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[address.Name] = address
	return nil
}

// Get retrieves an address by name.
func (s *AddressStore) Get(_ context.Context, name string) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	address, ok := s.addresses[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &address, nil
}

// List returns all addresses ordered by name.
func (s *AddressStore) List(_ context.Context) ([]domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Link links an additional address to a location.
// Returns domain.ErrAlreadyExists if the pair is already linked.
func (s *AddressStore) Link(_ context.Context, link domain.AddressLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.links {
		if existing.Location == link.Location && existing.Address == link.Address {
			return domain.ErrAlreadyExists
		}
	}
	s.links[link.ID] = link
	return nil
}

// Unlink removes a link by ID.
func (s *AddressStore) Unlink(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.links, id)
	return nil
}

// LinkedTo returns the links of a location ordered by address name.
func (s *AddressStore) LinkedTo(_ context.Context, location string) ([]domain.AddressLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.AddressLink
	for _, link := range s.links {
		if link.Location == location {
			result = append(result, link)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Address < result[j].Address })
	return result, nil
}
