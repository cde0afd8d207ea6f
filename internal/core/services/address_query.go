package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure AddressQueryService implements the interfaces.
var (
	_ driving.AddressQueryService = (*AddressQueryService)(nil)
	_ driven.AddressLookup        = (*AddressQueryService)(nil)
)

// AddressQueryService answers the address routines from the local directory.
// It doubles as an in-process driven.AddressLookup.
type AddressQueryService struct {
	locations driven.LocationStore
	addresses driven.AddressStore
}

// NewAddressQueryService creates an address query service.
func NewAddressQueryService(locations driven.LocationStore, addresses driven.AddressStore) *AddressQueryService {
	return &AddressQueryService{
		locations: locations,
		addresses: addresses,
	}
}

// Query runs an address query routine.
func (s *AddressQueryService) Query(
	ctx context.Context,
	queryID string,
	filters map[string]any,
	opts domain.QueryOptions,
) ([]domain.Option, error) {
	queryID = domain.UnqualifyQuery(queryID)
	_, rule, ok := domain.RuleForQuery(queryID)
	if !ok || queryID != rule.AddressQuery {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, queryID)
	}

	addresses, err := s.AddressesFor(ctx, filterString(filters, rule.FilterKey))
	if err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(addresses))
	for _, a := range addresses {
		if opts.Text != "" && !containsFold(a.Name, opts.Text) && !containsFold(a.Title, opts.Text) {
			continue
		}
		options = append(options, domain.Option{Value: a.Name, Description: a.Title})
	}
	return page(options, opts.Start, opts.PageLength), nil
}

// Lookup returns the address names linked to the location passed under
// the routine's filter key.
func (s *AddressQueryService) Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error) {
	lookupID = domain.UnqualifyQuery(lookupID)
	_, rule, ok := domain.RuleForQuery(lookupID)
	if !ok || lookupID != rule.AddressLookup {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, lookupID)
	}

	addresses, err := s.AddressesFor(ctx, args[rule.FilterKey])
	if err != nil {
		return nil, err
	}
	names := make([]string, len(addresses))
	for i, a := range addresses {
		names[i] = a.Name
	}
	logger.Debug("lookup: %s(%v) -> %d addresses", lookupID, args, len(names))
	return names, nil
}

// AddressesFor returns the location's linked address plus its explicit
// address links, ordered by name. Unknown locations yield nothing.
func (s *AddressQueryService) AddressesFor(ctx context.Context, location string) ([]domain.Address, error) {
	if s.locations == nil || s.addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	if location == "" {
		return []domain.Address{}, nil
	}

	loc, err := s.locations.Get(ctx, location)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Address{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location %q: %w", location, err)
	}

	names := make(map[string]bool)
	if loc.LinkedAddress != "" {
		names[loc.LinkedAddress] = true
	}
	links, err := s.addresses.LinkedTo(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("address links of %q: %w", location, err)
	}
	for _, link := range links {
		names[link.Address] = true
	}

	result := make([]domain.Address, 0, len(names))
	for name := range names {
		addr, err := s.addresses.Get(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("lookup: location %q links missing address %q", location, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get address %q: %w", name, err)
		}
		result = append(result, *addr)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
