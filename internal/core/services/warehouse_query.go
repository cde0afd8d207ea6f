package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure WarehouseQueryService implements the interface.
var _ driving.WarehouseQueryService = (*WarehouseQueryService)(nil)

// resolveManyLimit caps concurrent location lookups in ResolveMany.
const resolveManyLimit = 8

// WarehouseQueryService answers the warehouse query routines from the
// local directory.
type WarehouseQueryService struct {
	locations  driven.LocationStore
	warehouses driven.WarehouseStore
	documents  driven.DocumentStore
}

// NewWarehouseQueryService creates a warehouse query service. documents may
// be nil, in which case child-table queries use the filter value only.
func NewWarehouseQueryService(
	locations driven.LocationStore,
	warehouses driven.WarehouseStore,
	documents driven.DocumentStore,
) *WarehouseQueryService {
	return &WarehouseQueryService{
		locations:  locations,
		warehouses: warehouses,
		documents:  documents,
	}
}

// Query runs a warehouse routine.
//
// Child-table routines with a parent read the location from the saved
// parent document; an unknown parent yields nothing. Without parent
// information they fall back to the document-level routine.
func (s *WarehouseQueryService) Query(
	ctx context.Context,
	queryID string,
	filters map[string]any,
	opts domain.QueryOptions,
) ([]domain.Option, error) {
	queryID = domain.UnqualifyQuery(queryID)
	t, rule, ok := domain.RuleForQuery(queryID)
	if !ok || (queryID != rule.DocumentQuery && queryID != rule.ChildQuery) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, queryID)
	}

	location := filterString(filters, rule.FilterKey)

	if queryID == rule.ChildQuery {
		parentType := filterString(filters, domain.FilterParentDocType)
		parent := filterString(filters, domain.FilterParent)
		if parentType != "" && parent != "" && s.documents != nil {
			doc, err := s.documents.Get(ctx, parentType, parent)
			if errors.Is(err, domain.ErrNotFound) {
				logger.Debug("query: parent %s %q not saved, returning nothing", parentType, parent)
				return []domain.Option{}, nil
			}
			if err != nil {
				return nil, fmt.Errorf("get parent %s %q: %w", parentType, parent, err)
			}
			location = doc.Value(rule.LocationField)
		}
	}

	logger.Debug("query: %s (%s) location=%q text=%q", queryID, t, location, opts.Text)

	warehouses, err := s.ValidWarehouses(ctx, location)
	if err != nil {
		return nil, err
	}

	options := make([]domain.Option, 0, len(warehouses))
	for _, w := range warehouses {
		if opts.Text != "" && !containsFold(w.Name, opts.Text) {
			continue
		}
		options = append(options, domain.Option{Value: w.Name, Description: w.Title})
	}
	return page(options, opts.Start, opts.PageLength), nil
}

// ValidWarehouses returns the selectable warehouses of a location ordered
// by name. A group warehouse yields its enabled non-group descendants; a
// leaf yields itself when enabled. Unknown locations yield nothing.
func (s *WarehouseQueryService) ValidWarehouses(ctx context.Context, location string) ([]domain.Warehouse, error) {
	if s.locations == nil || s.warehouses == nil {
		return nil, domain.ErrNotImplemented
	}
	if location == "" {
		return []domain.Warehouse{}, nil
	}

	loc, err := s.locations.Get(ctx, location)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Warehouse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location %q: %w", location, err)
	}
	if loc.LinkedWarehouse == "" {
		return []domain.Warehouse{}, nil
	}

	linked, err := s.warehouses.Get(ctx, loc.LinkedWarehouse)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.Warehouse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get warehouse %q: %w", loc.LinkedWarehouse, err)
	}

	if !linked.IsGroup {
		if linked.Disabled {
			return []domain.Warehouse{}, nil
		}
		return []domain.Warehouse{*linked}, nil
	}

	descendants, err := s.warehouses.Descendants(ctx, linked.Name)
	if err != nil {
		return nil, fmt.Errorf("descendants of %q: %w", linked.Name, err)
	}
	valid := make([]domain.Warehouse, 0, len(descendants))
	for _, w := range descendants {
		if w.Selectable() {
			valid = append(valid, w)
		}
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Name < valid[j].Name })
	return valid, nil
}

// ValidateWarehouse reports whether warehouse is selectable for location.
func (s *WarehouseQueryService) ValidateWarehouse(ctx context.Context, location, warehouse string) (bool, error) {
	valid, err := s.ValidWarehouses(ctx, location)
	if err != nil {
		return false, err
	}
	for _, w := range valid {
		if w.Name == warehouse {
			return true, nil
		}
	}
	return false, nil
}

// AutoSelect returns the only valid warehouse of a location.
func (s *WarehouseQueryService) AutoSelect(ctx context.Context, location string) (string, bool, error) {
	valid, err := s.ValidWarehouses(ctx, location)
	if err != nil {
		return "", false, err
	}
	if len(valid) != 1 {
		return "", false, nil
	}
	return valid[0].Name, true, nil
}

// ResolveMany returns the valid warehouse names of several locations,
// resolving them concurrently.
func (s *WarehouseQueryService) ResolveMany(ctx context.Context, locations []string) (map[string][]string, error) {
	var mu sync.Mutex
	result := make(map[string][]string, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveManyLimit)
	for _, location := range locations {
		g.Go(func() error {
			valid, err := s.ValidWarehouses(ctx, location)
			if err != nil {
				return fmt.Errorf("location %q: %w", location, err)
			}
			names := make([]string, len(valid))
			for i, w := range valid {
				names[i] = w.Name
			}
			mu.Lock()
			result[location] = names
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// filterString reads a filter value as a string. Non-string values yield "".
func filterString(filters map[string]any, key string) string {
	if v, ok := filters[key].(string); ok {
		return v
	}
	return ""
}
