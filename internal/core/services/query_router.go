package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
)

// Ensure QueryRouter implements the interfaces.
var (
	_ driving.QueryRouter  = (*QueryRouter)(nil)
	_ driven.QueryService  = (*QueryRouter)(nil)
	_ driven.AddressLookup = (*QueryRouter)(nil)
)

// QueryRouter dispatches routine names to the warehouse or address service.
type QueryRouter struct {
	warehouses driving.WarehouseQueryService
	addresses  driving.AddressQueryService
}

// NewQueryRouter creates a router over the two query services.
func NewQueryRouter(warehouses driving.WarehouseQueryService, addresses driving.AddressQueryService) *QueryRouter {
	return &QueryRouter{
		warehouses: warehouses,
		addresses:  addresses,
	}
}

// Query runs any warehouse or address routine.
func (r *QueryRouter) Query(
	ctx context.Context,
	queryID string,
	filters map[string]any,
	opts domain.QueryOptions,
) ([]domain.Option, error) {
	bare := domain.UnqualifyQuery(queryID)
	_, rule, ok := domain.RuleForQuery(bare)
	switch {
	case !ok:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownQuery, queryID)
	case bare == rule.DocumentQuery || bare == rule.ChildQuery:
		if r.warehouses == nil {
			return nil, domain.ErrNotImplemented
		}
		return r.warehouses.Query(ctx, bare, filters, opts)
	case bare == rule.AddressQuery:
		if r.addresses == nil {
			return nil, domain.ErrNotImplemented
		}
		return r.addresses.Query(ctx, bare, filters, opts)
	default:
		return nil, fmt.Errorf("%w: %s is a lookup routine", domain.ErrUnknownQuery, queryID)
	}
}

// Lookup runs an address lookup routine.
func (r *QueryRouter) Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error) {
	if r.addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	return r.addresses.Lookup(ctx, lookupID, args)
}
