package driving

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// WarehouseQueryService answers the warehouse query routines.
type WarehouseQueryService interface {
	// Query runs a warehouse routine (document or child-table variant).
	Query(ctx context.Context, queryID string, filters map[string]any, opts domain.QueryOptions) ([]domain.Option, error)

	// ValidWarehouses returns the selectable warehouses of a location.
	ValidWarehouses(ctx context.Context, location string) ([]domain.Warehouse, error)

	// ValidateWarehouse reports whether warehouse is valid for location.
	ValidateWarehouse(ctx context.Context, location, warehouse string) (bool, error)

	// AutoSelect returns the only valid warehouse of a location.
	// Returns false when zero or several are valid.
	AutoSelect(ctx context.Context, location string) (string, bool, error)

	// ResolveMany returns the valid warehouse names of several locations.
	ResolveMany(ctx context.Context, locations []string) (map[string][]string, error)
}

// AddressQueryService answers the address query and lookup routines.
type AddressQueryService interface {
	// Query runs an address routine.
	Query(ctx context.Context, queryID string, filters map[string]any, opts domain.QueryOptions) ([]domain.Option, error)

	// Lookup returns the address names linked to a location.
	Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error)

	// AddressesFor returns the addresses linked to a location.
	AddressesFor(ctx context.Context, location string) ([]domain.Address, error)
}

// QueryRouter dispatches a routine name to the service serving it.
type QueryRouter interface {
	// Query runs any warehouse or address routine. Names may be qualified.
	Query(ctx context.Context, queryID string, filters map[string]any, opts domain.QueryOptions) ([]domain.Option, error)

	// Lookup runs an address lookup routine. Names may be qualified.
	Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error)
}
