package driven

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// LocationStore persists locations.
type LocationStore interface {
	// Save stores or updates a location.
	Save(ctx context.Context, location domain.Location) error

	// Get retrieves a location by name.
	// Returns domain.ErrNotFound if the location does not exist.
	Get(ctx context.Context, name string) (*domain.Location, error)

	// Delete removes a location.
	Delete(ctx context.Context, name string) error

	// List returns all locations ordered by name.
	List(ctx context.Context) ([]domain.Location, error)
}

// WarehouseStore persists the warehouse tree.
type WarehouseStore interface {
	// Save stores or updates a warehouse.
	Save(ctx context.Context, warehouse domain.Warehouse) error

	// Get retrieves a warehouse by name.
	// Returns domain.ErrNotFound if the warehouse does not exist.
	Get(ctx context.Context, name string) (*domain.Warehouse, error)

	// Delete removes a warehouse.
	Delete(ctx context.Context, name string) error

	// List returns all warehouses ordered by name.
	List(ctx context.Context) ([]domain.Warehouse, error)

	// Descendants returns every warehouse below the named group, at any
	// depth, ordered by name. The group itself is not included.
	Descendants(ctx context.Context, name string) ([]domain.Warehouse, error)
}

// AddressStore persists addresses and their links to locations.
type AddressStore interface {
	// Save stores or updates an address.
	Save(ctx context.Context, address domain.Address) error

	// Get retrieves an address by name.
	// Returns domain.ErrNotFound if the address does not exist.
	Get(ctx context.Context, name string) (*domain.Address, error)

	// List returns all addresses ordered by name.
	List(ctx context.Context) ([]domain.Address, error)

	// Link links an additional address to a location.
	Link(ctx context.Context, link domain.AddressLink) error

	// Unlink removes a link by ID.
	Unlink(ctx context.Context, id string) error

	// LinkedTo returns the links of a location ordered by address name.
	LinkedTo(ctx context.Context, location string) ([]domain.AddressLink, error)
}
