package driving

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// DirectoryService manages locations, warehouses and addresses.
type DirectoryService interface {
	// SaveLocation creates or updates a location.
	SaveLocation(ctx context.Context, location domain.Location) (*domain.Location, error)

	// GetLocation retrieves a location by name.
	GetLocation(ctx context.Context, name string) (*domain.Location, error)

	// ListLocations returns all locations.
	ListLocations(ctx context.Context) ([]domain.Location, error)

	// RemoveLocation deletes a location.
	RemoveLocation(ctx context.Context, name string) error

	// SaveWarehouse creates or updates a warehouse.
	SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error

	// ListWarehouses returns all warehouses.
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)

	// RemoveWarehouse deletes a warehouse.
	RemoveWarehouse(ctx context.Context, name string) error

	// SaveAddress creates or updates an address.
	SaveAddress(ctx context.Context, address domain.Address) error

	// ListAddresses returns all addresses.
	ListAddresses(ctx context.Context) ([]domain.Address, error)

	// LinkAddress links an additional address to a location.
	LinkAddress(ctx context.Context, location, address string) (*domain.AddressLink, error)

	// UnlinkAddress removes an address link.
	UnlinkAddress(ctx context.Context, id string) error

	// SaveFiscalYear creates or updates a fiscal year.
	SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error

	// ListFiscalYears returns all fiscal years.
	ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error)
}
