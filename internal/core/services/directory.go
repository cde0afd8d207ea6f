package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
)

// Ensure DirectoryService implements the interface.
var _ driving.DirectoryService = (*DirectoryService)(nil)

// DirectoryService manages locations, warehouses, addresses and fiscal years.
type DirectoryService struct {
	locations   driven.LocationStore
	warehouses  driven.WarehouseStore
	addresses   driven.AddressStore
	fiscalYears driven.FiscalYearStore
	now         func() time.Time
}

// NewDirectoryService creates a directory service. fiscalYears may be nil.
func NewDirectoryService(
	locations driven.LocationStore,
	warehouses driven.WarehouseStore,
	addresses driven.AddressStore,
	fiscalYears driven.FiscalYearStore,
) *DirectoryService {
	return &DirectoryService{
		locations:   locations,
		warehouses:  warehouses,
		addresses:   addresses,
		fiscalYears: fiscalYears,
		now:         time.Now,
	}
}

// SaveLocation creates or updates a location. A linked warehouse or
// address must already exist.
func (s *DirectoryService) SaveLocation(ctx context.Context, location domain.Location) (*domain.Location, error) {
	if s.locations == nil || s.warehouses == nil || s.addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	location.Name = strings.TrimSpace(location.Name)
	if location.Name == "" {
		return nil, fmt.Errorf("%w: location name is required", domain.ErrInvalidInput)
	}

	if location.LinkedWarehouse != "" {
		if _, err := s.warehouses.Get(ctx, location.LinkedWarehouse); err != nil {
			return nil, fmt.Errorf("%w: linked warehouse %q: %w", domain.ErrInvalidInput, location.LinkedWarehouse, err)
		}
	}
	if location.LinkedAddress != "" {
		if _, err := s.addresses.Get(ctx, location.LinkedAddress); err != nil {
			return nil, fmt.Errorf("%w: linked address %q: %w", domain.ErrInvalidInput, location.LinkedAddress, err)
		}
	}

	now := s.now()
	existing, err := s.locations.Get(ctx, location.Name)
	switch {
	case err == nil:
		location.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		location.CreatedAt = now
	default:
		return nil, fmt.Errorf("get location %q: %w", location.Name, err)
	}
	location.UpdatedAt = now

	if err := s.locations.Save(ctx, location); err != nil {
		return nil, fmt.Errorf("save location %q: %w", location.Name, err)
	}
	return &location, nil
}

// GetLocation retrieves a location by name.
func (s *DirectoryService) GetLocation(ctx context.Context, name string) (*domain.Location, error) {
	if s.locations == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.locations.Get(ctx, name)
}

// ListLocations returns all locations.
func (s *DirectoryService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	if s.locations == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.locations.List(ctx)
}

// RemoveLocation deletes a location.
func (s *DirectoryService) RemoveLocation(ctx context.Context, name string) error {
	if s.locations == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.locations.Get(ctx, name); err != nil {
		return err
	}
	return s.locations.Delete(ctx, name)
}

// SaveWarehouse creates or updates a warehouse. The parent must be an
// existing group warehouse.
func (s *DirectoryService) SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error {
	if s.warehouses == nil {
		return domain.ErrNotImplemented
	}
	warehouse.Name = strings.TrimSpace(warehouse.Name)
	if warehouse.Name == "" {
		return fmt.Errorf("%w: warehouse name is required", domain.ErrInvalidInput)
	}
	if warehouse.Parent == warehouse.Name {
		return fmt.Errorf("%w: warehouse %q cannot be its own parent", domain.ErrInvalidInput, warehouse.Name)
	}
	if warehouse.Parent != "" {
		parent, err := s.warehouses.Get(ctx, warehouse.Parent)
		if err != nil {
			return fmt.Errorf("%w: parent warehouse %q: %w", domain.ErrInvalidInput, warehouse.Parent, err)
		}
		if !parent.IsGroup {
			return fmt.Errorf("%w: parent warehouse %q is not a group", domain.ErrInvalidInput, warehouse.Parent)
		}
	}
	return s.warehouses.Save(ctx, warehouse)
}

// ListWarehouses returns all warehouses.
func (s *DirectoryService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	if s.warehouses == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.warehouses.List(ctx)
}

// RemoveWarehouse deletes a warehouse that no location links to.
func (s *DirectoryService) RemoveWarehouse(ctx context.Context, name string) error {
	if s.warehouses == nil || s.locations == nil {
		return domain.ErrNotImplemented
	}
	locations, err := s.locations.List(ctx)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}
	for _, loc := range locations {
		if loc.LinkedWarehouse == name {
			return fmt.Errorf("%w: warehouse %q is linked to location %q", domain.ErrInvalidInput, name, loc.Name)
		}
	}
	return s.warehouses.Delete(ctx, name)
}

// SaveAddress creates or updates an address.
func (s *DirectoryService) SaveAddress(ctx context.Context, address domain.Address) error {
	if s.addresses == nil {
		return domain.ErrNotImplemented
	}
	address.Name = strings.TrimSpace(address.Name)
	if address.Name == "" {
		return fmt.Errorf("%w: address name is required", domain.ErrInvalidInput)
	}
	return s.addresses.Save(ctx, address)
}

// ListAddresses returns all addresses.
func (s *DirectoryService) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	if s.addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.addresses.List(ctx)
}

// LinkAddress links an additional address to a location.
func (s *DirectoryService) LinkAddress(ctx context.Context, location, address string) (*domain.AddressLink, error) {
	if s.locations == nil || s.addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	if _, err := s.locations.Get(ctx, location); err != nil {
		return nil, fmt.Errorf("location %q: %w", location, err)
	}
	if _, err := s.addresses.Get(ctx, address); err != nil {
		return nil, fmt.Errorf("address %q: %w", address, err)
	}

	link := domain.AddressLink{
		ID:       uuid.New().String(),
		Location: location,
		Address:  address,
	}
	if err := s.addresses.Link(ctx, link); err != nil {
		return nil, fmt.Errorf("link %q to %q: %w", address, location, err)
	}
	return &link, nil
}

// UnlinkAddress removes an address link.
func (s *DirectoryService) UnlinkAddress(ctx context.Context, id string) error {
	if s.addresses == nil {
		return domain.ErrNotImplemented
	}
	return s.addresses.Unlink(ctx, id)
}

// SaveFiscalYear creates or updates a fiscal year.
func (s *DirectoryService) SaveFiscalYear(ctx context.Context, fy domain.FiscalYear) error {
	if s.fiscalYears == nil {
		return domain.ErrNotImplemented
	}
	if strings.TrimSpace(fy.Name) == "" {
		return fmt.Errorf("%w: fiscal year name is required", domain.ErrInvalidInput)
	}
	if fy.End.Before(fy.Start) {
		return fmt.Errorf("%w: fiscal year %q ends before it starts", domain.ErrInvalidInput, fy.Name)
	}
	return s.fiscalYears.Save(ctx, fy)
}

// ListFiscalYears returns all fiscal years.
func (s *DirectoryService) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	if s.fiscalYears == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.fiscalYears.List(ctx)
}
