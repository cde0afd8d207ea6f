package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/core/services"
)

// newTestPorts wires every port to in-memory stores holding two locations.
func newTestPorts(t *testing.T) *Ports {
	t.Helper()
	ctx := context.Background()

	locations := memory.NewLocationStore()
	warehouses := memory.NewWarehouseStore()
	addresses := memory.NewAddressStore()
	documents := memory.NewDocumentStore()

	for _, w := range []domain.Warehouse{
		{Name: "West", IsGroup: true},
		{Name: "Stores - W", Parent: "West"},
		{Name: "Transit - W", Parent: "West"},
		{Name: "Stores - E"},
	} {
		require.NoError(t, warehouses.Save(ctx, w))
	}
	require.NoError(t, addresses.Save(ctx, domain.Address{Name: "West HQ", Title: "West Head Office", GSTIN: "27AAAAA0000A1Z5"}))
	require.NoError(t, addresses.Save(ctx, domain.Address{Name: "East HQ"}))
	require.NoError(t, locations.Save(ctx, domain.Location{
		Name: "L-West", Code: "WST", LinkedWarehouse: "West", LinkedAddress: "West HQ",
	}))
	require.NoError(t, locations.Save(ctx, domain.Location{
		Name: "L-East", Code: "EST", LinkedWarehouse: "Stores - E", LinkedAddress: "East HQ",
	}))

	warehouseQuery := services.NewWarehouseQueryService(locations, warehouses, documents)
	addressQuery := services.NewAddressQueryService(locations, addresses)
	router := services.NewQueryRouter(warehouseQuery, addressQuery)

	resolver, err := services.NewResolver(domain.DefaultResolverSettings())
	require.NoError(t, err)
	validation, err := services.NewValidationService(services.ValidationDeps{
		Locations:  locations,
		Addresses:  addresses,
		Documents:  documents,
		Warehouses: warehouseQuery,
	}, domain.DefaultResolverSettings(), domain.ValidationSettings{})
	require.NoError(t, err)

	return &Ports{
		Forms: func(host driven.FormHost) driving.FormController {
			return services.NewFormController(resolver, host, router)
		},
		Warehouses: warehouseQuery,
		Addresses:  addressQuery,
		Validation: validation,
		Directory:  services.NewDirectoryService(locations, warehouses, addresses, nil),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)
	return server
}
