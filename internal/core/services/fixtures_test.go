package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// testDirectory is a small company layout:
//
//	All (group)
//	├── West (group)        <- L-West
//	│   ├── Stores - W
//	│   ├── Transit - W
//	│   └── Scrap - W (disabled)
//	└── Stores - E          <- L-East
//	Old - E (disabled)      <- L-Old
type testDirectory struct {
	locations   *memory.LocationStore
	warehouses  *memory.WarehouseStore
	addresses   *memory.AddressStore
	documents   *memory.DocumentStore
	fiscalYears *memory.FiscalYearStore
	series      *memory.SeriesStore
}

func newTestDirectory(t *testing.T) *testDirectory {
	t.Helper()
	ctx := context.Background()
	d := &testDirectory{
		locations:   memory.NewLocationStore(),
		warehouses:  memory.NewWarehouseStore(),
		addresses:   memory.NewAddressStore(),
		documents:   memory.NewDocumentStore(),
		fiscalYears: memory.NewFiscalYearStore(),
		series:      memory.NewSeriesStore(),
	}

	for _, w := range []domain.Warehouse{
		{Name: "All", IsGroup: true},
		{Name: "West", Parent: "All", IsGroup: true},
		{Name: "Stores - W", Title: "West Stores", Parent: "West"},
		{Name: "Transit - W", Parent: "West"},
		{Name: "Scrap - W", Parent: "West", Disabled: true},
		{Name: "Stores - E", Title: "East Stores", Parent: "All"},
		{Name: "Old - E", Disabled: true},
	} {
		require.NoError(t, d.warehouses.Save(ctx, w))
	}

	for _, a := range []domain.Address{
		{Name: "West HQ", Title: "West Head Office", GSTIN: "27AAAAA0000A1Z5"},
		{Name: "West Dock"},
		{Name: "East HQ"},
	} {
		require.NoError(t, d.addresses.Save(ctx, a))
	}
	require.NoError(t, d.addresses.Link(ctx, domain.AddressLink{ID: "link-1", Location: "L-West", Address: "West Dock"}))

	for _, l := range []domain.Location{
		{Name: "L-West", Code: "WST", LinkedWarehouse: "West", LinkedAddress: "West HQ"},
		{Name: "L-East", Code: "EST", LinkedWarehouse: "Stores - E", LinkedAddress: "East HQ"},
		{Name: "L-Old", Code: "OLD", LinkedWarehouse: "Old - E"},
		{Name: "L-Bare"},
	} {
		require.NoError(t, d.locations.Save(ctx, l))
	}

	require.NoError(t, d.fiscalYears.Save(ctx, domain.FiscalYear{
		Name:  "2024-2025",
		Start: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, d.fiscalYears.Save(ctx, domain.FiscalYear{
		Name:      "FY-2024-26",
		Start:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Companies: []string{"Acme"},
	}))

	return d
}

func (d *testDirectory) warehouseQuery() *WarehouseQueryService {
	return NewWarehouseQueryService(d.locations, d.warehouses, d.documents)
}

func (d *testDirectory) addressQuery() *AddressQueryService {
	return NewAddressQueryService(d.locations, d.addresses)
}

func optionValues(options []domain.Option) []string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return values
}
