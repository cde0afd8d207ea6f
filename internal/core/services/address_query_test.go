package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func TestAddressQueryService_AddressesFor(t *testing.T) {
	svc := newTestDirectory(t).addressQuery()
	ctx := context.Background()

	west, err := svc.AddressesFor(ctx, "L-West")
	require.NoError(t, err)
	require.Len(t, west, 2)
	assert.Equal(t, "West Dock", west[0].Name)
	assert.Equal(t, "West HQ", west[1].Name)

	old, err := svc.AddressesFor(ctx, "L-Old")
	require.NoError(t, err)
	assert.Empty(t, old)

	missing, err := svc.AddressesFor(ctx, "L-Missing")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestAddressQueryService_Lookup(t *testing.T) {
	svc := newTestDirectory(t).addressQuery()
	ctx := context.Background()

	names, err := svc.Lookup(ctx, domain.LookupDispatchLocationAddresses, map[string]string{"dispatch_location": "L-East"})
	require.NoError(t, err)
	assert.Equal(t, []string{"East HQ"}, names)

	names, err = svc.Lookup(ctx, "location_based_series.utils.get_filtered_addresses_for_shipping_location",
		map[string]string{"shipping_location": "L-West"})
	require.NoError(t, err)
	assert.Equal(t, []string{"West Dock", "West HQ"}, names)

	names, err = svc.Lookup(ctx, domain.LookupShippingLocationAddresses, map[string]string{"dispatch_location": "L-West"})
	require.NoError(t, err)
	assert.Empty(t, names, "argument is read under the routine's own key")

	_, err = svc.Lookup(ctx, domain.QueryDispatchLocationAddress, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownQuery)
}

func TestAddressQueryService_Query(t *testing.T) {
	svc := newTestDirectory(t).addressQuery()
	ctx := context.Background()

	got, err := svc.Query(ctx, domain.QueryDispatchLocationAddress,
		map[string]any{"dispatch_location": "L-West"}, domain.QueryOptions{Text: "head office"})
	require.NoError(t, err)
	assert.Equal(t, []string{"West HQ"}, optionValues(got))

	_, err = svc.Query(ctx, domain.QueryLocationWarehouse, nil, domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownQuery)
}

func TestAddressQueryService_DrivesFormAutoFill(t *testing.T) {
	svc := newTestDirectory(t).addressQuery()
	host := newRecordingHost()
	c := NewFormController(newTestResolver(t), host, svc)

	_, pending, err := c.HandleChange(context.Background(),
		salesInvoice("SINV-1", map[string]string{"dispatch_location": "L-East"}), domain.LocationDispatch)
	require.NoError(t, err)

	result, err := pending.Wait()
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, "East HQ", result.Value)
}

func TestQueryRouter(t *testing.T) {
	d := newTestDirectory(t)
	router := NewQueryRouter(d.warehouseQuery(), d.addressQuery())
	ctx := context.Background()

	got, err := router.Query(ctx, "location_based_series.utils.location_based_warehouse_query",
		map[string]any{"location": "L-East"}, domain.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Stores - E"}, optionValues(got))

	got, err = router.Query(ctx, domain.QueryShippingLocationAddress,
		map[string]any{"shipping_location": "L-East"}, domain.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"East HQ"}, optionValues(got))

	_, err = router.Query(ctx, domain.LookupDispatchLocationAddresses, nil, domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownQuery)

	_, err = router.Query(ctx, "frappe.client.get_list", nil, domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownQuery)

	names, err := router.Lookup(ctx, domain.LookupDispatchLocationAddresses, map[string]string{"dispatch_location": "L-East"})
	require.NoError(t, err)
	assert.Equal(t, []string{"East HQ"}, names)

	_, err = NewQueryRouter(nil, nil).Lookup(ctx, domain.LookupDispatchLocationAddresses, nil)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
