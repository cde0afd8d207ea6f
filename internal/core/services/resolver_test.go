package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(domain.DefaultResolverSettings())
	require.NoError(t, err)
	return r
}

// salesInvoice returns a Sales Invoice snapshot with two item rows.
func salesInvoice(name string, values map[string]string) *domain.DocumentSnapshot {
	profile, _ := domain.ProfileFor(domain.DocTypeSalesInvoice)
	return &domain.DocumentSnapshot{
		DocType: domain.DocTypeSalesInvoice,
		Name:    name,
		Values:  values,
		Fields:  profile.DeclaredFields(),
		Tables: map[string][]domain.Row{
			"items": {{"warehouse": "W1"}, {"warehouse": "W2"}},
		},
	}
}

func purchaseInvoice(name string, values map[string]string) *domain.DocumentSnapshot {
	profile, _ := domain.ProfileFor(domain.DocTypePurchaseInvoice)
	return &domain.DocumentSnapshot{
		DocType: domain.DocTypePurchaseInvoice,
		Name:    name,
		Values:  values,
		Fields:  profile.DeclaredFields(),
		Tables:  map[string][]domain.Row{"items": {{"warehouse": "W1"}}},
	}
}

func TestNewResolver_InvalidPrecedence(t *testing.T) {
	settings := domain.DefaultResolverSettings()
	settings.Precedence = domain.PrecedencePolicy{domain.LocationMain, domain.LocationMain, domain.LocationDispatch}

	_, err := NewResolver(settings)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewResolver_DefaultsPrecedence(t *testing.T) {
	settings := domain.DefaultResolverSettings()
	settings.Precedence = nil

	r, err := NewResolver(settings)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPrecedence(), r.Precedence())
	assert.Equal(t, domain.DefaultQueryNamespace, r.Namespace())
}

func TestResolver_ScenarioDispatchSet(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "", "dispatch_location": "L1"})

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLocationSet, out.State)
	assert.Equal(t, domain.LocationDispatch, out.Winner)

	doc, ok := out.Binding("", "set_warehouse")
	require.True(t, ok)
	assert.Equal(t, "dispatch_location_based_warehouse_query", doc.Query)
	assert.Equal(t, map[string]any{"dispatch_location": "L1"}, doc.Filters)

	child, ok := out.Binding("items", "warehouse")
	require.True(t, ok)
	assert.Equal(t, "child_table_dispatch_location_warehouse_query", child.Query)
	assert.Equal(t, map[string]any{
		"dispatch_location": "L1",
		"parent_doctype":    "Sales Invoice",
		"parent":            "SINV-1",
	}, child.Filters)

	require.NotNil(t, out.AutoFill)
	assert.Equal(t, "dispatch_address_name", out.AutoFill.Field)
	assert.Equal(t, "get_filtered_addresses_for_dispatch_location", out.AutoFill.Lookup)
	assert.Equal(t, map[string]string{"dispatch_location": "L1"}, out.AutoFill.Args())

	addr, ok := out.Binding("", "dispatch_address_name")
	require.True(t, ok)
	assert.Equal(t, "dispatch_location_based_address_query", addr.Query)

	assert.Empty(t, out.Clears)
	assert.Empty(t, out.Resets)
}

func TestResolver_ScenarioDispatchCleared(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{
		"location":          "L0",
		"dispatch_location": "",
		"set_warehouse":     "W1",
	})

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLocationCleared, out.State)
	assert.Equal(t, domain.LocationMain, out.Winner)

	require.Len(t, out.Clears, 1)
	assert.Equal(t, "dispatch_address_name", out.Clears[0].Field)
	assert.True(t, out.Clears[0].ShowsNothing())

	assert.Equal(t, []domain.ValueReset{
		{Field: "set_warehouse"},
		{Field: "warehouse", Table: "items", Row: 0},
		{Field: "warehouse", Table: "items", Row: 1},
	}, out.Resets)

	doc, ok := out.Binding("", "set_warehouse")
	require.True(t, ok)
	assert.Equal(t, "location_based_warehouse_query", doc.Query)
	assert.Equal(t, map[string]any{"location": "L0"}, doc.Filters)

	child, ok := out.Binding("items", "warehouse")
	require.True(t, ok)
	assert.Equal(t, "child_table_warehouse_query", child.Query)
	assert.Equal(t, "L0", child.Filters["location"])

	assert.Nil(t, out.AutoFill)
}

func TestResolver_BuildWarehouseBindings_EmptyLocationShowsNothing(t *testing.T) {
	r := newTestResolver(t)

	for _, lt := range domain.LocationTypes {
		t.Run(lt.String(), func(t *testing.T) {
			snap := salesInvoice("SINV-1", map[string]string{})
			bindings, err := r.BuildWarehouseBindings(snap, lt)
			require.NoError(t, err)
			require.NotEmpty(t, bindings)
			for _, b := range bindings {
				assert.True(t, b.ShowsNothing(), "binding %s must show nothing", b.Target())
			}
		})
	}
}

func TestResolver_ChildFiltersAlwaysCarryParent(t *testing.T) {
	r := newTestResolver(t)
	values := map[string]string{"location": "L0", "dispatch_location": "L1", "shipping_location": "L2"}

	for _, lt := range domain.LocationTypes {
		t.Run(lt.String(), func(t *testing.T) {
			snap := salesInvoice("", values)
			snap.Fields["shipping_location"] = true

			bindings, err := r.BuildWarehouseBindings(snap, lt)
			require.NoError(t, err)

			var children int
			for _, b := range bindings {
				if !b.IsChild() {
					continue
				}
				children++
				assert.Contains(t, b.Filters, "parent_doctype")
				assert.Contains(t, b.Filters, "parent")
				assert.Equal(t, "", b.Filters["parent"], "unsaved documents pass an empty parent")
			}
			assert.Equal(t, 1, children)
		})
	}
}

func TestResolver_TargetWarehouseNeverBound(t *testing.T) {
	settings := domain.DefaultResolverSettings()
	settings.DocumentWarehouseFields = []string{"set_warehouse", "target_warehouse"}
	settings.ChildWarehouseFields = []string{"warehouse", "target_warehouse"}
	r, err := NewResolver(settings)
	require.NoError(t, err)

	values := map[string]string{"location": "L0", "dispatch_location": "L1", "shipping_location": "L2"}
	for _, lt := range domain.LocationTypes {
		t.Run(lt.String(), func(t *testing.T) {
			snap := salesInvoice("SINV-1", values)
			snap.Fields["target_warehouse"] = true
			snap.Fields["shipping_location"] = true

			set, err := r.BuildWarehouseBindings(snap, lt)
			require.NoError(t, err)
			snap.Values = map[string]string{}
			empty, err := r.BuildWarehouseBindings(snap, lt)
			require.NoError(t, err)

			for _, b := range append(set, empty...) {
				assert.NotEqual(t, "target_warehouse", b.Field)
			}
		})
	}
}

func TestResolver_DispatchBeatsMain(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "L0", "dispatch_location": "L1"})

	winner, ok := r.ResolvePrecedence(snap)
	require.True(t, ok)
	assert.Equal(t, domain.LocationDispatch, winner)

	// Editing the main location still applies dispatch bindings.
	out, err := r.Resolve(snap, domain.LocationMain)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationDispatch, out.Winner)
	for _, b := range out.Bindings {
		assert.NotContains(t, b.Filters, "location")
		assert.Equal(t, "L1", b.Filters["dispatch_location"])
	}
	assert.Nil(t, out.AutoFill, "main location has no address")
}

func TestResolver_ConfigurablePrecedence(t *testing.T) {
	settings := domain.DefaultResolverSettings()
	settings.Precedence = domain.PrecedencePolicy{domain.LocationMain, domain.LocationDispatch, domain.LocationShipping}
	r, err := NewResolver(settings)
	require.NoError(t, err)

	snap := salesInvoice("SINV-1", map[string]string{"location": "L0", "dispatch_location": "L1"})
	winner, ok := r.ResolvePrecedence(snap)
	require.True(t, ok)
	assert.Equal(t, domain.LocationMain, winner)
}

func TestResolver_ResolvePrecedence_IgnoresUndeclaredFields(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "L0", "shipping_location": "L2"})

	winner, ok := r.ResolvePrecedence(snap)
	require.True(t, ok)
	assert.Equal(t, domain.LocationMain, winner)

	_, ok = r.ResolvePrecedence(salesInvoice("SINV-1", nil))
	assert.False(t, ok)
	_, ok = r.ResolvePrecedence(nil)
	assert.False(t, ok)
}

func TestResolver_ClearMainUnderDispatch_NoResets(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "", "dispatch_location": "L1"})

	out, err := r.Resolve(snap, domain.LocationMain)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLocationCleared, out.State)
	assert.Equal(t, domain.LocationDispatch, out.Winner)
	assert.Empty(t, out.Resets, "dispatch stayed effective")
	assert.Empty(t, out.Clears, "main has no address field")
}

func TestResolver_ClearLastLocation(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"dispatch_location": ""})

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, domain.StateLocationCleared, out.State)
	assert.Empty(t, out.Winner)
	assert.Len(t, out.Resets, 3)
	require.Len(t, out.Bindings, 2)
	for _, b := range out.Bindings {
		assert.True(t, b.ShowsNothing())
	}
}

func TestResolver_ShippingOnPurchaseInvoice(t *testing.T) {
	r := newTestResolver(t)
	snap := purchaseInvoice("PINV-1", map[string]string{"shipping_location": "L2"})

	out, err := r.Resolve(snap, domain.LocationShipping)
	require.NoError(t, err)

	assert.Equal(t, domain.LocationShipping, out.Winner)
	require.NotNil(t, out.AutoFill)
	assert.Equal(t, "shipping_address", out.AutoFill.Field)
	assert.Equal(t, map[string]string{"shipping_location": "L2"}, out.AutoFill.Args())

	addr, ok := out.Binding("", "shipping_address")
	require.True(t, ok)
	assert.Equal(t, "shipping_location_based_address_query", addr.Query)
}

func TestResolver_BuildAddressBinding_MissingField(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"dispatch_location": "L1"})
	delete(snap.Fields, "dispatch_address_name")

	fill, err := r.BuildAddressBinding(snap, domain.LocationDispatch)
	require.NoError(t, err)
	assert.Nil(t, fill)

	clears, err := r.BuildClearBindings(snap, domain.LocationDispatch)
	require.NoError(t, err)
	assert.Empty(t, clears)

	q, err := r.BuildAddressQueryBinding(snap, domain.LocationDispatch)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestResolver_MissingWarehouseFieldsSkipped(t *testing.T) {
	r := newTestResolver(t)
	snap := &domain.DocumentSnapshot{
		DocType: "Stock Entry",
		Values:  map[string]string{"location": "L0"},
		Fields:  map[string]bool{"location": true},
	}

	bindings, err := r.BuildWarehouseBindings(snap, domain.LocationMain)
	require.NoError(t, err)
	assert.Empty(t, bindings)
}

func TestResolver_Errors(t *testing.T) {
	r := newTestResolver(t)

	_, err := r.Resolve(nil, domain.LocationMain)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = r.Resolve(salesInvoice("", nil), domain.LocationType("billing"))
	assert.ErrorIs(t, err, domain.ErrUnknownLocationType)

	_, err = r.BuildWarehouseBindings(salesInvoice("", nil), domain.LocationType(""))
	assert.ErrorIs(t, err, domain.ErrUnknownLocationType)

	_, err = r.ResolveRefresh(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolver_ResolveRefresh(t *testing.T) {
	r := newTestResolver(t)

	t.Run("no location", func(t *testing.T) {
		out, err := r.ResolveRefresh(salesInvoice("SINV-1", nil))
		require.NoError(t, err)

		assert.Equal(t, domain.StateNoLocation, out.State)
		assert.Equal(t, domain.EventRefresh, out.Event)
		require.Len(t, out.Bindings, 2)
		for _, b := range out.Bindings {
			assert.True(t, b.ShowsNothing())
		}
		assert.Empty(t, out.Resets)
	})

	t.Run("dispatch and main", func(t *testing.T) {
		out, err := r.ResolveRefresh(salesInvoice("SINV-1", map[string]string{"location": "L0", "dispatch_location": "L1"}))
		require.NoError(t, err)

		assert.Equal(t, domain.StateLocationSet, out.State)
		assert.Equal(t, domain.LocationDispatch, out.Winner)
		assert.Nil(t, out.AutoFill)
		assert.Equal(t, []string{"set_warehouse", "items.warehouse", "dispatch_address_name"}, out.Targets())
	})
}

func TestResolver_DoesNotMutateSnapshot(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "L0", "set_warehouse": "W1"})
	before := snap.Clone()

	_, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, before, snap.Clone())
}

func TestResolver_ChangeOnUndeclaredFieldIsSkipped(t *testing.T) {
	r := newTestResolver(t)
	snap := purchaseInvoice("PINV-1", map[string]string{"location": "L0", "set_warehouse": "W1"})
	snap.Tables["items"] = []domain.Row{{"warehouse": "W1"}, {"warehouse": ""}}

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, domain.EventFieldChange, out.Event)
	assert.Equal(t, domain.LocationDispatch, out.Changed)
	assert.Equal(t, domain.StateLocationSet, out.State)
	assert.Equal(t, domain.LocationMain, out.Winner)
	assert.Empty(t, out.Resets)
	assert.Empty(t, out.Clears)
	assert.Nil(t, out.AutoFill)

	doc, ok := out.Binding("", "set_warehouse")
	require.True(t, ok)
	assert.Equal(t, "location_based_warehouse_query", doc.Query)
	assert.Equal(t, map[string]any{"location": "L0"}, doc.Filters)
}

func TestResolver_ChangeOnUndeclaredFieldWithoutLocation(t *testing.T) {
	r := newTestResolver(t)
	snap := purchaseInvoice("PINV-1", map[string]string{"set_warehouse": "W1"})

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, domain.StateNoLocation, out.State)
	assert.Empty(t, out.Resets)
	for _, b := range out.Bindings {
		assert.True(t, b.ShowsNothing())
	}
}

func TestResolver_ClearSkipsEmptyRows(t *testing.T) {
	r := newTestResolver(t)
	snap := salesInvoice("SINV-1", map[string]string{"location": "L0", "dispatch_location": ""})
	snap.Tables["items"] = []domain.Row{{"warehouse": ""}, {"warehouse": "W2"}, {}}

	out, err := r.Resolve(snap, domain.LocationDispatch)
	require.NoError(t, err)

	assert.Equal(t, []domain.ValueReset{
		{Field: "set_warehouse"},
		{Field: "warehouse", Table: "items", Row: 1},
	}, out.Resets)
}
