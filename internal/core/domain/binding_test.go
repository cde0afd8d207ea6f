package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBinding_Target(t *testing.T) {
	doc := QueryBinding{Field: "set_warehouse"}
	child := QueryBinding{Field: "warehouse", Table: "items"}

	assert.Equal(t, "set_warehouse", doc.Target())
	assert.False(t, doc.IsChild())
	assert.Equal(t, "items.warehouse", child.Target())
	assert.True(t, child.IsChild())
}

func TestQueryBinding_Qualified(t *testing.T) {
	b := QueryBinding{Query: QueryLocationWarehouse}

	assert.Equal(t, "location_based_series.utils.location_based_warehouse_query", b.Qualified(DefaultQueryNamespace))
	assert.Equal(t, "location_based_warehouse_query", b.Qualified(""))
	assert.Equal(t, "", QueryBinding{}.Qualified(DefaultQueryNamespace))
}

func TestQualifyQuery_AlreadyQualified(t *testing.T) {
	got := QualifyQuery("other.module", "location_based_series.utils.child_table_warehouse_query")
	assert.Equal(t, "location_based_series.utils.child_table_warehouse_query", got)
}

func TestUnqualifyQuery(t *testing.T) {
	assert.Equal(t, "child_table_warehouse_query", UnqualifyQuery("location_based_series.utils.child_table_warehouse_query"))
	assert.Equal(t, "child_table_warehouse_query", UnqualifyQuery("child_table_warehouse_query"))
}

func TestEmptyBinding_ShowsNothing(t *testing.T) {
	b := EmptyBinding("items", "warehouse")

	assert.True(t, b.ShowsNothing())
	assert.Equal(t, "items.warehouse", b.Target())
	assert.Empty(t, b.Query)
}

func TestQueryBinding_ShowsNothing_AfterJSON(t *testing.T) {
	data, err := json.Marshal(EmptyBinding("", "dispatch_address_name"))
	require.NoError(t, err)

	var decoded QueryBinding
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, decoded.ShowsNothing())
}

func TestQueryBinding_ShowsNothing_False(t *testing.T) {
	tests := []struct {
		name    string
		binding QueryBinding
	}{
		{"has query", QueryBinding{Query: QueryLocationWarehouse, Filters: EmptyFilter()}},
		{"location filter", QueryBinding{Filters: map[string]any{"location": "L1"}}},
		{"non-empty set", QueryBinding{Filters: map[string]any{"name": []any{"in", []string{"W1"}}}}},
		{"not in", QueryBinding{Filters: map[string]any{"name": []any{"not in", []string{}}}}},
		{"nil filters", QueryBinding{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.binding.ShowsNothing())
		})
	}
}

func TestAddressAutoFill_Args(t *testing.T) {
	a := AddressAutoFill{
		Field:    FieldDispatchAddressName,
		Lookup:   LookupDispatchLocationAddresses,
		ArgName:  FieldDispatchLocation,
		ArgValue: "L1",
	}

	assert.Equal(t, map[string]string{"dispatch_location": "L1"}, a.Args())
}

func TestValueReset_Target(t *testing.T) {
	assert.Equal(t, "set_warehouse", ValueReset{Field: "set_warehouse"}.Target())
	assert.Equal(t, "items[2].warehouse", ValueReset{Field: "warehouse", Table: "items", Row: 2}.Target())
}

func TestResolverOutput_Binding(t *testing.T) {
	out := ResolverOutput{
		Bindings: []QueryBinding{
			{Field: "set_warehouse", Query: QueryLocationWarehouse},
			{Field: "warehouse", Table: "items", Query: QueryChildWarehouse},
		},
	}

	b, ok := out.Binding("items", "warehouse")
	require.True(t, ok)
	assert.Equal(t, QueryChildWarehouse, b.Query)

	_, ok = out.Binding("", "warehouse")
	assert.False(t, ok)

	assert.Equal(t, []string{"set_warehouse", "items.warehouse"}, out.Targets())
}
