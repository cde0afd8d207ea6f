package domain

import (
	"fmt"
	"strings"
)

// LocationType identifies which location field on a document drives
// warehouse and address filtering.
type LocationType string

// Available location types.
const (
	// LocationMain is the document's primary location.
	LocationMain LocationType = "main"

	// LocationDispatch is the location goods are dispatched from (sales side).
	LocationDispatch LocationType = "dispatch"

	// LocationShipping is the location goods are shipped to (purchase side).
	LocationShipping LocationType = "shipping"
)

// LocationTypes lists every location type in declaration order.
var LocationTypes = []LocationType{LocationMain, LocationDispatch, LocationShipping}

// IsValid returns true if the location type is recognised.
func (t LocationType) IsValid() bool {
	_, ok := locationRules[t]
	return ok
}

// String returns the string representation.
func (t LocationType) String() string {
	return string(t)
}

// Description returns a human-readable description of the location type.
func (t LocationType) Description() string {
	switch t {
	case LocationMain:
		return "Main location"
	case LocationDispatch:
		return "Dispatch location"
	case LocationShipping:
		return "Shipping location"
	default:
		return unknownDescription
	}
}

// Rule returns the decision table row for the location type.
func (t LocationType) Rule() (LocationRule, bool) {
	rule, ok := locationRules[t]
	return rule, ok
}

// ParseLocationType converts a type name or a location field name into a
// LocationType. Matching is case-insensitive.
func ParseLocationType(s string) (LocationType, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range LocationTypes {
		rule := locationRules[t]
		if needle == string(t) || needle == rule.LocationField {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLocationType, s)
}

// LocationTypeForField returns the location type whose location field is name.
func LocationTypeForField(name string) (LocationType, bool) {
	for _, t := range LocationTypes {
		if locationRules[t].LocationField == name {
			return t, true
		}
	}
	return "", false
}

// LocationRule is one row of the location decision table. Query and lookup
// identifiers are bare routine names; see QueryBinding.Qualified.
type LocationRule struct {
	// LocationField is the document field holding the location value.
	LocationField string

	// FilterKey is the key the location value is passed under.
	FilterKey string

	// DocumentQuery filters document-level warehouse fields.
	DocumentQuery string

	// ChildQuery filters warehouse fields inside child tables.
	ChildQuery string

	// AddressField is the address field restricted by this location.
	// Empty for the main location.
	AddressField string

	// AddressQuery filters the address field.
	AddressQuery string

	// AddressLookup returns the addresses linked to the location, used
	// for auto-fill.
	AddressLookup string
}

// HasAddress returns true if the rule restricts an address field.
func (r LocationRule) HasAddress() bool {
	return r.AddressField != ""
}

// Server routine names. These must match the remote side exactly.
const (
	QueryLocationWarehouse              = "location_based_warehouse_query"
	QueryDispatchLocationWarehouse      = "dispatch_location_based_warehouse_query"
	QueryShippingLocationWarehouse      = "shipping_location_based_warehouse_query"
	QueryChildWarehouse                 = "child_table_warehouse_query"
	QueryChildDispatchLocationWarehouse = "child_table_dispatch_location_warehouse_query"
	QueryChildShippingLocationWarehouse = "child_table_shipping_location_warehouse_query"
	QueryDispatchLocationAddress        = "dispatch_location_based_address_query"
	QueryShippingLocationAddress        = "shipping_location_based_address_query"
	LookupDispatchLocationAddresses     = "get_filtered_addresses_for_dispatch_location"
	LookupShippingLocationAddresses     = "get_filtered_addresses_for_shipping_location"
)

// Field names referenced by the decision table.
const (
	FieldLocation            = "location"
	FieldDispatchLocation    = "dispatch_location"
	FieldShippingLocation    = "shipping_location"
	FieldDispatchAddressName = "dispatch_address_name"
	FieldShippingAddress     = "shipping_address"
	FieldSetWarehouse        = "set_warehouse"
	FieldWarehouse           = "warehouse"
	FieldTargetWarehouse     = "target_warehouse"
	TableItems               = "items"
)

var locationRules = map[LocationType]LocationRule{
	LocationMain: {
		LocationField: FieldLocation,
		FilterKey:     FieldLocation,
		DocumentQuery: QueryLocationWarehouse,
		ChildQuery:    QueryChildWarehouse,
	},
	LocationDispatch: {
		LocationField: FieldDispatchLocation,
		FilterKey:     FieldDispatchLocation,
		DocumentQuery: QueryDispatchLocationWarehouse,
		ChildQuery:    QueryChildDispatchLocationWarehouse,
		AddressField:  FieldDispatchAddressName,
		AddressQuery:  QueryDispatchLocationAddress,
		AddressLookup: LookupDispatchLocationAddresses,
	},
	LocationShipping: {
		LocationField: FieldShippingLocation,
		FilterKey:     FieldShippingLocation,
		DocumentQuery: QueryShippingLocationWarehouse,
		ChildQuery:    QueryChildShippingLocationWarehouse,
		AddressField:  FieldShippingAddress,
		AddressQuery:  QueryShippingLocationAddress,
		AddressLookup: LookupShippingLocationAddresses,
	},
}

// RuleForQuery returns the location type whose decision table row names
// queryID as one of its warehouse, address or lookup routines.
func RuleForQuery(queryID string) (LocationType, LocationRule, bool) {
	if queryID == "" {
		return "", LocationRule{}, false
	}
	for _, t := range LocationTypes {
		rule := locationRules[t]
		if queryID == rule.DocumentQuery || queryID == rule.ChildQuery {
			return t, rule, true
		}
		if rule.HasAddress() && (queryID == rule.AddressQuery || queryID == rule.AddressLookup) {
			return t, rule, true
		}
	}
	return "", LocationRule{}, false
}
