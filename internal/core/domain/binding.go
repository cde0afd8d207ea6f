package domain

import (
	"strconv"
	"strings"
)

// Filter keys carried by child-table bindings.
const (
	FilterParentDocType = "parent_doctype"
	FilterParent        = "parent"
	FilterName          = "name"
)

// DefaultQueryNamespace is the module path the server exposes its query
// routines under.
const DefaultQueryNamespace = "location_based_series.utils"

// QueryBinding restricts the selectable values of one field.
type QueryBinding struct {
	// Field is the target field name.
	Field string `json:"field"`

	// Table is the child table holding Field. Empty for document-level fields.
	Table string `json:"table,omitempty"`

	// Query is the bare server routine name. Empty for "show nothing" bindings.
	Query string `json:"query,omitempty"`

	// Filters are passed to the query routine.
	Filters map[string]any `json:"filters"`
}

// IsChild returns true if the binding targets a child-table field.
func (b QueryBinding) IsChild() bool {
	return b.Table != ""
}

// Target returns "table.field" for child bindings and "field" otherwise.
func (b QueryBinding) Target() string {
	if b.Table == "" {
		return b.Field
	}
	return b.Table + "." + b.Field
}

// Qualified returns the routine name prefixed with namespace.
// Returns empty string for bindings without a query.
func (b QueryBinding) Qualified(namespace string) string {
	return QualifyQuery(namespace, b.Query)
}

// ShowsNothing returns true if the binding restricts its field to the empty set.
func (b QueryBinding) ShowsNothing() bool {
	if b.Query != "" {
		return false
	}
	cond, ok := b.Filters[FilterName].([]any)
	if !ok || len(cond) != 2 || cond[0] != "in" {
		return false
	}
	switch set := cond[1].(type) {
	case []string:
		return len(set) == 0
	case []any:
		return len(set) == 0
	default:
		return false
	}
}

// EmptyFilter returns a filter map matching no records.
func EmptyFilter() map[string]any {
	return map[string]any{FilterName: []any{"in", []string{}}}
}

// EmptyBinding returns a "show nothing" binding for the field.
func EmptyBinding(table, field string) QueryBinding {
	return QueryBinding{Field: field, Table: table, Filters: EmptyFilter()}
}

// QualifyQuery prefixes a bare routine name with namespace. Names that
// already contain a dot are returned unchanged.
func QualifyQuery(namespace, query string) string {
	if query == "" || namespace == "" || strings.Contains(query, ".") {
		return query
	}
	return namespace + "." + query
}

// UnqualifyQuery strips any module path from a routine name.
func UnqualifyQuery(query string) string {
	if i := strings.LastIndex(query, "."); i >= 0 {
		return query[i+1:]
	}
	return query
}

// AddressAutoFill asks the host to look up the address linked to a location
// and set it when exactly one match exists.
type AddressAutoFill struct {
	// Field is the address field to fill.
	Field string `json:"field"`

	// Lookup is the bare lookup routine name.
	Lookup string `json:"lookup"`

	// ArgName is the argument the location value is passed under.
	ArgName string `json:"arg_name"`

	// ArgValue is the location value.
	ArgValue string `json:"arg_value"`
}

// Args returns the lookup argument map.
func (a AddressAutoFill) Args() map[string]string {
	return map[string]string{a.ArgName: a.ArgValue}
}

// ValueReset clears a selected value. Row is the child row index and is
// ignored for document-level resets.
type ValueReset struct {
	Field string `json:"field"`
	Table string `json:"table,omitempty"`
	Row   int    `json:"row,omitempty"`
}

// Target returns "table[row].field" for child resets and "field" otherwise.
func (r ValueReset) Target() string {
	if r.Table == "" {
		return r.Field
	}
	return r.Table + "[" + strconv.Itoa(r.Row) + "]." + r.Field
}
