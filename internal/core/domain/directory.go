package domain

import (
	"time"
)

// Location is a business location that owns warehouses and addresses.
type Location struct {
	// Name is the unique location name.
	Name string `json:"name"`

	// Code is the short code used in naming series.
	Code string `json:"code,omitempty"`

	// LinkedWarehouse is the warehouse (group or leaf) serving this location.
	LinkedWarehouse string `json:"linked_warehouse,omitempty"`

	// LinkedAddress is the location's primary address.
	LinkedAddress string `json:"linked_address,omitempty"`

	// CreatedAt is when the location was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the location was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// Warehouse is a node in the warehouse tree.
type Warehouse struct {
	// Name is the unique warehouse name.
	Name string `json:"name"`

	// Title is the display name.
	Title string `json:"title,omitempty"`

	// Parent is the parent group warehouse. Empty for roots.
	Parent string `json:"parent,omitempty"`

	// IsGroup marks group warehouses, which cannot hold stock.
	IsGroup bool `json:"is_group"`

	// Disabled warehouses are never selectable.
	Disabled bool `json:"disabled"`

	// Company owning the warehouse.
	Company string `json:"company,omitempty"`
}

// Selectable returns true if stock can be assigned to the warehouse.
func (w Warehouse) Selectable() bool {
	return !w.IsGroup && !w.Disabled
}

// Address is a postal address that can be linked to locations.
type Address struct {
	// Name is the unique address name.
	Name string `json:"name"`

	// Title is the display name.
	Title string `json:"title,omitempty"`

	// GSTIN is the tax identification number at this address.
	GSTIN string `json:"gstin,omitempty"`

	// Display is the formatted multi-line address.
	Display string `json:"display,omitempty"`
}

// AddressLink links an additional address to a location.
type AddressLink struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Address  string `json:"address"`
}

// StoredDocument is the last saved state of a business document, used for
// parent lookups and field locking.
type StoredDocument struct {
	DocType string            `json:"doctype"`
	Name    string            `json:"name"`
	Values  map[string]string `json:"values"`
	SavedAt time.Time         `json:"saved_at"`
}

// Value returns a saved field value.
func (d *StoredDocument) Value(field string) string {
	return d.Values[field]
}

// FiscalYear is an accounting period.
type FiscalYear struct {
	// Name is the fiscal year name (e.g., "2024-2025").
	Name string `json:"name"`

	// Start and End bound the period inclusively.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// Companies the fiscal year is linked to. Empty means unrestricted.
	Companies []string `json:"companies,omitempty"`

	// Disabled fiscal years are ignored.
	Disabled bool `json:"disabled"`
}

// Contains returns true if date falls within the fiscal year.
func (f FiscalYear) Contains(date time.Time) bool {
	d := truncateDay(date)
	return !d.Before(truncateDay(f.Start)) && !d.After(truncateDay(f.End))
}

// LinkedTo returns true if the fiscal year is linked to company.
func (f FiscalYear) LinkedTo(company string) bool {
	for _, c := range f.Companies {
		if c == company {
			return true
		}
	}
	return false
}

// Code returns the last two characters of the fiscal year name.
func (f FiscalYear) Code() string {
	if len(f.Name) < 2 {
		return f.Name
	}
	return f.Name[len(f.Name)-2:]
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// QueryOptions controls paging and text search for query routines.
type QueryOptions struct {
	// Text is a case-insensitive substring filter on the value name.
	Text string

	// Start is the number of results to skip.
	Start int

	// PageLength caps the number of results. Zero means unlimited.
	PageLength int
}

// Option is one selectable value returned by a query routine.
type Option struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}
