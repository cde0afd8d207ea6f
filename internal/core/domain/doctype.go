package domain

import "slices"

// Target document types handled by location filtering.
const (
	DocTypeSalesInvoice    = "Sales Invoice"
	DocTypePurchaseInvoice = "Purchase Invoice"
	DocTypeSalesOrder      = "Sales Order"
	DocTypePurchaseOrder   = "Purchase Order"
	DocTypeDeliveryNote    = "Delivery Note"
	DocTypePurchaseReceipt = "Purchase Receipt"
)

// DocTypeProfile describes which location fields and warehouse fields a
// document type's form declares.
type DocTypeProfile struct {
	// DocType is the document type name.
	DocType string

	// Locations are the location types the form exposes.
	Locations []LocationType

	// Purchase marks buying-side documents, which take a billing address
	// instead of a company address.
	Purchase bool

	// SeriesPattern is the naming series pattern.
	SeriesPattern string

	// ExtraFields are other declared fields relevant to filtering.
	ExtraFields []string
}

// Exposes returns true if the form declares the location field for t.
func (p DocTypeProfile) Exposes(t LocationType) bool {
	return slices.Contains(p.Locations, t)
}

// DeclaredFields returns the field presence map for the profile's form.
func (p DocTypeProfile) DeclaredFields() map[string]bool {
	fields := map[string]bool{
		FieldSetWarehouse: true,
		TableItems:        true,
	}
	for _, t := range p.Locations {
		rule := locationRules[t]
		fields[rule.LocationField] = true
		if rule.HasAddress() {
			fields[rule.AddressField] = true
		}
	}
	for _, f := range p.ExtraFields {
		fields[f] = true
	}
	return fields
}

var docTypeProfiles = []DocTypeProfile{
	{
		DocType:       DocTypeSalesInvoice,
		Locations:     []LocationType{LocationMain, LocationDispatch},
		SeriesPattern: "SI.{doctype_code}.{location_code}.FY.-.####",
		ExtraFields:   []string{"is_return", "is_debit_note", "company_address"},
	},
	{
		DocType:       DocTypePurchaseInvoice,
		Locations:     []LocationType{LocationMain, LocationShipping},
		Purchase:      true,
		SeriesPattern: "PI.{doctype_code}.{location_code}.FY.-.####",
		ExtraFields:   []string{"is_return", "billing_address"},
	},
	{
		DocType:       DocTypeSalesOrder,
		Locations:     []LocationType{LocationMain},
		SeriesPattern: "SO.{location_code}.FY.-.####",
		ExtraFields:   []string{"company_address"},
	},
	{
		DocType:       DocTypePurchaseOrder,
		Locations:     []LocationType{LocationMain},
		Purchase:      true,
		SeriesPattern: "PO.{location_code}.FY.-.####",
		ExtraFields:   []string{"billing_address"},
	},
	{
		DocType:       DocTypeDeliveryNote,
		Locations:     []LocationType{LocationMain},
		SeriesPattern: "DN.{doctype_code}.{location_code}.FY.-.####",
		ExtraFields:   []string{"is_return", "company_address"},
	},
	{
		DocType:       DocTypePurchaseReceipt,
		Locations:     []LocationType{LocationMain},
		Purchase:      true,
		SeriesPattern: "PR.{doctype_code}.{location_code}.FY.-.####",
		ExtraFields:   []string{"is_return", "billing_address"},
	},
}

// DocTypeProfiles returns the profiles of all target document types.
func DocTypeProfiles() []DocTypeProfile {
	return slices.Clone(docTypeProfiles)
}

// ProfileFor returns the profile of a document type.
func ProfileFor(docType string) (DocTypeProfile, bool) {
	for _, p := range docTypeProfiles {
		if p.DocType == docType {
			return p, true
		}
	}
	return DocTypeProfile{}, false
}

// IsPurchaseDocType returns true for buying-side document types.
func IsPurchaseDocType(docType string) bool {
	p, ok := ProfileFor(docType)
	return ok && p.Purchase
}

// NewSnapshot builds a snapshot for a bare set of values. Known document
// types declare their profile's fields; unknown ones declare the fields
// they carry.
func NewSnapshot(docType, name string, values map[string]string) DocumentSnapshot {
	snap := DocumentSnapshot{
		DocType: docType,
		Name:    name,
		Values:  values,
	}
	if snap.Values == nil {
		snap.Values = map[string]string{}
	}
	if profile, ok := ProfileFor(docType); ok {
		snap.Fields = profile.DeclaredFields()
		return snap
	}
	snap.Fields = make(map[string]bool, len(snap.Values))
	for field := range snap.Values {
		snap.Fields[field] = true
	}
	return snap
}
