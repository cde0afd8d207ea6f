package domain

// Row is a single child-table row: field name to value.
type Row map[string]string

// DocumentSnapshot is a read-only view of a business document at the moment
// an event fires. The resolver never mutates it.
type DocumentSnapshot struct {
	// DocType is the document type (e.g., "Sales Invoice").
	DocType string `json:"doctype"`

	// Name is the document identity. Empty for unsaved documents.
	Name string `json:"name,omitempty"`

	// Values holds the current document-level field values.
	Values map[string]string `json:"values"`

	// Fields lists the fields declared on this document type.
	// Child tables are declared fields too.
	Fields map[string]bool `json:"fields"`

	// Tables holds child-table rows keyed by table field name.
	Tables map[string][]Row `json:"tables,omitempty"`
}

// HasField returns true if the field is declared on the document type.
func (s *DocumentSnapshot) HasField(name string) bool {
	return s.Fields[name]
}

// Value returns the document-level value of a field, or empty string.
func (s *DocumentSnapshot) Value(name string) string {
	return s.Values[name]
}

// Rows returns the rows of a child table.
func (s *DocumentSnapshot) Rows(table string) []Row {
	return s.Tables[table]
}

// LocationValue returns the value of the location field for t.
// Returns empty string if the field is not declared on the document.
func (s *DocumentSnapshot) LocationValue(t LocationType) string {
	rule, ok := t.Rule()
	if !ok || !s.HasField(rule.LocationField) {
		return ""
	}
	return s.Value(rule.LocationField)
}

// IsNew returns true if the document has not been saved yet.
func (s *DocumentSnapshot) IsNew() bool {
	return s.Name == ""
}

// Clone returns a deep copy of the snapshot.
func (s *DocumentSnapshot) Clone() DocumentSnapshot {
	out := DocumentSnapshot{
		DocType: s.DocType,
		Name:    s.Name,
		Values:  make(map[string]string, len(s.Values)),
		Fields:  make(map[string]bool, len(s.Fields)),
		Tables:  make(map[string][]Row, len(s.Tables)),
	}
	for k, v := range s.Values {
		out.Values[k] = v
	}
	for k, v := range s.Fields {
		out.Fields[k] = v
	}
	for table, rows := range s.Tables {
		copied := make([]Row, len(rows))
		for i, row := range rows {
			r := make(Row, len(row))
			for k, v := range row {
				r[k] = v
			}
			copied[i] = r
		}
		out.Tables[table] = copied
	}
	return out
}
