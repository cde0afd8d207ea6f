package domain

// FilterState is the derived state of a document's location filtering.
// It is recomputed from the snapshot on every event and never stored.
type FilterState string

// Filter states.
const (
	// StateNoLocation means no location field is set.
	StateNoLocation FilterState = "no_location"

	// StateLocationSet means a location field is set and its bindings apply.
	StateLocationSet FilterState = "location_set"

	// StateLocationCleared means the changed location field was just emptied.
	// The machine settles on NoLocation or on a remaining location.
	StateLocationCleared FilterState = "location_cleared"
)

// String returns the string representation.
func (s FilterState) String() string {
	return string(s)
}

// Event identifies what triggered a resolution.
type Event string

// Form events the resolver reacts to.
const (
	EventFieldChange Event = "change"
	EventRefresh     Event = "refresh"
)

// ResolverOutput is everything a form host must apply after one event.
// Apply order: Clears, Resets, Bindings, then AutoFill asynchronously.
type ResolverOutput struct {
	// Event is the triggering event.
	Event Event `json:"event"`

	// Changed is the location type whose field changed. Empty on refresh.
	Changed LocationType `json:"changed,omitempty"`

	// Winner is the location type whose warehouse bindings apply.
	// Empty when no location is set.
	Winner LocationType `json:"winner,omitempty"`

	// State is the derived state after the event.
	State FilterState `json:"state"`

	// Bindings are the query bindings to install.
	Bindings []QueryBinding `json:"bindings"`

	// Clears are "show nothing" bindings for address fields whose location
	// was cleared.
	Clears []QueryBinding `json:"clears,omitempty"`

	// Resets are selected values to empty.
	Resets []ValueReset `json:"resets,omitempty"`

	// AutoFill is the address auto-fill request, if any.
	AutoFill *AddressAutoFill `json:"auto_fill,omitempty"`
}

// Binding returns the binding targeting table.field, if present.
func (o *ResolverOutput) Binding(table, field string) (QueryBinding, bool) {
	for _, b := range o.Bindings {
		if b.Table == table && b.Field == field {
			return b, true
		}
	}
	return QueryBinding{}, false
}

// Targets returns the target names of all bindings in order.
func (o *ResolverOutput) Targets() []string {
	targets := make([]string, 0, len(o.Bindings))
	for _, b := range o.Bindings {
		targets = append(targets, b.Target())
	}
	return targets
}
