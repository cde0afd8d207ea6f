package driving

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// Resolver computes query bindings, address auto-fill requests and field
// clears for a document snapshot. Implementations are pure and safe for
// concurrent use.
type Resolver interface {
	// BuildWarehouseBindings returns the warehouse bindings for location
	// type t. When the location is empty the bindings show nothing.
	BuildWarehouseBindings(snap *domain.DocumentSnapshot, t domain.LocationType) ([]domain.QueryBinding, error)

	// BuildAddressBinding returns the auto-fill request for t, or nil when
	// t has no address field, the field is not declared or the location is empty.
	BuildAddressBinding(snap *domain.DocumentSnapshot, t domain.LocationType) (*domain.AddressAutoFill, error)

	// BuildAddressQueryBinding returns the address query binding for t, or nil.
	BuildAddressQueryBinding(snap *domain.DocumentSnapshot, t domain.LocationType) (*domain.QueryBinding, error)

	// BuildClearBindings returns "show nothing" bindings for the address
	// field of t. Main has no address field and returns none.
	BuildClearBindings(snap *domain.DocumentSnapshot, t domain.LocationType) ([]domain.QueryBinding, error)

	// ResolvePrecedence returns the set location type that wins.
	// Returns false when no location field is set.
	ResolvePrecedence(snap *domain.DocumentSnapshot) (domain.LocationType, bool)

	// Resolve computes everything a host applies after the location field
	// of type changed was edited.
	Resolve(snap *domain.DocumentSnapshot, changed domain.LocationType) (*domain.ResolverOutput, error)

	// ResolveRefresh computes the bindings to install when a form loads or refreshes.
	ResolveRefresh(snap *domain.DocumentSnapshot) (*domain.ResolverOutput, error)

	// Namespace returns the namespace routine names are qualified with.
	Namespace() string
}

// FormController drives one form: it resolves events and applies the
// result to the form's host.
type FormController interface {
	// HandleChange applies clears, resets and bindings synchronously and
	// starts the address auto-fill, if any, in the background.
	HandleChange(ctx context.Context, snap *domain.DocumentSnapshot, changed domain.LocationType) (*domain.ResolverOutput, PendingAutoFill, error)

	// HandleRefresh installs the bindings for the current snapshot.
	HandleRefresh(ctx context.Context, snap *domain.DocumentSnapshot) (*domain.ResolverOutput, error)
}

// PendingAutoFill is an address auto-fill running in the background.
type PendingAutoFill interface {
	// Done is closed when the lookup finished and its result was applied.
	Done() <-chan struct{}

	// Wait blocks until Done and returns the outcome.
	Wait() (AutoFillResult, error)
}

// AutoFillResult reports what an address auto-fill did.
type AutoFillResult struct {
	// Field is the address field.
	Field string `json:"field"`

	// Value is the address set. Empty when skipped.
	Value string `json:"value,omitempty"`

	// Applied is true when the field was set.
	Applied bool `json:"applied"`

	// Candidates is the number of addresses the lookup returned.
	Candidates int `json:"candidates"`
}
