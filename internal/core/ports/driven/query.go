package driven

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// QueryService executes a named query routine and returns the selectable
// values for a field. Routine names are bare (unqualified).
type QueryService interface {
	Query(ctx context.Context, queryID string, filters map[string]any, opts domain.QueryOptions) ([]domain.Option, error)
}

// AddressLookup runs a named lookup routine returning address names.
// Implementations wrap transport failures in domain.ErrLookupFailed.
type AddressLookup interface {
	Lookup(ctx context.Context, lookupID string, args map[string]string) ([]string, error)
}
