package driven

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// FormHost is the form framework hosting a document. The core installs
// query bindings and sets values through it; the host owns rendering and
// fires the change and refresh events.
type FormHost interface {
	// DeclareQuery installs a query binding on a document-level field
	// (binding.Table empty) or on a child-table field.
	DeclareQuery(ctx context.Context, binding domain.QueryBinding) error

	// SetValue sets a document-level field value.
	SetValue(ctx context.Context, field, value string) error

	// SetRowValue sets a field value on one child-table row.
	SetRowValue(ctx context.Context, table string, row int, field, value string) error

	// RefreshField re-renders a field or child table.
	RefreshField(ctx context.Context, field string) error
}
