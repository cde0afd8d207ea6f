package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// ValidationService validates documents before save.
type ValidationService interface {
	// Validate checks the document and returns the field values to fill
	// in (location_code, company or billing address, company_gstin).
	// Failures are *domain.ValidationError.
	Validate(ctx context.Context, snap *domain.DocumentSnapshot) (map[string]string, error)

	// Save validates the document, applies the filled values and records it.
	Save(ctx context.Context, snap *domain.DocumentSnapshot) (*domain.StoredDocument, error)
}

// NamingService generates document names from naming series.
type NamingService interface {
	// SeriesPrefix expands a document's series pattern up to the counter.
	SeriesPrefix(ctx context.Context, snap *domain.DocumentSnapshot, postingDate time.Time) (string, error)

	// NextName returns the next document name in the series.
	NextName(ctx context.Context, snap *domain.DocumentSnapshot, postingDate time.Time) (string, error)

	// FiscalYearCode returns the fiscal year code for a date and company.
	FiscalYearCode(ctx context.Context, date time.Time, company string) (string, error)
}
