package driven

import (
	"context"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// DocumentStore persists the last saved state of business documents.
type DocumentStore interface {
	// Save stores or updates a document.
	Save(ctx context.Context, doc domain.StoredDocument) error

	// Get retrieves a document by type and name.
	// Returns domain.ErrNotFound if the document does not exist.
	Get(ctx context.Context, docType, name string) (*domain.StoredDocument, error)

	// Delete removes a document.
	Delete(ctx context.Context, docType, name string) error
}

// FiscalYearStore persists fiscal years.
type FiscalYearStore interface {
	// Save stores or updates a fiscal year.
	Save(ctx context.Context, fy domain.FiscalYear) error

	// List returns all fiscal years ordered by start date descending.
	List(ctx context.Context) ([]domain.FiscalYear, error)
}

// SeriesStore hands out naming series counters.
type SeriesStore interface {
	// Next increments and returns the counter for a series prefix.
	// The first call for a prefix returns 1.
	Next(ctx context.Context, prefix string) (int, error)

	// Current returns the last value handed out, or 0.
	Current(ctx context.Context, prefix string) (int, error)
}
