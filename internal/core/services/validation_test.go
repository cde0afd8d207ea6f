package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func newTestValidationService(t *testing.T, validation domain.ValidationSettings) (*ValidationService, *testDirectory) {
	t.Helper()
	d := newTestDirectory(t)
	svc, err := NewValidationService(ValidationDeps{
		Locations:  d.locations,
		Addresses:  d.addresses,
		Documents:  d.documents,
		Warehouses: d.warehouseQuery(),
		Naming:     NewNamingService(d.fiscalYears, d.series, d.locations),
	}, domain.DefaultResolverSettings(), validation)
	require.NoError(t, err)
	return svc, d
}

func enabledValidation() domain.ValidationSettings {
	return domain.DefaultAppSettings().Validation
}

func document(docType, name string, values map[string]string, rows ...string) *domain.DocumentSnapshot {
	profile, _ := domain.ProfileFor(docType)
	items := make([]domain.Row, len(rows))
	for i, w := range rows {
		items[i] = domain.Row{"warehouse": w}
	}
	return &domain.DocumentSnapshot{
		DocType: docType,
		Name:    name,
		Values:  values,
		Fields:  profile.DeclaredFields(),
		Tables:  map[string][]domain.Row{"items": items},
	}
}

func requireValidationError(t *testing.T, err error, field, reason string) {
	t.Helper()
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, field, vErr.Field)
	assert.Contains(t, vErr.Reason, reason)
}

func TestValidationService_LocationRules(t *testing.T) {
	svc, _ := newTestValidationService(t, enabledValidation())
	ctx := context.Background()

	tests := []struct {
		name     string
		location string
		reason   string
	}{
		{"missing", "", "Select Location before Saving"},
		{"unknown", "L-Missing", "does not exist"},
		{"no code", "L-Bare", "must have a Location Code"},
		{"no address", "L-Old", "must have a Linked Address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := document(domain.DocTypeSalesInvoice, "", map[string]string{"location": tt.location})
			_, err := svc.Validate(ctx, snap)
			requireValidationError(t, err, "location", tt.reason)
		})
	}
}

func TestValidationService_DimensionDisabled(t *testing.T) {
	svc, _ := newTestValidationService(t, domain.ValidationSettings{RequireDimension: true})

	_, err := svc.Validate(context.Background(),
		document(domain.DocTypeSalesInvoice, "", map[string]string{"location": "L-West"}))
	requireValidationError(t, err, "", "Accounting Dimension")

	relaxed, _ := newTestValidationService(t, domain.ValidationSettings{})
	_, err = relaxed.Validate(context.Background(),
		document(domain.DocTypeSalesInvoice, "", map[string]string{"location": "L-West"}))
	assert.NoError(t, err)
}

func TestValidationService_FillsSalesFields(t *testing.T) {
	svc, _ := newTestValidationService(t, enabledValidation())

	fills, err := svc.Validate(context.Background(), document(domain.DocTypeSalesInvoice, "",
		map[string]string{"location": "L-West", "set_warehouse": "Stores - W"}, "Stores - W", "Transit - W"))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"location_code":   "WST",
		"company_address": "West HQ",
		"company_gstin":   "27AAAAA0000A1Z5",
	}, fills)
}

func TestValidationService_FillsPurchaseFieldsAndAutoSelects(t *testing.T) {
	svc, _ := newTestValidationService(t, enabledValidation())

	fills, err := svc.Validate(context.Background(), document(domain.DocTypePurchaseInvoice, "",
		map[string]string{"location": "L-East"}))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"location_code":   "EST",
		"billing_address": "East HQ",
		"set_warehouse":   "Stores - E",
	}, fills)
}

func TestValidationService_RejectsForeignWarehouse(t *testing.T) {
	svc, _ := newTestValidationService(t, enabledValidation())
	ctx := context.Background()

	_, err := svc.Validate(ctx, document(domain.DocTypeSalesInvoice, "",
		map[string]string{"location": "L-West", "set_warehouse": "Stores - E"}))
	requireValidationError(t, err, "set_warehouse", "Valid warehouses are: Stores - W, Transit - W")

	_, err = svc.Validate(ctx, document(domain.DocTypeSalesInvoice, "",
		map[string]string{"location": "L-West"}, "Stores - W", "Scrap - W"))
	requireValidationError(t, err, "items[1].warehouse", "'Scrap - W' is not valid")
}

func TestValidationService_ChecksAgainstWinningLocation(t *testing.T) {
	svc, _ := newTestValidationService(t, enabledValidation())

	_, err := svc.Validate(context.Background(), document(domain.DocTypeSalesInvoice, "",
		map[string]string{"location": "L-East", "dispatch_location": "L-West", "set_warehouse": "Transit - W"}))
	assert.NoError(t, err)
}

func TestValidationService_SaveNamesAndLocks(t *testing.T) {
	svc, d := newTestValidationService(t, enabledValidation())
	ctx := context.Background()

	snap := document(domain.DocTypeSalesInvoice, "", map[string]string{
		"location":     "L-West",
		"posting_date": "2024-06-01",
		"is_return":    "0",
	}, "Stores - W")

	stored, err := svc.Save(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, "SIWST25-0001", stored.Name)
	assert.Equal(t, "West HQ", stored.Value("company_address"))
	assert.Empty(t, snap.Name, "input snapshot is not modified")

	saved, err := d.documents.Get(ctx, domain.DocTypeSalesInvoice, "SIWST25-0001")
	require.NoError(t, err)
	assert.Equal(t, "WST", saved.Value("location_code"))

	edit := document(domain.DocTypeSalesInvoice, stored.Name, map[string]string{
		"location":  "L-East",
		"is_return": "0",
	})
	_, err = svc.Validate(ctx, edit)
	assert.ErrorIs(t, err, domain.ErrFieldLocked)
	requireValidationError(t, err, "company_address", "cannot be changed after saving")

	edit.Values = map[string]string{"location": "L-West", "is_return": "1"}
	_, err = svc.Validate(ctx, edit)
	assert.ErrorIs(t, err, domain.ErrFieldLocked)
	requireValidationError(t, err, "is_return", "cannot be changed after saving")

	edit.Values = map[string]string{"location": "L-West", "is_return": "0"}
	_, err = svc.Save(ctx, edit)
	assert.NoError(t, err)
}

func TestValidationService_SaveWithoutNaming(t *testing.T) {
	d := newTestDirectory(t)
	svc, err := NewValidationService(ValidationDeps{
		Locations: d.locations,
		Addresses: d.addresses,
		Documents: d.documents,
	}, domain.DefaultResolverSettings(), enabledValidation())
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), document(domain.DocTypeSalesOrder, "", map[string]string{"location": "L-East"}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := svc.Save(context.Background(), document(domain.DocTypeSalesOrder, "SO-1", map[string]string{"location": "L-East"}))
	require.NoError(t, err)
	assert.Equal(t, "SO-1", stored.Name)
}

func TestValidationService_NotConfigured(t *testing.T) {
	svc, err := NewValidationService(ValidationDeps{}, domain.DefaultResolverSettings(), enabledValidation())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), document(domain.DocTypeSalesInvoice, "", nil))
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
