package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.ValidationService = (*ValidationService)(nil)

// Fields filled or locked by validation.
const (
	fieldLocationCode     = "location_code"
	fieldBillingAddress   = "billing_address"
	fieldCompanyAddress   = "company_address"
	fieldCompanyGSTIN     = "company_gstin"
	fieldIsReturn         = "is_return"
	fieldIsRateAdjustment = "is_rate_adjustment"
)

// lockedFields may not change once a document is saved.
var lockedFields = []string{domain.FieldLocation, fieldIsReturn, fieldIsRateAdjustment}

// ValidationDeps holds the collaborators of ValidationService.
type ValidationDeps struct {
	Locations  driven.LocationStore
	Addresses  driven.AddressStore
	Documents  driven.DocumentStore
	Warehouses driving.WarehouseQueryService
	Naming     driving.NamingService
}

// ValidationService enforces the location rules on save.
type ValidationService struct {
	deps       ValidationDeps
	resolver   *Resolver
	settings   domain.ResolverSettings
	validation domain.ValidationSettings
	now        func() time.Time
}

// NewValidationService creates a validation service. Documents, Warehouses
// and Naming may be nil; the checks they back are then skipped.
func NewValidationService(
	deps ValidationDeps,
	resolverSettings domain.ResolverSettings,
	validation domain.ValidationSettings,
) (*ValidationService, error) {
	resolver, err := NewResolver(resolverSettings)
	if err != nil {
		return nil, err
	}
	return &ValidationService{
		deps:       deps,
		resolver:   resolver,
		settings:   resolverSettings,
		validation: validation,
		now:        time.Now,
	}, nil
}

// Validate checks the document and returns the values to fill in.
func (s *ValidationService) Validate(ctx context.Context, snap *domain.DocumentSnapshot) (map[string]string, error) {
	if s.deps.Locations == nil || s.deps.Addresses == nil {
		return nil, domain.ErrNotImplemented
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	if s.validation.RequireDimension && !s.validation.DimensionEnabled {
		return nil, &domain.ValidationError{
			Reason: "Please enable 'Location' as an active Accounting Dimension before using it in transactions.",
		}
	}

	location := snap.Value(domain.FieldLocation)
	if location == "" {
		return nil, domain.NewValidationError(domain.FieldLocation, "Select Location before Saving")
	}
	loc, err := s.deps.Locations.Get(ctx, location)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewValidationError(domain.FieldLocation, fmt.Sprintf("Location '%s' does not exist", location))
	}
	if err != nil {
		return nil, fmt.Errorf("get location %q: %w", location, err)
	}
	if loc.Code == "" {
		return nil, domain.NewValidationError(domain.FieldLocation, "Selected Location must have a Location Code.")
	}
	if loc.LinkedAddress == "" {
		return nil, domain.NewValidationError(domain.FieldLocation, "Selected Location must have a Linked Address.")
	}

	addressField := fieldCompanyAddress
	if domain.IsPurchaseDocType(snap.DocType) {
		addressField = fieldBillingAddress
	}
	fills := map[string]string{
		fieldLocationCode: loc.Code,
		addressField:      loc.LinkedAddress,
	}
	addr, err := s.deps.Addresses.Get(ctx, loc.LinkedAddress)
	switch {
	case err == nil:
		if addr.GSTIN != "" {
			fills[fieldCompanyGSTIN] = addr.GSTIN
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("get address %q: %w", loc.LinkedAddress, err)
	}

	if err := s.checkLocked(ctx, snap, addressField, loc.LinkedAddress); err != nil {
		return nil, err
	}

	warehouseFills, err := s.checkWarehouses(ctx, snap)
	if err != nil {
		return nil, err
	}
	for k, v := range warehouseFills {
		fills[k] = v
	}

	logger.Debug("validate: %s %q ok, filling %d fields", snap.DocType, snap.Name, len(fills))
	return fills, nil
}

// checkLocked rejects changes to locked fields after the first save.
func (s *ValidationService) checkLocked(
	ctx context.Context,
	snap *domain.DocumentSnapshot,
	addressField, expectedAddress string,
) error {
	if snap.IsNew() || s.deps.Documents == nil {
		return nil
	}
	old, err := s.deps.Documents.Get(ctx, snap.DocType, snap.Name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get saved %s %q: %w", snap.DocType, snap.Name, err)
	}

	if saved := old.Value(addressField); saved != "" && saved != expectedAddress {
		return domain.NewLockedFieldError(addressField)
	}
	for _, field := range lockedFields {
		if snap.HasField(field) && snap.Value(field) != old.Value(field) {
			return domain.NewLockedFieldError(field)
		}
	}
	return nil
}

// checkWarehouses verifies restricted warehouse values against the
// effective location and auto-selects the only valid warehouse.
func (s *ValidationService) checkWarehouses(ctx context.Context, snap *domain.DocumentSnapshot) (map[string]string, error) {
	fills := map[string]string{}
	if s.deps.Warehouses == nil {
		return fills, nil
	}
	winner, ok := s.resolver.ResolvePrecedence(snap)
	if !ok {
		return fills, nil
	}
	location := snap.LocationValue(winner)

	check := func(field, warehouse string) error {
		valid, err := s.deps.Warehouses.ValidateWarehouse(ctx, location, warehouse)
		if err != nil {
			return err
		}
		if valid {
			return nil
		}
		names, err := s.validNames(ctx, location)
		if err != nil {
			return err
		}
		return domain.NewValidationError(field, fmt.Sprintf(
			"Warehouse '%s' is not valid for location '%s'. Valid warehouses are: %s",
			warehouse, location, strings.Join(names, ", ")))
	}

	for _, field := range s.settings.RestrictedDocumentFields() {
		if !snap.HasField(field) {
			continue
		}
		value := snap.Value(field)
		if value == "" {
			only, found, err := s.deps.Warehouses.AutoSelect(ctx, location)
			if err != nil {
				return nil, err
			}
			if found {
				fills[field] = only
			}
			continue
		}
		if err := check(field, value); err != nil {
			return nil, err
		}
	}

	for _, table := range s.settings.ChildTables {
		for i, row := range snap.Rows(table) {
			for _, field := range s.settings.RestrictedChildFields() {
				if row[field] == "" {
					continue
				}
				if err := check(fmt.Sprintf("%s[%d].%s", table, i, field), row[field]); err != nil {
					return nil, err
				}
			}
		}
	}
	return fills, nil
}

func (s *ValidationService) validNames(ctx context.Context, location string) ([]string, error) {
	valid, err := s.deps.Warehouses.ValidWarehouses(ctx, location)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(valid))
	for i, w := range valid {
		names[i] = w.Name
	}
	return names, nil
}

// Save validates the document, applies the filled values, names new
// documents from their series and records the result.
func (s *ValidationService) Save(ctx context.Context, snap *domain.DocumentSnapshot) (*domain.StoredDocument, error) {
	if s.deps.Documents == nil {
		return nil, domain.ErrNotImplemented
	}
	fills, err := s.Validate(ctx, snap)
	if err != nil {
		return nil, err
	}

	doc := snap.Clone()
	for k, v := range fills {
		doc.Values[k] = v
	}

	if doc.IsNew() {
		if s.deps.Naming == nil {
			return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
		}
		name, err := s.deps.Naming.NextName(ctx, &doc, postingDate(&doc, s.now()))
		if err != nil {
			return nil, fmt.Errorf("name %s: %w", doc.DocType, err)
		}
		doc.Name = name
	}

	stored := domain.StoredDocument{
		DocType: doc.DocType,
		Name:    doc.Name,
		Values:  doc.Values,
		SavedAt: s.now(),
	}
	if err := s.deps.Documents.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("save %s %q: %w", stored.DocType, stored.Name, err)
	}
	return &stored, nil
}

// postingDate reads the posting_date field, falling back to now.
func postingDate(snap *domain.DocumentSnapshot, now time.Time) time.Time {
	if d, err := time.Parse(time.DateOnly, snap.Value("posting_date")); err == nil {
		return d
	}
	return now
}
