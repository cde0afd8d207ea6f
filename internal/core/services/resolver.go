package services

import (
	"fmt"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure Resolver implements the interface.
var _ driving.Resolver = (*Resolver)(nil)

// Resolver implements the location filter decision logic. It holds only
// immutable settings and never touches the snapshots it is given.
type Resolver struct {
	precedence     domain.PrecedencePolicy
	namespace      string
	documentFields []string
	childTables    []string
	childFields    []string
}

// NewResolver creates a resolver. A nil precedence falls back to the default.
func NewResolver(settings domain.ResolverSettings) (*Resolver, error) {
	precedence := settings.Precedence
	if len(precedence) == 0 {
		precedence = domain.DefaultPrecedence()
	}
	if err := precedence.Validate(); err != nil {
		return nil, fmt.Errorf("resolver precedence: %w", err)
	}

	return &Resolver{
		precedence:     append(domain.PrecedencePolicy(nil), precedence...),
		namespace:      settings.QueryNamespace,
		documentFields: settings.RestrictedDocumentFields(),
		childTables:    append([]string(nil), settings.ChildTables...),
		childFields:    settings.RestrictedChildFields(),
	}, nil
}

// Namespace returns the namespace routine names are qualified with.
func (r *Resolver) Namespace() string {
	return r.namespace
}

// Precedence returns the precedence policy in use.
func (r *Resolver) Precedence() domain.PrecedencePolicy {
	return append(domain.PrecedencePolicy(nil), r.precedence...)
}

// BuildWarehouseBindings returns a binding for every restricted warehouse
// field the document declares. An empty location yields "show nothing"
// bindings for the same fields.
func (r *Resolver) BuildWarehouseBindings(
	snap *domain.DocumentSnapshot,
	t domain.LocationType,
) ([]domain.QueryBinding, error) {
	rule, err := ruleFor(snap, t)
	if err != nil {
		return nil, err
	}
	return r.warehouseBindings(snap, rule, snap.LocationValue(t)), nil
}

func (r *Resolver) warehouseBindings(
	snap *domain.DocumentSnapshot,
	rule domain.LocationRule,
	value string,
) []domain.QueryBinding {
	var bindings []domain.QueryBinding

	for _, field := range r.documentFields {
		if !snap.HasField(field) {
			continue
		}
		if value == "" {
			bindings = append(bindings, domain.EmptyBinding("", field))
			continue
		}
		bindings = append(bindings, domain.QueryBinding{
			Field:   field,
			Query:   rule.DocumentQuery,
			Filters: map[string]any{rule.FilterKey: value},
		})
	}

	for _, table := range r.childTables {
		if !snap.HasField(table) {
			continue
		}
		for _, field := range r.childFields {
			if value == "" {
				bindings = append(bindings, domain.EmptyBinding(table, field))
				continue
			}
			bindings = append(bindings, domain.QueryBinding{
				Field: field,
				Table: table,
				Query: rule.ChildQuery,
				Filters: map[string]any{
					domain.FilterParentDocType: snap.DocType,
					domain.FilterParent:        snap.Name,
					rule.FilterKey:             value,
				},
			})
		}
	}

	return bindings
}

// BuildAddressBinding returns the address auto-fill request for t.
func (r *Resolver) BuildAddressBinding(
	snap *domain.DocumentSnapshot,
	t domain.LocationType,
) (*domain.AddressAutoFill, error) {
	rule, err := ruleFor(snap, t)
	if err != nil {
		return nil, err
	}
	value := snap.LocationValue(t)
	if !rule.HasAddress() || !snap.HasField(rule.AddressField) || value == "" {
		return nil, nil
	}
	return &domain.AddressAutoFill{
		Field:    rule.AddressField,
		Lookup:   rule.AddressLookup,
		ArgName:  rule.FilterKey,
		ArgValue: value,
	}, nil
}

// BuildAddressQueryBinding returns the binding restricting the address
// field of t to the location's addresses.
func (r *Resolver) BuildAddressQueryBinding(
	snap *domain.DocumentSnapshot,
	t domain.LocationType,
) (*domain.QueryBinding, error) {
	rule, err := ruleFor(snap, t)
	if err != nil {
		return nil, err
	}
	value := snap.LocationValue(t)
	if !rule.HasAddress() || !snap.HasField(rule.AddressField) || value == "" {
		return nil, nil
	}
	return &domain.QueryBinding{
		Field:   rule.AddressField,
		Query:   rule.AddressQuery,
		Filters: map[string]any{rule.FilterKey: value},
	}, nil
}

// BuildClearBindings returns a "show nothing" binding for the address
// field of t, if the document declares it.
func (r *Resolver) BuildClearBindings(
	snap *domain.DocumentSnapshot,
	t domain.LocationType,
) ([]domain.QueryBinding, error) {
	rule, err := ruleFor(snap, t)
	if err != nil {
		return nil, err
	}
	if !rule.HasAddress() || !snap.HasField(rule.AddressField) {
		return nil, nil
	}
	return []domain.QueryBinding{domain.EmptyBinding("", rule.AddressField)}, nil
}

// ResolvePrecedence returns the first set location type in precedence order.
func (r *Resolver) ResolvePrecedence(snap *domain.DocumentSnapshot) (domain.LocationType, bool) {
	if snap == nil {
		return "", false
	}
	for _, t := range r.precedence {
		if snap.LocationValue(t) != "" {
			return t, true
		}
	}
	return "", false
}

// Resolve handles a change of the location field of type changed.
//
// A set location installs the winner's warehouse bindings plus the changed
// type's address binding and auto-fill. A cleared location clears its
// address field, resets restricted warehouse values when it was the
// effective location, and falls back to the remaining winner.
func (r *Resolver) Resolve(
	snap *domain.DocumentSnapshot,
	changed domain.LocationType,
) (*domain.ResolverOutput, error) {
	rule, err := ruleFor(snap, changed)
	if err != nil {
		return nil, err
	}

	// A change on a field the form does not declare is skipped: the current
	// bindings are re-emitted and nothing is cleared or reset.
	if !snap.HasField(rule.LocationField) {
		logger.Debug("resolver: %s not declared on %s, skipping change", rule.LocationField, snap.DocType)
		out, err := r.ResolveRefresh(snap)
		if err != nil {
			return nil, err
		}
		out.Event = domain.EventFieldChange
		out.Changed = changed
		return out, nil
	}

	out := &domain.ResolverOutput{
		Event:   domain.EventFieldChange,
		Changed: changed,
	}
	winner, hasWinner := r.ResolvePrecedence(snap)

	if snap.LocationValue(changed) != "" {
		logger.Debug("resolver: %s=%q set, %s wins (%s)",
			changed, snap.LocationValue(changed), winner, r.precedence)

		out.State = domain.StateLocationSet
		out.Winner = winner
		out.Bindings = r.warehouseBindings(snap, mustRule(winner), snap.LocationValue(winner))

		addrQuery, _ := r.BuildAddressQueryBinding(snap, changed)
		if addrQuery != nil {
			out.Bindings = append(out.Bindings, *addrQuery)
		}
		out.AutoFill, _ = r.BuildAddressBinding(snap, changed)
		return out, nil
	}

	out.State = domain.StateLocationCleared
	out.Clears, _ = r.BuildClearBindings(snap, changed)

	if !hasWinner || r.precedence.Rank(changed) < r.precedence.Rank(winner) {
		out.Resets = r.resets(snap)
	}

	if !hasWinner {
		logger.Debug("resolver: %s cleared, no location remains", changed)
		out.Bindings = r.warehouseBindings(snap, mustRule(changed), "")
		return out, nil
	}

	logger.Debug("resolver: %s cleared, falling back to %s=%q", changed, winner, snap.LocationValue(winner))
	out.Winner = winner
	out.Bindings = r.warehouseBindings(snap, mustRule(winner), snap.LocationValue(winner))
	return out, nil
}

// ResolveRefresh computes the bindings for a form load or refresh. It never
// requests an auto-fill and never resets values.
func (r *Resolver) ResolveRefresh(snap *domain.DocumentSnapshot) (*domain.ResolverOutput, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	out := &domain.ResolverOutput{Event: domain.EventRefresh}
	winner, ok := r.ResolvePrecedence(snap)
	if !ok {
		out.State = domain.StateNoLocation
		out.Bindings = r.warehouseBindings(snap, mustRule(domain.LocationMain), "")
		return out, nil
	}

	out.State = domain.StateLocationSet
	out.Winner = winner
	out.Bindings = r.warehouseBindings(snap, mustRule(winner), snap.LocationValue(winner))

	for _, t := range r.precedence {
		addrQuery, _ := r.BuildAddressQueryBinding(snap, t)
		if addrQuery != nil {
			out.Bindings = append(out.Bindings, *addrQuery)
		}
	}
	return out, nil
}

// resets empties every declared document warehouse field and every child
// row value that is set. Empty rows are left alone.
func (r *Resolver) resets(snap *domain.DocumentSnapshot) []domain.ValueReset {
	var resets []domain.ValueReset
	for _, field := range r.documentFields {
		if snap.HasField(field) {
			resets = append(resets, domain.ValueReset{Field: field})
		}
	}
	for _, table := range r.childTables {
		if !snap.HasField(table) {
			continue
		}
		for i, row := range snap.Rows(table) {
			for _, field := range r.childFields {
				if row[field] == "" {
					continue
				}
				resets = append(resets, domain.ValueReset{Field: field, Table: table, Row: i})
			}
		}
	}
	return resets
}

func ruleFor(snap *domain.DocumentSnapshot, t domain.LocationType) (domain.LocationRule, error) {
	if snap == nil {
		return domain.LocationRule{}, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	rule, ok := t.Rule()
	if !ok {
		return domain.LocationRule{}, fmt.Errorf("%w: %q", domain.ErrUnknownLocationType, t)
	}
	return rule, nil
}

// mustRule is only called with types already checked or taken from the
// validated precedence policy.
func mustRule(t domain.LocationType) domain.LocationRule {
	rule, _ := t.Rule()
	return rule
}
