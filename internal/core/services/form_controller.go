package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure FormController implements the interface.
var _ driving.FormController = (*FormController)(nil)

// FormController applies resolver output to one form host.
type FormController struct {
	resolver driving.Resolver
	host     driven.FormHost
	lookup   driven.AddressLookup
}

// NewFormController creates a controller for a form. lookup may be nil, in
// which case address auto-fill is skipped.
func NewFormController(resolver driving.Resolver, host driven.FormHost, lookup driven.AddressLookup) *FormController {
	return &FormController{
		resolver: resolver,
		host:     host,
		lookup:   lookup,
	}
}

// HandleChange resolves a location field change, applies clears, resets
// and bindings to the host, and starts the address auto-fill. The returned
// PendingAutoFill is nil when no auto-fill was requested.
func (c *FormController) HandleChange(
	ctx context.Context,
	snap *domain.DocumentSnapshot,
	changed domain.LocationType,
) (*domain.ResolverOutput, driving.PendingAutoFill, error) {
	if c.resolver == nil || c.host == nil {
		return nil, nil, domain.ErrNotImplemented
	}

	out, err := c.resolver.Resolve(snap, changed)
	if err != nil {
		return nil, nil, err
	}
	if err := c.apply(ctx, out); err != nil {
		return out, nil, err
	}

	if out.AutoFill == nil {
		return out, nil, nil
	}
	if c.lookup == nil {
		logger.Debug("form: no address lookup configured, skipping auto-fill of %s", out.AutoFill.Field)
		return out, nil, nil
	}
	return out, c.startAutoFill(ctx, *out.AutoFill), nil
}

// HandleRefresh resolves and installs the bindings for a form load.
func (c *FormController) HandleRefresh(ctx context.Context, snap *domain.DocumentSnapshot) (*domain.ResolverOutput, error) {
	if c.resolver == nil || c.host == nil {
		return nil, domain.ErrNotImplemented
	}

	out, err := c.resolver.ResolveRefresh(snap)
	if err != nil {
		return nil, err
	}
	if err := c.apply(ctx, out); err != nil {
		return out, err
	}
	return out, nil
}

// apply pushes clears, resets and bindings to the host in that order.
func (c *FormController) apply(ctx context.Context, out *domain.ResolverOutput) error {
	namespace := c.resolver.Namespace()

	for _, b := range out.Clears {
		if err := c.host.DeclareQuery(ctx, b); err != nil {
			return fmt.Errorf("clear %s: %w", b.Target(), err)
		}
	}

	refreshed := make(map[string]bool)
	for _, reset := range out.Resets {
		var err error
		if reset.Table == "" {
			err = c.host.SetValue(ctx, reset.Field, "")
		} else {
			err = c.host.SetRowValue(ctx, reset.Table, reset.Row, reset.Field, "")
			refreshed[reset.Table] = true
		}
		if err != nil {
			return fmt.Errorf("reset %s: %w", reset.Target(), err)
		}
	}
	for _, table := range sortedKeys(refreshed) {
		if err := c.host.RefreshField(ctx, table); err != nil {
			return fmt.Errorf("refresh %s: %w", table, err)
		}
	}

	for _, b := range out.Bindings {
		b.Query = b.Qualified(namespace)
		if err := c.host.DeclareQuery(ctx, b); err != nil {
			return fmt.Errorf("bind %s: %w", b.Target(), err)
		}
	}
	return nil
}

func (c *FormController) startAutoFill(ctx context.Context, req domain.AddressAutoFill) *pendingAutoFill {
	p := &pendingAutoFill{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.result, p.err = c.autoFill(ctx, req)
	}()
	return p
}

// autoFill sets the address only when the lookup returns exactly one match.
func (c *FormController) autoFill(ctx context.Context, req domain.AddressAutoFill) (driving.AutoFillResult, error) {
	result := driving.AutoFillResult{Field: req.Field}

	names, err := c.lookup.Lookup(ctx, req.Lookup, req.Args())
	if errors.Is(err, domain.ErrAmbiguousLookup) {
		logger.Debug("form: %s lookup ambiguous, leaving %s unchanged", req.Lookup, req.Field)
		return result, nil
	}
	if err != nil {
		if !errors.Is(err, domain.ErrLookupFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrLookupFailed, err)
		}
		return result, err
	}

	result.Candidates = len(names)
	if len(names) != 1 {
		logger.Debug("form: %s returned %d addresses, leaving %s unchanged", req.Lookup, len(names), req.Field)
		return result, nil
	}

	if err := c.host.SetValue(ctx, req.Field, names[0]); err != nil {
		return result, fmt.Errorf("auto-fill %s: %w", req.Field, err)
	}
	logger.Debug("form: auto-filled %s=%q", req.Field, names[0])
	result.Value = names[0]
	result.Applied = true
	return result, nil
}

// pendingAutoFill is the handle of a background auto-fill. The result
// fields are written once before done is closed.
type pendingAutoFill struct {
	done   chan struct{}
	result driving.AutoFillResult
	err    error
}

// Done is closed when the auto-fill finished.
func (p *pendingAutoFill) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the auto-fill finished.
func (p *pendingAutoFill) Wait() (driving.AutoFillResult, error) {
	<-p.done
	return p.result, p.err
}
