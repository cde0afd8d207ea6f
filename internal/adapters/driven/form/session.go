package form

import (
	"context"
	"errors"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
)

// ControllerFactory builds a form controller bound to a host.
type ControllerFactory func(host driven.FormHost) driving.FormController

// Result is the outcome of replaying one form event against a Recorder.
type Result struct {
	// Output is the resolver output the controller applied.
	Output *domain.ResolverOutput `json:"output"`

	// Actions are the form host calls in the order they were made.
	Actions []Action `json:"actions"`

	// Document is the snapshot after every applied value.
	Document domain.DocumentSnapshot `json:"document"`

	// AutoFill reports the address auto-fill, when one ran.
	AutoFill *driving.AutoFillResult `json:"auto_fill,omitempty"`

	// AutoFillError is the lookup failure, if any. The bindings were still
	// applied, so it does not fail the event.
	AutoFillError string `json:"auto_fill_error,omitempty"`
}

// ErrNoController is returned when the factory yields no controller.
var ErrNoController = errors.New("form controller not configured")

// Change replays a location field change and waits for the auto-fill.
func Change(
	ctx context.Context,
	factory ControllerFactory,
	snap domain.DocumentSnapshot,
	changed domain.LocationType,
) (*Result, error) {
	rec := NewRecorder(snap)
	ctrl := factory(rec)
	if ctrl == nil {
		return nil, ErrNoController
	}

	out, pending, err := ctrl.HandleChange(ctx, &snap, changed)
	if err != nil {
		return nil, err
	}

	result := &Result{Output: out}
	if pending != nil {
		fill, err := pending.Wait()
		if err != nil {
			result.AutoFillError = err.Error()
		} else {
			result.AutoFill = &fill
		}
	}
	result.Actions = rec.Actions()
	result.Document = rec.Snapshot()
	return result, nil
}

// Refresh replays a form load.
func Refresh(ctx context.Context, factory ControllerFactory, snap domain.DocumentSnapshot) (*Result, error) {
	rec := NewRecorder(snap)
	ctrl := factory(rec)
	if ctrl == nil {
		return nil, ErrNoController
	}

	out, err := ctrl.HandleRefresh(ctx, &snap)
	if err != nil {
		return nil, err
	}
	return &Result{
		Output:   out,
		Actions:  rec.Actions(),
		Document: rec.Snapshot(),
	}, nil
}
