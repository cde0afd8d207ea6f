// Package form provides a driven.FormHost that records what the core asks
// of a form and applies value changes to a document snapshot.
//
// The CLI, HTTP API and MCP adapters have no live form to drive, so they run
// the form controller against a Recorder and return its actions.
package form

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.FormHost = (*Recorder)(nil)

// ActionKind names a form host call.
type ActionKind string

// Recorded action kinds.
const (
	ActionDeclareQuery ActionKind = "declare_query"
	ActionSetValue     ActionKind = "set_value"
	ActionSetRowValue  ActionKind = "set_row_value"
	ActionRefresh      ActionKind = "refresh"
)

// Action is one recorded form host call.
type Action struct {
	Kind    ActionKind     `json:"kind"`
	Field   string         `json:"field"`
	Table   string         `json:"table,omitempty"`
	Row     int            `json:"row,omitempty"`
	Query   string         `json:"query,omitempty"`
	Filters map[string]any `json:"filters,omitempty"`
	Value   string         `json:"value,omitempty"`
}

// Target returns the addressed field as "field", "table.field" or
// "table[row].field".
func (a Action) Target() string {
	switch {
	case a.Kind == ActionSetRowValue:
		return fmt.Sprintf("%s[%d].%s", a.Table, a.Row, a.Field)
	case a.Table != "":
		return a.Table + "." + a.Field
	default:
		return a.Field
	}
}

// Recorder is an in-memory form host. It is safe for concurrent use, since
// address auto-fill writes from its own goroutine.
type Recorder struct {
	mu       sync.Mutex
	snap     domain.DocumentSnapshot
	actions  []Action
	bindings map[string]domain.QueryBinding
}

// NewRecorder creates a recorder over a copy of snap.
func NewRecorder(snap domain.DocumentSnapshot) *Recorder {
	return &Recorder{
		snap:     snap.Clone(),
		bindings: make(map[string]domain.QueryBinding),
	}
}

// DeclareQuery records a query binding. A later binding for the same field
// replaces the earlier one, as it would on a live form.
func (r *Recorder) DeclareQuery(_ context.Context, binding domain.QueryBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[binding.Target()] = binding
	r.actions = append(r.actions, Action{
		Kind:    ActionDeclareQuery,
		Field:   binding.Field,
		Table:   binding.Table,
		Query:   binding.Query,
		Filters: maps.Clone(binding.Filters),
	})
	return nil
}

// SetValue records and applies a document-level value.
func (r *Recorder) SetValue(_ context.Context, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snap.Values[field] = value
	r.actions = append(r.actions, Action{Kind: ActionSetValue, Field: field, Value: value})
	return nil
}

// SetRowValue records and applies a child-table row value.
func (r *Recorder) SetRowValue(_ context.Context, table string, row int, field, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.snap.Tables[table]
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("%w: %s has no row %d", domain.ErrInvalidInput, table, row)
	}
	rows[row][field] = value
	r.actions = append(r.actions, Action{Kind: ActionSetRowValue, Table: table, Row: row, Field: field, Value: value})
	return nil
}

// RefreshField records a refresh.
func (r *Recorder) RefreshField(_ context.Context, field string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions = append(r.actions, Action{Kind: ActionRefresh, Field: field})
	return nil
}

// Actions returns the recorded calls in order.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Action(nil), r.actions...)
}

// Snapshot returns the document with every applied value.
func (r *Recorder) Snapshot() domain.DocumentSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Clone()
}

// Binding returns the binding currently installed on a target
// ("field" or "table.field").
func (r *Recorder) Binding(target string) (domain.QueryBinding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[target]
	return b, ok
}
