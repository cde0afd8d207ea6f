package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// recordingHost records every call made to it in order.
type recordingHost struct {
	mu       sync.Mutex
	calls    []string
	bindings []domain.QueryBinding
	values   map[string]string
	declErr  error
}

func newRecordingHost() *recordingHost {
	return &recordingHost{values: make(map[string]string)}
}

func (h *recordingHost) DeclareQuery(_ context.Context, b domain.QueryBinding) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.declErr != nil {
		return h.declErr
	}
	h.calls = append(h.calls, "declare "+b.Target())
	h.bindings = append(h.bindings, b)
	return nil
}

func (h *recordingHost) SetValue(_ context.Context, field, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, fmt.Sprintf("set %s=%q", field, value))
	h.values[field] = value
	return nil
}

func (h *recordingHost) SetRowValue(_ context.Context, table string, row int, field, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, fmt.Sprintf("set %s[%d].%s=%q", table, row, field, value))
	return nil
}

func (h *recordingHost) RefreshField(_ context.Context, field string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, "refresh "+field)
	return nil
}

func (h *recordingHost) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *recordingHost) Value(field string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[field]
	return v, ok
}

// stubLookup returns canned results per lookup routine.
type stubLookup struct {
	mu      sync.Mutex
	results map[string][]string
	err     error
	calls   []map[string]string
	release chan struct{}
}

func (s *stubLookup) Lookup(_ context.Context, lookupID string, args map[string]string) ([]string, error) {
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, args)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[lookupID], nil
}
