package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.DocumentStore   = (*DocumentStore)(nil)
	_ driven.FiscalYearStore = (*FiscalYearStore)(nil)
	_ driven.SeriesStore     = (*SeriesStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]domain.StoredDocument
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]domain.StoredDocument),
	}
}

func docKey(docType, name string) string {
	return docType + "\x00" + name
}

// Save stores or updates a document.
func (s *DocumentStore) Save(_ context.Context, doc domain.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Values = maps.Clone(doc.Values)
	s.docs[docKey(doc.DocType, doc.Name)] = doc
	return nil
}

// Get retrieves a document by type and name.
func (s *DocumentStore) Get(_ context.Context, docType, name string) (*domain.StoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docKey(docType, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc.Values = maps.Clone(doc.Values)
	return &doc, nil
}

// Delete removes a document.
func (s *DocumentStore) Delete(_ context.Context, docType, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, docKey(docType, name))
	return nil
}

// FiscalYearStore is an in-memory implementation of driven.FiscalYearStore.
type FiscalYearStore struct {
	mu    sync.RWMutex
	years map[string]domain.FiscalYear
}

// NewFiscalYearStore creates a new in-memory fiscal year store.
func NewFiscalYearStore() *FiscalYearStore {
	return &FiscalYearStore{
		years: make(map[string]domain.FiscalYear),
	}
}

// Save stores or updates a fiscal year.
func (s *FiscalYearStore) Save(_ context.Context, fy domain.FiscalYear) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[fy.Name] = fy
	return nil
}

// List returns all fiscal years ordered by start date descending.
func (s *FiscalYearStore) List(_ context.Context) ([]domain.FiscalYear, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.FiscalYear, 0, len(s.years))
	for _, fy := range s.years {
		result = append(result, fy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Start.After(result[j].Start) })
	return result, nil
}

// SeriesStore is an in-memory implementation of driven.SeriesStore.
type SeriesStore struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewSeriesStore creates a new in-memory series store.
func NewSeriesStore() *SeriesStore {
	return &SeriesStore{
		counters: make(map[string]int),
	}
}

// Next increments and returns the counter for a series prefix.
func (s *SeriesStore) Next(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[prefix]++
	return s.counters[prefix], nil
}

// Current returns the last value handed out, or 0.
func (s *SeriesStore) Current(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[prefix], nil
}
