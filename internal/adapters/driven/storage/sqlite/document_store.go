package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// ==================== Document Store ====================

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Save stores or updates a document.
func (s *documentStore) Save(ctx context.Context, doc domain.StoredDocument) error {
	valuesJSON, err := json.Marshal(doc.Values)
	if err != nil {
		return fmt.Errorf("marshalling values: %w", err)
	}
	if doc.SavedAt.IsZero() {
		doc.SavedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO documents (doctype, name, field_values, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(doctype, name) DO UPDATE SET
			field_values = excluded.field_values,
			saved_at = excluded.saved_at
	`, doc.DocType, doc.Name, string(valuesJSON), doc.SavedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by type and name.
func (s *documentStore) Get(ctx context.Context, docType, name string) (*domain.StoredDocument, error) {
	doc := domain.StoredDocument{DocType: docType, Name: name}
	var valuesJSON string
	var savedAt sql.NullTime
	err := s.store.db.QueryRowContext(ctx,
		"SELECT field_values, saved_at FROM documents WHERE doctype = ? AND name = ?",
		docType, name,
	).Scan(&valuesJSON, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(valuesJSON), &doc.Values); err != nil {
		return nil, fmt.Errorf("unmarshaling values: %w", err)
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	if savedAt.Valid {
		doc.SavedAt = savedAt.Time
	}
	return &doc, nil
}

// Delete removes a document.
func (s *documentStore) Delete(ctx context.Context, docType, name string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM documents WHERE doctype = ? AND name = ?", docType, name)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}
