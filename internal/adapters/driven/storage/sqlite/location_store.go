package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// ==================== Location Store ====================

type locationStore struct {
	store *Store
}

var _ driven.LocationStore = (*locationStore)(nil)

// Save stores or updates a location.
func (s *locationStore) Save(ctx context.Context, location domain.Location) error {
	now := time.Now().UTC()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	if location.UpdatedAt.IsZero() {
		location.UpdatedAt = now
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO locations (name, code, linked_warehouse, linked_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			code = excluded.code,
			linked_warehouse = excluded.linked_warehouse,
			linked_address = excluded.linked_address,
			updated_at = excluded.updated_at
	`, location.Name, location.Code, location.LinkedWarehouse, location.LinkedAddress,
		location.CreatedAt, location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving location: %w", err)
	}
	return nil
}

// Get retrieves a location by name.
func (s *locationStore) Get(ctx context.Context, name string) (*domain.Location, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT name, code, linked_warehouse, linked_address, created_at, updated_at
		FROM locations WHERE name = ?
	`, name)

	location, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning location: %w", err)
	}
	return location, nil
}

// Delete removes a location and its address links.
func (s *locationStore) Delete(ctx context.Context, name string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM address_links WHERE location = ?", name); err != nil {
		return fmt.Errorf("deleting address links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM locations WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	return tx.Commit()
}

// List returns all locations ordered by name.
func (s *locationStore) List(ctx context.Context) ([]domain.Location, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, code, linked_warehouse, linked_address, created_at, updated_at
		FROM locations ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location //nolint:prealloc // size unknown from query
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, *location)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}
	return locations, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (*domain.Location, error) {
	var location domain.Location
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&location.Name, &location.Code, &location.LinkedWarehouse,
		&location.LinkedAddress, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		location.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		location.UpdatedAt = updatedAt.Time
	}
	return &location, nil
}
