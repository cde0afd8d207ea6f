package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// ==================== Warehouse Store ====================

type warehouseStore struct {
	store *Store
}

var _ driven.WarehouseStore = (*warehouseStore)(nil)

const warehouseColumns = "name, title, parent, is_group, disabled, company"

// Save stores or updates a warehouse.
func (s *warehouseStore) Save(ctx context.Context, w domain.Warehouse) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO warehouses (`+warehouseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			parent = excluded.parent,
			is_group = excluded.is_group,
			disabled = excluded.disabled,
			company = excluded.company
	`, w.Name, w.Title, w.Parent, boolToInt(w.IsGroup), boolToInt(w.Disabled), w.Company)
	if err != nil {
		return fmt.Errorf("saving warehouse: %w", err)
	}
	return nil
}

// Get retrieves a warehouse by name.
func (s *warehouseStore) Get(ctx context.Context, name string) (*domain.Warehouse, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+warehouseColumns+" FROM warehouses WHERE name = ?", name)

	w, err := scanWarehouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning warehouse: %w", err)
	}
	return w, nil
}

// Delete removes a warehouse.
func (s *warehouseStore) Delete(ctx context.Context, name string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM warehouses WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting warehouse: %w", err)
	}
	return nil
}

// List returns all warehouses ordered by name.
func (s *warehouseStore) List(ctx context.Context) ([]domain.Warehouse, error) {
	return s.query(ctx, "SELECT "+warehouseColumns+" FROM warehouses ORDER BY name")
}

// Descendants walks the tree below name with a recursive query. UNION
// drops repeated rows, so a cycle in the parent links terminates.
func (s *warehouseStore) Descendants(ctx context.Context, name string) ([]domain.Warehouse, error) {
	return s.query(ctx, `
		WITH RECURSIVE tree(name) AS (
			SELECT name FROM warehouses WHERE parent = ?
			UNION
			SELECT w.name FROM warehouses w JOIN tree t ON w.parent = t.name
		)
		SELECT `+warehouseColumns+` FROM warehouses
		WHERE name IN (SELECT name FROM tree) AND name != ?
		ORDER BY name
	`, name, name)
}

func (s *warehouseStore) query(ctx context.Context, query string, args ...any) ([]domain.Warehouse, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []domain.Warehouse //nolint:prealloc // size unknown from query
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning warehouse: %w", err)
		}
		warehouses = append(warehouses, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating warehouses: %w", err)
	}
	return warehouses, nil
}

func scanWarehouse(row scanner) (*domain.Warehouse, error) {
	var w domain.Warehouse
	var isGroup, disabled int
	if err := row.Scan(&w.Name, &w.Title, &w.Parent, &isGroup, &disabled, &w.Company); err != nil {
		return nil, err
	}
	w.IsGroup = isGroup != 0
	w.Disabled = disabled != 0
	return &w, nil
}
