package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
)

// ==================== Address Store ====================

type addressStore struct {
	store *Store
}

var _ driven.AddressStore = (*addressStore)(nil)

// Save stores or updates an address.
func (s *addressStore) Save(ctx context.Context, a domain.Address) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO addresses (name, title, gstin, display)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			gstin = excluded.gstin,
			display = excluded.display
	`, a.Name, a.Title, a.GSTIN, a.Display)
	if err != nil {
		return fmt.Errorf("saving address: %w", err)
	}
	return nil
}

// Get retrieves an address by name.
func (s *addressStore) Get(ctx context.Context, name string) (*domain.Address, error) {
	var a domain.Address
	err := s.store.db.QueryRowContext(ctx,
		"SELECT name, title, gstin, display FROM addresses WHERE name = ?", name,
	).Scan(&a.Name, &a.Title, &a.GSTIN, &a.Display)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning address: %w", err)
	}
	return &a, nil
}

// List returns all addresses ordered by name.
func (s *addressStore) List(ctx context.Context) ([]domain.Address, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT name, title, gstin, display FROM addresses ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying addresses: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address //nolint:prealloc // size unknown from query
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.Name, &a.Title, &a.GSTIN, &a.Display); err != nil {
			return nil, fmt.Errorf("scanning address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating addresses: %w", err)
	}
	return addresses, nil
}

// Link links an additional address to a location.
// Returns domain.ErrAlreadyExists if the pair is already linked.
func (s *addressStore) Link(ctx context.Context, link domain.AddressLink) error {
	_, err := s.store.db.ExecContext(ctx,
		"INSERT INTO address_links (id, location, address) VALUES (?, ?, ?)",
		link.ID, link.Location, link.Address)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("linking address: %w", err)
	}
	return nil
}

// Unlink removes a link by ID.
func (s *addressStore) Unlink(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM address_links WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("unlinking address: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unlinking address: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkedTo returns the links of a location ordered by address name.
func (s *addressStore) LinkedTo(ctx context.Context, location string) ([]domain.AddressLink, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id, location, address FROM address_links WHERE location = ? ORDER BY address", location)
	if err != nil {
		return nil, fmt.Errorf("querying address links: %w", err)
	}
	defer rows.Close()

	var links []domain.AddressLink //nolint:prealloc // size unknown from query
	for rows.Next() {
		var link domain.AddressLink
		if err := rows.Scan(&link.ID, &link.Location, &link.Address); err != nil {
			return nil, fmt.Errorf("scanning address link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating address links: %w", err)
	}
	return links, nil
}
