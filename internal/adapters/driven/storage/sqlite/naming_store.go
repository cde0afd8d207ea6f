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

// ==================== Fiscal Year Store ====================

type fiscalYearStore struct {
	store *Store
}

var _ driven.FiscalYearStore = (*fiscalYearStore)(nil)

// Save stores or updates a fiscal year. Dates are stored without a time.
func (s *fiscalYearStore) Save(ctx context.Context, fy domain.FiscalYear) error {
	companies := fy.Companies
	if companies == nil {
		companies = []string{}
	}
	companiesJSON, err := json.Marshal(companies)
	if err != nil {
		return fmt.Errorf("marshalling companies: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO fiscal_years (name, start_date, end_date, companies, disabled)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			companies = excluded.companies,
			disabled = excluded.disabled
	`, fy.Name, fy.Start.Format(time.DateOnly), fy.End.Format(time.DateOnly),
		string(companiesJSON), boolToInt(fy.Disabled))
	if err != nil {
		return fmt.Errorf("saving fiscal year: %w", err)
	}
	return nil
}

// List returns all fiscal years ordered by start date descending.
func (s *fiscalYearStore) List(ctx context.Context) ([]domain.FiscalYear, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, start_date, end_date, companies, disabled
		FROM fiscal_years ORDER BY start_date DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fiscal years: %w", err)
	}
	defer rows.Close()

	var years []domain.FiscalYear //nolint:prealloc // size unknown from query
	for rows.Next() {
		var fy domain.FiscalYear
		var start, end, companiesJSON string
		var disabled int
		if err := rows.Scan(&fy.Name, &start, &end, &companiesJSON, &disabled); err != nil {
			return nil, fmt.Errorf("scanning fiscal year: %w", err)
		}
		if fy.Start, err = time.Parse(time.DateOnly, start); err != nil {
			return nil, fmt.Errorf("parsing start date of %s: %w", fy.Name, err)
		}
		if fy.End, err = time.Parse(time.DateOnly, end); err != nil {
			return nil, fmt.Errorf("parsing end date of %s: %w", fy.Name, err)
		}
		if err := json.Unmarshal([]byte(companiesJSON), &fy.Companies); err != nil {
			return nil, fmt.Errorf("unmarshaling companies: %w", err)
		}
		if len(fy.Companies) == 0 {
			fy.Companies = nil
		}
		fy.Disabled = disabled != 0
		years = append(years, fy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fiscal years: %w", err)
	}
	return years, nil
}

// ==================== Series Store ====================

type seriesStore struct {
	store *Store
}

var _ driven.SeriesStore = (*seriesStore)(nil)

// Next increments and returns the counter for a series prefix in a
// single statement, so concurrent saves never share a number.
func (s *seriesStore) Next(ctx context.Context, prefix string) (int, error) {
	var current int
	err := s.store.db.QueryRowContext(ctx, `
		INSERT INTO naming_series (prefix, current) VALUES (?, 1)
		ON CONFLICT(prefix) DO UPDATE SET current = current + 1
		RETURNING current
	`, prefix).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("advancing series %s: %w", prefix, err)
	}
	return current, nil
}

// Current returns the last value handed out, or 0.
func (s *seriesStore) Current(ctx context.Context, prefix string) (int, error) {
	var current int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT current FROM naming_series WHERE prefix = ?", prefix).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading series %s: %w", prefix, err)
	}
	return current, nil
}
