package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure NamingService implements the interface.
var _ driving.NamingService = (*NamingService)(nil)

// Fallback codes used when no fiscal year or location code is known.
const (
	fallbackFiscalYearCode = "00"
	fallbackLocationCode   = "0000"
)

// NamingService expands naming series patterns such as
// "SI.{doctype_code}.{location_code}.FY.-.####".
type NamingService struct {
	fiscalYears driven.FiscalYearStore
	series      driven.SeriesStore
	locations   driven.LocationStore
}

// NewNamingService creates a naming service. locations may be nil, in which
// case only the snapshot's location_code is used.
func NewNamingService(
	fiscalYears driven.FiscalYearStore,
	series driven.SeriesStore,
	locations driven.LocationStore,
) *NamingService {
	return &NamingService{
		fiscalYears: fiscalYears,
		series:      series,
		locations:   locations,
	}
}

// FiscalYearCode returns the last two characters of the enabled fiscal year
// containing date. Years linked to company win over unlinked ones.
func (s *NamingService) FiscalYearCode(ctx context.Context, date time.Time, company string) (string, error) {
	if s.fiscalYears == nil {
		return "", domain.ErrNotImplemented
	}
	years, err := s.fiscalYears.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list fiscal years: %w", err)
	}

	var first *domain.FiscalYear
	for i := range years {
		fy := years[i]
		if fy.Disabled || !fy.Contains(date) {
			continue
		}
		if company != "" && fy.LinkedTo(company) {
			return fy.Code(), nil
		}
		if first == nil {
			first = &years[i]
		}
	}
	if first != nil {
		return first.Code(), nil
	}
	return fallbackFiscalYearCode, nil
}

// SeriesPrefix expands the document's series pattern up to the counter.
func (s *NamingService) SeriesPrefix(
	ctx context.Context,
	snap *domain.DocumentSnapshot,
	postingDate time.Time,
) (string, error) {
	prefix, _, err := s.expand(ctx, snap, postingDate)
	return prefix, err
}

// NextName returns the next name in the document's series.
func (s *NamingService) NextName(
	ctx context.Context,
	snap *domain.DocumentSnapshot,
	postingDate time.Time,
) (string, error) {
	if s.series == nil {
		return "", domain.ErrNotImplemented
	}
	prefix, digits, err := s.expand(ctx, snap, postingDate)
	if err != nil {
		return "", err
	}
	n, err := s.series.Next(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("next in series %q: %w", prefix, err)
	}
	name := fmt.Sprintf("%s%0*d", prefix, digits, n)
	logger.Debug("naming: %s -> %s", snap.DocType, name)
	return name, nil
}

// expand returns the series prefix and the counter width.
func (s *NamingService) expand(
	ctx context.Context,
	snap *domain.DocumentSnapshot,
	postingDate time.Time,
) (string, int, error) {
	if snap == nil {
		return "", 0, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}
	profile, ok := domain.ProfileFor(snap.DocType)
	if !ok {
		return "", 0, fmt.Errorf("%w: no naming series for %q", domain.ErrInvalidInput, snap.DocType)
	}

	var b strings.Builder
	for _, part := range strings.Split(profile.SeriesPattern, ".") {
		switch {
		case part != "" && strings.Trim(part, "#") == "":
			return b.String(), len(part), nil
		case part == "FY":
			code, err := s.FiscalYearCode(ctx, postingDate, snap.Value("company"))
			if err != nil {
				return "", 0, err
			}
			b.WriteString(code)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			value, err := s.fieldValue(ctx, snap, strings.Trim(part, "{}"))
			if err != nil {
				return "", 0, err
			}
			b.WriteString(value)
		default:
			b.WriteString(part)
		}
	}
	return "", 0, fmt.Errorf("%w: series pattern %q has no counter", domain.ErrInvalidInput, profile.SeriesPattern)
}

func (s *NamingService) fieldValue(ctx context.Context, snap *domain.DocumentSnapshot, field string) (string, error) {
	switch field {
	case "doctype_code":
		return domain.DocTypeCode(snap), nil
	case "location_code":
		if code := snap.Value("location_code"); code != "" {
			return code, nil
		}
		location := snap.Value(domain.FieldLocation)
		if location == "" || s.locations == nil {
			return fallbackLocationCode, nil
		}
		loc, err := s.locations.Get(ctx, location)
		if errors.Is(err, domain.ErrNotFound) {
			return fallbackLocationCode, nil
		}
		if err != nil {
			return "", fmt.Errorf("get location %q: %w", location, err)
		}
		if loc.Code == "" {
			return fallbackLocationCode, nil
		}
		return loc.Code, nil
	default:
		return snap.Value(field), nil
	}
}
