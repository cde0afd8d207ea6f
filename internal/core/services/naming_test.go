package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

func TestNamingService_FiscalYearCode(t *testing.T) {
	d := newTestDirectory(t)
	svc := NewNamingService(d.fiscalYears, d.series, d.locations)
	ctx := context.Background()
	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		date    time.Time
		company string
		want    string
	}{
		{"company linked year wins", june, "Acme", "26"},
		{"newest matching year otherwise", june, "Initech", "25"},
		{"only linked year covers march", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "", "26"},
		{"no year", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), "Acme", "00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FiscalYearCode(ctx, tt.date, tt.company)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamingService_FiscalYearCode_SkipsDisabled(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	require.NoError(t, d.fiscalYears.Save(ctx, domain.FiscalYear{
		Name:      "2024-2099",
		Start:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Companies: []string{"Acme"},
		Disabled:  true,
	}))
	svc := NewNamingService(d.fiscalYears, d.series, d.locations)

	got, err := svc.FiscalYearCode(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "Acme")
	require.NoError(t, err)
	assert.Equal(t, "26", got)
}

func TestNamingService_NextName(t *testing.T) {
	d := newTestDirectory(t)
	svc := NewNamingService(d.fiscalYears, d.series, d.locations)
	ctx := context.Background()
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	invoice := &domain.DocumentSnapshot{
		DocType: domain.DocTypeSalesInvoice,
		Values:  map[string]string{"location": "L-West"},
	}
	name, err := svc.NextName(ctx, invoice, date)
	require.NoError(t, err)
	assert.Equal(t, "SIWST25-0001", name)

	name, err = svc.NextName(ctx, invoice, date)
	require.NoError(t, err)
	assert.Equal(t, "SIWST25-0002", name)

	creditNote := &domain.DocumentSnapshot{
		DocType: domain.DocTypeSalesInvoice,
		Values:  map[string]string{"location_code": "WST", "is_return": "1"},
	}
	name, err = svc.NextName(ctx, creditNote, date)
	require.NoError(t, err)
	assert.Equal(t, "SICRWST25-0001", name)

	order := &domain.DocumentSnapshot{
		DocType: domain.DocTypeSalesOrder,
		Values:  map[string]string{"company": "Acme"},
	}
	name, err = svc.NextName(ctx, order, date)
	require.NoError(t, err)
	assert.Equal(t, "SO000026-0001", name, "missing location falls back to 0000")
}

func TestNamingService_SeriesPrefix(t *testing.T) {
	d := newTestDirectory(t)
	svc := NewNamingService(d.fiscalYears, d.series, d.locations)

	prefix, err := svc.SeriesPrefix(context.Background(), &domain.DocumentSnapshot{
		DocType: domain.DocTypePurchaseReceipt,
		Values:  map[string]string{"location": "L-East", "is_return": "1"},
	}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PRPREST25-", prefix)

	current, err := d.series.Current(context.Background(), prefix)
	require.NoError(t, err)
	assert.Zero(t, current, "prefix does not consume a number")
}

func TestNamingService_UnknownDocType(t *testing.T) {
	d := newTestDirectory(t)
	svc := NewNamingService(d.fiscalYears, d.series, d.locations)

	_, err := svc.NextName(context.Background(), &domain.DocumentSnapshot{DocType: "Journal Entry"}, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
