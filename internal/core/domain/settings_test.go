package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, DefaultPrecedence(), settings.Resolver.Precedence)
	assert.Equal(t, DefaultQueryNamespace, settings.Resolver.QueryNamespace)
	assert.Equal(t, []string{"set_warehouse"}, settings.Resolver.DocumentWarehouseFields)
	assert.Equal(t, []string{"items"}, settings.Resolver.ChildTables)
	assert.Equal(t, []string{"warehouse"}, settings.Resolver.ChildWarehouseFields)
	assert.Equal(t, DefaultServerAddr, settings.Server.Addr)
	assert.Equal(t, StorageSQLite, settings.Storage.Backend)
	assert.Equal(t, DefaultRateLimit, settings.Remote.RateLimit)
	assert.False(t, settings.Remote.IsConfigured())
	assert.True(t, settings.Validation.RequireDimension)
}

func TestDefaultPrecedence(t *testing.T) {
	p := DefaultPrecedence()

	require.NoError(t, p.Validate())
	assert.Equal(t, 0, p.Rank(LocationDispatch))
	assert.Equal(t, 1, p.Rank(LocationShipping))
	assert.Equal(t, 2, p.Rank(LocationMain))
	assert.Equal(t, "dispatch > shipping > main", p.String())
}

func TestPrecedencePolicy_RankAbsent(t *testing.T) {
	p := PrecedencePolicy{LocationMain}
	assert.Equal(t, 1, p.Rank(LocationDispatch))
}

func TestParsePrecedence(t *testing.T) {
	p, err := ParsePrecedence([]string{"main", "dispatch_location", "shipping"})

	require.NoError(t, err)
	assert.Equal(t, PrecedencePolicy{LocationMain, LocationDispatch, LocationShipping}, p)
	assert.Equal(t, []string{"main", "dispatch", "shipping"}, p.Strings())
}

func TestParsePrecedence_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  error
	}{
		{"unknown type", []string{"main", "dispatch", "billing"}, ErrUnknownLocationType},
		{"too short", []string{"main", "dispatch"}, ErrInvalidInput},
		{"duplicate", []string{"main", "main", "dispatch"}, ErrInvalidInput},
		{"empty", nil, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrecedence(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolverSettings_TargetWarehouseNeverRestricted(t *testing.T) {
	settings := ResolverSettings{
		DocumentWarehouseFields: []string{"set_warehouse", "target_warehouse", "source_warehouse"},
		ChildWarehouseFields:    []string{"warehouse", "target_warehouse", "s_warehouse"},
	}

	assert.Equal(t, []string{"set_warehouse", "source_warehouse"}, settings.RestrictedDocumentFields())
	assert.Equal(t, []string{"warehouse", "s_warehouse"}, settings.RestrictedChildFields())
}

func TestStorageBackend(t *testing.T) {
	for _, b := range AllStorageBackends() {
		assert.True(t, b.IsValid())
		assert.NotEqual(t, unknownDescription, b.Description())
	}
	assert.False(t, StorageBackend("postgres").IsValid())
	assert.Equal(t, unknownDescription, StorageBackend("postgres").Description())
}
