package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// Settings Command Tests

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "dispatch > shipping > main")
	assert.Contains(t, out, domain.DefaultQueryNamespace)
	assert.Contains(t, out, "set_warehouse")
	assert.Contains(t, out, "Not configured, queries are answered locally")
	assert.Contains(t, out, domain.DefaultServerAddr)
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsPrecedence(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "precedence", "main", "shipping", "dispatch")
	require.NoError(t, err)
	assert.Contains(t, out, "Precedence set to: main > shipping > dispatch")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.PrecedencePolicy{domain.LocationMain, domain.LocationShipping, domain.LocationDispatch},
		settings.Resolver.Precedence)
}

func TestSettingsPrecedence_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "precedence", "main", "main", "dispatch")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "settings", "precedence", "main", "dispatch")
	assert.Error(t, err)
}

func TestSettingsRemote_FromFlags(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "remote",
		"--url", "https://erp.example.com", "--api-key", "key-1234567890", "--api-secret", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Remote site configured: https://erp.example.com (key key-...7890)")

	out, err = execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "https://erp.example.com")
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "key-1234567890")
}

func TestSettingsRemote_PromptsForMissingValues(t *testing.T) {
	setupTestServices(t)

	in := strings.NewReader("https://erp.example.com\nkey-abcdefghij\n")
	out, err := executeWithInput(t, in, "settings", "remote", "--api-secret", "s3cret")

	require.NoError(t, err)
	assert.Contains(t, out, "Remote site URL: ")
	assert.Contains(t, out, "API key: ")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, "https://erp.example.com", settings.Remote.BaseURL)
	assert.Equal(t, "key-abcdefghij", settings.Remote.APIKey)
}

func TestSettingsRemote_InvalidURL(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "settings", "remote", "--url", "not a url", "--api-key", "k", "--api-secret", "s")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsRemote_Clear(t *testing.T) {
	setupTestServices(t)
	require.NoError(t, settingsService.SetRemote("https://erp.example.com", "key", "secret"))

	out, err := execute(t, "settings", "remote", "--clear")

	require.NoError(t, err)
	assert.Contains(t, out, "Remote site cleared")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.False(t, settings.Remote.IsConfigured())
}

func TestSettingsStorage(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "storage", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "Storage backend set to")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)

	_, err = execute(t, "settings", "storage", "postgres")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsStorage_Choice(t *testing.T) {
	setupTestServices(t)

	out, err := executeWithInput(t, strings.NewReader("2\n"), "settings", "storage")

	require.NoError(t, err)
	assert.Contains(t, out, "Select Storage Backend")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AllStorageBackends()[1], settings.Storage.Backend)
}

// Helper Tests

func TestMaskedOrUnset(t *testing.T) {
	assert.Contains(t, maskedOrUnset(""), "(not set)")
	assert.Equal(t, "sk-1...cdef", maskedOrUnset("sk-1234567890abcdef"))
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
