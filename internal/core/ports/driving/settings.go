package driving

import "github.com/custodia-labs/locfilter/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetPrecedence updates the location precedence order.
	SetPrecedence(names []string) error

	// SetRemote configures the remote site.
	SetRemote(baseURL, apiKey, apiSecret string) error

	// SetStorageBackend updates the storage backend.
	SetStorageBackend(backend domain.StorageBackend) error

	// Validate checks the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
