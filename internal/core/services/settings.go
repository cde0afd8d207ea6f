package services

import (
	"fmt"
	"net/url"

	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyPrecedence         = "resolver.precedence"
	KeyQueryNamespace     = "resolver.query_namespace"
	KeyDocumentWarehouses = "resolver.document_warehouse_fields"
	KeyChildTables        = "resolver.child_tables"
	KeyChildWarehouses    = "resolver.child_warehouse_fields"
	KeyRemoteBaseURL      = "remote.base_url"
	KeyRemoteAPIKey       = "remote.api_key"
	KeyRemoteAPISecret    = "remote.api_secret"
	KeyRemoteRateLimit    = "remote.rate_limit"
	KeyServerAddr         = "server.addr"
	KeyStorageBackend     = "storage.backend"
	KeyStorageDataDir     = "storage.data_dir"
	KeyRequireDimension   = "validation.require_dimension"
	KeyDimensionEnabled   = "validation.dimension_enabled"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Resolver: domain.ResolverSettings{
			Precedence:              s.getPrecedence(defaults.Resolver.Precedence),
			QueryNamespace:          s.getString(KeyQueryNamespace, defaults.Resolver.QueryNamespace),
			DocumentWarehouseFields: s.getStrings(KeyDocumentWarehouses, defaults.Resolver.DocumentWarehouseFields),
			ChildTables:             s.getStrings(KeyChildTables, defaults.Resolver.ChildTables),
			ChildWarehouseFields:    s.getStrings(KeyChildWarehouses, defaults.Resolver.ChildWarehouseFields),
		},
		Remote: domain.RemoteSettings{
			BaseURL:   s.configStore.GetString(KeyRemoteBaseURL),
			APIKey:    s.configStore.GetString(KeyRemoteAPIKey),
			APISecret: s.configStore.GetString(KeyRemoteAPISecret),
			RateLimit: s.getFloat(KeyRemoteRateLimit, defaults.Remote.RateLimit),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(KeyServerAddr, defaults.Server.Addr),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
		Validation: domain.ValidationSettings{
			RequireDimension: s.getBool(KeyRequireDimension, defaults.Validation.RequireDimension),
			DimensionEnabled: s.getBool(KeyDimensionEnabled, defaults.Validation.DimensionEnabled),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	values := []struct {
		key   string
		value any
	}{
		{KeyPrecedence, settings.Resolver.Precedence.Strings()},
		{KeyQueryNamespace, settings.Resolver.QueryNamespace},
		{KeyDocumentWarehouses, settings.Resolver.DocumentWarehouseFields},
		{KeyChildTables, settings.Resolver.ChildTables},
		{KeyChildWarehouses, settings.Resolver.ChildWarehouseFields},
		{KeyRemoteBaseURL, settings.Remote.BaseURL},
		{KeyRemoteAPIKey, settings.Remote.APIKey},
		{KeyRemoteRateLimit, settings.Remote.RateLimit},
		{KeyServerAddr, settings.Server.Addr},
		{KeyStorageBackend, settings.Storage.Backend.String()},
		{KeyStorageDataDir, settings.Storage.DataDir},
		{KeyRequireDimension, settings.Validation.RequireDimension},
		{KeyDimensionEnabled, settings.Validation.DimensionEnabled},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keep a stored secret unless a new one is given.
	if settings.Remote.APISecret != "" {
		if err := s.configStore.Set(KeyRemoteAPISecret, settings.Remote.APISecret); err != nil {
			return fmt.Errorf("save %s: %w", KeyRemoteAPISecret, err)
		}
	}

	return s.configStore.Save()
}

// SetPrecedence updates the location precedence order.
func (s *SettingsService) SetPrecedence(names []string) error {
	policy, err := domain.ParsePrecedence(names)
	if err != nil {
		return err
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Resolver.Precedence = policy
	return s.Save(settings)
}

// SetRemote configures the remote site.
func (s *SettingsService) SetRemote(baseURL, apiKey, apiSecret string) error {
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid remote URL %q", domain.ErrInvalidInput, baseURL)
		}
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Remote.BaseURL = baseURL
	settings.Remote.APIKey = apiKey
	settings.Remote.APISecret = apiSecret
	return s.Save(settings)
}

// SetStorageBackend updates the storage backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend: %s", domain.ErrInvalidInput, backend)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Backend = backend
	return s.Save(settings)
}

// Validate checks the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Resolver.Precedence.Validate(); err != nil {
		return err
	}
	if settings.Remote.IsConfigured() && (settings.Remote.APIKey == "" || settings.Remote.APISecret == "") {
		return fmt.Errorf("%w: remote %s requires api_key and api_secret", domain.ErrInvalidInput, settings.Remote.BaseURL)
	}
	if settings.Remote.RateLimit <= 0 {
		return fmt.Errorf("%w: remote.rate_limit must be positive", domain.ErrInvalidInput)
	}
	if len(settings.Resolver.RestrictedDocumentFields())+len(settings.Resolver.RestrictedChildFields()) == 0 {
		return fmt.Errorf("%w: no warehouse fields to restrict", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getPrecedence(defaultVal domain.PrecedencePolicy) domain.PrecedencePolicy {
	names := s.configStore.GetStringSlice(KeyPrecedence)
	if len(names) == 0 {
		return defaultVal
	}
	policy, err := domain.ParsePrecedence(names)
	if err != nil {
		logger.Warn("settings: ignoring %s: %v", KeyPrecedence, err)
		return defaultVal
	}
	return policy
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
