package main

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/locfilter/internal/adapters/driven/remote"
	"github.com/custodia-labs/locfilter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/locfilter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/locfilter/internal/adapters/driving/cli"
	"github.com/custodia-labs/locfilter/internal/core/domain"
	"github.com/custodia-labs/locfilter/internal/core/ports/driven"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/core/services"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// stores groups the driven stores of one backend.
type stores struct {
	locations   driven.LocationStore
	warehouses  driven.WarehouseStore
	addresses   driven.AddressStore
	documents   driven.DocumentStore
	fiscalYears driven.FiscalYearStore
	series      driven.SeriesStore
	close       func() error
}

// wire builds every service from the configuration in configDir.
func wire(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	st, err := openStores(settings.Storage, filepath.Dir(configStore.Path()))
	if err != nil {
		return nil, err
	}

	warehouseQuery := services.NewWarehouseQueryService(st.locations, st.warehouses, st.documents)
	addressQuery := services.NewAddressQueryService(st.locations, st.addresses)
	naming := services.NewNamingService(st.fiscalYears, st.series, st.locations)

	var router driving.QueryRouter = services.NewQueryRouter(warehouseQuery, addressQuery)
	if settings.Remote.IsConfigured() {
		client, err := remote.NewClient(settings.Remote, settings.Resolver.QueryNamespace)
		if err != nil {
			st.close() //nolint:errcheck
			return nil, err
		}
		logger.Info("queries and lookups answered by %s", settings.Remote.BaseURL)
		router = client
	}

	validation, err := services.NewValidationService(services.ValidationDeps{
		Locations:  st.locations,
		Addresses:  st.addresses,
		Documents:  st.documents,
		Warehouses: warehouseQuery,
		Naming:     naming,
	}, settings.Resolver, settings.Validation)
	if err != nil {
		st.close() //nolint:errcheck
		return nil, err
	}

	live, err := newLiveResolver(settings.Resolver)
	if err != nil {
		st.close() //nolint:errcheck
		return nil, err
	}

	return &cli.Services{
		Settings:   settingsService,
		Directory:  services.NewDirectoryService(st.locations, st.warehouses, st.addresses, st.fiscalYears),
		Warehouses: warehouseQuery,
		Addresses:  addressQuery,
		Router:     router,
		Validation: validation,
		Naming:     naming,
		Forms: func(host driven.FormHost) driving.FormController {
			return services.NewFormController(live.Load(), host, router)
		},
		Config: configStore,
		Reload: func() error {
			current, err := settingsService.Get()
			if err != nil {
				return err
			}
			return live.Reload(current.Resolver)
		},
		Close: st.close,
	}, nil
}

// openStores opens the configured storage backend. SQLite data lives under
// the configuration directory unless storage.data_dir overrides it.
func openStores(cfg domain.StorageSettings, configDir string) (*stores, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		logger.Debug("storage: in-memory")
		return &stores{
			locations:   memory.NewLocationStore(),
			warehouses:  memory.NewWarehouseStore(),
			addresses:   memory.NewAddressStore(),
			documents:   memory.NewDocumentStore(),
			fiscalYears: memory.NewFiscalYearStore(),
			series:      memory.NewSeriesStore(),
			close:       func() error { return nil },
		}, nil
	case domain.StorageSQLite, "":
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = filepath.Join(configDir, "data")
		}
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		logger.Debug("storage: sqlite at %s", db.Path())
		return &stores{
			locations:   db.LocationStore(),
			warehouses:  db.WarehouseStore(),
			addresses:   db.AddressStore(),
			documents:   db.DocumentStore(),
			fiscalYears: db.FiscalYearStore(),
			series:      db.SeriesStore(),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

// liveResolver holds the resolver form controllers are built with. Reload
// swaps it atomically so in-flight events keep the resolver they started with.
type liveResolver struct {
	current atomic.Pointer[services.Resolver]
}

func newLiveResolver(settings domain.ResolverSettings) (*liveResolver, error) {
	l := &liveResolver{}
	if err := l.Reload(settings); err != nil {
		return nil, err
	}
	return l, nil
}

// Load returns the current resolver.
func (l *liveResolver) Load() *services.Resolver {
	return l.current.Load()
}

// Reload replaces the resolver. Invalid settings keep the previous one.
func (l *liveResolver) Reload(settings domain.ResolverSettings) error {
	r, err := services.NewResolver(settings)
	if err != nil {
		return fmt.Errorf("resolver settings: %w", err)
	}
	l.current.Store(r)
	logger.Info("resolver precedence: %s", r.Precedence())
	return nil
}
