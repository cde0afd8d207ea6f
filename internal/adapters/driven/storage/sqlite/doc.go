// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements the directory and document stores through a single
// database connection:
//
//   - LocationStore, WarehouseStore, AddressStore: the location directory
//   - DocumentStore: last saved state of business documents
//   - FiscalYearStore, SeriesStore: naming series inputs and counters
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.locfilter/data/locfilter.db
package sqlite
