// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FormHost: Installs query bindings and sets values on a form
//   - ConfigStore: Application configuration
//   - LocationStore, WarehouseStore, AddressStore: The location directory
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AddressLookup: Without it, address auto-fill is skipped.
//   - QueryService: Remote query execution; the local directory answers otherwise.
//   - DocumentStore: Without it, child-table queries cannot read the parent
//     document and field locking is skipped.
//   - FiscalYearStore, SeriesStore: Required only for naming.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
