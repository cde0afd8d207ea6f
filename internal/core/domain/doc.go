// Package domain defines the core business entities for locfilter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - LocationType and LocationRule: the location decision table
//   - DocumentSnapshot: a read-only view of a form's document
//   - QueryBinding, AddressAutoFill, ValueReset: resolver outputs
//   - Location, Warehouse, Address: the location directory
//   - AppSettings: resolver, remote, server and storage settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
