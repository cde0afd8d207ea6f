package mcp

import (
	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Forms builds a form controller per resolve call.
	Forms form.ControllerFactory

	// Warehouses lists valid warehouses per location.
	Warehouses driving.WarehouseQueryService

	// Addresses lists addresses linked to a location.
	Addresses driving.AddressQueryService

	// Validation validates documents.
	Validation driving.ValidationService

	// Directory lists locations.
	Directory driving.DirectoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Forms == nil {
		return ErrMissingForms
	}
	// The remaining ports are optional; their tools report not configured.
	return nil
}
