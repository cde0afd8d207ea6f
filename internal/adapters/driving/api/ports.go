// Package api provides the HTTP method API. It serves the query and lookup
// routines under /api/method/<routine> in the shape Frappe-style clients
// expect, plus JSON endpoints for resolving, validating and saving documents.
package api

import (
	"errors"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
)

// ErrMissingQueryRouter is returned when the query router is not provided.
var ErrMissingQueryRouter = errors.New("api: query router is required")

// Ports aggregates the driving ports the API serves.
type Ports struct {
	// Router answers /api/method routines.
	Router driving.QueryRouter

	// Forms builds a form controller per resolve request. Optional.
	Forms form.ControllerFactory

	// Validation validates and saves documents. Optional.
	Validation driving.ValidationService

	// Directory lists locations. Optional.
	Directory driving.DirectoryService

	// Warehouses lists valid warehouses per location. Optional.
	Warehouses driving.WarehouseQueryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Router == nil {
		return ErrMissingQueryRouter
	}
	return nil
}
