// Package mcp provides an MCP (Model Context Protocol) server adapter for locfilter.
// It lets AI assistants resolve location filters, list valid warehouses and
// addresses, and validate documents.
package mcp

import "errors"

// ErrMissingForms is returned when the form controller factory is not provided.
var ErrMissingForms = errors.New("mcp: form controller factory is required")
