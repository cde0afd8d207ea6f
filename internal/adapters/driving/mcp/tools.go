package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// ResolveInput is the input schema for the resolve_location tool.
type ResolveInput struct {
	DocType string            `json:"doctype" jsonschema:"document type, e.g. Sales Invoice"`
	Name    string            `json:"name,omitempty" jsonschema:"document name, empty for unsaved documents"`
	Values  map[string]string `json:"values" jsonschema:"current field values, e.g. {\"dispatch_location\": \"L-West\"}"`
	Changed string            `json:"changed,omitempty" jsonschema:"location type that changed: main, dispatch or shipping; empty for a form load"`
}

// BindingOutput is one installed query binding.
type BindingOutput struct {
	Target  string         `json:"target"`
	Query   string         `json:"query,omitempty"`
	Filters map[string]any `json:"filters"`
	Empty   bool           `json:"shows_nothing"`
}

// ResolveOutput is the output schema for the resolve_location tool.
type ResolveOutput struct {
	State    string            `json:"state"`
	Winner   string            `json:"winner,omitempty"`
	Bindings []BindingOutput   `json:"bindings"`
	Resets   []string          `json:"resets,omitempty"`
	Values   map[string]string `json:"values"`
	AutoFill string            `json:"auto_fill,omitempty"`
	Warning  string            `json:"warning,omitempty"`
}

// LocationInput names a location.
type LocationInput struct {
	Location string `json:"location" jsonschema:"location name"`
}

// WarehousesOutput is the output schema for the valid_warehouses tool.
type WarehousesOutput struct {
	Location   string   `json:"location"`
	Warehouses []string `json:"warehouses"`
	Count      int      `json:"count"`
}

// AddressOutput is one address linked to a location.
type AddressOutput struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	GSTIN string `json:"gstin,omitempty"`
}

// AddressesOutput is the output schema for the location_addresses tool.
type AddressesOutput struct {
	Location  string          `json:"location"`
	Addresses []AddressOutput `json:"addresses"`
	Count     int             `json:"count"`
}

// ValidateInput is the input schema for the validate_document tool.
type ValidateInput struct {
	DocType string            `json:"doctype" jsonschema:"document type, e.g. Purchase Invoice"`
	Name    string            `json:"name,omitempty" jsonschema:"document name, empty for unsaved documents"`
	Values  map[string]string `json:"values" jsonschema:"field values to validate"`
}

// ValidateOutput is the output schema for the validate_document tool.
// Validation failures are reported in the output rather than as errors.
type ValidateOutput struct {
	Valid  bool              `json:"valid"`
	Field  string            `json:"field,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Fills  map[string]string `json:"fills,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_location",
		Description: "Compute the warehouse and address filters a form applies after a location field changes",
	}, s.handleResolve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "valid_warehouses",
		Description: "List the warehouses that may be selected for a location",
	}, s.handleWarehouses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "location_addresses",
		Description: "List the addresses linked to a location",
	}, s.handleAddresses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_document",
		Description: "Check a document against the location rules enforced on save",
	}, s.handleValidate)
}

// handleResolve handles the resolve_location tool invocation.
func (s *Server) handleResolve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResolveInput,
) (*mcp.CallToolResult, ResolveOutput, error) {
	snap := domain.NewSnapshot(input.DocType, input.Name, input.Values)

	var (
		result *form.Result
		err    error
	)
	if input.Changed == "" {
		result, err = form.Refresh(ctx, s.ports.Forms, snap)
	} else {
		changed, perr := domain.ParseLocationType(input.Changed)
		if perr != nil {
			return nil, ResolveOutput{}, perr
		}
		result, err = form.Change(ctx, s.ports.Forms, snap, changed)
	}
	if err != nil {
		return nil, ResolveOutput{}, err
	}

	output := ResolveOutput{
		State:    result.Output.State.String(),
		Winner:   result.Output.Winner.String(),
		Bindings: make([]BindingOutput, 0, len(result.Output.Clears)+len(result.Output.Bindings)),
		Values:   result.Document.Values,
		Warning:  result.AutoFillError,
	}
	for _, b := range result.Output.Clears {
		output.Bindings = append(output.Bindings, bindingOutput(b))
	}
	for _, b := range result.Output.Bindings {
		output.Bindings = append(output.Bindings, bindingOutput(b))
	}
	for _, r := range result.Output.Resets {
		output.Resets = append(output.Resets, r.Target())
	}
	if result.AutoFill != nil && result.AutoFill.Applied {
		output.AutoFill = result.AutoFill.Field + "=" + result.AutoFill.Value
	}

	return nil, output, nil
}

func bindingOutput(b domain.QueryBinding) BindingOutput {
	return BindingOutput{
		Target:  b.Target(),
		Query:   b.Query,
		Filters: b.Filters,
		Empty:   b.ShowsNothing(),
	}
}

// handleWarehouses handles the valid_warehouses tool invocation.
func (s *Server) handleWarehouses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LocationInput,
) (*mcp.CallToolResult, WarehousesOutput, error) {
	if s.ports.Warehouses == nil {
		return nil, WarehousesOutput{}, fmt.Errorf("warehouses: %w", domain.ErrNotImplemented)
	}

	warehouses, err := s.ports.Warehouses.ValidWarehouses(ctx, input.Location)
	if err != nil {
		return nil, WarehousesOutput{}, err
	}

	output := WarehousesOutput{
		Location:   input.Location,
		Warehouses: make([]string, len(warehouses)),
		Count:      len(warehouses),
	}
	for i, w := range warehouses {
		output.Warehouses[i] = w.Name
	}
	return nil, output, nil
}

// handleAddresses handles the location_addresses tool invocation.
func (s *Server) handleAddresses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LocationInput,
) (*mcp.CallToolResult, AddressesOutput, error) {
	if s.ports.Addresses == nil {
		return nil, AddressesOutput{}, fmt.Errorf("addresses: %w", domain.ErrNotImplemented)
	}

	addresses, err := s.ports.Addresses.AddressesFor(ctx, input.Location)
	if err != nil {
		return nil, AddressesOutput{}, err
	}

	output := AddressesOutput{
		Location:  input.Location,
		Addresses: make([]AddressOutput, len(addresses)),
		Count:     len(addresses),
	}
	for i, a := range addresses {
		output.Addresses[i] = AddressOutput{Name: a.Name, Title: a.Title, GSTIN: a.GSTIN}
	}
	return nil, output, nil
}

// handleValidate handles the validate_document tool invocation.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	if s.ports.Validation == nil {
		return nil, ValidateOutput{}, fmt.Errorf("validation: %w", domain.ErrNotImplemented)
	}

	snap := domain.NewSnapshot(input.DocType, input.Name, input.Values)
	fills, err := s.ports.Validation.Validate(ctx, &snap)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return nil, ValidateOutput{Valid: false, Field: vErr.Field, Reason: vErr.Reason}, nil
	}
	if err != nil {
		return nil, ValidateOutput{}, err
	}
	return nil, ValidateOutput{Valid: true, Fills: fills}, nil
}
