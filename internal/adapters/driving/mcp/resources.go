package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for locfilter resources.
	uriScheme = "locfilter://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "locations",
		Name:        "locations",
		Description: "All locations with their linked warehouse and address",
		MIMEType:    "application/json",
	}, s.handleLocationsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "locations/{name}",
		Name:        "location",
		Description: "A location with its valid warehouses and linked addresses",
		MIMEType:    "application/json",
	}, s.handleLocationResource)
}

// handleLocationsResource returns every location.
func (s *Server) handleLocationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Directory == nil {
		return jsonResource(req.Params.URI, []any{})
	}

	locations, err := s.ports.Directory.ListLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	return jsonResource(req.Params.URI, locations)
}

// locationDetail is the body of a location resource.
type locationDetail struct {
	domain.Location
	Warehouses []string `json:"warehouses"`
	Addresses  []string `json:"addresses"`
}

// handleLocationResource returns one location with its warehouses and addresses.
func (s *Server) handleLocationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractLocationName(req.Params.URI)
	if name == "" || s.ports.Directory == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	loc, err := s.ports.Directory.GetLocation(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}

	detail := locationDetail{Location: *loc, Warehouses: []string{}, Addresses: []string{}}
	if s.ports.Warehouses != nil {
		warehouses, err := s.ports.Warehouses.ValidWarehouses(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("listing warehouses: %w", err)
		}
		for _, w := range warehouses {
			detail.Warehouses = append(detail.Warehouses, w.Name)
		}
	}
	if s.ports.Addresses != nil {
		addresses, err := s.ports.Addresses.AddressesFor(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("listing addresses: %w", err)
		}
		for _, a := range addresses {
			detail.Addresses = append(detail.Addresses, a.Name)
		}
	}
	return jsonResource(req.Params.URI, detail)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLocationName extracts the name from a URI like locfilter://locations/{name}.
func extractLocationName(uri string) string {
	const prefix = uriScheme + "locations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
