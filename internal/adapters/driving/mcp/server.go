package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/locfilter/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server exposes location filter resolution to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "locfilter", Version: Version},
		&mcp.ServerOptions{Instructions: instructions(ports)},
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client which location tools answer real data.
// Tools whose port is missing are still registered but report not
// configured, so they are left out here.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("Resolves warehouse and address filters for documents with location fields ")
	b.WriteString("(location, dispatch_location, shipping_location). ")
	b.WriteString("Call resolve_location with the document values and the changed location type ")
	b.WriteString("(main, dispatch or shipping), or without one to refresh.")

	if ports.Warehouses != nil {
		b.WriteString(" valid_warehouses lists the warehouses a location allows.")
	}
	if ports.Addresses != nil {
		b.WriteString(" location_addresses lists the addresses linked to a location.")
	}
	if ports.Validation != nil {
		b.WriteString(" validate_document runs the save-time checks.")
	}
	if ports.Directory != nil {
		b.WriteString(" Locations are browsable under " + uriScheme + "locations.")
	}
	return b.String()
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("mcp: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
