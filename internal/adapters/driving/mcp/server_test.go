package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Success(t *testing.T) {
	server, err := NewServer(newTestPorts(t))

	require.NoError(t, err)
	require.NotNil(t, server)
	assert.NotNil(t, server.server)
}

func TestNewServer_MissingForms(t *testing.T) {
	server, err := NewServer(&Ports{})

	assert.Nil(t, server)
	assert.ErrorIs(t, err, ErrMissingForms)
}

func TestPorts_Validate_OptionalPorts(t *testing.T) {
	ports := newTestPorts(t)
	ports.Warehouses = nil
	ports.Addresses = nil
	ports.Validation = nil
	ports.Directory = nil

	assert.NoError(t, ports.Validate())
}

func TestInstructions_NameConfiguredTools(t *testing.T) {
	text := instructions(newTestPorts(t))

	assert.Contains(t, text, "resolve_location")
	assert.Contains(t, text, "valid_warehouses")
	assert.Contains(t, text, "location_addresses")
	assert.Contains(t, text, "validate_document")
	assert.Contains(t, text, "locfilter://locations")
}

func TestInstructions_OmitMissingPorts(t *testing.T) {
	ports := newTestPorts(t)
	ports.Warehouses = nil
	ports.Validation = nil
	ports.Directory = nil

	text := instructions(ports)

	assert.Contains(t, text, "resolve_location")
	assert.Contains(t, text, "location_addresses")
	assert.NotContains(t, text, "valid_warehouses")
	assert.NotContains(t, text, "validate_document")
	assert.NotContains(t, text, "locfilter://")
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
