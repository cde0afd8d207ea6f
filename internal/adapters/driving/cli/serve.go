package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/locfilter/internal/adapters/driving/api"
	"github.com/custodia-labs/locfilter/internal/logger"
)

var (
	serveAddr     string
	serveNoReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query routines over HTTP",
	Long: `Starts an HTTP server that answers the query and lookup routines at
/api/method/<routine>, using the same envelope as a Frappe site, plus
/api/resolve, /api/validate and /api/save for form replay and validation.

The configuration file is watched and settings are reloaded when it changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings)")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "do not watch the configuration file")
	rootCmd.AddCommand(serveCmd)
}

// apiPorts collects the configured services for the HTTP API.
func apiPorts() *api.Ports {
	return &api.Ports{
		Router:     queryRouter,
		Forms:      formFactory,
		Validation: validationService,
		Directory:  directoryService,
		Warehouses: warehouseService,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	if queryRouter == nil {
		return errors.New("query service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			addr = settings.Server.Addr
		}
	}

	server, err := api.NewServer(apiPorts(), addr)
	if err != nil {
		return err
	}
	logger.Section("Serve")
	logger.Info("listening on %s, reload=%t", displayAddr(addr), !serveNoReload)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tasks []func(context.Context) error
	if configStore != nil && !serveNoReload {
		watcher, err := file.NewWatcher(configStore, reloadOnChange)
		if err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
		defer watcher.Close() //nolint:errcheck
		tasks = append(tasks, watcher.Run)
	}

	cmd.Printf("Serving on http://%s\n", displayAddr(addr))
	return server.Serve(ctx, tasks...)
}

// reloadOnChange applies a changed configuration file to the running services.
func reloadOnChange() {
	if reloadServices == nil {
		return
	}
	if err := reloadServices(); err != nil {
		logger.Error("config reload failed: %v", err)
	}
}

func displayAddr(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
