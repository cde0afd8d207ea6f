// Package cli provides the locfilter command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/ports/driving"
	"github.com/custodia-labs/locfilter/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services holds the driving ports the commands run against.
type Services struct {
	Settings   driving.SettingsService
	Directory  driving.DirectoryService
	Warehouses driving.WarehouseQueryService
	Addresses  driving.AddressQueryService
	Router     driving.QueryRouter
	Validation driving.ValidationService
	Naming     driving.NamingService
	Forms      form.ControllerFactory

	// Config is the file store watched by serve. May be nil.
	Config *file.ConfigStore

	// Reload re-reads settings into the running services. May be nil.
	Reload func() error

	// Close releases storage. May be nil.
	Close func() error
}

// Bootstrap builds the services for a configuration directory.
type Bootstrap func(configDir string) (*Services, error)

var (
	configDir string
	verbose   bool

	bootstrap Bootstrap
	closer    func() error

	settingsService   driving.SettingsService
	directoryService  driving.DirectoryService
	warehouseService  driving.WarehouseQueryService
	addressService    driving.AddressQueryService
	queryRouter       driving.QueryRouter
	validationService driving.ValidationService
	namingService     driving.NamingService
	formFactory       form.ControllerFactory
	configStore       *file.ConfigStore
	reloadServices    func() error
)

var rootCmd = &cobra.Command{
	Use:   "locfilter",
	Short: "Location-based warehouse and address filtering",
	Long: `locfilter restricts the warehouses and addresses a business document may
select to those belonging to the document's location.

It answers the query routines a form host calls, replays form events to show
which filters apply, validates documents before save, and serves the same
routines over HTTP and MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closer == nil {
			return nil
		}
		err := closer()
		closer = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.locfilter)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	directoryService = s.Directory
	warehouseService = s.Warehouses
	addressService = s.Addresses
	queryRouter = s.Router
	validationService = s.Validation
	namingService = s.Naming
	formFactory = s.Forms
	configStore = s.Config
	reloadServices = s.Reload
	closer = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Name() == versionCmd.Name() {
		return nil
	}

	services, err := bootstrap(configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(services)
	return nil
}
