package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

var (
	locationCode      string
	locationWarehouse string
	locationAddress   string
	locationJSON      bool
)

var locationCmd = &cobra.Command{
	Use:   "location",
	Short: "Manage locations",
	Long:  `Add, list, inspect and remove locations and the addresses linked to them.`,
}

var locationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locations",
	Args:  cobra.NoArgs,
	RunE:  runLocationList,
}

var locationShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a location with its warehouses and addresses",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocationShow,
}

var locationAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create or update a location",
	Long: `Creates a location or updates an existing one. The linked warehouse and
address must already exist.

Example:
  locfilter location add L-West --code WST --warehouse West --address "West HQ"`,
	Args: cobra.ExactArgs(1),
	RunE: runLocationAdd,
}

var locationRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a location and its address links",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocationRemove,
}

var locationLinkCmd = &cobra.Command{
	Use:   "link [location] [address]",
	Short: "Link an additional address to a location",
	Args:  cobra.ExactArgs(2),
	RunE:  runLocationLink,
}

var locationUnlinkCmd = &cobra.Command{
	Use:   "unlink [link-id]",
	Short: "Remove an address link",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocationUnlink,
}

func init() {
	locationAddCmd.Flags().StringVar(&locationCode, "code", "", "short code used in naming series")
	locationAddCmd.Flags().StringVar(&locationWarehouse, "warehouse", "", "linked warehouse (group or leaf)")
	locationAddCmd.Flags().StringVar(&locationAddress, "address", "", "linked primary address")
	locationListCmd.Flags().BoolVar(&locationJSON, "json", false, "output as JSON")
	locationShowCmd.Flags().BoolVar(&locationJSON, "json", false, "output as JSON")

	locationCmd.AddCommand(locationListCmd)
	locationCmd.AddCommand(locationShowCmd)
	locationCmd.AddCommand(locationAddCmd)
	locationCmd.AddCommand(locationRemoveCmd)
	locationCmd.AddCommand(locationLinkCmd)
	locationCmd.AddCommand(locationUnlinkCmd)
	rootCmd.AddCommand(locationCmd)
}

func runLocationList(cmd *cobra.Command, _ []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	locations, err := directoryService.ListLocations(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list locations: %w", err)
	}

	if locationJSON {
		if locations == nil {
			locations = []domain.Location{}
		}
		return printJSON(cmd, locations)
	}

	if len(locations) == 0 {
		cmd.Println("No locations configured.")
		cmd.Println("Run 'locfilter location add' to create one.")
		return nil
	}

	valid := validWarehouseCounts(cmd, locations)

	cmd.Println(styles.Title.Render("Locations"))
	for i := range locations {
		cmd.Printf("  %s code=%s warehouse=%s address=%s%s\n",
			key(locations[i].Name),
			placeholder(locations[i].Code),
			placeholder(locations[i].LinkedWarehouse),
			placeholder(locations[i].LinkedAddress),
			valid[locations[i].Name])
	}
	cmd.Printf("\nTotal: %d locations\n", len(locations))
	return nil
}

type locationDetail struct {
	domain.Location
	Warehouses []string `json:"warehouses"`
	Addresses  []string `json:"addresses"`
}

// validWarehouseCounts returns a " valid=N" suffix per location. Lookup
// failures only drop the suffix.
func validWarehouseCounts(cmd *cobra.Command, locations []domain.Location) map[string]string {
	suffixes := make(map[string]string, len(locations))
	if warehouseService == nil {
		return suffixes
	}

	names := make([]string, len(locations))
	for i := range locations {
		names[i] = locations[i].Name
	}
	resolved, err := warehouseService.ResolveMany(cmd.Context(), names)
	if err != nil {
		return suffixes
	}
	for name, warehouses := range resolved {
		suffixes[name] = fmt.Sprintf(" valid=%d", len(warehouses))
	}
	return suffixes
}

func runLocationShow(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	ctx := cmd.Context()
	loc, err := directoryService.GetLocation(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get location: %w", err)
	}

	detail := locationDetail{Location: *loc, Warehouses: []string{}, Addresses: []string{}}
	if warehouseService != nil {
		warehouses, err := warehouseService.ValidWarehouses(ctx, loc.Name)
		if err != nil {
			return fmt.Errorf("failed to list warehouses: %w", err)
		}
		for _, w := range warehouses {
			detail.Warehouses = append(detail.Warehouses, w.Name)
		}
	}
	if addressService != nil {
		addresses, err := addressService.AddressesFor(ctx, loc.Name)
		if err != nil {
			return fmt.Errorf("failed to list addresses: %w", err)
		}
		for _, a := range addresses {
			detail.Addresses = append(detail.Addresses, a.Name)
		}
	}

	if locationJSON {
		return printJSON(cmd, detail)
	}

	cmd.Println(styles.Title.Render("Location: " + loc.Name))
	cmd.Printf("  %s %s\n", key("Code"), placeholder(loc.Code))
	cmd.Printf("  %s %s\n", key("Linked warehouse"), placeholder(loc.LinkedWarehouse))
	cmd.Printf("  %s %s\n", key("Linked address"), placeholder(loc.LinkedAddress))
	cmd.Println()
	cmd.Println(styles.Title.Render("Valid warehouses"))
	printNames(cmd, detail.Warehouses)
	cmd.Println()
	cmd.Println(styles.Title.Render("Addresses"))
	printNames(cmd, detail.Addresses)
	return nil
}

func printNames(cmd *cobra.Command, names []string) {
	if len(names) == 0 {
		cmd.Println(styles.Muted.Render("  (none)"))
		return
	}
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
}

func runLocationAdd(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	loc, err := directoryService.SaveLocation(cmd.Context(), domain.Location{
		Name:            args[0],
		Code:            locationCode,
		LinkedWarehouse: locationWarehouse,
		LinkedAddress:   locationAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}

	cmd.Printf("Saved location: %s\n", loc.Name)
	if loc.Code == "" || loc.LinkedAddress == "" {
		cmd.Println(styles.Warning.Render("Documents cannot be saved until the location has a code and a linked address."))
	}
	return nil
}

func runLocationRemove(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	if err := directoryService.RemoveLocation(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove location: %w", err)
	}
	cmd.Printf("Removed location: %s\n", args[0])
	return nil
}

func runLocationLink(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	link, err := directoryService.LinkAddress(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to link address: %w", err)
	}
	cmd.Printf("Linked %s to %s (id %s)\n", link.Address, link.Location, link.ID)
	return nil
}

func runLocationUnlink(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	if err := directoryService.UnlinkAddress(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to unlink address: %w", err)
	}
	cmd.Printf("Removed address link: %s\n", args[0])
	return nil
}
