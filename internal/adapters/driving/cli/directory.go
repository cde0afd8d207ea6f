package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

var (
	warehouseParent   string
	warehouseTitle    string
	warehouseCompany  string
	warehouseGroup    bool
	warehouseDisabled bool

	addressTitle   string
	addressGSTIN   string
	addressDisplay string

	fiscalYearCompanies []string
	fiscalYearDisabled  bool
)

var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Manage the warehouse tree",
}

var warehouseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List warehouses",
	Args:  cobra.NoArgs,
	RunE:  runWarehouseList,
}

var warehouseAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create or update a warehouse",
	Long: `Creates or updates a warehouse. The parent must be a group warehouse.

Example:
  locfilter warehouse add West --group
  locfilter warehouse add "Stores - W" --parent West`,
	Args: cobra.ExactArgs(1),
	RunE: runWarehouseAdd,
}

var warehouseRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a warehouse",
	Args:  cobra.ExactArgs(1),
	RunE:  runWarehouseRemove,
}

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Manage addresses",
}

var addressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List addresses",
	Args:  cobra.NoArgs,
	RunE:  runAddressList,
}

var addressAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create or update an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddressAdd,
}

var fiscalYearCmd = &cobra.Command{
	Use:   "fiscal-year",
	Short: "Manage fiscal years used in naming series",
}

var fiscalYearListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fiscal years",
	Args:  cobra.NoArgs,
	RunE:  runFiscalYearList,
}

var fiscalYearAddCmd = &cobra.Command{
	Use:   "add [name] [start] [end]",
	Short: "Create or update a fiscal year",
	Long: `Creates or updates a fiscal year. Dates use YYYY-MM-DD.

Example:
  locfilter fiscal-year add 2024-2025 2024-04-01 2025-03-31 --company Acme`,
	Args: cobra.ExactArgs(3),
	RunE: runFiscalYearAdd,
}

func init() {
	warehouseAddCmd.Flags().StringVar(&warehouseParent, "parent", "", "parent group warehouse")
	warehouseAddCmd.Flags().StringVar(&warehouseTitle, "title", "", "display name")
	warehouseAddCmd.Flags().StringVar(&warehouseCompany, "company", "", "owning company")
	warehouseAddCmd.Flags().BoolVar(&warehouseGroup, "group", false, "group warehouse (cannot hold stock)")
	warehouseAddCmd.Flags().BoolVar(&warehouseDisabled, "disabled", false, "disable the warehouse")
	warehouseCmd.AddCommand(warehouseListCmd)
	warehouseCmd.AddCommand(warehouseAddCmd)
	warehouseCmd.AddCommand(warehouseRemoveCmd)
	rootCmd.AddCommand(warehouseCmd)

	addressAddCmd.Flags().StringVar(&addressTitle, "title", "", "display name")
	addressAddCmd.Flags().StringVar(&addressGSTIN, "gstin", "", "tax identification number")
	addressAddCmd.Flags().StringVar(&addressDisplay, "display", "", "formatted address")
	addressCmd.AddCommand(addressListCmd)
	addressCmd.AddCommand(addressAddCmd)
	rootCmd.AddCommand(addressCmd)

	fiscalYearAddCmd.Flags().StringSliceVar(&fiscalYearCompanies, "company", nil, "linked companies (repeatable)")
	fiscalYearAddCmd.Flags().BoolVar(&fiscalYearDisabled, "disabled", false, "disable the fiscal year")
	fiscalYearCmd.AddCommand(fiscalYearListCmd)
	fiscalYearCmd.AddCommand(fiscalYearAddCmd)
	rootCmd.AddCommand(fiscalYearCmd)
}

func runWarehouseList(cmd *cobra.Command, _ []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	warehouses, err := directoryService.ListWarehouses(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list warehouses: %w", err)
	}
	if len(warehouses) == 0 {
		cmd.Println("No warehouses configured.")
		return nil
	}

	cmd.Println(styles.Title.Render("Warehouses"))
	for _, w := range warehouses {
		var tags []string
		if w.IsGroup {
			tags = append(tags, "group")
		}
		if w.Disabled {
			tags = append(tags, "disabled")
		}
		if w.Parent != "" {
			tags = append(tags, "parent="+w.Parent)
		}
		cmd.Printf("  %s %s\n", key(w.Name), styles.Muted.Render(strings.Join(tags, " ")))
	}
	return nil
}

func runWarehouseAdd(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	err := directoryService.SaveWarehouse(cmd.Context(), domain.Warehouse{
		Name:     args[0],
		Title:    warehouseTitle,
		Parent:   warehouseParent,
		IsGroup:  warehouseGroup,
		Disabled: warehouseDisabled,
		Company:  warehouseCompany,
	})
	if err != nil {
		return fmt.Errorf("failed to save warehouse: %w", err)
	}
	cmd.Printf("Saved warehouse: %s\n", args[0])
	return nil
}

func runWarehouseRemove(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	if err := directoryService.RemoveWarehouse(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove warehouse: %w", err)
	}
	cmd.Printf("Removed warehouse: %s\n", args[0])
	return nil
}

func runAddressList(cmd *cobra.Command, _ []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	addresses, err := directoryService.ListAddresses(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list addresses: %w", err)
	}
	if len(addresses) == 0 {
		cmd.Println("No addresses configured.")
		return nil
	}

	cmd.Println(styles.Title.Render("Addresses"))
	for _, a := range addresses {
		line := a.Title
		if a.GSTIN != "" {
			line += " GSTIN " + a.GSTIN
		}
		cmd.Printf("  %s %s\n", key(a.Name), styles.Muted.Render(strings.TrimSpace(line)))
	}
	return nil
}

func runAddressAdd(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	err := directoryService.SaveAddress(cmd.Context(), domain.Address{
		Name:    args[0],
		Title:   addressTitle,
		GSTIN:   addressGSTIN,
		Display: addressDisplay,
	})
	if err != nil {
		return fmt.Errorf("failed to save address: %w", err)
	}
	cmd.Printf("Saved address: %s\n", args[0])
	return nil
}

func runFiscalYearList(cmd *cobra.Command, _ []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	years, err := directoryService.ListFiscalYears(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list fiscal years: %w", err)
	}
	if len(years) == 0 {
		cmd.Println("No fiscal years configured.")
		return nil
	}

	cmd.Println(styles.Title.Render("Fiscal years"))
	for _, fy := range years {
		line := fmt.Sprintf("%s to %s code=%s",
			fy.Start.Format(time.DateOnly), fy.End.Format(time.DateOnly), fy.Code())
		if len(fy.Companies) > 0 {
			line += " companies=" + strings.Join(fy.Companies, ",")
		}
		if fy.Disabled {
			line += " disabled"
		}
		cmd.Printf("  %s %s\n", key(fy.Name), line)
	}
	return nil
}

func runFiscalYearAdd(cmd *cobra.Command, args []string) error {
	if directoryService == nil {
		return errors.New("directory service not configured")
	}

	start, err := time.Parse(time.DateOnly, args[1])
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", args[1], err)
	}
	end, err := time.Parse(time.DateOnly, args[2])
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", args[2], err)
	}

	err = directoryService.SaveFiscalYear(cmd.Context(), domain.FiscalYear{
		Name:      args[0],
		Start:     start,
		End:       end,
		Companies: fiscalYearCompanies,
		Disabled:  fiscalYearDisabled,
	})
	if err != nil {
		return fmt.Errorf("failed to save fiscal year: %w", err)
	}
	cmd.Printf("Saved fiscal year: %s\n", args[0])
	return nil
}
