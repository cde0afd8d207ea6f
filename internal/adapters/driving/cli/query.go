package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

var (
	queryFilters []string
	queryText    string
	queryStart   int
	queryPageLen int
	queryJSON    bool

	lookupArgs []string
	lookupJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [query-id]",
	Short: "Run a warehouse or address query routine",
	Long: `Runs a query routine the way a form host would when a user opens a link
field. The query id may be bare or qualified with its namespace.

Examples:
  locfilter query location_based_warehouse_query --filter location=L-West
  locfilter query child_table_dispatch_location_warehouse_query \
    --filter dispatch_location=L-West --filter parent_doctype="Sales Invoice" --filter parent=SINV-1`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [lookup-id]",
	Short: "Run an address lookup routine",
	Long: `Runs an address lookup used for auto-fill.

Example:
  locfilter lookup get_filtered_addresses_for_dispatch_location --arg dispatch_location=L-West`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryFilters, "filter", "f", nil, "filter as key=value (repeatable)")
	queryCmd.Flags().StringVarP(&queryText, "txt", "t", "", "case-insensitive text search")
	queryCmd.Flags().IntVar(&queryStart, "start", 0, "number of results to skip")
	queryCmd.Flags().IntVarP(&queryPageLen, "page-len", "n", 20, "maximum number of results (0 = unlimited)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)

	lookupCmd.Flags().StringArrayVarP(&lookupArgs, "arg", "a", nil, "argument as key=value (repeatable)")
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(lookupCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryRouter == nil {
		return errors.New("query service not configured")
	}

	pairs, err := parseAssignments(queryFilters)
	if err != nil {
		return err
	}
	filters := make(map[string]any, len(pairs))
	for k, v := range pairs {
		filters[k] = v
	}

	options, err := queryRouter.Query(cmd.Context(), args[0], filters, domain.QueryOptions{
		Text:       queryText,
		Start:      queryStart,
		PageLength: queryPageLen,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		if options == nil {
			options = []domain.Option{}
		}
		return printJSON(cmd, options)
	}

	if len(options) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for _, o := range options {
		if o.Description != "" {
			cmd.Printf("  %s %s\n", key(o.Value), styles.Muted.Render(o.Description))
			continue
		}
		cmd.Printf("  %s\n", o.Value)
	}
	return nil
}

func runLookup(cmd *cobra.Command, args []string) error {
	if queryRouter == nil {
		return errors.New("query service not configured")
	}

	lookupValues, err := parseAssignments(lookupArgs)
	if err != nil {
		return err
	}

	names, err := queryRouter.Lookup(cmd.Context(), args[0], lookupValues)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if lookupJSON {
		if names == nil {
			names = []string{}
		}
		return printJSON(cmd, names)
	}

	if len(names) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	for _, name := range names {
		cmd.Printf("  %s\n", name)
	}
	return nil
}
