package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/adapters/driven/form"
	"github.com/custodia-labs/locfilter/internal/core/domain"
)

var (
	resolveFlags   documentFlags
	resolveChanged string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [doctype]",
	Short: "Show the filters a form applies after a location change",
	Long: `Replays a form event against the resolver and prints every query binding,
value reset and address auto-fill the form would apply.

Without --changed the event is a form load, which installs bindings for the
winning location but never resets values or auto-fills addresses.

Examples:
  locfilter resolve "Sales Invoice" --set dispatch_location=L-West --changed dispatch
  locfilter resolve "Purchase Invoice" --set location=L-East --item warehouse="Stores - W"`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveFlags.register(resolveCmd)
	resolveCmd.Flags().StringVarP(&resolveChanged, "changed", "c", "", "location type that changed: main, dispatch or shipping")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if formFactory == nil {
		return errors.New("resolver not configured")
	}

	snap, err := resolveFlags.snapshot(args[0])
	if err != nil {
		return err
	}
	if _, ok := domain.ProfileFor(snap.DocType); !ok {
		cmd.PrintErrf("Warning: %q is not a location-aware document type\n", snap.DocType)
	}

	var result *form.Result
	if resolveChanged == "" {
		result, err = form.Refresh(cmd.Context(), formFactory, snap)
	} else {
		changed, perr := domain.ParseLocationType(resolveChanged)
		if perr != nil {
			return perr
		}
		result, err = form.Change(cmd.Context(), formFactory, snap, changed)
	}
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	if resolveFlags.json {
		return printJSON(cmd, result)
	}
	printResolution(cmd, result)
	return nil
}

func printResolution(cmd *cobra.Command, result *form.Result) {
	out := result.Output

	cmd.Println(styles.Title.Render("Resolution"))
	cmd.Printf("  %s %s\n", key("State"), out.State)
	winner := ""
	if out.Winner != "" {
		winner = out.Winner.Description()
	}
	cmd.Printf("  %s %s\n", key("Winner"), placeholder(winner))
	cmd.Println()

	cmd.Println(styles.Title.Render("Bindings"))
	if len(out.Clears)+len(out.Bindings) == 0 {
		cmd.Println(styles.Muted.Render("  (none)"))
	}
	for _, b := range out.Clears {
		printBinding(cmd, b)
	}
	for _, b := range out.Bindings {
		printBinding(cmd, b)
	}

	if len(out.Resets) > 0 {
		cmd.Println()
		cmd.Println(styles.Title.Render("Resets"))
		for _, r := range out.Resets {
			cmd.Printf("  %s\n", r.Target())
		}
	}

	switch {
	case result.AutoFillError != "":
		cmd.Println()
		cmd.Println(styles.Warning.Render("Address auto-fill failed: " + result.AutoFillError))
	case result.AutoFill != nil && result.AutoFill.Applied:
		cmd.Println()
		cmd.Printf("%s %s = %s\n", styles.Success.Render("Auto-filled"), result.AutoFill.Field, result.AutoFill.Value)
	case result.AutoFill != nil:
		cmd.Println()
		cmd.Println(styles.Muted.Render(fmt.Sprintf(
			"No auto-fill for %s (%d candidates)", result.AutoFill.Field, result.AutoFill.Candidates)))
	}
}

func printBinding(cmd *cobra.Command, b domain.QueryBinding) {
	if b.ShowsNothing() {
		cmd.Printf("  %s %s\n", key(b.Target()), styles.Muted.Render("shows nothing"))
		return
	}
	filters, err := json.Marshal(b.Filters)
	if err != nil {
		filters = []byte("{}")
	}
	cmd.Printf("  %s %s %s\n", key(b.Target()), b.Query, filters)
}
