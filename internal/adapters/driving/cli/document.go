package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

// documentFlags describes a document on the command line.
type documentFlags struct {
	name   string
	values []string
	items  []string
	json   bool
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "document name (empty for an unsaved document)")
	cmd.Flags().StringArrayVarP(&f.values, "set", "s", nil, "field value as field=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.items, "item", nil, "items row as field=value[,field=value] (repeatable)")
	cmd.Flags().BoolVar(&f.json, "json", false, "output as JSON")
}

// snapshot builds the document the flags describe.
func (f *documentFlags) snapshot(docType string) (domain.DocumentSnapshot, error) {
	values, err := parseAssignments(f.values)
	if err != nil {
		return domain.DocumentSnapshot{}, err
	}
	snap := domain.NewSnapshot(docType, f.name, values)

	for _, item := range f.items {
		row, err := parseAssignments(strings.Split(item, ","))
		if err != nil {
			return domain.DocumentSnapshot{}, fmt.Errorf("item %q: %w", item, err)
		}
		if snap.Tables == nil {
			snap.Tables = map[string][]domain.Row{}
		}
		snap.Tables[domain.TableItems] = append(snap.Tables[domain.TableItems], domain.Row(row))
	}
	return snap, nil
}

// parseAssignments parses field=value pairs.
func parseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("%w: expected field=value, got %q", domain.ErrInvalidInput, pair)
		}
		values[field] = strings.TrimSpace(value)
	}
	return values, nil
}

var (
	validateFlags documentFlags
	saveFlags     documentFlags
	nameFlags     documentFlags
	nameDate      string
	nameDryRun    bool
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Validate, save and name business documents",
	Long: `Check business documents against the location rules enforced on save,
record them, and generate names from their naming series.`,
}

var documentValidateCmd = &cobra.Command{
	Use:   "validate [doctype]",
	Short: "Validate a document",
	Long: `Runs the save-time checks without recording the document.

Example:
  locfilter document validate "Sales Invoice" --set location=L-West --item warehouse="Stores - W"`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentValidate,
}

var documentSaveCmd = &cobra.Command{
	Use:   "save [doctype]",
	Short: "Validate and record a document",
	Long:  `Validates the document, fills derived values, names it from its series when new, and stores it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSave,
}

var documentNameCmd = &cobra.Command{
	Use:   "name [doctype]",
	Short: "Generate the next name in a document's series",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentName,
}

func init() {
	validateFlags.register(documentValidateCmd)
	saveFlags.register(documentSaveCmd)
	nameFlags.register(documentNameCmd)
	documentNameCmd.Flags().StringVar(&nameDate, "date", "", "posting date as YYYY-MM-DD (default today)")
	documentNameCmd.Flags().BoolVar(&nameDryRun, "dry-run", false, "print the series prefix without taking a number")

	documentCmd.AddCommand(documentValidateCmd)
	documentCmd.AddCommand(documentSaveCmd)
	documentCmd.AddCommand(documentNameCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	snap, err := validateFlags.snapshot(args[0])
	if err != nil {
		return err
	}

	fills, err := validationService.Validate(cmd.Context(), &snap)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if validateFlags.json {
		return printJSON(cmd, map[string]any{"valid": true, "fills": fills})
	}

	cmd.Println(styles.Success.Render("Document is valid."))
	if len(fills) > 0 {
		cmd.Println()
		cmd.Println(styles.Title.Render("Values filled on save"))
		printValues(cmd, fills)
	}
	return nil
}

func runDocumentSave(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	snap, err := saveFlags.snapshot(args[0])
	if err != nil {
		return err
	}

	stored, err := validationService.Save(cmd.Context(), &snap)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	if saveFlags.json {
		return printJSON(cmd, stored)
	}

	cmd.Printf("Saved %s %s\n", stored.DocType, styles.Title.Render(stored.Name))
	printValues(cmd, stored.Values)
	return nil
}

func runDocumentName(cmd *cobra.Command, args []string) error {
	if namingService == nil {
		return errors.New("naming service not configured")
	}

	snap, err := nameFlags.snapshot(args[0])
	if err != nil {
		return err
	}

	date := time.Now()
	if nameDate != "" {
		date, err = time.Parse(time.DateOnly, nameDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", nameDate, err)
		}
	}

	var name string
	if nameDryRun {
		name, err = namingService.SeriesPrefix(cmd.Context(), &snap, date)
	} else {
		name, err = namingService.NextName(cmd.Context(), &snap, date)
	}
	if err != nil {
		return fmt.Errorf("failed to generate name: %w", err)
	}

	if nameFlags.json {
		return printJSON(cmd, map[string]string{"name": name})
	}
	cmd.Println(name)
	return nil
}

// printValues prints a field map sorted by field.
func printValues(cmd *cobra.Command, values map[string]string) {
	fields := make([]string, 0, len(values))
	for field := range values {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		cmd.Printf("  %s %s\n", key(field), placeholder(values[field]))
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
