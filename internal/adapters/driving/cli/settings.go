package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/locfilter/internal/core/domain"
)

var (
	remoteURL    string
	remoteKey    string
	remoteSecret string
	remoteClear  bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure location precedence, the remote query site and storage.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsPrecedenceCmd = &cobra.Command{
	Use:   "precedence [type] [type] [type]",
	Short: "Set which location wins when several are set",
	Long: `Set the order in which location types win when more than one location is
set on a document. Every type must appear exactly once.

Example:
  locfilter settings precedence dispatch shipping main`,
	Args: cobra.ExactArgs(len(domain.LocationTypes)),
	RunE: runSettingsPrecedence,
}

var settingsRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Configure the remote query site",
	Long: `Configure a remote site that answers query and lookup routines instead of
the local directory. Values not given as flags are prompted for; the secret
is read without echo.`,
	Args: cobra.NoArgs,
	RunE: runSettingsRemote,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage [backend]",
	Short: "Set the storage backend",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsStorage,
}

func init() {
	settingsRemoteCmd.Flags().StringVar(&remoteURL, "url", "", "remote site URL")
	settingsRemoteCmd.Flags().StringVar(&remoteKey, "api-key", "", "API key")
	settingsRemoteCmd.Flags().StringVar(&remoteSecret, "api-secret", "", "API secret (prompted when omitted)")
	settingsRemoteCmd.Flags().BoolVar(&remoteClear, "clear", false, "stop using a remote site")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPrecedenceCmd)
	settingsCmd.AddCommand(settingsRemoteCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(styles.Title.Render("Current Settings"))
	cmd.Println()

	cmd.Println("[Resolver]")
	cmd.Printf("  %s %s\n", key("Precedence"), settings.Resolver.Precedence)
	cmd.Printf("  %s %s\n", key("Query namespace"), placeholder(settings.Resolver.QueryNamespace))
	cmd.Printf("  %s %s\n", key("Document fields"), strings.Join(settings.Resolver.RestrictedDocumentFields(), ", "))
	cmd.Printf("  %s %s\n", key("Child tables"), strings.Join(settings.Resolver.ChildTables, ", "))
	cmd.Printf("  %s %s\n", key("Child fields"), strings.Join(settings.Resolver.RestrictedChildFields(), ", "))
	cmd.Println()

	cmd.Println("[Remote]")
	if settings.Remote.IsConfigured() {
		cmd.Printf("  %s %s\n", key("URL"), settings.Remote.BaseURL)
		cmd.Printf("  %s %s\n", key("API Key"), maskedOrUnset(settings.Remote.APIKey))
		cmd.Printf("  %s %s\n", key("API Secret"), maskedOrUnset(settings.Remote.APISecret))
		cmd.Printf("  %s %.1f/s\n", key("Rate limit"), settings.Remote.RateLimit)
	} else {
		cmd.Printf("  %s\n", styles.Muted.Render("Not configured, queries are answered locally"))
	}
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  %s %s\n", key("Address"), settings.Server.Addr)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  %s %s\n", key("Backend"), settings.Storage.Backend.Description())
	if settings.Storage.DataDir != "" {
		cmd.Printf("  %s %s\n", key("Data dir"), settings.Storage.DataDir)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(fmt.Sprintf("Warning: %v", err)))
	} else {
		cmd.Println(styles.Success.Render("Configuration is valid."))
	}

	return nil
}

func runSettingsPrecedence(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetPrecedence(args); err != nil {
		return fmt.Errorf("failed to set precedence: %w", err)
	}

	policy, err := domain.ParsePrecedence(args)
	if err != nil {
		return err
	}
	cmd.Printf("Precedence set to: %s\n", policy)
	return nil
}

func runSettingsRemote(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if remoteClear {
		if err := settingsService.SetRemote("", "", ""); err != nil {
			return fmt.Errorf("failed to clear remote: %w", err)
		}
		cmd.Println("Remote site cleared. Queries are answered locally.")
		return nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	baseURL := remoteURL
	if baseURL == "" {
		cmd.Print("Remote site URL: ")
		baseURL = readLine(reader)
	}
	if baseURL == "" {
		return errors.New("remote site URL is required")
	}

	apiKey := remoteKey
	if apiKey == "" {
		cmd.Print("API key: ")
		apiKey = readLine(reader)
	}

	apiSecret := remoteSecret
	if apiSecret == "" {
		cmd.Print("API secret: ")
		apiSecret = readPassword()
		cmd.Println()
	}
	if apiKey == "" || apiSecret == "" {
		return errors.New("API key and secret are required")
	}

	if err := settingsService.SetRemote(baseURL, apiKey, apiSecret); err != nil {
		return fmt.Errorf("failed to configure remote: %w", err)
	}
	cmd.Printf("Remote site configured: %s (key %s)\n", baseURL, maskAPIKey(apiKey))
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backends := domain.AllStorageBackends()
	var selected domain.StorageBackend
	if len(args) == 1 {
		selected = domain.StorageBackend(strings.ToLower(args[0]))
	} else {
		cmd.Println("Select Storage Backend")
		cmd.Println("----------------------")
		for i, b := range backends {
			cmd.Printf("  %d. %s\n", i+1, b.Description())
		}
		cmd.Print("\nEnter choice [1]: ")
		idx := parseChoice(readLine(bufio.NewReader(cmd.InOrStdin())), len(backends), 1)
		selected = backends[idx-1]
	}

	if err := settingsService.SetStorageBackend(selected); err != nil {
		return fmt.Errorf("failed to set storage backend: %w", err)
	}
	cmd.Printf("Storage backend set to: %s\n", selected.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func maskedOrUnset(key string) string {
	if key == "" {
		return placeholder("")
	}
	return maskAPIKey(key)
}
