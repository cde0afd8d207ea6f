package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for command output.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // Purple
		Secondary: lipgloss.Color("#06B6D4"), // Cyan
		Muted:     lipgloss.Color("#6C7086"), // Medium gray
		Success:   lipgloss.Color("#A6E3A1"), // Green
		Warning:   lipgloss.Color("#F9E2AF"), // Yellow
		Error:     lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles for command output.
// Colours are dropped automatically when output is not a terminal.
type Styles struct {
	// Title style for section headers.
	Title lipgloss.Style

	// Key style for labels in key/value listings.
	Key lipgloss.Style

	// Muted style for placeholders and hints.
	Muted lipgloss.Style

	// Success, Warning and Error style status lines.
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Key: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),
	}
}

// keyWidth pads labels so values line up.
const keyWidth = 20

var styles = NewStyles(DefaultTheme())

// key renders a label padded so values line up. Longer labels are
// never wrapped.
func key(label string) string {
	return styles.Key.Render(fmt.Sprintf("%-*s", keyWidth, label))
}

// placeholder renders an empty value.
func placeholder(v string) string {
	if v == "" {
		return styles.Muted.Render("(not set)")
	}
	return v
}
