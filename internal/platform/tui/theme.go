package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme contains the lipgloss styles of the menus and the level picker.
type Theme struct {
	// Title and text styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style
	MenuValue       lipgloss.Style // Preset and profile values

	// Footer controls
	HUDControls lipgloss.Style
}

// DefaultTheme returns the default visual theme.
func DefaultTheme() Theme {
	return Theme{
		MenuTitle:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		MenuItemNormal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		MenuDescription: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		MenuValue:       lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		HUDControls:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// NeonTheme returns a neon-style theme.
func NeonTheme() Theme {
	theme := DefaultTheme()
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("199")).Bold(true) // Neon pink
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("87")).Bold(true)
	theme.MenuValue = lipgloss.NewStyle().Foreground(lipgloss.Color("118"))
	return theme
}

// PastelTheme returns a softer pastel theme.
func PastelTheme() Theme {
	theme := DefaultTheme()
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	theme.MenuValue = lipgloss.NewStyle().Foreground(lipgloss.Color("157"))
	return theme
}

// MonochromeTheme returns a grayscale theme.
func MonochromeTheme() Theme {
	theme := DefaultTheme()
	theme.MenuTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	theme.MenuItemActive = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true).Underline(true)
	theme.MenuValue = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	return theme
}

var themes = map[string]func() Theme{
	"default":    DefaultTheme,
	"neon":       NeonTheme,
	"pastel":     PastelTheme,
	"monochrome": MonochromeTheme,
}

// ThemeByName returns a named theme and whether the name was known.
// Unknown names return the default theme.
func ThemeByName(name string) (Theme, bool) {
	if f, ok := themes[name]; ok {
		return f(), true
	}
	return DefaultTheme(), false
}

// Global theme variable (can be changed at runtime)
var currentTheme = DefaultTheme()

// SetTheme sets the global theme.
func SetTheme(theme Theme) {
	currentTheme = theme
}

// GetTheme returns the current global theme.
func GetTheme() Theme {
	return currentTheme
}
