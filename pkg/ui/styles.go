package ui

import (
	"github.com/bjartek/mailprobe/pkg/tabbedtui"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Solarized Dark color palette
	base03 = lipgloss.Color("#002b36") // background
	base01 = lipgloss.Color("#586e75") // comments / borders
	base1  = lipgloss.Color("#93a1a1") // emphasized content

	solarBlue   = lipgloss.Color("#268bd2")
	solarCyan   = lipgloss.Color("#2aa198")
	solarGreen  = lipgloss.Color("#859900")
	solarYellow = lipgloss.Color("#b58900")
	solarOrange = lipgloss.Color("#cb4b16")
	solarRed    = lipgloss.Color("#dc322f")

	// Semantic color mappings
	primaryColor   = solarBlue
	secondaryColor = solarCyan
	accentColor    = base1
	mutedColor     = base01
	borderColor    = base01
	successColor   = solarGreen
	errorColor     = solarRed
	warningColor   = solarOrange
	highlightColor = solarYellow

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cursorStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	editingStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	removeStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)
)

// GetTabbedStyles returns the tabbedtui.Styles configured with our theme colors
func GetTabbedStyles() tabbedtui.Styles {
	return tabbedtui.NewStyles(tabbedtui.Palette{
		Primary: primaryColor,
		Text:    accentColor,
		Muted:   mutedColor,
		Warning: warningColor,
	})
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(base03).
		Background(solarYellow).
		Bold(false)
	return s
}
