package tabbedtui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors the tab bar and footer are drawn with
type Palette struct {
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

// DefaultPalette is Solarized Dark
func DefaultPalette() Palette {
	return Palette{
		Primary: lipgloss.Color("#268bd2"),
		Text:    lipgloss.Color("#93a1a1"),
		Muted:   lipgloss.Color("#586e75"),
		Warning: lipgloss.Color("#cb4b16"),
	}
}

// Styles holds the styling of the tab bar, the quit warning and the help footer
type Styles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Badge     lipgloss.Style
	Rule      lipgloss.Style
	Hint      lipgloss.Style
	Warning   lipgloss.Style
	Help      help.Styles
}

// NewStyles derives every style from one palette
func NewStyles(p Palette) Styles {
	h := help.New().Styles
	h.FullKey = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	h.FullDesc = lipgloss.NewStyle().Foreground(p.Text)
	h.FullSeparator = lipgloss.NewStyle().Foreground(p.Muted)

	return Styles{
		Tab:       lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(p.Primary).Bold(true).Underline(true).Padding(0, 1),
		Badge:     lipgloss.NewStyle().Foreground(p.Warning),
		Rule:      lipgloss.NewStyle().Foreground(p.Muted),
		Hint:      lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		Warning:   lipgloss.NewStyle().Foreground(p.Warning).Bold(true),
		Help:      h,
	}
}
