package tabbedtui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
)

// TabbedModelPage is a view that can live in a tab
type TabbedModelPage interface {
	tea.Model

	// Name returns the display name for this tab
	Name() string

	// KeyMap returns the key bindings for this tab (for help display)
	KeyMap() help.KeyMap

	// FooterView returns optional content rendered below the page
	FooterView() string

	// IsCapturingInput returns true while the tab edits text and should
	// receive ALL keys, skipping global key handling
	IsCapturingInput() bool
}

// Badger is implemented by pages that show a short status next to their tab name
type Badger interface {
	Badge() string
}

// Guard is implemented by pages holding work that quitting would lose.
// UnsavedChanges describes that work, or returns "" when there is none.
type Guard interface {
	UnsavedChanges() string
}

// Activator is implemented by pages that want to know when they are shown or hidden
type Activator interface {
	SetActive(active bool)
}
