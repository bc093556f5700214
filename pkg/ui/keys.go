package ui

import "github.com/charmbracelet/bubbles/key"

// HeaderEditorKeyMap defines the key bindings of the header field editor.
type HeaderEditorKeyMap struct {
	AddRow    key.Binding
	RemoveRow key.Binding
	NextCell  key.Binding
	PrevCell  key.Binding
	Press     key.Binding
	Leave     key.Binding
}

// DefaultHeaderEditorKeyMap returns the default header editor bindings.
func DefaultHeaderEditorKeyMap() HeaderEditorKeyMap {
	return HeaderEditorKeyMap{
		AddRow: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "add header"),
		),
		RemoveRow: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "remove header"),
		),
		NextCell: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next cell"),
		),
		PrevCell: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous cell"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press [x]"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave headers"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k HeaderEditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddRow, k.RemoveRow, k.Leave}
}

// FullHelp returns keybindings for the expanded help view.
func (k HeaderEditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddRow, k.RemoveRow, k.Press},
		{k.NextCell, k.PrevCell, k.Leave},
	}
}

// SamplerKeyMap defines the key bindings of the sampler form.
type SamplerKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Edit      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Stop      key.Binding
	Browse    key.Binding
	Save      key.Binding
	Load      key.Binding
	Reset     key.Binding
	Send      key.Binding
	DryRun    key.Binding
}

// DefaultSamplerKeyMap returns the default sampler bindings.
func DefaultSamplerKeyMap() SamplerKeyMap {
	return SamplerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "edit/toggle"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop editing"),
		),
		Browse: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "browse file"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save plan"),
		),
		Load: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "load plan"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Send: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "send"),
		),
		DryRun: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "dry run"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k SamplerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Send, k.DryRun, k.Save}
}

// FullHelp returns keybindings for the expanded help view.
func (k SamplerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit, k.Stop},
		{k.NextField, k.PrevField, k.Browse},
		{k.Save, k.Load, k.Reset},
		{k.Send, k.DryRun},
	}
}
