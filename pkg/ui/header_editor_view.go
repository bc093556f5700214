package ui

import (
	"strings"

	"github.com/bjartek/mailprobe/pkg/argument"
	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/headers"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const removeControl = "[x]"

// headerCell is a focusable cell of a header row
type headerCell int

const (
	nameCell headerCell = iota
	valueCell
	removeCell
)

// ExitDirection tells the parent form where focus went when the editor let go of it
type ExitDirection int

const (
	ExitNone ExitDirection = iota
	ExitStay
	ExitNext
	ExitPrev
)

type headerRowInputs struct {
	id    headers.RowID
	name  textinput.Model
	value textinput.Model
}

// HeaderEditorView draws a headers.Editor as rows of name and value inputs
type HeaderEditorView struct {
	editor  *headers.Editor
	rows    []headerRowInputs
	row     int
	cell    headerCell
	focused bool
	exit    ExitDirection
	keys    HeaderEditorKeyMap
	cfg     config.EditorConfig
	renders int
}

// NewHeaderEditorView creates an empty header editor view
func NewHeaderEditorView(cfg config.EditorConfig) *HeaderEditorView {
	v := &HeaderEditorView{
		rows: make([]headerRowInputs, 0),
		keys: DefaultHeaderEditorKeyMap(),
		cfg:  cfg,
	}
	v.editor = headers.NewEditor(headers.WithRenderer(v.render))
	return v
}

// Editor returns the underlying editor
func (v *HeaderEditorView) Editor() *headers.Editor {
	return v.editor
}

// Import replaces all rows with the given header fields
func (v *HeaderEditorView) Import(args argument.Arguments) {
	v.editor.Import(args)
}

// Export returns the header fields in row order
func (v *HeaderEditorView) Export() argument.Arguments {
	return v.editor.Export()
}

// Clear removes every row
func (v *HeaderEditorView) Clear() {
	v.editor.Clear()
}

// render rebuilds the inputs from an editor snapshot, keeping the inputs of surviving rows
func (v *HeaderEditorView) render(s headers.Snapshot) {
	v.renders++

	existing := make(map[headers.RowID]headerRowInputs, len(v.rows))
	for _, r := range v.rows {
		existing[r.id] = r
	}

	rows := make([]headerRowInputs, len(s.Rows))
	for i, r := range s.Rows {
		if in, ok := existing[r.ID]; ok {
			rows[i] = in
			continue
		}
		rows[i] = v.newRowInputs(r)
	}
	v.rows = rows

	if v.row >= len(v.rows) {
		v.row = len(v.rows) - 1
	}
	if v.row < 0 {
		v.row = 0
	}
	v.applyFocus()
}

func (v *HeaderEditorView) newRowInputs(r headers.Row) headerRowInputs {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Name"
	name.Width = v.cfg.NameWidth
	// Unlimited, so imported values survive an edit unchanged
	name.CharLimit = 0
	name.SetValue(r.Name)

	value := textinput.New()
	value.Prompt = ""
	value.Placeholder = "Value"
	value.Width = v.cfg.ValueWidth
	value.CharLimit = 0
	value.SetValue(r.Value)

	return headerRowInputs{id: r.ID, name: name, value: value}
}

// Focus gives the editor keyboard focus, starting at the first cell
func (v *HeaderEditorView) Focus() {
	v.focused = true
	v.exit = ExitNone
	v.row = 0
	v.cell = nameCell
	v.applyFocus()
}

// FocusLast gives the editor keyboard focus, starting at the last cell
func (v *HeaderEditorView) FocusLast() {
	v.focused = true
	v.exit = ExitNone
	v.row = len(v.rows) - 1
	if v.row < 0 {
		v.row = 0
	}
	v.cell = removeCell
	v.applyFocus()
}

// Blur removes keyboard focus
func (v *HeaderEditorView) Blur() {
	v.focused = false
	v.applyFocus()
}

// Focused reports whether the editor has keyboard focus
func (v *HeaderEditorView) Focused() bool {
	return v.focused
}

// ExitDirection returns where focus went the last time the editor released it
func (v *HeaderEditorView) ExitDirection() ExitDirection {
	return v.exit
}

func (v *HeaderEditorView) leave(dir ExitDirection) {
	v.exit = dir
	v.Blur()
}

func (v *HeaderEditorView) applyFocus() {
	for i := range v.rows {
		v.rows[i].name.Blur()
		v.rows[i].value.Blur()
	}
	if !v.focused || len(v.rows) == 0 {
		return
	}
	switch v.cell {
	case nameCell:
		v.rows[v.row].name.Focus()
	case valueCell:
		v.rows[v.row].value.Focus()
	}
}

// Update handles keys while the editor is focused
func (v *HeaderEditorView) Update(msg tea.Msg) (*HeaderEditorView, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !v.focused {
		return v, nil
	}

	switch {
	case key.Matches(keyMsg, v.keys.AddRow):
		id := v.editor.AddRow()
		v.row = v.editor.Index(id)
		v.cell = nameCell
		v.applyFocus()
		return v, nil

	case key.Matches(keyMsg, v.keys.RemoveRow):
		v.removeFocused()
		return v, nil

	case key.Matches(keyMsg, v.keys.NextCell):
		v.move(1)
		return v, nil

	case key.Matches(keyMsg, v.keys.PrevCell):
		v.move(-1)
		return v, nil

	case key.Matches(keyMsg, v.keys.Leave):
		v.leave(ExitStay)
		return v, nil
	}

	if len(v.rows) == 0 {
		return v, nil
	}

	r := &v.rows[v.row]
	var cmd tea.Cmd
	switch v.cell {
	case nameCell:
		r.name, cmd = r.name.Update(keyMsg)
		v.editor.SetName(r.id, r.name.Value())
	case valueCell:
		r.value, cmd = r.value.Update(keyMsg)
		v.editor.SetValue(r.id, r.value.Value())
	case removeCell:
		if key.Matches(keyMsg, v.keys.Press) {
			v.removeFocused()
		}
	}
	return v, cmd
}

func (v *HeaderEditorView) removeFocused() {
	if len(v.rows) == 0 {
		return
	}
	v.editor.RemoveRow(v.rows[v.row].id)
}

// move walks the cells row by row and releases focus past either end
func (v *HeaderEditorView) move(delta int) {
	if len(v.rows) == 0 {
		if delta > 0 {
			v.leave(ExitNext)
		} else {
			v.leave(ExitPrev)
		}
		return
	}

	pos := v.row*3 + int(v.cell) + delta
	if pos < 0 {
		v.leave(ExitPrev)
		return
	}
	if pos >= len(v.rows)*3 {
		v.leave(ExitNext)
		return
	}
	v.row = pos / 3
	v.cell = headerCell(pos % 3)
	v.applyFocus()
}

// View renders the label row and one line per header row
func (v *HeaderEditorView) View() string {
	if !v.editor.LabelsVisible() {
		return dimStyle.Render("No extra header fields. Press ctrl+n while editing to add one.")
	}

	nameCol := lipgloss.NewStyle().Width(v.cfg.NameWidth + 2)
	valueCol := lipgloss.NewStyle().Width(v.cfg.ValueWidth + 2)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(nameCol.Render(labelStyle.Render("Name")))
	b.WriteString(valueCol.Render(labelStyle.Render("Value")))
	b.WriteString("\n")

	for i, r := range v.rows {
		marker := "  "
		if v.focused && i == v.row {
			marker = editingStyle.Render("▶ ")
		}

		remove := dimStyle.Render(removeControl)
		if v.focused && i == v.row && v.cell == removeCell {
			remove = removeStyle.Bold(true).Render(removeControl)
		}

		b.WriteString(marker)
		b.WriteString(nameCol.Render(r.name.View()))
		b.WriteString(valueCol.Render(r.value.View()))
		b.WriteString(remove)
		if i < len(v.rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// KeyMap returns the header editor bindings
func (v *HeaderEditorView) KeyMap() help.KeyMap {
	return v.keys
}
