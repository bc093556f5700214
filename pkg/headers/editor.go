// Package headers holds the header-field list editor: an ordered set of editable
// name/value rows that can be imported from and exported to argument.Arguments.
//
// The editor does not know about any widget toolkit. Front ends call AddRow,
// RemoveRow, Clear and Import in response to user actions and redraw from the
// Snapshot handed to the renderer.
package headers

import (
	"github.com/bjartek/mailprobe/pkg/argument"
)

// RowID identifies a row for the lifetime of an editor. IDs are never reused.
type RowID uint64

// State is the observable structural state of the editor.
type State int

const (
	// Empty means no rows and hidden column labels.
	Empty State = iota
	// Populated means at least one row and visible column labels.
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// Row is one editable header field.
type Row struct {
	ID    RowID
	Name  string
	Value string
}

// Snapshot is what a renderer needs to redraw the header area.
type Snapshot struct {
	Rows          []Row
	LabelsVisible bool
}

// Renderer redraws the header area. It is called once per structural operation.
type Renderer func(Snapshot)

// Option configures an Editor.
type Option func(*Editor)

// WithRenderer sets the function called after every structural change.
func WithRenderer(r Renderer) Option {
	return func(e *Editor) {
		e.render = r
	}
}

// Editor owns the ordered header rows.
type Editor struct {
	rows   []Row
	nextID RowID
	render Renderer
}

// NewEditor creates an empty editor.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		rows:   make([]Row, 0),
		nextID: 1,
		render: func(Snapshot) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddRow appends an empty row and returns its id.
func (e *Editor) AddRow() RowID {
	id := e.appendRow("", "")
	e.rerender()
	return id
}

// RemoveRow removes the row with the given id. Unknown ids are ignored.
func (e *Editor) RemoveRow(id RowID) {
	i := e.Index(id)
	if i < 0 {
		return
	}
	e.rows = append(e.rows[:i], e.rows[i+1:]...)
	e.rerender()
}

// Clear removes every row and redraws once.
func (e *Editor) Clear() {
	e.clearRows()
	e.rerender()
}

// Export returns one Argument per row in row order. Blank rows are included and
// metadata is left unset. It does not modify the editor.
func (e *Editor) Export() argument.Arguments {
	out := make(argument.Arguments, 0, len(e.rows))
	for _, r := range e.rows {
		out = append(out, argument.NewArgument(r.Name, r.Value))
	}
	return out
}

// Import replaces all rows with the given Arguments, in order, and redraws once.
// Metadata is dropped.
func (e *Editor) Import(args argument.Arguments) {
	e.clearRows()
	for _, a := range args {
		if a == nil {
			continue
		}
		e.appendRow(a.Name(), a.Value())
	}
	e.rerender()
}

// SetName updates the name cell of a row. It reports whether the row exists.
func (e *Editor) SetName(id RowID, name string) bool {
	i := e.Index(id)
	if i < 0 {
		return false
	}
	e.rows[i].Name = name
	return true
}

// SetValue updates the value cell of a row. It reports whether the row exists.
func (e *Editor) SetValue(id RowID, value string) bool {
	i := e.Index(id)
	if i < 0 {
		return false
	}
	e.rows[i].Value = value
	return true
}

// Row returns a copy of the row with the given id.
func (e *Editor) Row(id RowID) (Row, bool) {
	i := e.Index(id)
	if i < 0 {
		return Row{}, false
	}
	return e.rows[i], true
}

// Index returns the position of a row, or -1.
func (e *Editor) Index(id RowID) int {
	for i, r := range e.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Rows returns a copy of the rows in order.
func (e *Editor) Rows() []Row {
	out := make([]Row, len(e.rows))
	copy(out, e.rows)
	return out
}

// IDs returns the row ids in order.
func (e *Editor) IDs() []RowID {
	ids := make([]RowID, len(e.rows))
	for i, r := range e.rows {
		ids[i] = r.ID
	}
	return ids
}

// Len returns the number of rows.
func (e *Editor) Len() int {
	return len(e.rows)
}

// LabelsVisible reports whether the Name/Value column labels are shown.
func (e *Editor) LabelsVisible() bool {
	return len(e.rows) > 0
}

// State is Populated while any row exists, otherwise Empty.
func (e *Editor) State() State {
	if e.LabelsVisible() {
		return Populated
	}
	return Empty
}

// Snapshot returns the current render state.
func (e *Editor) Snapshot() Snapshot {
	return Snapshot{
		Rows:          e.Rows(),
		LabelsVisible: e.LabelsVisible(),
	}
}

func (e *Editor) appendRow(name, value string) RowID {
	id := e.nextID
	e.nextID++
	e.rows = append(e.rows, Row{ID: id, Name: name, Value: value})
	return id
}

func (e *Editor) clearRows() {
	e.rows = e.rows[:0]
}

func (e *Editor) rerender() {
	e.render(e.Snapshot())
}
