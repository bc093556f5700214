package ui

import (
	"strings"
	"testing"

	"github.com/bjartek/mailprobe/pkg/argument"
	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/headers"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeaderEditor() *HeaderEditorView {
	return NewHeaderEditorView(config.DefaultConfig().UI.Editor)
}

func typeText(v *HeaderEditorView, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(v *HeaderEditorView, t tea.KeyType) {
	v.Update(tea.KeyMsg{Type: t})
}

func TestHeaderEditorViewStartsWithoutLabels(t *testing.T) {
	v := newTestHeaderEditor()

	view := v.View()

	assert.NotContains(t, view, "Name")
	assert.NotContains(t, view, removeControl)
	assert.Equal(t, headers.Empty, v.Editor().State())
}

func TestHeaderEditorViewIgnoresKeysWhenBlurred(t *testing.T) {
	v := newTestHeaderEditor()

	press(v, tea.KeyCtrlN)

	assert.Equal(t, 0, v.Editor().Len())
}

func TestHeaderEditorViewAddAndType(t *testing.T) {
	v := newTestHeaderEditor()
	v.Focus()

	press(v, tea.KeyCtrlN)
	typeText(v, "X-Test")
	press(v, tea.KeyTab)
	typeText(v, "1")

	view := v.View()
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "Value")
	assert.Contains(t, view, removeControl)

	out := v.Export()
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "X-Test", out.Get(0).Name())
	assert.Equal(t, "1", out.Get(0).Value())
}

func TestHeaderEditorViewKeepsDuplicatesAndOrder(t *testing.T) {
	v := newTestHeaderEditor()
	v.Focus()

	for _, value := range []string{"a", "b"} {
		press(v, tea.KeyCtrlN)
		typeText(v, "X-Dup")
		press(v, tea.KeyTab)
		typeText(v, value)
	}

	out := v.Export()
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []string{"X-Dup", "X-Dup"}, out.Names())
	assert.Equal(t, "a", out.Get(0).Value())
	assert.Equal(t, "b", out.Get(1).Value())
}

func TestHeaderEditorViewEditKeepsLongValues(t *testing.T) {
	v := newTestHeaderEditor()
	long := strings.Repeat("v", 1200)
	v.Import(argument.Arguments{argument.NewArgument("X-"+strings.Repeat("n", 1200), long)})
	v.Focus()

	typeText(v, "!")
	press(v, tea.KeyTab)
	press(v, tea.KeyBackspace)

	out := v.Export()
	require.Equal(t, 1, out.Len())
	assert.Len(t, out.Get(0).Name(), 1203)
	assert.Equal(t, long[:1199], out.Get(0).Value())
}

func TestHeaderEditorViewRemoveControl(t *testing.T) {
	v := newTestHeaderEditor()
	v.Focus()

	press(v, tea.KeyCtrlN)
	press(v, tea.KeyTab)
	press(v, tea.KeyTab)
	press(v, tea.KeyEnter)

	assert.Equal(t, 0, v.Editor().Len())
	assert.False(t, v.Editor().LabelsVisible())
	assert.NotContains(t, v.View(), "Value")
	assert.True(t, v.Focused())
}

func TestHeaderEditorViewRemoveFocusedRow(t *testing.T) {
	v := newTestHeaderEditor()
	v.Import(argument.Arguments{
		argument.NewArgument("A", "1"),
		argument.NewArgument("B", "2"),
		argument.NewArgument("C", "3"),
	})
	v.Focus()

	// move to the second row
	for i := 0; i < 3; i++ {
		press(v, tea.KeyTab)
	}
	press(v, tea.KeyCtrlX)

	assert.Equal(t, []string{"A", "C"}, v.Export().Names())

	// the last press finds no rows left
	press(v, tea.KeyCtrlX)
	press(v, tea.KeyCtrlX)
	press(v, tea.KeyCtrlX)
	assert.Equal(t, 0, v.Editor().Len())
}

func TestHeaderEditorViewImportRendersOnce(t *testing.T) {
	v := newTestHeaderEditor()

	v.Import(argument.Arguments{
		argument.NewArgument("X-A", "1"),
		argument.NewArgument("x-b", ""),
	})

	assert.Equal(t, 1, v.renders)
	require.Len(t, v.rows, 2)
	assert.Equal(t, "X-A", v.rows[0].name.Value())
	assert.Equal(t, "1", v.rows[0].value.Value())
	assert.Equal(t, "x-b", v.rows[1].name.Value())

	v.Clear()
	assert.Equal(t, 2, v.renders)
	assert.Empty(t, v.rows)
}

func TestHeaderEditorViewEditsDoNotRender(t *testing.T) {
	v := newTestHeaderEditor()
	v.Focus()
	press(v, tea.KeyCtrlN)
	renders := v.renders

	typeText(v, "X-Quiet")

	assert.Equal(t, renders, v.renders)
	assert.Equal(t, "X-Quiet", v.Export().Get(0).Name())
}

func TestHeaderEditorViewExitDirections(t *testing.T) {
	tests := map[string]struct {
		rows int
		keys []tea.KeyType
		want ExitDirection
	}{
		"esc stays": {
			rows: 1,
			keys: []tea.KeyType{tea.KeyEsc},
			want: ExitStay,
		},
		"shift+tab before first cell": {
			rows: 1,
			keys: []tea.KeyType{tea.KeyShiftTab},
			want: ExitPrev,
		},
		"tab past last cell": {
			rows: 1,
			keys: []tea.KeyType{tea.KeyTab, tea.KeyTab, tea.KeyTab},
			want: ExitNext,
		},
		"tab on empty editor": {
			rows: 0,
			keys: []tea.KeyType{tea.KeyTab},
			want: ExitNext,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			v := newTestHeaderEditor()
			args := argument.Arguments{}
			for i := 0; i < tc.rows; i++ {
				args.Add(argument.NewArgument("X-Row", ""))
			}
			v.Import(args)
			v.Focus()

			for _, k := range tc.keys {
				press(v, k)
			}

			assert.False(t, v.Focused())
			assert.Equal(t, tc.want, v.ExitDirection())
		})
	}
}

func TestHeaderEditorViewFocusLast(t *testing.T) {
	v := newTestHeaderEditor()
	v.Import(argument.Arguments{
		argument.NewArgument("A", "1"),
		argument.NewArgument("B", "2"),
	})

	v.FocusLast()
	press(v, tea.KeyEnter)

	assert.Equal(t, []string{"A"}, v.Export().Names())
}
