// Package splitview shows a table of messages next to a preview of the selected one.
package splitview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

const (
	defaultTableSplitPercent = 0.3
	defaultEmptyText         = "Nothing to show yet"

	// chrome is the space the table header and preview padding take
	chrome = 4
)

// PreviewMode selects how the selected message is rendered
type PreviewMode int

const (
	// Highlighted renders the message through the Highlighter
	Highlighted PreviewMode = iota
	// Raw shows the bytes as sent, with CRLF line ends marked
	Raw
	// HeadersOnly shows the header section and the body size
	HeadersOnly
	previewModeCount
)

func (p PreviewMode) String() string {
	switch p {
	case Raw:
		return "raw"
	case HeadersOnly:
		return "headers"
	default:
		return "highlighted"
	}
}

// Highlighter renders a raw message for a preview of the given width
type Highlighter func(raw string, width int) string

// ColumnConfig defines a table column
type ColumnConfig struct {
	Name  string
	Width int
}

// RowData is a table row and the message previewed for it
type RowData struct {
	TableRow table.Row
	Message  string // raw RFC 5322 message, empty when nothing was built
	Summary  string // shown above the message
}

// NewRowData creates a new RowData with the given table row
func NewRowData(tableRow table.Row) RowData {
	return RowData{TableRow: tableRow}
}

// WithMessage sets the raw message for the row
func (r RowData) WithMessage(raw string) RowData {
	r.Message = raw
	return r
}

// WithSummary sets the summary text for the row
func (r RowData) WithSummary(summary string) RowData {
	r.Summary = summary
	return r
}

// KeyMap defines key bindings for the split view
type KeyMap struct {
	Zoom    key.Binding
	Unzoom  key.Binding
	Preview key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Zoom, k.Preview}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Zoom, k.Unzoom, k.Preview}}
}

// NewKeyMap creates the default key bindings for the split view
func NewKeyMap() KeyMap {
	return KeyMap{
		Zoom: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space/enter", "zoom message"),
		),
		Unzoom: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "highlighted / raw / headers"),
		),
	}
}

// renderKey identifies one rendering of a row
type renderKey struct {
	row   int
	width int
	mode  PreviewMode
}

// SplitViewModel shows a table on the left and the selected message on the right.
// Zoomed, the message takes the whole area.
type SplitViewModel struct {
	rows              []RowData
	table             table.Model
	preview           viewport.Model
	highlight         Highlighter
	emptyText         string
	Keys              KeyMap
	tableSplitPercent float64
	width             int
	height            int
	zoomed            bool
	mode              PreviewMode

	// cache holds highlighted renderings, the slow part
	cache map[renderKey]string
	// shown is what the preview viewport currently holds
	shown renderKey
}

// Option is a functional option for configuring the split view
type Option func(*SplitViewModel)

// WithTableStyles sets the table styles
func WithTableStyles(styles table.Styles) Option {
	return func(m *SplitViewModel) {
		m.table.SetStyles(styles)
	}
}

// WithTableSplitPercent sets the share of the width given to the table (0.0 to 1.0)
func WithTableSplitPercent(percent float64) Option {
	return func(m *SplitViewModel) {
		m.tableSplitPercent = percent
	}
}

// WithHighlighter sets how messages are rendered in Highlighted mode
func WithHighlighter(h Highlighter) Option {
	return func(m *SplitViewModel) {
		m.highlight = h
	}
}

// WithEmptyText sets the placeholder shown when there are no rows
func WithEmptyText(text string) Option {
	return func(m *SplitViewModel) {
		m.emptyText = text
	}
}

// WithRows sets the initial rows
func WithRows(rows []RowData) Option {
	return func(m *SplitViewModel) {
		m.SetRows(rows)
	}
}

// NewSplitView creates a new split view model
func NewSplitView(columns []ColumnConfig, opts ...Option) *SplitViewModel {
	cols := make([]table.Column, len(columns))
	for i, col := range columns {
		cols[i] = table.Column{Title: col.Name, Width: col.Width}
	}

	m := &SplitViewModel{
		table:             table.New(table.WithColumns(cols), table.WithFocused(true)),
		preview:           viewport.New(0, 0),
		highlight:         wrap.String,
		emptyText:         defaultEmptyText,
		Keys:              NewKeyMap(),
		tableSplitPercent: defaultTableSplitPercent,
		cache:             make(map[renderKey]string),
		shown:             renderKey{row: -1},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model
func (m *SplitViewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *SplitViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cache = make(map[renderKey]string)
		m.shown = renderKey{row: -1}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Zoom):
			m.zoomed = !m.zoomed && len(m.rows) > 0
			return m, nil
		case key.Matches(msg, m.Keys.Unzoom) && m.zoomed:
			m.zoomed = false
			return m, nil
		case key.Matches(msg, m.Keys.Preview):
			m.mode = (m.mode + 1) % previewModeCount
			return m, nil
		}

		var cmd tea.Cmd
		if m.zoomed {
			m.preview, cmd = m.preview.Update(msg)
		} else {
			m.table, cmd = m.table.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// IsFullscreen reports whether the message is zoomed to the whole area
func (m *SplitViewModel) IsFullscreen() bool {
	return m.zoomed
}

// Mode returns how messages are previewed
func (m *SplitViewModel) Mode() PreviewMode {
	return m.mode
}

// AddRow appends a row
func (m *SplitViewModel) AddRow(row RowData) {
	m.rows = append(m.rows, row)
	m.syncTable()
}

// SetRows replaces all rows. Renderings are dropped, since row indexes change meaning.
func (m *SplitViewModel) SetRows(rows []RowData) {
	m.rows = rows
	m.syncTable()
	m.cache = make(map[renderKey]string)
	m.shown = renderKey{row: -1}
	if len(rows) == 0 {
		m.zoomed = false
	}
}

// GetRows returns the current rows
func (m *SplitViewModel) GetRows() []RowData {
	return m.rows
}

// GetCursor returns the current table cursor position
func (m *SplitViewModel) GetCursor() int {
	return m.table.Cursor()
}

// SetCursor moves the table cursor
func (m *SplitViewModel) SetCursor(n int) {
	m.table.SetCursor(n)
}

func (m *SplitViewModel) syncTable() {
	rows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		rows[i] = row.TableRow
	}
	m.table.SetRows(rows)
}

// content renders the summary and the message of a row for the current mode
func (m *SplitViewModel) content(k renderKey) string {
	if k.row < 0 || k.row >= len(m.rows) {
		return "No message selected"
	}
	row := m.rows[k.row]

	var parts []string
	if row.Summary != "" {
		parts = append(parts, row.Summary)
	}
	if row.Message != "" {
		parts = append(parts, m.renderMessage(k, row.Message))
	}
	return strings.Join(parts, "\n\n")
}

func (m *SplitViewModel) renderMessage(k renderKey, raw string) string {
	switch k.mode {
	case Raw:
		return wrap.String(markLineEnds(raw), k.width)
	case HeadersOnly:
		return wrap.String(headerSection(raw), k.width)
	}

	if rendered, ok := m.cache[k]; ok {
		return rendered
	}
	rendered := m.highlight(raw, k.width)
	m.cache[k] = rendered
	return rendered
}

// markLineEnds shows CRLF as ␍ so bare LF line ends stand out
func markLineEnds(raw string) string {
	return strings.ReplaceAll(raw, "\r\n", "␍\n")
}

// headerSection returns the header block and a note on the body size
func headerSection(raw string) string {
	for _, sep := range []string{"\r\n\r\n", "\n\n"} {
		if i := strings.Index(raw, sep); i >= 0 {
			header := strings.ReplaceAll(raw[:i], "\r\n", "\n")
			return fmt.Sprintf("%s\n\n(body: %d bytes)", header, len(raw)-i-len(sep))
		}
	}
	return strings.ReplaceAll(raw, "\r\n", "\n") + "\n\n(no body)"
}

// showRow loads a row into the preview viewport unless it already holds it
func (m *SplitViewModel) showRow(k renderKey) {
	if k == m.shown {
		return
	}
	m.preview.SetContent(lipgloss.NewStyle().Width(k.width).Render(m.content(k)))
	m.preview.GotoTop()
	m.shown = k
}

// KeyMap returns the split view keys combined with the focused component's keys
func (m *SplitViewModel) KeyMap() help.KeyMap {
	if m.zoomed {
		return CombinedKeyMap{SplitView: m.Keys, Viewport: m.preview.KeyMap}
	}
	return CombinedKeyMap{SplitView: m.Keys, Table: m.table.KeyMap}
}

// CombinedKeyMap implements help.KeyMap by combining split view and component keys
type CombinedKeyMap struct {
	SplitView KeyMap
	Viewport  viewport.KeyMap
	Table     table.KeyMap
}

func (k CombinedKeyMap) ShortHelp() []key.Binding {
	return k.SplitView.ShortHelp()
}

func (k CombinedKeyMap) FullHelp() [][]key.Binding {
	result := k.SplitView.FullHelp()
	if k.Viewport.Down.Enabled() {
		return append(result, []key.Binding{k.Viewport.Up, k.Viewport.Down, k.Viewport.PageUp, k.Viewport.PageDown})
	}
	return append(result, []key.Binding{k.Table.LineUp, k.Table.LineDown, k.Table.GotoTop, k.Table.GotoBottom})
}

// View implements tea.Model
func (m *SplitViewModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	bodyHeight := max(1, m.height-chrome)

	if m.zoomed {
		width := max(1, m.width-chrome)
		m.preview.Width = width
		m.preview.Height = bodyHeight
		m.showRow(renderKey{row: m.table.Cursor(), width: width, mode: m.mode})
		return lipgloss.NewStyle().Padding(0, 1).Render(m.preview.View())
	}

	tableWidth := int(float64(m.width) * m.tableSplitPercent)
	previewWidth := m.width - tableWidth
	m.table.SetWidth(tableWidth)
	m.table.SetHeight(bodyHeight)
	tableView := lipgloss.NewStyle().Width(tableWidth).MaxHeight(m.height).Render(m.table.View())

	if len(m.rows) == 0 {
		placeholder := lipgloss.NewStyle().
			Width(previewWidth).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.emptyText)
		return lipgloss.JoinHorizontal(lipgloss.Top, tableView, placeholder)
	}

	m.preview.Width = previewWidth
	m.preview.Height = bodyHeight
	m.showRow(renderKey{row: m.table.Cursor(), width: previewWidth, mode: m.mode})
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, m.preview.View())
}
