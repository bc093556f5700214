package tabbedtui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TabbedModel switches between TabbedModelPage views and renders a tab bar and help footer
type TabbedModel struct {
	tabs      []TabbedModelPage
	activeTab int
	width     int
	height    int
	ready     bool
	keys      TabbedModelKeyMap
	styles    Styles
	help      help.Model
	showHelp  bool

	// quitWarning is set after a guarded quit; the next quit confirms it
	quitWarning string
}

// TabbedModelKeyMap defines keybindings for tab navigation
type TabbedModelKeyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Tabs      []key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the navigation keys for n tabs, numbered from 1
func DefaultKeyMap(n int) TabbedModelKeyMap {
	tabs := make([]key.Binding, n)
	for i := range tabs {
		k := strconv.Itoa(i + 1)
		tabs[i] = key.NewBinding(key.WithKeys(k), key.WithHelp(k, "go to tab "+k))
	}
	return TabbedModelKeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→/l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("shift+tab/←/h", "previous tab"),
		),
		Tabs: tabs,
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit without asking"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k TabbedModelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.PrevTab, k.Quit, k.Help}
}

func (k TabbedModelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append([]key.Binding{k.NextTab, k.PrevTab}, k.Tabs...),
		{k.Quit, k.ForceQuit, k.Help},
	}
}

// Option is a functional option for configuring TabbedModel
type Option func(*TabbedModel)

// WithStyles sets the styles for the tabbed model
func WithStyles(styles Styles) Option {
	return func(m *TabbedModel) {
		m.styles = styles
	}
}

// WithActiveTab selects the tab shown first, by name. Unknown names keep the first tab.
func WithActiveTab(name string) Option {
	return func(m *TabbedModel) {
		for i, tab := range m.tabs {
			if strings.EqualFold(tab.Name(), name) {
				m.activeTab = i
				return
			}
		}
	}
}

// NewModel creates a tabbed model over the given pages
func NewModel(tabs []TabbedModelPage, opts ...Option) TabbedModel {
	m := TabbedModel{
		tabs:   tabs,
		keys:   DefaultKeyMap(len(tabs)),
		styles: NewStyles(DefaultPalette()),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.ShowAll = true
	m.help.Styles = m.styles.Help

	if a, ok := m.tabs[m.activeTab].(Activator); ok {
		a.SetActive(true)
	}
	return m
}

// ActiveTab returns the active tab
func (m TabbedModel) ActiveTab() TabbedModelPage {
	return m.tabs[m.activeTab]
}

// Tabs returns all tabs in display order
func (m TabbedModel) Tabs() []TabbedModelPage {
	return m.tabs
}

// Init implements tea.Model
func (m TabbedModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.tabs))
	for _, tab := range m.tabs {
		cmds = append(cmds, tab.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (m TabbedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.resizeTabs()
		return m, nil
	}

	// Every other message goes to every tab, each decides whether it cares
	var cmds []tea.Cmd
	for i := range m.tabs {
		model, cmd := m.tabs[i].Update(msg)
		m.tabs[i] = model.(TabbedModelPage)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m TabbedModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tabs[m.activeTab].IsCapturingInput() {
		return m.forward(msg)
	}
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	m.quitWarning = ""

	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.switchTo(m.activeTab + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTo(m.activeTab - 1)
		return m, nil
	}
	for i, tabKey := range m.keys.Tabs {
		if key.Matches(msg, tabKey) {
			m.switchTo(i)
			return m, nil
		}
	}

	next, cmd := m.forward(msg)
	m = next.(TabbedModel)
	// A command means the tab consumed the key
	if cmd == nil && key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.resizeTabs()
	}
	return m, cmd
}

func (m TabbedModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.tabs[m.activeTab].Update(msg)
	m.tabs[m.activeTab] = model.(TabbedModelPage)
	return m, cmd
}

// quit stops the program unless a page has unsaved work. Then the first quit
// only shows a warning and a second quit in a row confirms it.
func (m TabbedModel) quit() (tea.Model, tea.Cmd) {
	if m.quitWarning == "" {
		if reason := m.unsavedChanges(); reason != "" {
			m.quitWarning = reason
			return m, nil
		}
	}
	return m, tea.Quit
}

func (m TabbedModel) unsavedChanges() string {
	for _, tab := range m.tabs {
		if g, ok := tab.(Guard); ok {
			if reason := g.UnsavedChanges(); reason != "" {
				return reason
			}
		}
	}
	return ""
}

// QuitWarning returns the pending unsaved-work warning, if a quit was refused
func (m TabbedModel) QuitWarning() string {
	return m.quitWarning
}

// switchTo activates tab i, wrapping around at both ends
func (m *TabbedModel) switchTo(i int) {
	n := len(m.tabs)
	i = ((i % n) + n) % n
	if i == m.activeTab {
		return
	}
	if a, ok := m.tabs[m.activeTab].(Activator); ok {
		a.SetActive(false)
	}
	m.activeTab = i
	if a, ok := m.tabs[m.activeTab].(Activator); ok {
		a.SetActive(true)
	}
}

func (m *TabbedModel) resizeTabs() {
	size := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	for i := range m.tabs {
		model, _ := m.tabs[i].Update(size)
		m.tabs[i] = model.(TabbedModelPage)
	}
}

// contentHeight is what remains for pages below the tab bar and above the help
func (m TabbedModel) contentHeight() int {
	return max(0, m.height-lipgloss.Height(m.renderHeader())-lipgloss.Height(m.helpView()))
}

func (m TabbedModel) helpView() string {
	if !m.showHelp {
		return ""
	}
	return m.help.View(NewCombinedKeyMap(m.keys, m.tabs[m.activeTab].KeyMap()))
}

// View implements tea.Model
func (m TabbedModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	var footer []string
	if v := m.tabs[m.activeTab].FooterView(); v != "" {
		footer = append(footer, v)
	}
	if m.quitWarning != "" {
		footer = append(footer, m.styles.Warning.Render(m.quitWarning+", press q again to quit"))
	}
	if v := m.helpView(); v != "" {
		footer = append(footer, v)
	}

	content := m.tabs[m.activeTab].View()
	if h := m.height - lipgloss.Height(header) - lipgloss.Height(strings.Join(footer, "\n")); h > 0 {
		content = lipgloss.NewStyle().Height(h).MaxHeight(h).Render(content)
	}

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header, content}, footer...)...)
}

// renderHeader draws "1 Sampler │ 2 Outbox 3" style tabs with badges, a help hint
// on the right, and a rule below
func (m TabbedModel) renderHeader() string {
	tabs := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		label := strconv.Itoa(i+1) + " " + tab.Name()
		if b, ok := tab.(Badger); ok {
			if badge := b.Badge(); badge != "" {
				label += " " + m.styles.Badge.Render(badge)
			}
		}
		style := m.styles.Tab
		if i == m.activeTab {
			style = m.styles.ActiveTab
		}
		tabs = append(tabs, style.Render(label))
	}

	row := strings.Join(tabs, m.styles.Rule.Render("│"))
	hint := m.styles.Hint.Render("? help")
	gap := max(1, m.width-lipgloss.Width(row)-lipgloss.Width(hint))
	line := row + strings.Repeat(" ", gap) + hint

	return line + "\n" + m.styles.Rule.Render(strings.Repeat("─", max(m.width, 1)))
}

// combinedKeyMap lists the tab keys followed by the keys of the active page
type combinedKeyMap struct {
	tabKeys       help.KeyMap
	componentKeys help.KeyMap
}

func (c combinedKeyMap) ShortHelp() []key.Binding {
	var keys []key.Binding
	for _, km := range []help.KeyMap{c.tabKeys, c.componentKeys} {
		if km != nil {
			keys = append(keys, km.ShortHelp()...)
		}
	}
	return keys
}

func (c combinedKeyMap) FullHelp() [][]key.Binding {
	var groups [][]key.Binding
	for _, km := range []help.KeyMap{c.tabKeys, c.componentKeys} {
		if km != nil {
			groups = append(groups, km.FullHelp()...)
		}
	}
	return groups
}

// NewCombinedKeyMap creates a combined keymap from tab keys and component keys
func NewCombinedKeyMap(tabKeys, componentKeys help.KeyMap) help.KeyMap {
	return combinedKeyMap{tabKeys: tabKeys, componentKeys: componentKeys}
}
