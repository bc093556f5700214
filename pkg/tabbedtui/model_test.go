package tabbedtui

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeys struct{}

func (fakeKeys) ShortHelp() []key.Binding  { return nil }
func (fakeKeys) FullHelp() [][]key.Binding { return nil }

type fakePage struct {
	name      string
	capturing bool
	keys      []string
	width     int
	height    int
}

func (p *fakePage) Init() tea.Cmd { return nil }

func (p *fakePage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		p.keys = append(p.keys, msg.String())
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	}
	return p, nil
}

func (p *fakePage) View() string           { return p.name + " content" }
func (p *fakePage) Name() string           { return p.name }
func (p *fakePage) KeyMap() help.KeyMap    { return fakeKeys{} }
func (p *fakePage) FooterView() string     { return "" }
func (p *fakePage) IsCapturingInput() bool { return p.capturing }

// guardedPage reports unsaved work and tracks whether it is shown
type guardedPage struct {
	fakePage
	unsaved string
	badge   string
	active  bool
}

func (p *guardedPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p.fakePage.Update(msg)
	return p, nil
}

func (p *guardedPage) UnsavedChanges() string { return p.unsaved }
func (p *guardedPage) Badge() string          { return p.badge }
func (p *guardedPage) SetActive(active bool)  { p.active = active }

func newPages() (*fakePage, *fakePage, *fakePage) {
	return &fakePage{name: "Sampler"}, &fakePage{name: "Outbox"}, &fakePage{name: "Logs"}
}

func send(t *testing.T, m TabbedModel, msg tea.Msg) TabbedModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(TabbedModel)
	require.True(t, ok)
	return out
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabNavigation(t *testing.T) {
	sampler, outbox, logs := newPages()
	m := NewModel([]TabbedModelPage{sampler, outbox, logs})

	m = send(t, m, keyMsg("tab"))
	assert.Equal(t, "Outbox", m.ActiveTab().Name())

	m = send(t, m, keyMsg("shift+tab"))
	m = send(t, m, keyMsg("shift+tab"))
	assert.Equal(t, "Logs", m.ActiveTab().Name())

	m = send(t, m, keyMsg("1"))
	assert.Equal(t, "Sampler", m.ActiveTab().Name())
}

func TestCapturingTabReceivesAllKeys(t *testing.T) {
	sampler, outbox, logs := newPages()
	sampler.capturing = true
	m := NewModel([]TabbedModelPage{sampler, outbox, logs})

	m = send(t, m, keyMsg("tab"))
	m = send(t, m, keyMsg("2"))
	m = send(t, m, keyMsg("q"))

	assert.Equal(t, "Sampler", m.ActiveTab().Name())
	assert.Equal(t, []string{"tab", "2", "q"}, sampler.keys)
}

func TestWithActiveTab(t *testing.T) {
	sampler, outbox, logs := newPages()

	m := NewModel([]TabbedModelPage{sampler, outbox, logs}, WithActiveTab("outbox"))
	assert.Equal(t, "Outbox", m.ActiveTab().Name())

	m = NewModel([]TabbedModelPage{sampler, outbox, logs}, WithActiveTab("missing"))
	assert.Equal(t, "Sampler", m.ActiveTab().Name())
}

func TestWindowSizeReachesEveryTab(t *testing.T) {
	sampler, outbox, logs := newPages()
	m := NewModel([]TabbedModelPage{sampler, outbox, logs})

	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, p := range []*fakePage{sampler, outbox, logs} {
		assert.Equal(t, 120, p.width)
		assert.Equal(t, 38, p.height, "tab bar and rule take two lines, help is hidden")
	}

	view := m.View()
	assert.Contains(t, view, "1 Sampler")
	assert.Contains(t, view, "Sampler content")

	m = send(t, m, keyMsg("?"))
	assert.Less(t, sampler.height, 38, "help takes room from the pages")
	assert.Contains(t, m.View(), "toggle help")
}

func TestQuit(t *testing.T) {
	sampler, outbox, logs := newPages()
	m := NewModel([]TabbedModelPage{sampler, outbox, logs})

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestForceQuit(t *testing.T) {
	sampler := &guardedPage{fakePage: fakePage{name: "Sampler"}, unsaved: "unsaved test plan"}
	m := NewModel([]TabbedModelPage{sampler})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitWithUnsavedChanges(t *testing.T) {
	sampler := &guardedPage{fakePage: fakePage{name: "Sampler"}, unsaved: "unsaved test plan"}
	_, outbox, _ := newPages()
	m := NewModel([]TabbedModelPage{sampler, outbox})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	next, cmd := m.Update(keyMsg("q"))
	m = next.(TabbedModel)
	assert.Nil(t, cmd)
	assert.Equal(t, "unsaved test plan", m.QuitWarning())
	assert.Contains(t, m.View(), "press q again to quit")

	_, cmd = m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestOtherKeyDisarmsQuit(t *testing.T) {
	sampler := &guardedPage{fakePage: fakePage{name: "Sampler"}, unsaved: "unsaved test plan"}
	_, outbox, _ := newPages()
	m := NewModel([]TabbedModelPage{sampler, outbox})

	m = send(t, m, keyMsg("q"))
	m = send(t, m, keyMsg("tab"))
	assert.Empty(t, m.QuitWarning())

	_, cmd := m.Update(keyMsg("q"))
	assert.Nil(t, cmd)
}

func TestActivatorAndBadge(t *testing.T) {
	sampler, _, _ := newPages()
	logs := &guardedPage{fakePage: fakePage{name: "Logs"}, badge: "2 warn"}
	m := NewModel([]TabbedModelPage{sampler, logs})
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.False(t, logs.active)
	assert.Contains(t, m.View(), "2 Logs 2 warn")

	m = send(t, m, keyMsg("2"))
	assert.True(t, logs.active)

	m = send(t, m, keyMsg("tab"))
	assert.False(t, logs.active)
	assert.Equal(t, "Sampler", m.ActiveTab().Name())
}
