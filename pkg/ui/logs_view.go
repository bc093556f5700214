package ui

import (
	"fmt"
	"strings"

	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/logs"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
)

// logMode selects which log lines are shown
type logMode int

const (
	modeAll logMode = iota
	modeInfo
	modeWarnings
	modeTranscript
	logModeCount
)

func (m logMode) String() string {
	switch m {
	case modeInfo:
		return "info and above"
	case modeWarnings:
		return "warnings and errors"
	case modeTranscript:
		return "SMTP transcript"
	default:
		return "all"
	}
}

// consoleLevels maps the level tokens zerolog's console writer prints
var consoleLevels = map[string]zerolog.Level{
	"TRC": zerolog.TraceLevel,
	"DBG": zerolog.DebugLevel,
	"INF": zerolog.InfoLevel,
	"WRN": zerolog.WarnLevel,
	"ERR": zerolog.ErrorLevel,
	"FTL": zerolog.FatalLevel,
	"PNC": zerolog.PanicLevel,
}

// logLine is one received line with the facts the modes filter on
type logLine struct {
	raw        string
	plain      string
	level      zerolog.Level
	transcript bool
}

func parseLogLine(raw string) logLine {
	plain := ansi.Strip(raw)
	l := logLine{raw: raw, plain: plain, level: zerolog.NoLevel}
	fields := strings.Fields(plain)
	for i := 0; i < len(fields) && i < 3; i++ {
		if level, ok := consoleLevels[fields[i]]; ok {
			l.level = level
			break
		}
	}
	l.transcript = strings.Contains(plain, " smtp=")
	return l
}

func (l logLine) visible(mode logMode) bool {
	switch mode {
	case modeInfo:
		return l.level == zerolog.NoLevel || l.level >= zerolog.InfoLevel
	case modeWarnings:
		return l.level >= zerolog.WarnLevel && l.level != zerolog.NoLevel
	case modeTranscript:
		return l.transcript
	default:
		return true
	}
}

// LogsKeyMap defines keybindings for the logs view. Scrolling uses the viewport keys.
type LogsKeyMap struct {
	Mode    key.Binding
	Filter  key.Binding
	Clear   key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultLogsKeyMap returns the default keybindings for the logs view
func DefaultLogsKeyMap() LogsKeyMap {
	return LogsKeyMap{
		Mode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "cycle level / transcript"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear log"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "oldest"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "follow newest"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "keep search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "drop search"),
		),
	}
}

// LogsView shows the application log. Debug sends add the SMTP transcript, which
// has its own mode.
type LogsView struct {
	viewport viewport.Model
	search   textinput.Model
	keys     LogsKeyMap
	lines    []logLine
	shown    int
	maxLines int
	mode     logMode
	query    string
	editing  bool
	follow   bool
	active   bool
	unseen   int
	ready    bool
}

// NewLogsView creates a logs view sized from the configuration
func NewLogsView(cfg *config.Config) *LogsView {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "text in log lines"
	search.CharLimit = cfg.UI.Filter.CharLimit
	search.Width = cfg.UI.Filter.Width

	return &LogsView{
		viewport: viewport.New(0, 0),
		search:   search,
		keys:     DefaultLogsKeyMap(),
		maxLines: cfg.UI.History.MaxLogLines,
		follow:   true,
	}
}

// Init implements tea.Model
func (lv *LogsView) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (lv *LogsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		lv.viewport.Width = msg.Width
		lv.viewport.Height = msg.Height
		lv.ready = true
		lv.refresh()
		return lv, nil

	case logs.LogLineMsg:
		lv.add(parseLogLine(msg.Line))
		return lv, nil

	case tea.KeyMsg:
		if lv.editing {
			return lv, lv.handleSearchKey(msg)
		}
		if cmd, handled := lv.handleKey(msg); handled {
			return lv, cmd
		}
	}

	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	lv.follow = lv.viewport.AtBottom()
	return lv, cmd
}

func (lv *LogsView) add(l logLine) {
	lv.lines = append(lv.lines, l)
	if over := len(lv.lines) - lv.maxLines; over > 0 {
		lv.lines = lv.lines[over:]
	}
	if !lv.active && l.level >= zerolog.WarnLevel && l.level != zerolog.NoLevel {
		lv.unseen++
	}
	lv.refresh()
}

func (lv *LogsView) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, lv.keys.Mode):
		lv.mode = (lv.mode + 1) % logModeCount
	case key.Matches(msg, lv.keys.Filter):
		lv.editing = true
		return lv.search.Focus(), true
	case key.Matches(msg, lv.keys.Cancel) && lv.query != "":
		lv.query = ""
		lv.search.SetValue("")
	case key.Matches(msg, lv.keys.Clear):
		lv.lines = nil
	case key.Matches(msg, lv.keys.Top):
		lv.follow = false
		lv.viewport.GotoTop()
		return nil, true
	case key.Matches(msg, lv.keys.Bottom):
		lv.follow = true
	default:
		return nil, false
	}
	lv.refresh()
	return nil, true
}

// handleSearchKey narrows the log while typing. Enter keeps the search, esc
// restores the one from before.
func (lv *LogsView) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, lv.keys.Confirm):
		lv.editing = false
		lv.search.Blur()
		lv.query = lv.search.Value()
	case key.Matches(msg, lv.keys.Cancel):
		lv.editing = false
		lv.search.Blur()
		lv.search.SetValue(lv.query)
	default:
		var cmd tea.Cmd
		lv.search, cmd = lv.search.Update(msg)
		lv.refresh()
		return cmd
	}
	lv.refresh()
	return nil
}

// visible returns the lines passing the mode and the search being typed or kept
func (lv *LogsView) visible() []logLine {
	query := lv.query
	if lv.editing {
		query = lv.search.Value()
	}
	query = strings.ToLower(query)

	out := make([]logLine, 0, len(lv.lines))
	for _, l := range lv.lines {
		if !l.visible(lv.mode) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(l.plain), query) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (lv *LogsView) refresh() {
	lines := lv.visible()
	lv.shown = len(lines)

	var b strings.Builder
	for _, l := range lines {
		// lines keep their trailing newline
		b.WriteString(l.raw)
	}
	lv.viewport.SetContent(b.String())
	if lv.follow {
		lv.viewport.GotoBottom()
	}
}

// View implements tea.Model
func (lv *LogsView) View() string {
	if !lv.ready {
		return "Initializing logs..."
	}
	if len(lv.lines) == 0 {
		return dimStyle.Render("No log lines yet. Enable debug in the Sampler to log SMTP transcripts.")
	}
	return lv.viewport.View()
}

// Name implements TabbedModelPage
func (lv *LogsView) Name() string {
	return "Logs"
}

// SetActive implements tabbedtui.Activator
func (lv *LogsView) SetActive(active bool) {
	lv.active = active
	if active {
		lv.unseen = 0
	}
}

// Badge implements tabbedtui.Badger
func (lv *LogsView) Badge() string {
	if lv.unseen == 0 {
		return ""
	}
	return fmt.Sprintf("%d warn", lv.unseen)
}

// KeyMap implements TabbedModelPage
func (lv *LogsView) KeyMap() help.KeyMap {
	return logsKeyMapAdapter{keys: lv.keys, scroll: lv.viewport.KeyMap}
}

// FooterView implements TabbedModelPage
func (lv *LogsView) FooterView() string {
	if lv.editing {
		return lv.search.View()
	}
	status := fmt.Sprintf("Showing %s (%d/%d lines)", lv.mode, lv.shown, len(lv.lines))
	if lv.query != "" {
		status += fmt.Sprintf(" matching '%s', esc to drop", lv.query)
	}
	if !lv.follow {
		status += " • paused, G to follow"
	}
	return dimStyle.Render(status)
}

// IsCapturingInput implements TabbedModelPage
func (lv *LogsView) IsCapturingInput() bool {
	return lv.editing
}

type logsKeyMapAdapter struct {
	keys   LogsKeyMap
	scroll viewport.KeyMap
}

func (k logsKeyMapAdapter) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Mode, k.keys.Filter, k.keys.Bottom}
}

func (k logsKeyMapAdapter) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.keys.Mode, k.keys.Filter, k.keys.Confirm, k.keys.Cancel, k.keys.Clear},
		{k.scroll.Up, k.scroll.Down, k.scroll.PageUp, k.scroll.PageDown, k.keys.Top, k.keys.Bottom},
	}
}
