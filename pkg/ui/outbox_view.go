package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bjartek/mailprobe/pkg/chroma"
	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/events"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/bjartek/mailprobe/pkg/splitview"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// OutboxKeyMap defines keybindings for the outbox view
type OutboxKeyMap struct {
	Clear  key.Binding
	Reload key.Binding
}

// DefaultOutboxKeyMap returns the default keybindings for the outbox view
func DefaultOutboxKeyMap() OutboxKeyMap {
	return OutboxKeyMap{
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear history"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload outbox file"),
		),
	}
}

// outboxLoadedMsg carries the messages read back from the mbox outbox
type outboxLoadedMsg struct {
	messages []sender.StoredMessage
	err      error
}

// OutboxView lists sent and dry-run messages next to a highlighted preview
type OutboxView struct {
	sv      *splitview.SplitViewModel
	keys    OutboxKeyMap
	store   *history.Store
	outbox  *sender.Outbox
	stored  []sender.StoredMessage
	loadErr error
	logger  zerolog.Logger
	width   int
	height  int
}

// NewOutboxView creates the outbox view over the send history and the dry-run mailbox
func NewOutboxView(cfg *config.Config, store *history.Store, outbox *sender.Outbox, logger zerolog.Logger) *OutboxView {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	columns := []splitview.ColumnConfig{
		{Name: "#", Width: 4},
		{Name: "Time", Width: 8},
		{Name: "Subject", Width: 24},
		{Name: "Status", Width: 8},
	}

	style := cfg.UI.Theme
	wrapWidth := cfg.UI.Layout.Outbox.WrapWidth
	highlight := func(raw string, width int) string {
		if wrapWidth > 0 && wrapWidth < width {
			width = wrapWidth
		}
		return chroma.HighlightMessageWithStyleAndWidth(raw, style, width)
	}

	sv := splitview.NewSplitView(
		columns,
		splitview.WithTableStyles(tableStyles()),
		splitview.WithTableSplitPercent(float64(cfg.UI.Layout.Outbox.TableWidthPercent)/100.0),
		splitview.WithHighlighter(highlight),
		splitview.WithEmptyText("No messages yet. Send or dry run from the Sampler tab."),
	)

	return &OutboxView{
		sv:     sv,
		keys:   DefaultOutboxKeyMap(),
		store:  store,
		outbox: outbox,
		logger: logger,
	}
}

// Init reads earlier dry runs from the outbox file
func (ov *OutboxView) Init() tea.Cmd {
	return ov.loadOutbox()
}

func (ov *OutboxView) loadOutbox() tea.Cmd {
	if ov.outbox == nil {
		return nil
	}
	outbox := ov.outbox
	return func() tea.Msg {
		messages, err := outbox.Messages()
		return outboxLoadedMsg{messages: messages, err: err}
	}
}

// Update implements tea.Model
func (ov *OutboxView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ov.width = msg.Width
		ov.height = msg.Height

	case events.SendCompleteMsg:
		ov.refresh()
		if n := len(ov.sv.GetRows()); n > 0 {
			ov.sv.SetCursor(n - 1)
		}
		return ov, nil

	case outboxLoadedMsg:
		ov.stored = msg.messages
		ov.loadErr = msg.err
		if msg.err != nil {
			ov.logger.Warn().Err(msg.err).Str("path", ov.outbox.Path()).Msg("Could not read outbox")
		} else {
			ov.logger.Debug().Int("messages", len(msg.messages)).Str("path", ov.outbox.Path()).Msg("Outbox loaded")
		}
		ov.refresh()
		return ov, nil

	case tea.KeyMsg:
		if !ov.sv.IsFullscreen() {
			switch {
			case key.Matches(msg, ov.keys.Clear):
				if ov.store != nil {
					ov.store.Clear()
				}
				ov.stored = nil
				ov.refresh()
				return ov, nil
			case key.Matches(msg, ov.keys.Reload):
				return ov, ov.loadOutbox()
			}
		}
	}

	_, cmd := ov.sv.Update(msg)
	return ov, cmd
}

// refresh rebuilds the rows: stored outbox messages first, then this session's sends
func (ov *OutboxView) refresh() {
	rows := make([]splitview.RowData, 0, len(ov.stored))
	for i, m := range ov.stored {
		row := table.Row{fmt.Sprintf("o%d", i+1), "", m.Subject, "stored"}
		summary := labelStyle.Render("From: ") + valueStyle.Render(m.From)
		rows = append(rows, splitview.NewRowData(row).WithSummary(summary).WithMessage(string(m.Raw)))
	}

	if ov.store != nil {
		for _, e := range ov.store.GetAll() {
			rows = append(rows, entryRow(e))
		}
	}
	ov.sv.SetRows(rows)
}

func entryRow(e history.Entry) splitview.RowData {
	row := table.Row{
		fmt.Sprintf("%d", e.ID),
		e.Time.Format("15:04:05"),
		e.Subject,
		entryStatus(e),
	}
	return splitview.NewRowData(row).WithSummary(entrySummary(e)).WithMessage(string(e.Raw))
}

func entryStatus(e history.Entry) string {
	switch {
	case e.Failed():
		return "failed"
	case e.DryRun:
		return "dry run"
	default:
		return "sent"
	}
}

func entrySummary(e history.Entry) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label+": ") + valueStyle.Render(value) + "\n")
	}

	field("Time", e.Time.Format(time.RFC1123Z))
	if len(e.Recipients) > 0 {
		field("Recipients", strings.Join(e.Recipients, ", "))
	}
	if e.Duration > 0 {
		field("Duration", e.Duration.Round(time.Millisecond).String())
	}
	if e.Size > 0 {
		field("Size", fmt.Sprintf("%d bytes", e.Size))
	}
	if e.Failed() {
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Error: %v", e.Err)))
	} else if e.DryRun {
		b.WriteString(warningStyle.Render("Dry run, written to the outbox"))
	} else {
		b.WriteString(successStyle.Render("✓ Delivered"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// View delegates to splitview
func (ov *OutboxView) View() string {
	return ov.sv.View()
}

// Name implements TabbedModelPage
func (ov *OutboxView) Name() string {
	return "Outbox"
}

// KeyMap implements TabbedModelPage
func (ov *OutboxView) KeyMap() help.KeyMap {
	return outboxKeyMapAdapter{outbox: ov.keys, split: ov.sv.KeyMap()}
}

// FooterView implements TabbedModelPage
func (ov *OutboxView) FooterView() string {
	if ov.loadErr != nil {
		return errorStyle.Render(fmt.Sprintf("Outbox unreadable: %v", ov.loadErr))
	}
	status := "Preview: " + ov.sv.Mode().String()
	if ov.outbox != nil {
		status = "Outbox file: " + ov.outbox.Path() + " • " + status
	}
	return dimStyle.Render(status)
}

// Badge implements tabbedtui.Badger with the number of failed sends
func (ov *OutboxView) Badge() string {
	if ov.store == nil {
		return ""
	}
	failed := 0
	for _, e := range ov.store.GetAll() {
		if e.Failed() {
			failed++
		}
	}
	if failed == 0 {
		return ""
	}
	return fmt.Sprintf("%d failed", failed)
}

// IsCapturingInput implements TabbedModelPage
func (ov *OutboxView) IsCapturingInput() bool {
	return false
}

type outboxKeyMapAdapter struct {
	outbox OutboxKeyMap
	split  help.KeyMap
}

func (k outboxKeyMapAdapter) ShortHelp() []key.Binding {
	return append(k.split.ShortHelp(), k.outbox.Clear)
}

func (k outboxKeyMapAdapter) FullHelp() [][]key.Binding {
	return append(k.split.FullHelp(), []key.Binding{k.outbox.Clear, k.outbox.Reload})
}
