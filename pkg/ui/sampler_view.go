package ui

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/events"
	"github.com/bjartek/mailprobe/pkg/headers"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/props"
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/bjartek/mailprobe/pkg/sender"
	"github.com/bjartek/mailprobe/pkg/tabbedtui"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const samplerLabelWidth = 32

// MessageSender delivers a sampler configuration, or writes it to the outbox on a dry run
type MessageSender interface {
	Send(ctx context.Context, cfg *sampler.Config) (sender.Result, error)
	DryRun(ctx context.Context, cfg *sampler.Config) (sender.Result, error)
}

type pickTarget int

const (
	pickNone pickTarget = iota
	pickAttachment
	pickEML
)

// SamplerView is the form editing one SMTP test action
type SamplerView struct {
	cfg      *sampler.Config
	fields   []samplerField
	cursor   int
	editing  bool
	headers  *HeaderEditorView
	body     textarea.Model
	picker   filepicker.Model
	picking  pickTarget
	spinner  spinner.Model
	sending  bool
	status   string
	failed   bool
	keys     SamplerKeyMap
	sender   MessageSender
	history  *history.Store
	fs       afero.Fs
	planPath string
	saved    map[string]string
	logger   zerolog.Logger
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// SamplerOption configures a SamplerView
type SamplerOption func(*SamplerView)

// WithPlanFs sets the filesystem test plans are saved to and loaded from
func WithPlanFs(fs afero.Fs) SamplerOption {
	return func(sv *SamplerView) {
		sv.fs = fs
	}
}

// WithPlanPath overrides the test plan path from the configuration
func WithPlanPath(path string) SamplerOption {
	return func(sv *SamplerView) {
		sv.planPath = path
	}
}

// WithSamplerConfig sets the initial test action
func WithSamplerConfig(cfg *sampler.Config) SamplerOption {
	return func(sv *SamplerView) {
		sv.setConfig(cfg)
	}
}

// NewSamplerView creates the sampler form. Results of sends are recorded in store.
func NewSamplerView(cfg *config.Config, s MessageSender, store *history.Store, logger zerolog.Logger, opts ...SamplerOption) *SamplerView {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	body := textarea.New()
	body.Placeholder = "Message body"
	body.ShowLineNumbers = false
	body.CharLimit = 0
	body.SetHeight(6)
	body.SetWidth(60)

	picker := filepicker.New()
	picker.CurrentDirectory = "."
	picker.AutoHeight = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sv := &SamplerView{
		cfg:      sampler.DefaultConfig(),
		fields:   newSamplerFields(),
		headers:  NewHeaderEditorView(cfg.UI.Editor),
		body:     body,
		picker:   picker,
		spinner:  sp,
		keys:     DefaultSamplerKeyMap(),
		sender:   s,
		history:  store,
		fs:       afero.NewOsFs(),
		planPath: cfg.Plan.Path,
		logger:   logger,
		viewport: viewport.New(80, 20),
	}

	for _, opt := range opts {
		opt(sv)
	}
	sv.markSaved(sv.Config())
	return sv
}

// Init implements tea.Model
func (sv *SamplerView) Init() tea.Cmd {
	return nil
}

// Config returns a snapshot of the form with the header fields exported
func (sv *SamplerView) Config() *sampler.Config {
	cfg := sv.cfg.Clone()
	cfg.HeaderFields = sv.headers.Export()
	return cfg
}

// Headers returns the header field editor
func (sv *SamplerView) Headers() *HeaderEditorView {
	return sv.headers
}

// setConfig replaces the form contents
func (sv *SamplerView) setConfig(cfg *sampler.Config) {
	sv.cfg = cfg.Clone()
	sv.syncInputs()
	sv.headers.Import(sv.cfg.HeaderFields)
}

// reset empties every field and removes all header rows
func (sv *SamplerView) reset() {
	sv.stopEditing()
	sv.cfg.Clear()
	sv.syncInputs()
	sv.headers.Clear()
	sv.setStatus("Form reset", false)
}

func (sv *SamplerView) syncInputs() {
	for i := range sv.fields {
		if sv.fields[i].kind == textField {
			sv.fields[i].input.SetValue(*sv.fields[i].text(sv.cfg))
		}
	}
	sv.body.SetValue(sv.cfg.Body)
}

// markSaved records the plan properties cfg persists as, to detect unsaved edits
func (sv *SamplerView) markSaved(cfg *sampler.Config) {
	sv.saved = planProperties(cfg)
}

// Modified reports whether saving now would write a different plan file
func (sv *SamplerView) Modified() bool {
	return !maps.Equal(planProperties(sv.Config()), sv.saved)
}

func planProperties(cfg *sampler.Config) map[string]string {
	store := props.NewMemoryStore()
	if err := cfg.Save(store); err != nil {
		return nil
	}
	out := make(map[string]string, len(store.Keys()))
	for _, k := range store.Keys() {
		out[k] = store.Get(k)
	}
	return out
}

func (sv *SamplerView) setStatus(status string, failed bool) {
	sv.status = status
	sv.failed = failed
}

// Update implements tea.Model
func (sv *SamplerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sv.width = msg.Width
		sv.height = msg.Height
		sv.viewport.Width = msg.Width
		sv.viewport.Height = msg.Height
		sv.body.SetWidth(max(20, min(msg.Width-samplerLabelWidth-4, 80)))
		sv.ready = true
		var cmd tea.Cmd
		sv.picker, cmd = sv.picker.Update(msg)
		return sv, cmd

	case spinner.TickMsg:
		if !sv.sending {
			return sv, nil
		}
		var cmd tea.Cmd
		sv.spinner, cmd = sv.spinner.Update(msg)
		return sv, cmd

	case events.SendCompleteMsg:
		sv.sending = false
		sv.setStatus(describeEntry(msg.Entry), msg.Entry.Failed())
		return sv, nil

	case events.PlanSavedMsg:
		if msg.Err != nil {
			sv.logger.Error().Err(msg.Err).Str("path", msg.Path).Msg("Saving test plan failed")
			sv.setStatus(fmt.Sprintf("Save failed: %v", msg.Err), true)
			return sv, nil
		}
		sv.markSaved(msg.Config)
		sv.logger.Info().Str("path", msg.Path).Msg("Test plan saved")
		sv.setStatus("Saved "+msg.Path, false)
		return sv, nil

	case events.PlanLoadedMsg:
		if msg.Err != nil {
			sv.logger.Error().Err(msg.Err).Str("path", msg.Path).Msg("Loading test plan failed")
			sv.setStatus(fmt.Sprintf("Load failed: %v", msg.Err), true)
			return sv, nil
		}
		sv.stopEditing()
		sv.setConfig(msg.Config)
		sv.markSaved(sv.Config())
		sv.logger.Info().Str("path", msg.Path).Int("headers", msg.Config.HeaderFields.Len()).Msg("Test plan loaded")
		sv.setStatus("Loaded "+msg.Path, false)
		return sv, nil

	case tea.KeyMsg:
		return sv.handleKey(msg)
	}

	if sv.picking != pickNone {
		var cmd tea.Cmd
		sv.picker, cmd = sv.picker.Update(msg)
		return sv, cmd
	}
	return sv, nil
}

func (sv *SamplerView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sv.picking != pickNone {
		if key.Matches(msg, sv.keys.Stop) {
			sv.picking = pickNone
			return sv, nil
		}
		var cmd tea.Cmd
		sv.picker, cmd = sv.picker.Update(msg)
		if ok, path := sv.picker.DidSelectFile(msg); ok {
			sv.applyPicked(path)
		}
		return sv, cmd
	}

	switch {
	case key.Matches(msg, sv.keys.Save):
		return sv, sv.savePlan()
	case key.Matches(msg, sv.keys.Load):
		return sv, sv.loadPlan()
	case key.Matches(msg, sv.keys.Reset):
		sv.reset()
		return sv, nil
	case key.Matches(msg, sv.keys.Send):
		return sv, sv.send(false)
	case key.Matches(msg, sv.keys.DryRun):
		return sv, sv.send(true)
	case key.Matches(msg, sv.keys.Browse):
		return sv, sv.browse()
	}

	if sv.editing {
		return sv.handleEditingKey(msg)
	}

	switch {
	case key.Matches(msg, sv.keys.Up):
		if sv.cursor > 0 {
			sv.cursor--
		}
		return sv, nil
	case key.Matches(msg, sv.keys.Down):
		if sv.cursor < len(sv.fields)-1 {
			sv.cursor++
		}
		return sv, nil
	case key.Matches(msg, sv.keys.Edit):
		f := sv.fields[sv.cursor]
		if !f.enabled(sv.cfg) {
			sv.setStatus(f.label+" is disabled", true)
			return sv, nil
		}
		if f.kind == checkField {
			toggle(f, sv.cfg)
			return sv, nil
		}
		sv.editing = true
		return sv, sv.focusField(1)
	}
	return sv, nil
}

func (sv *SamplerView) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &sv.fields[sv.cursor]

	if f.kind == headersField {
		var cmd tea.Cmd
		sv.headers, cmd = sv.headers.Update(msg)
		if !sv.headers.Focused() {
			switch sv.headers.ExitDirection() {
			case ExitNext:
				return sv, sv.moveEditing(1)
			case ExitPrev:
				return sv, sv.moveEditing(-1)
			default:
				sv.stopEditing()
			}
		}
		return sv, cmd
	}

	switch {
	case key.Matches(msg, sv.keys.Stop):
		sv.stopEditing()
		return sv, nil
	case key.Matches(msg, sv.keys.NextField):
		return sv, sv.moveEditing(1)
	case key.Matches(msg, sv.keys.PrevField):
		return sv, sv.moveEditing(-1)
	}

	var cmd tea.Cmd
	switch f.kind {
	case checkField:
		if key.Matches(msg, sv.keys.Edit) {
			toggle(*f, sv.cfg)
		}
	case bodyField:
		sv.body, cmd = sv.body.Update(msg)
		sv.cfg.Body = sv.body.Value()
	case textField:
		if msg.Type == tea.KeyEnter {
			return sv, sv.moveEditing(1)
		}
		f.input, cmd = f.input.Update(msg)
		*f.text(sv.cfg) = f.input.Value()
	}
	return sv, cmd
}

// moveEditing moves to the next enabled field in the given direction, leaving
// edit mode past either end of the form
func (sv *SamplerView) moveEditing(delta int) tea.Cmd {
	sv.blurAll()
	for i := sv.cursor + delta; i >= 0 && i < len(sv.fields); i += delta {
		if sv.fields[i].enabled(sv.cfg) {
			sv.cursor = i
			return sv.focusField(delta)
		}
	}
	sv.editing = false
	return nil
}

func (sv *SamplerView) focusField(delta int) tea.Cmd {
	f := &sv.fields[sv.cursor]
	switch f.kind {
	case textField:
		return f.input.Focus()
	case bodyField:
		return sv.body.Focus()
	case headersField:
		if delta < 0 {
			sv.headers.FocusLast()
		} else {
			sv.headers.Focus()
		}
	}
	return nil
}

func (sv *SamplerView) blurAll() {
	for i := range sv.fields {
		if sv.fields[i].kind == textField {
			sv.fields[i].input.Blur()
		}
	}
	sv.body.Blur()
	sv.headers.Blur()
}

func (sv *SamplerView) stopEditing() {
	sv.blurAll()
	sv.editing = false
}

// browse opens the file picker for the attachment or .eml field under the cursor
func (sv *SamplerView) browse() tea.Cmd {
	f := sv.fields[sv.cursor]
	switch {
	case f.id == fieldAttachments && f.enabled(sv.cfg):
		sv.picking = pickAttachment
		sv.picker.AllowedTypes = nil
	case f.id == fieldEMLMessage && f.enabled(sv.cfg):
		sv.picking = pickEML
		sv.picker.AllowedTypes = []string{".eml"}
	default:
		sv.setStatus("Move to the attachment or .eml field to browse", true)
		return nil
	}
	sv.stopEditing()
	return sv.picker.Init()
}

func (sv *SamplerView) applyPicked(path string) {
	switch sv.picking {
	case pickAttachment:
		sv.cfg.AppendAttachment(path)
	case pickEML:
		sv.cfg.EMLMessage = path
	}
	sv.picking = pickNone
	sv.syncInputs()
	sv.setStatus("Selected "+path, false)
}

func (sv *SamplerView) savePlan() tea.Cmd {
	cfg := sv.Config()
	fs, path := sv.fs, sv.planPath
	return func() tea.Msg {
		store, err := props.OpenFile(fs, path)
		if err != nil {
			return events.PlanSavedMsg{Path: path, Err: err}
		}
		if err := cfg.Save(store); err != nil {
			return events.PlanSavedMsg{Path: path, Err: err}
		}
		return events.PlanSavedMsg{Path: path, Config: cfg, Err: store.Save()}
	}
}

func (sv *SamplerView) loadPlan() tea.Cmd {
	fs, path := sv.fs, sv.planPath
	return func() tea.Msg {
		store, err := props.LoadFile(fs, path)
		if err != nil {
			return events.PlanLoadedMsg{Path: path, Err: err}
		}
		cfg, err := sampler.Load(store)
		return events.PlanLoadedMsg{Path: path, Config: cfg, Err: err}
	}
}

// send delivers a snapshot of the form in the background and records the result
func (sv *SamplerView) send(dryRun bool) tea.Cmd {
	if sv.sending {
		sv.setStatus("A send is already running", true)
		return nil
	}
	if sv.sender == nil {
		sv.setStatus("No sender configured", true)
		return nil
	}

	cfg := sv.Config()
	s, store, logger := sv.sender, sv.history, sv.logger
	sv.sending = true
	sv.setStatus("", false)
	logger.Debug().Bool("dryRun", dryRun).Str("server", cfg.Address()).Int("headers", cfg.HeaderFields.Len()).Msg("Send requested")

	run := func() tea.Msg {
		deliver := s.Send
		if dryRun {
			deliver = s.DryRun
		}
		started := time.Now()
		res, err := deliver(context.Background(), cfg)
		entry := history.FromResult(started, cfg.Subject, res, err)
		entry.DryRun = dryRun
		if store != nil {
			entry = store.Add(entry)
		}
		return events.SendCompleteMsg{Entry: entry}
	}
	return tea.Batch(run, sv.spinner.Tick)
}

func describeEntry(e history.Entry) string {
	if e.Failed() {
		return fmt.Sprintf("❌ #%d failed: %v", e.ID, e.Err)
	}
	what := "Sent"
	if e.DryRun {
		what = "Written to outbox"
	}
	msg := fmt.Sprintf("✓ #%d %s to %s in %s", e.ID, what, strings.Join(e.Recipients, ", "), e.Duration.Round(time.Millisecond))
	if e.Size > 0 {
		msg += fmt.Sprintf(" (%d bytes)", e.Size)
	}
	return msg
}

// View implements tea.Model
func (sv *SamplerView) View() string {
	if !sv.ready {
		return "Initializing sampler..."
	}

	if sv.picking != pickNone {
		title := "Select attachment"
		if sv.picking == pickEML {
			title = "Select .eml message"
		}
		return sectionStyle.Render(title) + dimStyle.Render("  (esc to cancel)") + "\n\n" + sv.picker.View()
	}

	content, cursorLine := sv.renderForm()
	sv.viewport.SetContent(content)
	if cursorLine < sv.viewport.YOffset {
		sv.viewport.SetYOffset(cursorLine)
	} else if sv.viewport.Height > 0 && cursorLine >= sv.viewport.YOffset+sv.viewport.Height {
		sv.viewport.SetYOffset(cursorLine - sv.viewport.Height + 1)
	}
	return sv.viewport.View()
}

// renderForm renders all sections and returns the line the cursor is on
func (sv *SamplerView) renderForm() (string, int) {
	var lines []string
	cursorLine := 0
	section := ""
	labelCol := lipgloss.NewStyle().Width(samplerLabelWidth)

	for i, f := range sv.fields {
		if f.section != section {
			section = f.section
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, sectionStyle.Render(section))
		}

		enabled := f.enabled(sv.cfg)
		marker := "  "
		if i == sv.cursor {
			cursorLine = len(lines)
			if sv.editing {
				marker = editingStyle.Render("▶ ")
			} else {
				marker = cursorStyle.Render("• ")
			}
		}

		label := f.label + ":"
		if enabled {
			label = labelStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}

		switch f.kind {
		case checkField:
			box := "[ ]"
			if *f.flag(sv.cfg) {
				box = "[x]"
			}
			if !enabled {
				box = dimStyle.Render(box)
			}
			lines = append(lines, marker+labelCol.Render(label)+box)

		case textField:
			value := f.input.View()
			if !enabled {
				value = dimStyle.Render(f.input.Value())
			}
			lines = append(lines, marker+labelCol.Render(label)+value)

		case bodyField:
			lines = append(lines, marker+label)
			body := sv.body.View()
			if !enabled {
				body = dimStyle.Render(sv.body.Value())
			}
			for _, l := range strings.Split(body, "\n") {
				lines = append(lines, "    "+l)
			}

		case headersField:
			lines = append(lines, marker+label)
			editorLines := strings.Split(sv.headers.View(), "\n")
			if i == sv.cursor && sv.editing && sv.headers.Editor().LabelsVisible() {
				cursorLine = len(lines) + sv.headers.row + 1
			}
			for _, l := range editorLines {
				lines = append(lines, "  "+l)
			}
		}
	}

	return strings.Join(lines, "\n"), cursorLine
}

// Name implements TabbedModelPage
func (sv *SamplerView) Name() string {
	return "Sampler"
}

// KeyMap implements TabbedModelPage
func (sv *SamplerView) KeyMap() help.KeyMap {
	if sv.editing && sv.fields[sv.cursor].kind == headersField {
		return tabbedtui.NewCombinedKeyMap(sv.keys, sv.headers.KeyMap())
	}
	return sv.keys
}

// FooterView implements TabbedModelPage
func (sv *SamplerView) FooterView() string {
	if sv.sending {
		return sv.spinner.View() + " Sending..."
	}
	if sv.status == "" {
		return sv.planStatus()
	}
	if sv.failed {
		return errorStyle.Render(sv.status)
	}
	return successStyle.Render(sv.status)
}

// planStatus summarises the plan file and the header editor
func (sv *SamplerView) planStatus() string {
	parts := []string{"Plan: " + sv.planPath}
	if sv.Modified() {
		parts = append(parts, warningStyle.Render("modified"))
	}
	editor := sv.headers.Editor()
	switch editor.State() {
	case headers.Empty:
		parts = append(parts, "no header fields")
	default:
		parts = append(parts, fmt.Sprintf("%d header fields", editor.Len()))
	}
	return dimStyle.Render(strings.Join(parts, " • "))
}

// Badge implements tabbedtui.Badger
func (sv *SamplerView) Badge() string {
	if sv.Modified() {
		return "●"
	}
	return ""
}

// UnsavedChanges implements tabbedtui.Guard
func (sv *SamplerView) UnsavedChanges() string {
	if sv.Modified() {
		return "Unsaved changes to " + sv.planPath
	}
	return ""
}

// IsCapturingInput implements TabbedModelPage
func (sv *SamplerView) IsCapturingInput() bool {
	return sv.editing || sv.picking != pickNone
}
