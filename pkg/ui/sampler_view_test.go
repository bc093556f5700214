package ui

import (
	"context"
	"sync"
	"testing"

	"github.com/bjartek/mailprobe/pkg/argument"
	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/events"
	"github.com/bjartek/mailprobe/pkg/headers"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/props"
	"github.com/bjartek/mailprobe/pkg/sampler"
	"github.com/bjartek/mailprobe/pkg/sender"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*sampler.Config
	dry  []bool
	err  error
}

func (f *fakeSender) record(cfg *sampler.Config, dry bool) (sender.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cfg)
	f.dry = append(f.dry, dry)
	if f.err != nil {
		return sender.Result{}, f.err
	}
	return sender.Result{
		Subject:    cfg.Subject,
		Recipients: cfg.Recipients(),
		Raw:        []byte("Subject: " + cfg.Subject + "\r\n\r\nbody\r\n"),
		DryRun:     dry,
	}, nil
}

func (f *fakeSender) Send(_ context.Context, cfg *sampler.Config) (sender.Result, error) {
	return f.record(cfg, false)
}

func (f *fakeSender) DryRun(_ context.Context, cfg *sampler.Config) (sender.Result, error) {
	return f.record(cfg, true)
}

func newTestSampler(t *testing.T, opts ...SamplerOption) (*SamplerView, *fakeSender, *history.Store) {
	t.Helper()
	fake := &fakeSender{}
	store := history.NewStore(zerolog.Nop(), 10)
	opts = append([]SamplerOption{WithPlanFs(afero.NewMemMapFs()), WithPlanPath("plan.yaml")}, opts...)
	sv := NewSamplerView(config.DefaultConfig(), fake, store, zerolog.Nop(), opts...)
	sv.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return sv, fake, store
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendKey(sv *SamplerView, msg tea.Msg) tea.Cmd {
	_, cmd := sv.Update(msg)
	return cmd
}

func moveTo(t *testing.T, sv *SamplerView, id fieldID) {
	t.Helper()
	for i := 0; i < len(sv.fields) && sv.fields[sv.cursor].id != id; i++ {
		if sv.fields[sv.cursor].id < id {
			sendKey(sv, keyRunes("j"))
		} else {
			sendKey(sv, keyRunes("k"))
		}
	}
	require.Equal(t, id, sv.fields[sv.cursor].id)
}

// runCmd executes a command and everything it batches, returning the messages
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func testPlan() *sampler.Config {
	cfg := sampler.DefaultConfig()
	cfg.Server = "smtp.example.com"
	cfg.MailFrom = "tester@example.com"
	cfg.ReceiverTo = "a@example.com"
	cfg.Subject = "hello"
	cfg.HeaderFields = argument.Arguments{
		argument.NewArgument("X-Test", "1"),
		argument.NewArgument("X-Test", "2"),
	}
	return cfg
}

func TestSamplerEditTextFields(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, sv.IsCapturingInput())

	sendKey(sv, keyRunes("smtp.example.com"))
	sendKey(sv, tea.KeyMsg{Type: tea.KeyTab})
	sendKey(sv, keyRunes("2525"))
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, sv.IsCapturingInput())
	cfg := sv.Config()
	assert.Equal(t, "smtp.example.com", cfg.Server)
	assert.Equal(t, "2525", cfg.Port)
}

func TestSamplerToggleAndDisabledFields(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	moveTo(t, sv, fieldUsername)
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, sv.IsCapturingInput(), "credentials are read-only without auth")
	assert.True(t, sv.failed)

	moveTo(t, sv, fieldUseAuth)
	sendKey(sv, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, sv.Config().UseAuth)

	moveTo(t, sv, fieldUsername)
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, sv.IsCapturingInput())
}

func TestSamplerEditingSkipsDisabledFields(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	moveTo(t, sv, fieldReceiverBCC)
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	sendKey(sv, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldUseAuth, sv.fields[sv.cursor].id)

	// username and password are disabled, so the next stop is the first security option
	sendKey(sv, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldUseSSL, sv.fields[sv.cursor].id)
}

func TestToggleSecurityOptions(t *testing.T) {
	fields := newSamplerFields()
	byID := func(id fieldID) samplerField {
		for _, f := range fields {
			if f.id == id {
				return f
			}
		}
		t.Fatalf("unknown field %d", id)
		return samplerField{}
	}

	tests := map[string]struct {
		start  sampler.SecuritySettings
		toggle fieldID
		want   sampler.SecuritySettings
	}{
		"ssl turns off starttls": {
			start:  sampler.SecuritySettings{UseStartTLS: true, EnforceStartTLS: true, TrustAllCerts: true},
			toggle: fieldUseSSL,
			want:   sampler.SecuritySettings{UseSSL: true, TrustAllCerts: true},
		},
		"starttls turns off ssl": {
			start:  sampler.SecuritySettings{UseSSL: true},
			toggle: fieldUseStartTLS,
			want:   sampler.SecuritySettings{UseStartTLS: true},
		},
		"starttls off drops enforce and trust": {
			start:  sampler.SecuritySettings{UseStartTLS: true, EnforceStartTLS: true, TrustAllCerts: true},
			toggle: fieldUseStartTLS,
			want:   sampler.SecuritySettings{},
		},
		"trust all certs": {
			start:  sampler.SecuritySettings{UseSSL: true},
			toggle: fieldTrustAllCerts,
			want:   sampler.SecuritySettings{UseSSL: true, TrustAllCerts: true},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := sampler.DefaultConfig()
			cfg.Security = tc.start
			toggle(byID(tc.toggle), cfg)
			assert.Equal(t, tc.want, cfg.Security)
		})
	}
}

func TestSamplerHeaderEditor(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	moveTo(t, sv, fieldHeaders)
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, sv.Headers().Focused())

	sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlN})
	sendKey(sv, keyRunes("X-Test"))
	sendKey(sv, tea.KeyMsg{Type: tea.KeyTab})
	sendKey(sv, keyRunes("value"))
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, sv.IsCapturingInput())
	out := sv.Config().HeaderFields
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "X-Test", out.Get(0).Name())
	assert.Equal(t, "value", out.Get(0).Value())
	assert.Contains(t, sv.View(), removeControl)
}

func TestSamplerTabLeavesHeaderEditor(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	moveTo(t, sv, fieldHeaders)
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	sendKey(sv, tea.KeyMsg{Type: tea.KeyTab})

	assert.True(t, sv.IsCapturingInput())
	assert.Equal(t, fieldBody, sv.fields[sv.cursor].id)

	sendKey(sv, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldHeaders, sv.fields[sv.cursor].id)
	assert.True(t, sv.Headers().Focused())
}

func TestSamplerSend(t *testing.T) {
	sv, fake, store := newTestSampler(t, WithSamplerConfig(testPlan()))

	cmd := sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.NotNil(t, cmd)
	assert.True(t, sv.sending)

	done := findMsg[events.SendCompleteMsg](t, runCmd(cmd))
	assert.Equal(t, uint64(1), done.Entry.ID)
	assert.False(t, done.Entry.DryRun)
	assert.Equal(t, 1, store.Count())

	require.Len(t, fake.sent, 1)
	assert.Equal(t, []string{"X-Test", "X-Test"}, fake.sent[0].HeaderFields.Names())
	assert.Equal(t, "2", fake.sent[0].HeaderFields.Get(1).Value())

	sv.Update(done)
	assert.False(t, sv.sending)
	assert.Contains(t, sv.FooterView(), "#1")
}

func TestSamplerSendUsesSnapshot(t *testing.T) {
	sv, fake, _ := newTestSampler(t, WithSamplerConfig(testPlan()))

	cmd := sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlD})
	sv.Headers().Clear()
	runCmd(cmd)

	require.Len(t, fake.sent, 1)
	assert.True(t, fake.dry[0])
	assert.Equal(t, 2, fake.sent[0].HeaderFields.Len())
}

func TestSamplerSendFailure(t *testing.T) {
	sv, fake, store := newTestSampler(t, WithSamplerConfig(testPlan()))
	fake.err = sender.ErrNoServer

	done := findMsg[events.SendCompleteMsg](t, runCmd(sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlD})))
	sv.Update(done)

	assert.True(t, done.Entry.Failed())
	assert.True(t, done.Entry.DryRun)
	assert.True(t, sv.failed)
	assert.Equal(t, 1, store.Count())
}

func TestSamplerRejectsConcurrentSend(t *testing.T) {
	sv, _, _ := newTestSampler(t, WithSamplerConfig(testPlan()))

	require.NotNil(t, sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlG}))
	assert.Nil(t, sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlG}))
}

func TestSamplerSaveResetLoad(t *testing.T) {
	sv, _, _ := newTestSampler(t, WithSamplerConfig(testPlan()))

	saved := findMsg[events.PlanSavedMsg](t, runCmd(sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlS})))
	require.NoError(t, saved.Err)
	sv.Update(saved)

	sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "", sv.Config().Server)
	assert.Equal(t, headers.Empty, sv.Headers().Editor().State())

	loaded := findMsg[events.PlanLoadedMsg](t, runCmd(sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlO})))
	require.NoError(t, loaded.Err)
	sv.Update(loaded)

	cfg := sv.Config()
	assert.Equal(t, "smtp.example.com", cfg.Server)
	assert.Equal(t, "smtp.example.com", sv.fields[0].input.Value())
	assert.Equal(t, []string{"X-Test", "X-Test"}, cfg.HeaderFields.Names())
	assert.Equal(t, headers.Populated, sv.Headers().Editor().State())
}

func TestSamplerTracksUnsavedChanges(t *testing.T) {
	sv, _, _ := newTestSampler(t, WithSamplerConfig(testPlan()))
	assert.False(t, sv.Modified())
	assert.Empty(t, sv.Badge())
	assert.Contains(t, sv.FooterView(), "2 header fields")

	sendKey(sv, tea.KeyMsg{Type: tea.KeyEnter})
	sendKey(sv, keyRunes(".org"))
	sendKey(sv, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, sv.Modified())
	assert.Equal(t, "●", sv.Badge())
	assert.Equal(t, "Unsaved changes to plan.yaml", sv.UnsavedChanges())
	assert.Contains(t, sv.FooterView(), "modified")

	saved := findMsg[events.PlanSavedMsg](t, runCmd(sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlS})))
	require.NoError(t, saved.Err)
	sv.Update(saved)
	assert.False(t, sv.Modified())
	assert.Empty(t, sv.UnsavedChanges())

	sv.Headers().Editor().AddRow()
	assert.True(t, sv.Modified(), "a blank header row is saved too")
}

func TestSamplerLoadMissingPlan(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	loaded := findMsg[events.PlanLoadedMsg](t, runCmd(sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlO})))
	sv.Update(loaded)

	assert.True(t, errors.Is(loaded.Err, props.ErrPlanNotFound))
	assert.True(t, sv.failed)
	assert.Contains(t, sv.FooterView(), "Load failed")
}

func TestSamplerBrowseNeedsFileField(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	assert.Nil(t, sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlF}))
	assert.False(t, sv.IsCapturingInput())

	moveTo(t, sv, fieldAttachments)
	assert.NotNil(t, sendKey(sv, tea.KeyMsg{Type: tea.KeyCtrlF}))
	assert.True(t, sv.IsCapturingInput())

	sendKey(sv, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, sv.IsCapturingInput())
}

func TestSamplerApplyPicked(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	sv.picking = pickAttachment
	sv.applyPicked("a.txt")
	sv.picking = pickAttachment
	sv.applyPicked("b.pdf")

	assert.Equal(t, "a.txt;b.pdf", sv.Config().AttachFiles)

	sv.picking = pickEML
	sv.applyPicked("message.eml")
	assert.Equal(t, "message.eml", sv.Config().EMLMessage)
	assert.Equal(t, pickNone, sv.picking)
}

func TestSamplerView(t *testing.T) {
	sv, _, _ := newTestSampler(t)

	view := sv.View()

	for _, section := range []string{"Server settings", "Mail settings", "Auth settings", "Security settings", "Message settings"} {
		assert.Contains(t, view, section)
	}
	assert.Equal(t, "Sampler", sv.Name())
	assert.Contains(t, sv.FooterView(), "plan.yaml")
}
