package ui

import (
	"testing"
	"time"

	"github.com/bjartek/mailprobe/pkg/config"
	"github.com/bjartek/mailprobe/pkg/events"
	"github.com/bjartek/mailprobe/pkg/history"
	"github.com/bjartek/mailprobe/pkg/sender"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedMessage = "From: tester@example.com\r\nTo: a@example.com\r\nSubject: stored one\r\n\r\nhello\r\n"

func newTestOutbox(t *testing.T) (*OutboxView, *history.Store, *sender.Outbox) {
	t.Helper()
	outbox, err := sender.NewOutbox(afero.NewMemMapFs(), "outbox", sender.DefaultMailbox)
	require.NoError(t, err)
	store := history.NewStore(zerolog.Nop(), 10)
	ov := NewOutboxView(config.DefaultConfig(), store, outbox, zerolog.Nop())
	ov.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return ov, store, outbox
}

func TestOutboxViewLoadsStoredMessages(t *testing.T) {
	ov, _, outbox := newTestOutbox(t)
	require.NoError(t, outbox.Append("tester@example.com", time.Unix(1700000000, 0), []byte(storedMessage)))

	for _, msg := range runCmd(ov.Init()) {
		ov.Update(msg)
	}

	rows := ov.sv.GetRows()
	require.Len(t, rows, 1)
	assert.Equal(t, "stored one", rows[0].TableRow[2])
	assert.Equal(t, "stored", rows[0].TableRow[3])
	assert.Contains(t, rows[0].Message, "Subject: stored one")
	assert.Contains(t, ov.FooterView(), outbox.Path())
}

func TestOutboxViewAddsSendResults(t *testing.T) {
	ov, store, _ := newTestOutbox(t)

	sent := store.Add(history.Entry{
		Time:       time.Unix(1700000000, 0),
		Subject:    "hello",
		Recipients: []string{"a@example.com"},
		Raw:        []byte("Subject: hello\r\n\r\nbody\r\n"),
	})
	failed := store.Add(history.Entry{
		Time:    time.Unix(1700000001, 0),
		Subject: "broken",
		Err:     errors.New("connection refused"),
	})
	ov.Update(events.SendCompleteMsg{Entry: sent})
	ov.Update(events.SendCompleteMsg{Entry: failed})

	rows := ov.sv.GetRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "sent", rows[0].TableRow[3])
	assert.Equal(t, "failed", rows[1].TableRow[3])
	assert.Contains(t, rows[1].Summary, "connection refused")
	assert.Equal(t, 1, ov.sv.GetCursor())
	assert.Equal(t, "1 failed", ov.Badge())
}

func TestOutboxViewPreviewModeInFooter(t *testing.T) {
	ov, store, _ := newTestOutbox(t)
	assert.Empty(t, ov.Badge())
	ov.Update(events.SendCompleteMsg{Entry: store.Add(history.Entry{Subject: "hello", Raw: []byte(storedMessage)})})
	assert.Contains(t, ov.FooterView(), "Preview: highlighted")

	ov.Update(keyRunes("p"))

	assert.Contains(t, ov.FooterView(), "Preview: raw")
	assert.Contains(t, ov.View(), "Subject: stored one␍")
}

func TestOutboxViewClear(t *testing.T) {
	ov, store, _ := newTestOutbox(t)
	e := store.Add(history.Entry{Subject: "hello", DryRun: true})
	ov.Update(events.SendCompleteMsg{Entry: e})
	require.Len(t, ov.sv.GetRows(), 1)

	ov.Update(keyRunes("c"))

	assert.Empty(t, ov.sv.GetRows())
	assert.Equal(t, 0, store.Count())
}

func TestEntryStatus(t *testing.T) {
	tests := map[string]struct {
		entry history.Entry
		want  string
	}{
		"sent":    {entry: history.Entry{}, want: "sent"},
		"dry run": {entry: history.Entry{DryRun: true}, want: "dry run"},
		"failed":  {entry: history.Entry{DryRun: true, Err: errors.New("boom")}, want: "failed"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, entryStatus(tc.entry))
		})
	}
}

func TestEntrySummary(t *testing.T) {
	summary := entrySummary(history.Entry{
		Time:       time.Unix(1700000000, 0).UTC(),
		Recipients: []string{"a@example.com", "b@example.com"},
		Size:       120,
		Duration:   1500 * time.Millisecond,
	})

	assert.Contains(t, summary, "a@example.com, b@example.com")
	assert.Contains(t, summary, "120 bytes")
	assert.Contains(t, summary, "1.5s")
	assert.Contains(t, summary, "Delivered")
}
