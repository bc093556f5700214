package logs

import (
	"bytes"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProgram struct {
	mu    sync.Mutex
	lines []string
}

func (p *recordingProgram) Send(msg tea.Msg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if line, ok := msg.(LogLineMsg); ok {
		p.lines = append(p.lines, line.Line)
	}
}

func TestLogWriterSendsCompleteLines(t *testing.T) {
	p := &recordingProgram{}
	w := NewLogWriter(p)

	_, err := w.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first\n"}, p.lines)

	_, err = w.Write([]byte("ond\nthird\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first\n", "second\n", "third\n"}, p.lines)
}

func TestLogWriterWithoutProgram(t *testing.T) {
	w := NewLogWriter(nil)
	n, err := w.Write([]byte("dropped\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	p := &recordingProgram{}
	opts := DefaultOptions()
	opts.NoColor = true
	logger := NewLogger(p, opts)

	logger.Debug().Msg("hidden")
	logger.Info().Str("server", "mail.example.com").Msg("visible")

	require.Len(t, p.lines, 1)
	assert.Contains(t, p.lines[0], "visible")
	assert.Contains(t, p.lines[0], "server=mail.example.com")
}

func TestNewLoggerWithFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := &recordingProgram{}
	opts := DefaultOptions()
	opts.NoColor = true

	logger, closer, err := NewLoggerWithFile(p, fs, "mailprobe.log", opts)
	require.NoError(t, err)
	logger.Warn().Msg("to both")
	require.NoError(t, closer.Close())

	data, err := afero.ReadFile(fs, "mailprobe.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Len(t, p.lines, 1)
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.NoColor = true
	opts.Level = zerolog.DebugLevel

	logger := NewConsoleLogger(&buf, opts)
	logger.Debug().Msg("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func (p *recordingProgram) snapshot() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

func TestProgramRefQueuesUntilStarted(t *testing.T) {
	ref := NewProgramRef()
	logger := NewLogger(ref, DefaultOptions())
	logger.Info().Msg("before start")

	p := &recordingProgram{}
	ref.Start(p)
	defer ref.Stop()
	logger.Info().Msg("after start")

	assert.Eventually(t, func() bool {
		return len(p.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	lines := p.snapshot()
	assert.Contains(t, lines[0], "before start")
	assert.Contains(t, lines[1], "after start")
}

func TestProgramRefStop(t *testing.T) {
	ref := NewProgramRef()
	ref.Start(&recordingProgram{})
	ref.Stop()
	ref.Stop()

	ref.Send(LogLineMsg{Line: "queued\n"})
	ref.mu.Lock()
	defer ref.mu.Unlock()
	assert.Len(t, ref.pending, 1)
}
