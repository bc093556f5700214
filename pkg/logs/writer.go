package logs

import (
	"bytes"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// LogLineMsg carries one complete log line to the logs view.
type LogLineMsg struct {
	Line string
}

// MsgSender is the part of *tea.Program the writer needs.
type MsgSender interface {
	Send(msg tea.Msg)
}

// LogWriter is a custom io.Writer that sends log lines to a Bubble Tea program.
type LogWriter struct {
	program MsgSender
	buffer  bytes.Buffer
	mu      sync.Mutex
}

// NewLogWriter creates a new log writer that sends lines to the Bubble Tea program.
// A nil program drops every line.
func NewLogWriter(program MsgSender) *LogWriter {
	return &LogWriter{
		program: program,
	}
}

// Write implements io.Writer and sends complete lines to the Bubble Tea program.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err = w.buffer.Write(p)
	if err != nil {
		return n, err
	}

	for {
		line, err := w.buffer.ReadString('\n')
		if err != nil {
			// keep the incomplete line for the next write
			w.buffer.Reset()
			w.buffer.WriteString(line)
			break
		}
		if w.program != nil {
			w.program.Send(LogLineMsg{Line: line})
		}
	}
	return n, nil
}

// Sync flushes nothing; lines are sent as soon as they are complete.
func (w *LogWriter) Sync() error {
	return nil
}
