package sender

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// transcriptWriter logs the SMTP conversation one line at a time at debug level.
type transcriptWriter struct {
	mu     sync.Mutex
	logger zerolog.Logger
	buf    bytes.Buffer
}

func newTranscriptWriter(logger zerolog.Logger) *transcriptWriter {
	return &transcriptWriter{logger: logger}
}

func (w *transcriptWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.logger.Debug().Str("smtp", redact(strings.TrimRight(line, "\r\n"))).Msg("transcript")
	}
	return len(p), nil
}

// redact hides credentials sent during AUTH.
func redact(line string) string {
	upper := strings.ToUpper(line)
	if strings.HasPrefix(upper, "AUTH ") {
		fields := strings.Fields(line)
		if len(fields) > 2 {
			return strings.Join(fields[:2], " ") + " ****"
		}
	}
	return line
}
