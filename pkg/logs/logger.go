package logs

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options controls how log lines are formatted.
type Options struct {
	TimeFormat string
	NoColor    bool
	Level      zerolog.Level
}

// DefaultOptions matches the logs view defaults.
func DefaultOptions() Options {
	return Options{
		TimeFormat: "15:04:05",
		Level:      zerolog.InfoLevel,
	}
}

// NewLogger creates a zerolog logger that outputs only to the TUI logs view.
// This prevents logs from breaking the TUI display by writing to stdout.
func NewLogger(program MsgSender, opts Options) zerolog.Logger {
	return newConsoleLogger(NewLogWriter(program), opts)
}

// NewLoggerWithFile creates a zerolog logger that outputs to both a file and the TUI logs view.
// The returned closer closes the log file.
func NewLoggerWithFile(program MsgSender, fs afero.Fs, logFilePath string, opts Options) (zerolog.Logger, io.Closer, error) {
	logFile, err := fs.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Logger{}, nil, errors.Wrapf(err, "opening log file %s", logFilePath)
	}

	multiWriter := io.MultiWriter(logFile, NewLogWriter(program))
	return newConsoleLogger(multiWriter, opts), logFile, nil
}

// NewConsoleLogger writes human readable lines to out, for the command line tool.
func NewConsoleLogger(out io.Writer, opts Options) zerolog.Logger {
	return newConsoleLogger(out, opts)
}

func newConsoleLogger(out io.Writer, opts Options) zerolog.Logger {
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultOptions().TimeFormat
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: opts.TimeFormat,
		NoColor:    opts.NoColor,
	}

	return zerolog.New(consoleWriter).
		Level(opts.Level).
		With().
		Timestamp().
		Logger()
}
