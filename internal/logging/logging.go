package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	return New(os.Stderr, format)
}

// New is Setup with an explicit destination.
func New(w io.Writer, format string) zerolog.Logger {
	return zerolog.New(writer(w, format)).With().Timestamp().Logger()
}

func writer(w io.Writer, format string) io.Writer {
	if format == "text" {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// WithAudit returns a logger that writes to stderr like Setup and also
// appends JSON events to the audit file at path. The closer releases the
// file. An empty path returns log unchanged.
func WithAudit(log zerolog.Logger, format, path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return log, nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log, nopCloser{}, fmt.Errorf("open audit log: %w", err)
	}
	multi := zerolog.MultiLevelWriter(writer(os.Stderr, format), f)
	return zerolog.New(multi).With().Timestamp().Logger(), f, nil
}
