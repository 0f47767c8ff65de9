// Package logging builds the structured logger shared by the harness.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// EnvDebug enables debug logging when set to "1".
const EnvDebug = "HARNESS_DEBUG"

// Options control where log records go.
type Options struct {
	Debug  bool
	File   string
	Stderr io.Writer
	RunID  string
}

// New returns a logger and a close function for any file it opened. Logs are
// discarded unless debug is enabled or a file is given.
func New(opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if os.Getenv(EnvDebug) == "1" {
		opts.Debug = true
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var (
		handler slog.Handler
		closer  = noop
	)
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, noop, fmt.Errorf("open log file: %w", err)
		}
		handler = slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
		closer = f.Close
	case opts.Debug:
		handler = slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	default:
		return Discard(), noop, nil
	}

	logger := slog.New(handler)
	if opts.RunID != "" {
		logger = logger.With("run_id", opts.RunID)
	}
	return logger, closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
