// Package logging builds the zerolog logger shared by the TUI and the
// one-shot commands.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Options selects where log lines go.
type Options struct {
	Level zerolog.Level
	// File receives JSON lines when set. It takes precedence over Console.
	File string
	// Console receives human readable lines. Nil discards output, which is
	// what the TUI wants while it owns the terminal.
	Console io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger and a closer for any file it opened.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	switch {
	case opts.File != "":
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return zerolog.Nop(), nil, errors.Errorf("creating log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nil, errors.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	case opts.Console != nil:
		w = zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.Kitchen,
			NoColor:    !IsTerminal(opts.Console),
		}
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(opts.Level)
	return logger, closer, nil
}

// WithContext attaches logger to ctx for zerolog.Ctx lookups.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
