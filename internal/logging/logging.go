// Package logging owns the daemon's log files and the slog handler fan-out:
// a JSON application log, a JSON error log that only sees WARN and above,
// and a human-readable stderr stream when one is attached to a terminal.
package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"
)

// DefaultMaxLogSize is the size at which a log file is rotated aside.
const DefaultMaxLogSize = 1 << 20

// Sinks bundles the open log files with the logger writing to them.
type Sinks struct {
	app    *reopenableFile
	errs   *reopenableFile
	logger *slog.Logger
}

// Open creates the log directory and both log files, appending to existing
// content. The returned Sinks must be closed when the process exits.
func Open(appPath, errorPath string, level slog.Level) (*Sinks, error) {
	for _, dir := range []string{filepath.Dir(appPath), filepath.Dir(errorPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	app, err := openReopenable(appPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open application log: %w", err)
	}

	errs, err := openReopenable(errorPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	handlers := []slog.Handler{
		slog.NewJSONHandler(app, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(errs, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}

	return &Sinks{
		app:    app,
		errs:   errs,
		logger: slog.New(newFanout(handlers...)),
	}, nil
}

// Logger returns the logger that fans out to every sink.
func (s *Sinks) Logger() *slog.Logger {
	return s.logger
}

// Housekeep rotates any log file that has reached maxSize, renaming it to
// "<path>.old" (replacing the previous backup) and continuing in a fresh
// file. It returns the paths that were rotated.
func (s *Sinks) Housekeep(maxSize int64) ([]string, error) {
	var rotated []string
	var errs []error

	for _, f := range []*reopenableFile{s.app, s.errs} {
		did, err := f.rotateIfLarge(maxSize)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if did {
			rotated = append(rotated, f.path)
		}
	}

	return rotated, errors.Join(errs...)
}

func (s *Sinks) Close() error {
	return errors.Join(s.app.Close(), s.errs.Close())
}

// NewTerminalLogger returns a logger for interactive commands: readable text
// when stderr is a terminal, JSON when piped into something else.
func NewTerminalLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
