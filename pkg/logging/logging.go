// Package logging configures the process-wide slog logger
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init installs a text logger on stderr. Debug enables debug level and
// source locations.
func Init(debug bool) {
	slog.SetDefault(New(os.Stderr, debug))
}

// New builds the logger Init installs, writing to w
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
}
