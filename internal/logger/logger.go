package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w. Debug enables debug records.
func New(w io.Writer, debug bool, showSource bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: showSource,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupGlobal installs a stderr logger as the slog default and returns it
func SetupGlobal(debug bool, showSource bool) *slog.Logger {
	logger := New(os.Stderr, debug, showSource)
	slog.SetDefault(logger)
	return logger
}
