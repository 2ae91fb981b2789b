// Package logging provides the compact console logger used for run
// progress. Records render as single lines with a colored level label when
// the destination is an interactive terminal.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
)

// NewConsole returns a logger writing single-line records to w. Records
// below level are dropped. color enables ANSI level labels.
func NewConsole(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(newConsoleHandler(w, level, color))
}

// ShouldColorize reports whether w is an interactive terminal that wants
// ANSI color. A non-empty NO_COLOR environment variable wins.
func ShouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
