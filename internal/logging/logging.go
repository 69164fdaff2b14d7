// Package logging builds the process-wide slog logger on top of charmbracelet/log.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix tags every log line written by the CLI.
const Prefix = "task-cli"

// New returns a slog.Logger writing human-readable lines to w.
// Only warnings and errors are shown unless verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:     level,
		Formatter: log.TextFormatter,
		Prefix:    Prefix,
	})
	return slog.New(handler)
}

// Install makes New(w, verbose) the default slog logger.
func Install(w io.Writer, verbose bool) {
	slog.SetDefault(New(w, verbose))
}
