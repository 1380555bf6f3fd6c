// Package logging wires a single slog.Logger for the CLI: structured,
// leveled diagnostics on stderr, mirroring how the rest of the ambient
// stack prefers a library-shaped facility over ad hoc fmt.Fprintf. Console
// result rendering (internal/output) writes human-facing text directly, by
// design, and never goes through this logger — the two are different
// audiences (an operator tailing stderr for diagnostics vs. machine or
// human consumers of the result stream on stdout).
package logging

import (
	"io"
	"log/slog"
)

// New builds a slog.Logger writing to w. verbose selects slog.LevelDebug;
// otherwise slog.LevelInfo.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
