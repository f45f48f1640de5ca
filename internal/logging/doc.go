// Package logging assembles structured slog loggers and formatting helpers used
// across Hitchcock.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code can tag log lines with run
// IDs, stage names and scene IDs. Console output is coloured only when it is
// attached to a terminal. The package also provides a no-op logger for tests.
package logging
