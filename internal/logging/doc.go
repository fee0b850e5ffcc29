// Package logging assembles structured slog loggers and formatting helpers
// used across prism commands.
//
// It owns the console and JSON handlers, parses configured levels, and can
// fan output out to both the terminal and a JSON log file. Components tag
// their lines with NewComponentLogger; NewNop serves tests and wiring code
// that has no logger to pass.
package logging
