// Package logging builds the slog loggers used across szurutool.
//
// Two formats are supported: a compact console handler for interactive use
// and slog's JSON handler for log files and machine consumption. Output goes
// to stderr plus a log file under the configured directory, keeping stdout
// free for command output.
package logging
