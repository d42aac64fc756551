// Package logging provides the stderr logger used by the CLI and the signer
// engine, plus redaction helpers so secret values never reach log output.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger writes human-oriented diagnostics to stderr. Stdout is reserved for
// command output (containers, signing results), so the two never mix.
type Logger struct {
	out     io.Writer
	debug   bool
	noColor bool
}

// New creates a logger writing to stderr.
func New(debug, noColor bool) *Logger {
	return &Logger{out: os.Stderr, debug: debug, noColor: noColor}
}

// NewWithWriter creates a logger with a custom writer, for tests.
func NewWithWriter(w io.Writer, debug, noColor bool) *Logger {
	return &Logger{out: w, debug: debug, noColor: noColor}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.emit("\033[32m✓\033[0m", "✓", format, args...)
}

// Warn logs a warning. Permissive-mode lock failures land here.
func (l *Logger) Warn(format string, args ...any) {
	l.emit("\033[33m⚠\033[0m", "⚠", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.emit("\033[31m✗\033[0m", "✗", format, args...)
}

// Debug logs a debug message when debug mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.debug {
		return
	}
	l.emit("\033[36m[DEBUG]\033[0m", "[DEBUG]", format, args...)
}

func (l *Logger) emit(colored, plain, format string, args ...any) {
	prefix := colored
	if l.noColor {
		prefix = plain
	}
	fmt.Fprintf(l.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Secret is a string whose value is redacted by every formatting verb.
// Wrap passphrases and key material in Secret before passing them anywhere
// near a log call.
type Secret string

// String implements fmt.Stringer, always redacted.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string { return "[REDACTED]" }

// Redact replaces occurrences of the given secret values in s.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		// Very short values would redact unrelated substrings.
		if len(secret) > 3 {
			s = strings.ReplaceAll(s, secret, "[REDACTED]")
		}
	}
	return s
}
