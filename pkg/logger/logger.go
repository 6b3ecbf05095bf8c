// Package logger provides a minimal component-scoped logger gated on a
// verbose flag, used throughout the codebase instead of the standard
// library's log package so that every message carries its origin.
package logger

import (
	"fmt"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose turns component logging on or off process-wide. Called once
// from main() after flags and AGENTPULSE_VERBOSE are resolved.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Logger writes component-prefixed lines to stderr when verbose mode is on.
type Logger struct {
	component string
}

// New returns a Logger scoped to component, e.g. logger.New("scanner").
func New(component string) *Logger {
	return &Logger{component: component}
}

// Enabled reports whether verbose logging is currently active.
func (l *Logger) Enabled() bool {
	return verbose.Load()
}

// Print writes msg if verbose mode is enabled.
func (l *Logger) Print(msg string) {
	if verbose.Load() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", l.component, msg)
	}
}

// Printf writes a formatted message if verbose mode is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if verbose.Load() {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", l.component, fmt.Sprintf(format, args...))
	}
}
