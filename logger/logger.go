// SPDX-License-Identifier: EPL-2.0

// Package logger provides the diagnostic sink used by the audio file layer.
//
// A Logger holds separate loggers for informational, warning, error and debug
// messages with consistent prefixes. A nil *Logger is valid and silent, so
// callers that want no diagnostics simply pass none.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

// Logger writes leveled diagnostics.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger
}

// New creates a logger writing to w. Level "debug" enables debug messages,
// "error" keeps only errors, anything else logs info, warnings and errors.
func New(w io.Writer, level string) *Logger {
	flags := 0
	discard := log.New(io.Discard, "", 0)
	l := &Logger{
		info:  log.New(w, "INFO: ", flags),
		warn:  log.New(w, "WARN: ", flags),
		err:   log.New(w, "ERROR: ", flags),
		debug: discard,
	}
	switch strings.ToLower(level) {
	case "debug":
		l.debug = log.New(w, "DEBUG: ", flags)
	case "error":
		l.info = discard
		l.warn = discard
	}
	return l
}

// Stderr returns a logger on standard error at the given level.
func Stderr(level string) *Logger { return New(os.Stderr, level) }

// Info logs informational messages.
func (l *Logger) Info(message string, args ...interface{}) {
	if l != nil {
		l.info.Printf(message, args...)
	}
}

// Warn logs recoverable problems such as header fields that were corrected.
func (l *Logger) Warn(message string, args ...interface{}) {
	if l != nil {
		l.warn.Printf(message, args...)
	}
}

// Error logs error messages.
func (l *Logger) Error(message string, args ...interface{}) {
	if l != nil {
		l.err.Printf(message, args...)
	}
}

// Debug logs debug messages.
func (l *Logger) Debug(message string, args ...interface{}) {
	if l != nil {
		l.debug.Printf(message, args...)
	}
}
