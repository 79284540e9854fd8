// Package logger writes pipeline diagnostics for studymate.
// Nothing is printed unless verbose mode is enabled with --verbose, in which
// case load, chunk, embed, retrieve and generate stages report to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now               = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Stage starts timing a pipeline stage. The returned function logs its
// message at debug level, prefixed with the stage name and followed by the
// time elapsed since Stage was called:
//
//	done := logger.Stage("embed")
//	...
//	done("%d passages", n) // [DEBUG] embed: 12 passages (340ms)
func Stage(name string) func(format string, args ...any) {
	mu.RLock()
	start := now()
	mu.RUnlock()
	return func(format string, args ...any) {
		mu.RLock()
		elapsed := now().Sub(start).Round(time.Millisecond)
		mu.RUnlock()
		logf("[DEBUG] ", "%s: %s (%v)", name, fmt.Sprintf(format, args...), elapsed)
	}
}

func logf(prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}
