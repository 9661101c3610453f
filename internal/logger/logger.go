// Package logger is the process-wide log for warroom.
//
// Debug, Info, Warn and Section lines are written only in verbose mode
// (--verbose) and trace ingestion, ranking and prompt building. Error lines
// are always written. Output goes to stderr so stdout stays clean for
// JSON output and the MCP stdio transport.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
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

// SetOutput redirects log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(lvl level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if lvl != levelError && !verbose {
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", lvl, fmt.Sprintf(format, args...))
}

// Debug logs pipeline detail.
func Debug(format string, args ...any) { write(levelDebug, format, args...) }

// Info logs a step outcome.
func Info(format string, args ...any) { write(levelInfo, format, args...) }

// Warn logs a recoverable problem, such as an unreadable page.
func Warn(format string, args ...any) { write(levelWarn, format, args...) }

// Error logs regardless of verbose mode. Long-running servers use it where
// no caller sees the returned error.
func Error(format string, args ...any) { write(levelError, format, args...) }

// Section starts a titled block of verbose output.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Elapsed logs the time since start at debug level:
//
//	defer logger.Elapsed("ingestion", time.Now())
func Elapsed(step string, start time.Time) {
	if !IsVerbose() {
		return
	}
	Debug("%s took %s", step, time.Since(start).Round(time.Millisecond))
}
