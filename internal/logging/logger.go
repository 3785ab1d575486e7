package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// current is the process-wide logger. It writes to stderr at info level
// until Init is called; swaps are safe while other goroutines log.
var current atomic.Pointer[log.Logger]

func init() {
	current.Store(newLogger(os.Stderr, log.InfoLevel))
}

// Logger returns the process-wide logger
func Logger() *log.Logger {
	return current.Load()
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          "codeecho",
	})
}

// Init replaces the global logger with one writing to w at the named level
func Init(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	current.Store(newLogger(w, lvl))
	return nil
}

// ParseLevel accepts debug, info, warn/warning and error
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Discard silences logging, used by tests
func Discard() {
	current.Store(newLogger(io.Discard, log.ErrorLevel))
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	current.Load().Debug(msg, keyvals...)
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	current.Load().Info(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	current.Load().Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	current.Load().Error(msg, keyvals...)
}
