// Package logger provides printf-style levelled logging to stderr.
// Debug output is suppressed unless verbose mode is enabled.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu    sync.RWMutex
	level = new(slog.LevelVar)
	base  = newLogger(os.Stderr)
)

func init() {
	level.Set(slog.LevelInfo)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

// Verbose reports whether debug output is enabled.
func Verbose() bool {
	return level.Level() <= slog.LevelDebug
}

// SetOutput redirects log output. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(w)
}

func logf(l slog.Level, format string, args ...any) {
	mu.RLock()
	lg := base
	mu.RUnlock()
	if !lg.Enabled(context.Background(), l) {
		return
	}
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Info logs at info level.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn logs at warning level.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Error logs at error level.
func Error(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}
