// Package logger is the log-only sink for everything the updater must
// never show in a dialog: startup-check failures, skip-file damage,
// link-open errors. It writes leveled lines to a daily-rotated file
// under the app home dir.
package logger

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes leveled, timestamped lines to a single output.
type Logger struct {
	mu       sync.RWMutex
	minLevel Level

	outMu sync.Mutex
	out   io.Writer
}

// New returns a logger writing to w at info level. A nil writer
// discards everything.
func New(w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{minLevel: LevelInfo, out: w}
}

// SetLevelFromString selects the minimum level; unknown strings fall
// back to info.
func (l *Logger) SetLevelFromString(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch level {
	case "debug":
		l.minLevel = LevelDebug
	case "info":
		l.minLevel = LevelInfo
	case "warn":
		l.minLevel = LevelWarn
	case "error":
		l.minLevel = LevelError
	default:
		l.minLevel = LevelInfo
	}
}

// SetOutput swaps the destination. A nil writer discards.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.outMu.Lock()
	l.out = w
	l.outMu.Unlock()
}

func (l *Logger) log(level Level, tag string, format string, args ...any) {
	l.mu.RLock()
	minLevel := l.minLevel
	l.mu.RUnlock()
	if level < minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)
	l.outMu.Lock()
	fmt.Fprintf(l.out, "[%-5s] %s %s\n", tag, timestamp, message)
	l.outMu.Unlock()
}

func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, "DEBUG", format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(LevelInfo, "INFO", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(LevelWarn, "WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, "ERROR", format, args...) }
