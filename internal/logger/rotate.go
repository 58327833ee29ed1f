package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const logPrefix = "quill-updater"

// LogDir returns where the updater keeps its log files.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, "logs")
}

// CurrentLogPath returns today's log file path; the logs command tails it.
func CurrentLogPath(homeDir string) string {
	return filepath.Join(LogDir(homeDir), fmt.Sprintf("%s-%s.log", logPrefix, time.Now().Format("2006-01-02")))
}

// RotatingWriter appends to one file per calendar day and deletes
// files older than the retention window. Safe for concurrent writes.
type RotatingWriter struct {
	dir           string
	retentionDays int

	mu          sync.Mutex
	currentDay  string
	currentFile *os.File
	cleanupDay  string
	now         func() time.Time
}

// NewRotatingWriter creates the log directory and returns a writer
// rotating daily with the given retention (days; <=0 means 7).
func NewRotatingWriter(homeDir string, retentionDays int) (*RotatingWriter, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	w := &RotatingWriter{
		dir:           LogDir(homeDir),
		retentionDays: retentionDays,
		now:           time.Now,
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := w.now().Format("2006-01-02")
	if err := w.ensureOpenLocked(day); err != nil {
		return 0, err
	}
	return w.currentFile.Write(p)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentFile == nil {
		return nil
	}
	err := w.currentFile.Close()
	w.currentFile = nil
	w.currentDay = ""
	return err
}

func (w *RotatingWriter) ensureOpenLocked(day string) error {
	if w.currentFile != nil && w.currentDay == day {
		return nil
	}
	if w.currentFile != nil {
		_ = w.currentFile.Close()
		w.currentFile = nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.log", logPrefix, day))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	w.currentFile = f
	w.currentDay = day

	// Cleanup at most once per day.
	if w.cleanupDay != day {
		w.cleanupLocked()
		w.cleanupDay = day
	}
	return nil
}

func (w *RotatingWriter) cleanupLocked() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	cutoff := w.now().AddDate(0, 0, -w.retentionDays).Format("2006-01-02")
	wantPrefix := logPrefix + "-"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, wantPrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		day := strings.TrimSuffix(strings.TrimPrefix(name, wantPrefix), ".log")
		if len(day) != len("2006-01-02") {
			continue
		}
		if _, err := time.Parse("2006-01-02", day); err != nil {
			continue
		}
		if day < cutoff {
			_ = os.Remove(filepath.Join(w.dir, name))
		}
	}
}
