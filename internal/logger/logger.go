// Package logger builds the process-wide structured logger: colored
// tint-based output to stderr in development, JSON-to-rotating-file in
// production, matching the error taxonomy's log-level expectations (§7).
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"

	"seelencore/internal/define"
)

const (
	// LevelTrace extends slog's level range downward for the §7.1
	// "transient OS error, log at TRACE and swallow" path.
	LevelTrace = slog.LevelDebug - 4

	maxFileSize = 10 * 1024 * 1024
	maxBackups  = 5
	logFileName = "core.log"
	logDirName  = "logs"
)

// rotatingWriter is an io.Writer that writes to a file and rotates when the
// file exceeds maxFileSize. Old log files are kept up to maxBackups.
type rotatingWriter struct {
	mu       sync.Mutex
	file     *os.File
	dir      string
	size     int64
	maxSize  int64
	maxFiles int
}

func newRotatingWriter(dir string) (*rotatingWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	w := &rotatingWriter{dir: dir, maxSize: maxFileSize, maxFiles: maxBackups}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotatingWriter) openFile() error {
	path := filepath.Join(w.dir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

func (w *rotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			_ = err
		}
	}

	n, err = w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) rotate() error {
	if w.file != nil {
		w.file.Close()
	}

	src := filepath.Join(w.dir, logFileName)
	stamp := time.Now().Format("20060102-150405")
	dst := filepath.Join(w.dir, fmt.Sprintf("core-%s.log", stamp))
	if err := os.Rename(src, dst); err != nil && !os.IsNotExist(err) {
		return w.openFile()
	}

	w.cleanBackups()
	return w.openFile()
}

func (w *rotatingWriter) cleanBackups() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	var backups []string
	for _, e := range entries {
		name := e.Name()
		if name != logFileName && strings.HasPrefix(name, "core-") && strings.HasSuffix(name, ".log") {
			backups = append(backups, name)
		}
	}

	if len(backups) <= w.maxFiles {
		return
	}

	sort.Strings(backups)
	for _, name := range backups[:len(backups)-w.maxFiles] {
		os.Remove(filepath.Join(w.dir, name))
	}
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

var (
	globalWriter *rotatingWriter
	globalMu     sync.Mutex
)

// New builds the process logger. In development it writes tint-colored
// text to stderr plus the rotating file; in production it writes JSON to
// the rotating file only (there is no console to read in a packaged
// background service). The returned cleanup must run on shutdown.
func New() (logger *slog.Logger, cleanup func(), err error) {
	logDir, err := resolveLogDir()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log dir: %w", err)
	}

	globalMu.Lock()
	defer globalMu.Unlock()

	w, err := newRotatingWriter(logDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init rotating writer: %w", err)
	}
	globalWriter = w

	var handler slog.Handler
	if define.IsDev() {
		writer := io.MultiWriter(os.Stderr, w)
		handler = tint.NewHandler(writer, &tint.Options{
			Level:      LevelTrace,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: LevelTrace})
	}
	logger = slog.New(handler)

	cleanup = func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		if globalWriter != nil {
			globalWriter.Close()
			globalWriter = nil
		}
	}

	return logger, cleanup, nil
}

func resolveLogDir() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, define.AppID, logDirName), nil
}
