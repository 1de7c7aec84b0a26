package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// RotatingWriter is an io.Writer that rotates the debug log by size.
//
// Several upgradecheck processes may log to the same file, so rotation is
// serialised through a <log>.lock file. A writer that finds the file already
// rotated by another process reopens it instead of rotating again.
type RotatingWriter struct {
	path     string
	maxSize  int64
	maxFiles int
	lock     *flock.Flock

	mu            sync.Mutex
	file          *os.File
	written       int64
	immediateSync bool
}

// NewRotatingWriter opens path for appending, creating its directory.
// The file is rotated once it would grow past maxSizeMB, keeping at most
// maxFiles rotated copies (path.1 is the newest). Writes are synced to disk
// unless SetImmediateSync(false) is called.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &RotatingWriter{
		path:          path,
		maxSize:       int64(maxSizeMB) << 20,
		maxFiles:      maxFiles,
		lock:          flock.New(path + ".lock"),
		immediateSync: true,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// SetImmediateSync toggles the fsync after each write.
func (w *RotatingWriter) SetImmediateSync(enabled bool) {
	w.mu.Lock()
	w.immediateSync = enabled
	w.mu.Unlock()
}

// Write implements io.Writer. A failed rotation is reported on stderr and
// the write goes to the current file.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written+int64(len(p)) > w.maxSize {
		if err := w.rotateLocked(int64(len(p))); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "upgradecheck: log rotation failed: %v\n", err)
		}
	}

	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.written += int64(n)
	if err == nil && w.immediateSync {
		_ = w.file.Sync()
	}
	return n, err
}

// Sync flushes the current file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close closes the current file. A later Write reopens it.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = f
	w.written = info.Size()
	return nil
}

// rotateLocked shifts path.N to path.N+1 and path to path.1 under the
// cross-process lock. Caller holds w.mu.
func (w *RotatingWriter) rotateLocked(incoming int64) error {
	if err := w.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock log file: %w", err)
	}
	defer func() { _ = w.lock.Unlock() }()

	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		w.file = nil
	}

	// Another process may have rotated while we waited for the lock.
	if info, err := os.Stat(w.path); err == nil && w.maxSize > 0 && info.Size()+incoming <= w.maxSize {
		return w.open()
	}

	_ = os.Remove(w.rotatedName(w.maxFiles))
	for n := w.maxFiles - 1; n >= 1; n-- {
		if err := os.Rename(w.rotatedName(n), w.rotatedName(n+1)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to shift %s: %w", w.rotatedName(n), err)
		}
	}
	if w.maxFiles > 0 {
		if err := os.Rename(w.path, w.rotatedName(1)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		_ = os.Remove(w.path)
	}

	return w.open()
}

func (w *RotatingWriter) rotatedName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
