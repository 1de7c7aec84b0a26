package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestRotatingWriter_ImmediateSync(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Create writer with immediate sync (default)
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	// Write some data
	testData := []byte(`{"time":"2026-01-01T00:00:00Z","level":"INFO","msg":"test"}` + "\n")
	n, err := w.Write(testData)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != len(testData) {
		t.Errorf("expected %d bytes written, got %d", len(testData), n)
	}

	// With immediate sync, data should be visible immediately
	// Read the file without closing the writer
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(content) != string(testData) {
		t.Errorf("expected %q, got %q", string(testData), string(content))
	}
}

func TestRotatingWriter_DisableImmediateSync(t *testing.T) {
	// Create temp directory
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Create writer and disable immediate sync
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	w.SetImmediateSync(false)

	// Write should still succeed
	testData := []byte(`{"time":"2026-01-01T00:00:00Z","level":"INFO","msg":"test"}` + "\n")
	n, err := w.Write(testData)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != len(testData) {
		t.Errorf("expected %d bytes written, got %d", len(testData), n)
	}

	// Manually sync and verify
	if err := w.Sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(content) != string(testData) {
		t.Errorf("expected %q, got %q", string(testData), string(content))
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "rotate.log")

	// Create writer with very small max size (1KB) to trigger rotation
	w, err := NewRotatingWriter(logPath, 0, 3) // 0 MB = triggers rotation on any write
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	// Write data that exceeds the size limit
	largeData := make([]byte, 2048) // 2KB
	for i := range largeData {
		largeData[i] = 'x'
	}

	// Write first batch (should trigger rotation)
	_, err = w.Write(largeData)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	// Write second batch (should trigger another rotation)
	_, err = w.Write(largeData)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	// Verify rotated files exist
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("main log file should exist")
	}
	if _, err := os.Stat(logPath + ".1"); os.IsNotExist(err) {
		t.Error("rotated file .1 should exist")
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "maxfiles.log")

	// Create writer with maxFiles=2
	w, err := NewRotatingWriter(logPath, 0, 2) // 0 MB triggers rotation
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	largeData := make([]byte, 1024)
	for i := range largeData {
		largeData[i] = 'y'
	}

	// Write multiple times to trigger multiple rotations
	for i := 0; i < 5; i++ {
		_, _ = w.Write(largeData)
	}

	// After rotations with maxFiles=2, .3 and beyond should not exist
	// Only .1 and .2 should exist (plus current log)
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("rotated file .3 should not exist (beyond maxFiles)")
	}
}

func TestRotatingWriter_CloseSuccess(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "close.log")

	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	// Write some data first
	_, err = w.Write([]byte("test data\n"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Close should succeed
	err = w.Close()
	if err != nil {
		t.Errorf("close failed: %v", err)
	}
}

func TestRotatingWriter_SyncSuccess(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "sync.log")

	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	// Write some data
	_, err = w.Write([]byte("test data to sync\n"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Sync should succeed
	err = w.Sync()
	if err != nil {
		t.Errorf("sync failed: %v", err)
	}

	// Verify data is persisted
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(content), "test data to sync") {
		t.Error("synced data should be readable")
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "concurrent.log")

	w, err := NewRotatingWriter(logPath, 10, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	// Run concurrent writes (test race detector)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				msg := fmt.Sprintf(`{"id":%d,"iter":%d,"msg":"test"}`, id, j) + "\n"
				_, _ = w.Write([]byte(msg))
			}
		}(i)
	}
	wg.Wait()

	// Verify file exists and has content
	info, err := os.Stat(logPath)
	if err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("log file should have content")
	}
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "reopen.log")

	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// A closed writer reopens the file on the next write
	if _, err := w.Write([]byte("late line\n")); err != nil {
		t.Fatalf("write after close failed: %v", err)
	}
	_ = w.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if string(content) != "late line\n" {
		t.Errorf("unexpected content %q", string(content))
	}
}

func TestRotatingWriter_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "logs", "upgradecheck.log")

	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(filepath.Dir(logPath)); err != nil {
		t.Errorf("log directory should exist: %v", err)
	}
}

func TestRotatingWriter_SkipsRotationDoneByAnotherWriter(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shared.log")
	kib := func(n int) []byte { return bytes.Repeat([]byte{'z'}, n*1024) }

	if err := os.WriteFile(logPath, kib(900), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create first writer: %v", err)
	}
	defer first.Close()
	second, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create second writer: %v", err)
	}
	defer second.Close()

	// first rotates the 900 KiB file away
	if _, err := first.Write(kib(200)); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	// second still believes the file holds 900 KiB
	if _, err := second.Write(kib(200)); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	if _, err := os.Stat(logPath + ".2"); !os.IsNotExist(err) {
		t.Error("second writer rotated again; .2 should not exist")
	}
	info, err := os.Stat(logPath + ".1")
	if err != nil {
		t.Fatalf("rotated file .1 should exist: %v", err)
	}
	if info.Size() != 900*1024 {
		t.Errorf(".1 size = %d, want %d", info.Size(), 900*1024)
	}
	info, err = os.Stat(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 400*1024 {
		t.Errorf("log size = %d, want %d", info.Size(), 400*1024)
	}
}
