package preflight

import (
	"os"
	"path/filepath"
	"time"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// MarkerFile is written to the data directory after a run without inhibitors.
const MarkerFile = ".upgradecheck-passed"

// NeedsCheck returns true if no passing run has been recorded in dataDir.
func NeedsCheck(dataDir string) bool {
	markerPath := filepath.Join(dataDir, MarkerFile)
	_, err := os.Stat(markerPath)
	return os.IsNotExist(err)
}

// MarkPassed records a passing run at the given time.
func MarkPassed(dataDir string, at time.Time) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "create marker directory", err).
			WithDetail("path", dataDir)
	}

	markerPath := filepath.Join(dataDir, MarkerFile)
	content := []byte(at.UTC().Format(time.RFC3339))
	if err := os.WriteFile(markerPath, content, 0644); err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "write marker file", err).
			WithDetail("path", markerPath)
	}
	return nil
}

// ClearMarker removes the marker. An inhibited run calls it so a stale pass
// is never reported.
func ClearMarker(dataDir string) error {
	markerPath := filepath.Join(dataDir, MarkerFile)
	err := os.Remove(markerPath)
	if os.IsNotExist(err) {
		return nil // Already gone
	}
	if err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "remove marker file", err).
			WithDetail("path", markerPath)
	}
	return nil
}

// MarkerAge returns how long before now the last passing run was recorded.
// Returns zero if the marker is missing or unreadable.
func MarkerAge(dataDir string, now time.Time) time.Duration {
	markerPath := filepath.Join(dataDir, MarkerFile)
	content, err := os.ReadFile(markerPath)
	if err != nil {
		return 0
	}

	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return 0
	}

	return now.Sub(t)
}
