package preflight

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

func TestNeedsCheck(t *testing.T) {
	// Given: a directory without marker file
	tmpDir := t.TempDir()
	assert.True(t, NeedsCheck(tmpDir))

	// When: a passing run is recorded
	require.NoError(t, MarkPassed(tmpDir, time.Now()))

	// Then: no check is needed
	assert.False(t, NeedsCheck(tmpDir))
}

func TestMarkPassed_WritesTimestamp(t *testing.T) {
	tmpDir := t.TempDir()
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)

	require.NoError(t, MarkPassed(tmpDir, at))

	content, err := os.ReadFile(filepath.Join(tmpDir, MarkerFile))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01T12:30:00Z", string(content))
}

func TestMarkPassed_CreatesDataDir(t *testing.T) {
	// Given: a non-existent data directory
	dataDir := filepath.Join(t.TempDir(), "var", "lib", "upgradecheck")

	// When: marking as passed
	err := MarkPassed(dataDir, time.Now())

	// Then: directory and marker file are created
	require.NoError(t, err)
	assert.DirExists(t, dataDir)
	assert.FileExists(t, filepath.Join(dataDir, MarkerFile))
}

func TestMarkPassed_DataDirIsAFile(t *testing.T) {
	// Given: the data dir path is taken by a regular file
	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	// When: marking as passed
	err := MarkPassed(path, time.Now())

	// Then: a report write error is returned
	require.Error(t, err)
	assert.Equal(t, uerrors.ErrCodeReportWrite, uerrors.GetCode(err))
}

func TestClearMarker(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, MarkPassed(tmpDir, time.Now()))

	require.NoError(t, ClearMarker(tmpDir))
	assert.NoFileExists(t, filepath.Join(tmpDir, MarkerFile))

	// Clearing again is a no-op
	assert.NoError(t, ClearMarker(tmpDir))
}

func TestMarkerAge(t *testing.T) {
	tmpDir := t.TempDir()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, MarkPassed(tmpDir, at))

	age := MarkerAge(tmpDir, at.Add(90*time.Minute))

	assert.Equal(t, 90*time.Minute, age)
}

func TestMarkerAge_MissingOrCorrupt(t *testing.T) {
	tmpDir := t.TempDir()
	assert.Zero(t, MarkerAge(tmpDir, time.Now()))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, MarkerFile), []byte("yesterday"), 0644))
	assert.Zero(t, MarkerAge(tmpDir, time.Now()))
}
