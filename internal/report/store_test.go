package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

func TestSaveFile_LoadFile(t *testing.T) {
	// Given: two reports
	path := filepath.Join(t.TempDir(), "nested", "upgradecheck-report.json")
	first, err := New(validOptions()...)
	require.NoError(t, err)
	second := mustReport(t, "plain warning", false)

	// When: saving and loading them
	require.NoError(t, SaveFile(path, []Report{first, second}))
	doc, err := LoadFile(path)

	// Then: the entries come back intact and in order
	require.NoError(t, err)
	require.Len(t, doc.Entries, 2)
	assert.Equal(t, first, doc.Entries[0])
	assert.Equal(t, second, doc.Entries[1])
	assert.False(t, doc.GeneratedAt.IsZero())

	// And: the lock file sits next to the report
	assert.FileExists(t, path+".lock")
}

func TestSaveFile_EmptyRunWritesEmptyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, SaveFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `[]`, string(raw["entries"]))
}

func TestSaveFile_WritesKeyAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r, err := New(validOptions()...)
	require.NoError(t, err)

	require.NoError(t, SaveFile(path, []Report{r}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"key": "`+r.Key()+`"`)
	assert.Contains(t, string(data), `"INHIBITOR"`)
	assert.Contains(t, string(data), `"severity": "high"`)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))

	require.Error(t, err)
	assert.Equal(t, uerrors.ErrCodeReportRead, uerrors.GetCode(err))
}

func TestLoadFile_RejectsInvalidEntries(t *testing.T) {
	// Given: a report file whose entry has no severity
	path := filepath.Join(t.TempDir(), "report.json")
	content := `{"generated_at":"2026-01-01T00:00:00Z","entries":[{"title":"t","summary":"s"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// When: loading it
	_, err := LoadFile(path)

	// Then: validation rejects it
	require.Error(t, err)
	assert.Equal(t, uerrors.ErrCodeReportRead, uerrors.GetCode(err))
	assert.True(t, errors.Is(err, uerrors.New(uerrors.ErrCodeReportInvalid, "", nil)))
}

func TestFileLock_UnlockIsIdempotent(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "report.json"))

	assert.NoError(t, lock.Unlock())
	require.NoError(t, lock.Lock())
	assert.NoError(t, lock.Unlock())
	assert.NoError(t, lock.Unlock())
	assert.Equal(t, "report.json.lock", filepath.Base(lock.Path()))
}
