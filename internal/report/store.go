package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// jsonReport is the on-disk form of a Report.
type jsonReport struct {
	Key         string   `json:"key"`
	Source      string   `json:"source,omitempty"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Remediation string   `json:"remediation,omitempty"`
	Severity    Severity `json:"severity"`
	Tags        []Tag    `json:"tags,omitempty"`
	Flags       []Flag   `json:"flags,omitempty"`
}

// Document is the report file written after a run.
type Document struct {
	GeneratedAt time.Time `json:"generated_at"`
	Entries     []Report  `json:"entries"`
}

// MarshalJSON implements json.Marshaler.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonReport{
		Key:         r.Key(),
		Source:      r.source,
		Title:       r.title,
		Summary:     r.summary,
		Remediation: r.remediation,
		Severity:    r.severity,
		Tags:        r.tags,
		Flags:       r.flags,
	})
}

// UnmarshalJSON implements json.Unmarshaler. Decoded reports go through the
// same validation as New.
func (r *Report) UnmarshalJSON(data []byte) error {
	var jr jsonReport
	if err := json.Unmarshal(data, &jr); err != nil {
		return err
	}
	decoded, err := New(
		Source(jr.Source),
		Title(jr.Title),
		Summary(jr.Summary),
		Remediation(jr.Remediation),
		WithSeverity(jr.Severity),
		Tags(jr.Tags...),
		Flags(jr.Flags...),
	)
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// SaveFile writes reports to path as a Document under an exclusive file lock.
// The file is replaced atomically.
func SaveFile(path string, reports []Report) error {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "lock report file", err).WithDetail("path", path)
	}
	defer func() { _ = lock.Unlock() }()

	if reports == nil {
		reports = []Report{}
	}
	data, err := json.MarshalIndent(Document{GeneratedAt: time.Now().UTC(), Entries: reports}, "", "  ")
	if err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "encode reports", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return uerrors.New(uerrors.ErrCodeReportWrite, "create report file", err).WithDetail("path", path)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return uerrors.New(uerrors.ErrCodeReportWrite, "write report file", err).WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return uerrors.New(uerrors.ErrCodeReportWrite, "close report file", err).WithDetail("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return uerrors.New(uerrors.ErrCodeReportWrite, "replace report file", err).WithDetail("path", path)
	}
	return nil
}

// LoadFile reads a Document written by SaveFile.
func LoadFile(path string) (*Document, error) {
	lock := NewFileLock(path)
	if err := lock.RLock(); err != nil {
		return nil, uerrors.New(uerrors.ErrCodeReportRead, "lock report file", err).WithDetail("path", path)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uerrors.New(uerrors.ErrCodeReportRead, fmt.Sprintf("read report file %s", path), err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, uerrors.New(uerrors.ErrCodeReportRead, fmt.Sprintf("parse report file %s", path), err)
	}
	return &doc, nil
}
