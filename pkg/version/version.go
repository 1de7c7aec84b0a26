// Package version reports build metadata for upgradecheck.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridden with -ldflags "-X github.com/Aman-CERP/upgradecheck/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// BuildInfo is the JSON form of the build metadata.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Modified  bool   `json:"modified,omitempty"`
}

// GetInfo returns the build metadata. Commit and date fall back to the VCS
// stamp embedded by the go command when ldflags did not set them.
func GetInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String is the one-line form printed by `upgradecheck version`.
func String() string {
	info := GetInfo()
	commit := info.Commit
	if info.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("upgradecheck %s (commit: %s, built: %s, go: %s, %s/%s)",
		info.Version, commit, info.Date, info.GoVersion, info.OS, info.Arch)
}

// Short returns the version alone.
func Short() string {
	return Version
}
