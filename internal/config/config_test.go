package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func missing(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "/var/lib/upgradecheck/facts.yaml", cfg.Facts.Path)
	assert.Equal(t, "/var/log/upgradecheck/reports.json", cfg.Reports.Path)
	assert.Equal(t, "/etc/os-release", cfg.Platform.OSReleasePath)
	assert.Equal(t, "/usr/sbin/cln-switch-channel", cfg.Channel.SwitchBin)
	assert.Equal(t, "yum", cfg.Channel.YumBin)
	assert.Equal(t, "/var/lib/upgradecheck", cfg.DataDir)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 5, cfg.Logging.MaxFiles)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	// Given: neither system nor explicit config exists
	cfg, err := load(missing(t), "")

	// Then: defaults are returned
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	// Given: a system config, an explicit config and an env override
	dir := t.TempDir()
	system := writeFile(t, dir, "system.yaml", `
facts:
  path: /srv/facts.yaml
reports:
  path: /srv/reports.json
logging:
  level: warn
`)
	explicit := writeFile(t, dir, "explicit.yaml", `
reports:
  path: /tmp/reports.json
channel:
  yum_bin: /usr/bin/dnf
`)
	t.Setenv("UPGRADECHECK_LOG_LEVEL", "debug")

	// When: loading
	cfg, err := load(system, explicit)

	// Then: each layer overrides the one below it
	require.NoError(t, err)
	assert.Equal(t, "/srv/facts.yaml", cfg.Facts.Path)
	assert.Equal(t, "/tmp/reports.json", cfg.Reports.Path)
	assert.Equal(t, "/usr/bin/dnf", cfg.Channel.YumBin)
	assert.Equal(t, "/usr/sbin/cln-switch-channel", cfg.Channel.SwitchBin)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("UPGRADECHECK_FACTS_PATH", "/env/facts.yaml")
	t.Setenv("UPGRADECHECK_REPORTS_PATH", "/env/reports.json")
	t.Setenv("UPGRADECHECK_OS_RELEASE_PATH", "/env/os-release")
	t.Setenv("UPGRADECHECK_SWITCH_BIN", "/env/switch")
	t.Setenv("UPGRADECHECK_YUM_BIN", "/env/yum")
	t.Setenv("UPGRADECHECK_DATA_DIR", "/env/data")
	t.Setenv("UPGRADECHECK_LOG_MAX_SIZE_MB", "3")
	t.Setenv("UPGRADECHECK_LOG_MAX_FILES", "2")

	cfg, err := load(missing(t), "")

	require.NoError(t, err)
	assert.Equal(t, "/env/facts.yaml", cfg.Facts.Path)
	assert.Equal(t, "/env/reports.json", cfg.Reports.Path)
	assert.Equal(t, "/env/os-release", cfg.Platform.OSReleasePath)
	assert.Equal(t, "/env/switch", cfg.Channel.SwitchBin)
	assert.Equal(t, "/env/yum", cfg.Channel.YumBin)
	assert.Equal(t, "/env/data", cfg.DataDir)
	assert.Equal(t, 3, cfg.Logging.MaxSizeMB)
	assert.Equal(t, 2, cfg.Logging.MaxFiles)
}

func TestLoad_EnvNotAnInteger(t *testing.T) {
	t.Setenv("UPGRADECHECK_LOG_MAX_FILES", "many")

	_, err := load(missing(t), "")

	require.Error(t, err)
	assert.Equal(t, uerrors.ErrCodeConfigInvalid, uerrors.GetCode(err))
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := load(missing(t), missing(t))

	require.Error(t, err)
	assert.Equal(t, uerrors.ErrCodeConfigNotFound, uerrors.GetCode(err))
	assert.Contains(t, uerrors.FormatForCLI(err), "config init")
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")

	cfg, err := load(missing(t), path)

	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_InvalidFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "facts: [unclosed"},
		{"unknown key", "facts:\n  paht: /typo\n"},
		{"wrong type", "logging:\n  max_files: lots\n"},
		{"bad level", "logging:\n  level: verbose\n"},
		{"negative rotation size", "logging:\n  max_size_mb: -1\n"},
		{"future version", "version: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)

			_, err := load(missing(t), path)

			require.Error(t, err)
			assert.Equal(t, uerrors.ErrCodeConfigInvalid, uerrors.GetCode(err))
		})
	}
}

func TestValidate_EmptyPath(t *testing.T) {
	cfg := NewConfig()
	cfg.Channel.SwitchBin = "  "

	err := cfg.Validate()

	require.Error(t, err)
	var ue *uerrors.UpgradeError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "channel.switch_bin", ue.Details["key"])
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	// Given: a customised config
	cfg := NewConfig()
	cfg.Facts.Path = "/custom/facts.yaml"
	cfg.Logging.Level = "error"
	path := filepath.Join(t.TempDir(), "etc", "upgradecheck", "config.yaml")

	// When: writing and loading it back
	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := load(missing(t), path)

	// Then: the values survive
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
