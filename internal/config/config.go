// Package config loads upgradecheck configuration.
//
// Precedence, lowest to highest:
//  1. Hardcoded defaults
//  2. System config (/etc/upgradecheck/config.yaml)
//  3. Explicit config file (--config)
//  4. Environment variables (UPGRADECHECK_*)
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/upgradecheck/internal/cln"
	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/platform"
)

// SystemConfigPath is the machine-wide configuration file.
const SystemConfigPath = "/etc/upgradecheck/config.yaml"

// CurrentVersion is the configuration file format version.
const CurrentVersion = 1

// Config represents the complete upgradecheck configuration.
type Config struct {
	Version  int            `yaml:"version" json:"version"`
	Facts    FactsConfig    `yaml:"facts" json:"facts"`
	Reports  ReportsConfig  `yaml:"reports" json:"reports"`
	Platform PlatformConfig `yaml:"platform" json:"platform"`
	Channel  ChannelConfig  `yaml:"channel" json:"channel"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`

	// DataDir holds the pass marker.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// FactsConfig locates the facts document produced by the collector.
type FactsConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ReportsConfig locates the report document written by `check`.
type ReportsConfig struct {
	Path string `yaml:"path" json:"path"`
}

// PlatformConfig configures platform detection.
type PlatformConfig struct {
	OSReleasePath string `yaml:"os_release_path" json:"os_release_path"`
}

// ChannelConfig configures the CLN channel switch tools.
type ChannelConfig struct {
	SwitchBin string `yaml:"switch_bin" json:"switch_bin"`
	YumBin    string `yaml:"yum_bin" json:"yum_bin"`
}

// LoggingConfig configures the --debug log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Facts: FactsConfig{
			Path: "/var/lib/upgradecheck/facts.yaml",
		},
		Reports: ReportsConfig{
			Path: "/var/log/upgradecheck/reports.json",
		},
		Platform: PlatformConfig{
			OSReleasePath: platform.DefaultOSReleasePath,
		},
		Channel: ChannelConfig{
			SwitchBin: cln.DefaultSwitchBin,
			YumBin:    cln.DefaultYumBin,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
		DataDir: "/var/lib/upgradecheck",
	}
}

// Load builds the effective configuration. explicitPath may be empty; when
// set, the file must exist.
func Load(explicitPath string) (*Config, error) {
	return load(SystemConfigPath, explicitPath)
}

func load(systemPath, explicitPath string) (*Config, error) {
	cfg := NewConfig()

	// A missing system config is fine.
	if _, err := os.Stat(systemPath); err == nil {
		if err := cfg.loadYAML(systemPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, uerrors.New(uerrors.ErrCodeConfigNotFound, "config file not found", err).
				WithDetail("path", explicitPath).
				WithSuggestion("Check the --config path or run 'upgradecheck config init --path " + explicitPath + "'")
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadYAML parses path and merges its non-zero values into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return uerrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}

	var parsed Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&parsed); err != nil && !errors.Is(err, io.EOF) {
		return uerrors.ConfigError("failed to parse config file", err).WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}
	if other.Facts.Path != "" {
		c.Facts.Path = other.Facts.Path
	}
	if other.Reports.Path != "" {
		c.Reports.Path = other.Reports.Path
	}
	if other.Platform.OSReleasePath != "" {
		c.Platform.OSReleasePath = other.Platform.OSReleasePath
	}
	if other.Channel.SwitchBin != "" {
		c.Channel.SwitchBin = other.Channel.SwitchBin
	}
	if other.Channel.YumBin != "" {
		c.Channel.YumBin = other.Channel.YumBin
	}
	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
}

// applyEnvOverrides applies UPGRADECHECK_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	strVars := map[string]*string{
		"UPGRADECHECK_FACTS_PATH":      &c.Facts.Path,
		"UPGRADECHECK_REPORTS_PATH":    &c.Reports.Path,
		"UPGRADECHECK_OS_RELEASE_PATH": &c.Platform.OSReleasePath,
		"UPGRADECHECK_SWITCH_BIN":      &c.Channel.SwitchBin,
		"UPGRADECHECK_YUM_BIN":         &c.Channel.YumBin,
		"UPGRADECHECK_DATA_DIR":        &c.DataDir,
		"UPGRADECHECK_LOG_LEVEL":       &c.Logging.Level,
	}
	for name, dst := range strVars {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"UPGRADECHECK_LOG_MAX_SIZE_MB": &c.Logging.MaxSizeMB,
		"UPGRADECHECK_LOG_MAX_FILES":   &c.Logging.MaxFiles,
	}
	for name, dst := range intVars {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return uerrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", name, v), err).
				WithDetail("env", name)
		}
		*dst = n
	}

	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return uerrors.ConfigError(fmt.Sprintf("unsupported config version %d", c.Version), nil)
	}

	paths := map[string]string{
		"facts.path":               c.Facts.Path,
		"reports.path":             c.Reports.Path,
		"platform.os_release_path": c.Platform.OSReleasePath,
		"channel.switch_bin":       c.Channel.SwitchBin,
		"channel.yum_bin":          c.Channel.YumBin,
		"data_dir":                 c.DataDir,
	}
	for key, v := range paths {
		if strings.TrimSpace(v) == "" {
			return uerrors.ConfigError(key+" must not be empty", nil).WithDetail("key", key)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return uerrors.ConfigError(fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil).
			WithDetail("key", "logging.level")
	}

	if c.Logging.MaxSizeMB <= 0 {
		return uerrors.ConfigError(fmt.Sprintf("logging.max_size_mb must be positive, got %d", c.Logging.MaxSizeMB), nil).
			WithDetail("key", "logging.max_size_mb")
	}
	if c.Logging.MaxFiles <= 0 {
		return uerrors.ConfigError(fmt.Sprintf("logging.max_files must be positive, got %d", c.Logging.MaxFiles), nil).
			WithDetail("key", "logging.max_files")
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file, creating parent directories.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return uerrors.InternalError("failed to marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return uerrors.ConfigError("failed to create config directory", err).WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return uerrors.ConfigError("failed to write config file", err).WithDetail("path", path)
	}

	return nil
}
