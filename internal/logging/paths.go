package logging

import (
	"os"
	"path/filepath"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

// DefaultLogDir returns the default log directory (~/.upgradecheck/logs/).
// Falls back to the temp directory if the home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".upgradecheck", "logs")
	}
	return filepath.Join(home, ".upgradecheck", "logs")
}

// DefaultLogPath returns the default debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "upgradecheck.log")
}

// FindLogFile returns the log file to view: the explicit path when given,
// otherwise the default log path.
func FindLogFile(explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = DefaultLogPath()
	}
	if _, err := os.Stat(path); err != nil {
		return "", uerrors.New(uerrors.ErrCodeInvalidInput, "log file not found", err).
			WithDetail("path", path).
			WithSuggestion("Run 'upgradecheck --debug check' to produce a debug log")
	}
	return path, nil
}
