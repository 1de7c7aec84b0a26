// Package ui provides terminal styling for check results and reports.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// StylesFor picks colored styles for terminals and plain styles for
// everything else (pipes, files, NO_COLOR).
func StylesFor(w io.Writer) Styles {
	return GetStyles(!IsTTY(w) || DetectNoColor())
}
