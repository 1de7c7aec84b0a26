// Package errors provides structured error handling for upgradecheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (facts and report files)
//   - 3XX: External tool errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryExternal indicates failures of external tools invoked by checks.
	CategoryExternal Category = "EXTERNAL"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFactsNotFound = "ERR_201_FACTS_NOT_FOUND"
	ErrCodeFactsCorrupt  = "ERR_202_FACTS_CORRUPT"
	ErrCodeReportWrite   = "ERR_203_REPORT_WRITE"
	ErrCodeReportRead    = "ERR_204_REPORT_READ"

	// External tool errors (300-399)
	ErrCodeCommandFailed   = "ERR_301_COMMAND_FAILED"
	ErrCodeToolUnavailable = "ERR_302_TOOL_UNAVAILABLE"

	// Validation errors (400-499)
	ErrCodeReportInvalid = "ERR_401_REPORT_INVALID"
	ErrCodeFactsSchema   = "ERR_402_FACTS_SCHEMA"
	ErrCodeInvalidInput  = "ERR_403_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeCheckFailed = "ERR_502_CHECK_FAILED"
	ErrCodeInterrupted = "ERR_503_INTERRUPTED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryExternal
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCheckFailed, ErrCodeFactsSchema, ErrCodeInterrupted:
		return SeverityFatal
	case ErrCodeToolUnavailable:
		// Logged and swallowed by the checks that see it.
		return SeverityWarning
	}
	return SeverityError
}
