package errors

import (
	stderrors "errors"
	"fmt"
)

// UpgradeError is the structured error type for upgradecheck.
// It carries enough context for logging, for the CLI and for machine output.
type UpgradeError struct {
	// Code is the unique error code (e.g., "ERR_201_FACTS_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, External, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *UpgradeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *UpgradeError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with UpgradeError.
func (e *UpgradeError) Is(target error) bool {
	if t, ok := target.(*UpgradeError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *UpgradeError) WithDetail(key, value string) *UpgradeError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the operator.
// Returns the error for method chaining.
func (e *UpgradeError) WithSuggestion(suggestion string) *UpgradeError {
	e.Suggestion = suggestion
	return e
}

// New creates a new UpgradeError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *UpgradeError {
	return &UpgradeError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an UpgradeError from an existing error.
// The error's message becomes the UpgradeError message.
func Wrap(code string, err error) *UpgradeError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *UpgradeError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *UpgradeError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ToolError creates an error for an external tool that could not be invoked at all.
func ToolError(message string, cause error) *UpgradeError {
	return New(ErrCodeToolUnavailable, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *UpgradeError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current run.
func IsFatal(err error) bool {
	var ue *UpgradeError
	if stderrors.As(err, &ue) {
		return ue.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an UpgradeError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var ue *UpgradeError
	if stderrors.As(err, &ue) {
		return ue.Code
	}
	return ""
}
