package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// FormatForUser returns an operator-friendly error message.
func FormatForUser(err error) string {
	if err == nil {
		return ""
	}

	ue, ok := err.(*UpgradeError)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(ue.Message)
	sb.WriteString("\n")

	if ue.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(ue.Suggestion)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n[%s]", ue.Code))

	return sb.String()
}

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var ue *UpgradeError
	if !stderrors.As(err, &ue) {
		ue = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", ue.Message))

	if ue.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", ue.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", ue.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	ue, ok := err.(*UpgradeError)
	if !ok {
		ue = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       ue.Code,
		Message:    ue.Message,
		Category:   string(ue.Category),
		Severity:   string(ue.Severity),
		Details:    ue.Details,
		Suggestion: ue.Suggestion,
	}

	if ue.Cause != nil {
		je.Cause = ue.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	ue, ok := err.(*UpgradeError)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": ue.Code,
		"message":    ue.Message,
		"category":   string(ue.Category),
		"severity":   string(ue.Severity),
	}

	if ue.Cause != nil {
		result["cause"] = ue.Cause.Error()
	}

	if ue.Suggestion != "" {
		result["suggestion"] = ue.Suggestion
	}

	for k, v := range ue.Details {
		result["detail_"+k] = v
	}

	return result
}

// LogAttrs converts FormatForLog output into slog attributes in a stable key order.
func LogAttrs(err error) []any {
	fields := FormatForLog(err)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}
