package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatForUser returns a user-friendly error message.
// If debug is true, the underlying cause is included.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}

	qe, ok := asQueryError(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(qe.Message)
	if qe.Position >= 0 {
		sb.WriteString(fmt.Sprintf(" (at offset %d)", qe.Position))
	}
	sb.WriteString("\n")

	if qe.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(qe.Suggestion)
		sb.WriteString("\n")
	}

	if debug && qe.Cause != nil {
		sb.WriteString("\nCause: ")
		sb.WriteString(qe.Cause.Error())
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n[%s]", qe.Code))

	return sb.String()
}

// FormatForCLI formats an error for CLI output.
// Uses a concise format suitable for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	qe, ok := asQueryError(err)
	if !ok {
		qe = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", qe.Message))

	if qe.Position >= 0 {
		sb.WriteString(fmt.Sprintf("  Offset: %d\n", qe.Position))
	}

	if qe.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", qe.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", qe.Code))

	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Position   *int              `json:"position,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

// FormatJSON returns a JSON representation of the error.
// Suitable for machine consumption and structured logging.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	qe, ok := asQueryError(err)
	if !ok {
		qe = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       qe.Code,
		Message:    qe.Message,
		Category:   string(qe.Category),
		Severity:   string(qe.Severity),
		Details:    qe.Details,
		Suggestion: qe.Suggestion,
	}

	if qe.Position >= 0 {
		pos := qe.Position
		je.Position = &pos
	}

	if qe.Cause != nil {
		je.Cause = qe.Cause.Error()
	}

	return json.Marshal(je)
}

// FormatForLog formats an error for structured logging.
// Returns key-value pairs suitable for slog attributes.
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	qe, ok := asQueryError(err)
	if !ok {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": qe.Code,
		"message":    qe.Message,
		"category":   string(qe.Category),
		"severity":   string(qe.Severity),
	}

	if qe.Position >= 0 {
		result["position"] = qe.Position
	}

	if qe.Cause != nil {
		result["cause"] = qe.Cause.Error()
	}

	if qe.Suggestion != "" {
		result["suggestion"] = qe.Suggestion
	}

	for k, v := range qe.Details {
		result["detail_"+k] = v
	}

	return result
}
