package errors

import (
	stderrors "errors"
	"fmt"
)

// QueryError is the structured error type for cclsearch.
// It carries enough context for the search API to pick a user-facing message.
type QueryError struct {
	// Code is the unique error code (e.g., "ERR_402_PARSE").
	Code string

	// Message is the human-readable reason.
	Message string

	// Category is the error category (Config, Syntax, Lookup, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Position is the byte offset in the query text, or -1 when unknown.
	Position int

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrLexical      = &QueryError{Code: ErrCodeLexical}
	ErrParse        = &QueryError{Code: ErrCodeParse}
	ErrLookup       = &QueryError{Code: ErrCodeLookupFailed}
	ErrDefaultIndex = &QueryError{Code: ErrCodeDefaultIndex}
	ErrConfig       = &QueryError{Code: ErrCodeConfigInvalid}
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Position >= 0 && e.Category == CategorySyntax {
		return fmt.Sprintf("[%s] %s (at offset %d)", e.Code, e.Message, e.Position)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
func (e *QueryError) Is(target error) bool {
	if t, ok := target.(*QueryError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *QueryError) WithDetail(key, value string) *QueryError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *QueryError) WithSuggestion(suggestion string) *QueryError {
	e.Suggestion = suggestion
	return e
}

// WithPosition records the byte offset in the query text.
func (e *QueryError) WithPosition(pos int) *QueryError {
	e.Position = pos
	return e
}

// New creates a new QueryError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *QueryError {
	return &QueryError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Position: -1,
		Cause:    cause,
	}
}

// Wrap creates a QueryError from an existing error.
// The error's message becomes the QueryError message.
func Wrap(code string, err error) *QueryError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// LexicalError reports text the tokenizer could not classify.
func LexicalError(message string, pos int) *QueryError {
	return New(ErrCodeLexical, message, nil).WithPosition(pos)
}

// ParseError reports a grammar violation.
func ParseError(format string, args ...any) *QueryError {
	return New(ErrCodeParse, fmt.Sprintf(format, args...), nil)
}

// LookupFailure wraps an error raised by the index catalog.
// Fatal errors and existing lookup failures are returned unchanged; any
// other QueryError (for example a catalog I/O error) becomes the cause.
func LookupFailure(message string, cause error) *QueryError {
	if qe, ok := cause.(*QueryError); ok && (qe.Severity == SeverityFatal || qe.Code == ErrCodeLookupFailed) {
		return qe
	}
	return New(ErrCodeLookupFailed, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *QueryError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates a catalog I/O error.
func IOError(message string, cause error) *QueryError {
	return New(ErrCodeCatalogOpen, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *QueryError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors mean the service must not become ready.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if qe, ok := asQueryError(err); ok {
		return qe.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a QueryError.
// Returns empty string if err has no QueryError in its chain.
func GetCode(err error) string {
	if qe, ok := asQueryError(err); ok {
		return qe.Code
	}
	return ""
}

// GetCategory extracts the category from a QueryError.
// Returns empty string if not a QueryError.
func GetCategory(err error) Category {
	if qe, ok := asQueryError(err); ok {
		return qe.Category
	}
	return ""
}

// asQueryError finds the first QueryError in err's chain.
func asQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if stderrors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
