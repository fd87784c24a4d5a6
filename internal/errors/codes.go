// Package errors provides structured error handling for cclsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (catalog files, databases)
//   - 4XX: Query syntax errors (lexical and grammar)
//   - 5XX: Index lookup errors
//   - 9XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates catalog file and database errors.
	CategoryIO Category = "IO"
	// CategorySyntax indicates the query text could not be tokenized or parsed.
	CategorySyntax Category = "SYNTAX"
	// CategoryLookup indicates the index catalog failed while resolving a name.
	CategoryLookup Category = "LOOKUP"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates the process is misconfigured and must not serve queries.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the current query failed.
	SeverityError Severity = "ERROR"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid  = "ERR_101_CONFIG_INVALID"
	ErrCodeConfigNotFound = "ERR_102_CONFIG_NOT_FOUND"
	ErrCodeDefaultIndex   = "ERR_103_DEFAULT_INDEX_UNRESOLVED"

	// IO errors (200-299)
	ErrCodeCatalogOpen = "ERR_201_CATALOG_OPEN"

	// Syntax errors (400-499)
	ErrCodeLexical = "ERR_401_LEXICAL"
	ErrCodeParse   = "ERR_402_PARSE"

	// Lookup errors (500-599)
	ErrCodeLookupFailed = "ERR_501_LOOKUP_FAILED"

	// Internal errors (900-999)
	ErrCodeInternal = "ERR_901_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_INVALID"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategorySyntax
	case '5':
		return CategoryLookup
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeDefaultIndex {
		return SeverityFatal
	}
	return SeverityError
}
