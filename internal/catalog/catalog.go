// Package catalog resolves search index abbreviations typed in CCL queries
// to the index descriptors the query renderer targets.
//
// A Catalog is a storage backend (embedded YAML, a YAML file or a SQLite
// database). A Resolver wraps a Catalog and implements Lookup, which is the
// only surface the query parser depends on.
package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Descriptor describes one search index.
type Descriptor struct {
	// Code is the stable index identifier (e.g. "TITLE").
	Code string `yaml:"code" json:"code"`

	// Abbreviation is the short name typed in queries (e.g. "TI").
	Abbreviation string `yaml:"abbreviation" json:"abbreviation"`

	// Locale is the language the abbreviation belongs to. Empty matches any locale.
	Locale string `yaml:"locale" json:"locale"`

	// Category is the display category (bibliographic, keyword, ...).
	Category string `yaml:"category" json:"category"`

	// Table optionally qualifies Column.
	Table string `yaml:"table,omitempty" json:"table,omitempty"`

	// Column is the backing column the rendered filter targets.
	Column string `yaml:"column" json:"column"`

	// DefaultRelation is used when the query names no relation.
	DefaultRelation string `yaml:"relation,omitempty" json:"relation,omitempty"`
}

// QualifiedColumn returns "table.column", or just the column when no table is set.
func (d *Descriptor) QualifiedColumn() string {
	if d.Table == "" {
		return d.Column
	}
	return d.Table + "." + d.Column
}

// Relation returns the descriptor's default relation, "=" when unset.
func (d *Descriptor) Relation() string {
	if d.DefaultRelation == "" {
		return "="
	}
	return d.DefaultRelation
}

// Lookup is the contract the query parser uses to resolve index names.
//
// ResolveAbbreviation returns (nil, nil) when text names no index; that is a
// valid negative answer, not an error.
type Lookup interface {
	ResolveAbbreviation(ctx context.Context, text string, locale language.Tag) (*Descriptor, error)
	DefaultIndex(ctx context.Context) (*Descriptor, error)
}

// Catalog is a storage backend for index descriptors.
//
// Keys passed to FindByAbbreviation are already folded with FoldKey. A row
// for the exact locale wins over a row with an empty locale.
type Catalog interface {
	FindByAbbreviation(ctx context.Context, key, locale string) (*Descriptor, error)
	List(ctx context.Context, locale string) ([]Descriptor, error)
}

// FoldKey case-folds an abbreviation using the locale's casing rules.
func FoldKey(text string, locale language.Tag) string {
	return cases.Lower(locale).String(strings.TrimSpace(text))
}

// LocaleKey reduces a tag to the language base used to key catalog rows.
// The undetermined tag maps to "" so only locale-independent rows match.
func LocaleKey(locale language.Tag) string {
	if locale == language.Und {
		return ""
	}
	base, _ := locale.Base()
	return base.String()
}

// ParseLocale turns a configured locale string into a tag.
// Empty or malformed input yields language.Und.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.Und
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

// descriptorKey returns the folded abbreviation and locale key a catalog stores a row under.
func descriptorKey(d Descriptor) (key, locale string) {
	tag := ParseLocale(d.Locale)
	return FoldKey(d.Abbreviation, tag), LocaleKey(tag)
}
