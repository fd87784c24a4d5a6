package ccl

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// Canonical boolean operators.
const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
)

// symbol is an operator recognized by its exact characters rather than as a word.
type symbol struct {
	text      string
	kind      TokenKind
	canonical string
}

// Dialect is the keyword table the tokenizer classifies text with.
// A Dialect is immutable after construction and safe for concurrent use.
type Dialect struct {
	booleans  map[string]string // folded word -> canonical
	proximity map[string]string // folded word -> canonical
	symbols   []symbol          // longest first
	stops     map[rune]bool     // first runes of symbols
}

// DefaultBooleans maps the built-in boolean keywords to their canonical form.
func DefaultBooleans() map[string]string {
	return map[string]string{
		"and": OpAnd,
		"or":  OpOr,
		"not": OpNot,
		"&":   OpAnd,
		"|":   OpOr,
	}
}

// DefaultRelations lists the built-in relation operators.
func DefaultRelations() []string {
	return []string{"<=", ">=", "<>", "=", "<", ">"}
}

// DefaultProximity maps the built-in proximity keywords to their canonical form.
func DefaultProximity() map[string]string {
	return map[string]string{
		"near": "NEAR",
		"far":  "FAR",
		"adj":  "ADJ",
	}
}

// DefaultDialect returns the built-in keyword table.
func DefaultDialect() *Dialect {
	d, err := NewDialect(nil, nil, nil)
	if err != nil {
		// The built-in tables are valid.
		panic(err)
	}
	return d
}

// NewDialect builds a keyword table. A nil or empty argument selects the
// built-in table for that class.
//
// Keywords made only of letters are matched as whole words, case-insensitively.
// Anything else is matched as a symbol, by its exact characters, wherever it
// appears. Boolean keywords must map to AND, OR or NOT.
func NewDialect(booleans map[string]string, relations []string, proximity map[string]string) (*Dialect, error) {
	if len(booleans) == 0 {
		booleans = DefaultBooleans()
	}
	if len(relations) == 0 {
		relations = DefaultRelations()
	}
	if len(proximity) == 0 {
		proximity = DefaultProximity()
	}

	d := &Dialect{
		booleans:  make(map[string]string),
		proximity: make(map[string]string),
		stops:     make(map[rune]bool),
	}
	seen := make(map[string]string)

	claim := func(keyword, class string) error {
		if keyword == "" {
			return cclerrors.ConfigError(fmt.Sprintf("empty %s keyword in dialect", class), nil)
		}
		if strings.ContainsFunc(keyword, reservedRune) {
			return cclerrors.ConfigError(fmt.Sprintf("%s keyword %q contains a reserved character", class, keyword), nil)
		}
		key := keyword
		if isWordKeyword(keyword) {
			key = foldKeyword(keyword)
		} else if first, _ := utf8.DecodeRuneInString(keyword); unicode.IsLetter(first) || unicode.IsDigit(first) {
			return cclerrors.ConfigError(
				fmt.Sprintf("%s keyword %q must be all letters or start with a symbol", class, keyword), nil)
		}
		if prev, dup := seen[key]; dup {
			return cclerrors.ConfigError(fmt.Sprintf("keyword %q is both %s and %s", keyword, prev, class), nil)
		}
		seen[key] = class
		return nil
	}

	for kw, canonical := range booleans {
		if err := claim(kw, "boolean"); err != nil {
			return nil, err
		}
		canonical = strings.ToUpper(canonical)
		switch canonical {
		case OpAnd, OpOr, OpNot:
		default:
			return nil, cclerrors.ConfigError(
				fmt.Sprintf("boolean keyword %q maps to %q, want AND, OR or NOT", kw, canonical), nil)
		}
		d.add(kw, Boolean, canonical)
	}

	for _, rel := range relations {
		if err := claim(rel, "relation"); err != nil {
			return nil, err
		}
		if isWordKeyword(rel) {
			return nil, cclerrors.ConfigError(fmt.Sprintf("relation %q must be symbolic", rel), nil)
		}
		d.add(rel, Relation, rel)
	}

	for kw, canonical := range proximity {
		if err := claim(kw, "proximity"); err != nil {
			return nil, err
		}
		if canonical == "" {
			canonical = kw
		}
		d.add(kw, Proximity, strings.ToUpper(canonical))
	}

	sort.SliceStable(d.symbols, func(i, j int) bool {
		if len(d.symbols[i].text) != len(d.symbols[j].text) {
			return len(d.symbols[i].text) > len(d.symbols[j].text)
		}
		return d.symbols[i].text < d.symbols[j].text
	})

	return d, nil
}

func (d *Dialect) add(keyword string, kind TokenKind, canonical string) {
	if isWordKeyword(keyword) {
		if kind == Boolean {
			d.booleans[foldKeyword(keyword)] = canonical
		} else {
			d.proximity[foldKeyword(keyword)] = canonical
		}
		return
	}
	d.symbols = append(d.symbols, symbol{text: keyword, kind: kind, canonical: canonical})
	r, _ := utf8.DecodeRuneInString(keyword)
	d.stops[r] = true
}

// classifyWord returns the kind a bare word takes under this dialect.
func (d *Dialect) classifyWord(text string) TokenKind {
	key := foldKeyword(text)
	if _, ok := d.booleans[key]; ok {
		return Boolean
	}
	if _, ok := d.proximity[key]; ok {
		return Proximity
	}
	return Word
}

// matchSymbol returns the longest symbol s starts with.
func (d *Dialect) matchSymbol(s string) (symbol, bool) {
	for _, sym := range d.symbols {
		if strings.HasPrefix(s, sym.text) {
			return sym, true
		}
	}
	return symbol{}, false
}

// CanonicalBoolean returns AND, OR or NOT for a boolean token's text.
func (d *Dialect) CanonicalBoolean(text string) string {
	if op, ok := d.booleans[foldKeyword(text)]; ok {
		return op
	}
	for _, sym := range d.symbols {
		if sym.kind == Boolean && sym.text == text {
			return sym.canonical
		}
	}
	return strings.ToUpper(text)
}

// CanonicalProximity returns the canonical operator for a proximity token's text.
func (d *Dialect) CanonicalProximity(text string) string {
	if op, ok := d.proximity[foldKeyword(text)]; ok {
		return op
	}
	for _, sym := range d.symbols {
		if sym.kind == Proximity && sym.text == text {
			return sym.canonical
		}
	}
	return strings.ToUpper(text)
}

// Keywords lists every keyword of kind, sorted, for help output.
func (d *Dialect) Keywords(kind TokenKind) []string {
	var out []string
	switch kind {
	case Boolean:
		for k := range d.booleans {
			out = append(out, k)
		}
	case Proximity:
		for k := range d.proximity {
			out = append(out, k)
		}
	}
	for _, sym := range d.symbols {
		if sym.kind == kind {
			out = append(out, sym.text)
		}
	}
	sort.Strings(out)
	return out
}

func isWordKeyword(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// reservedRune reports runes no keyword may contain.
func reservedRune(r rune) bool {
	return r == '(' || r == ')' || r == '"' || r == '\\' || unicode.IsSpace(r) || unicode.IsControl(r)
}

// foldKeyword case-folds without locale rules so keywords behave the same
// in every query locale.
func foldKeyword(s string) string {
	return cases.Fold().String(s)
}
