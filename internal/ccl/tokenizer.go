package ccl

import (
	"unicode"
	"unicode/utf8"

	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// Tokenizer splits CCL text into tokens. It holds no state between calls
// and is safe for concurrent use.
type Tokenizer struct {
	dialect *Dialect
}

// NewTokenizer creates a tokenizer for dialect. Nil selects DefaultDialect.
func NewTokenizer(dialect *Dialect) *Tokenizer {
	if dialect == nil {
		dialect = DefaultDialect()
	}
	return &Tokenizer{dialect: dialect}
}

// Tokenize scans raw left to right. Whitespace separates tokens and is
// dropped. The result never contains EndOfInput.
func (t *Tokenizer) Tokenize(raw string) ([]Token, error) {
	var tokens []Token

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])

		switch {
		case r == utf8.RuneError && size <= 1:
			return nil, cclerrors.LexicalError("unexpected character", i).
				WithDetail("reason", "invalid UTF-8")

		case unicode.IsSpace(r):
			i += size

		case r == '(':
			tokens = append(tokens, Token{Kind: LeftParen, Text: "("})
			i += size

		case r == ')':
			tokens = append(tokens, Token{Kind: RightParen, Text: ")"})
			i += size

		case r == '"':
			end, err := scanQuoted(raw, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Token{Kind: QuotedString, Text: raw[i:end]})
			i = end

		case unicode.IsControl(r):
			return nil, cclerrors.LexicalError("unexpected character", i).
				WithDetail("character", string(r))

		default:
			if sym, ok := t.dialect.matchSymbol(raw[i:]); ok {
				tokens = append(tokens, Token{Kind: sym.kind, Text: sym.text})
				i += len(sym.text)
				continue
			}

			end := t.scanWord(raw, i)
			text := raw[i:end]
			tokens = append(tokens, Token{Kind: t.dialect.classifyWord(text), Text: text})
			i = end
		}
	}

	return tokens, nil
}

// scanWord returns the end offset of the bare word starting at start.
func (t *Tokenizer) scanWord(raw string, start int) int {
	i := start
	for i < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '(' || r == ')' || r == '"' {
			break
		}
		if i > start && t.dialect.stops[r] {
			break
		}
		i += size
	}
	return i
}

// scanQuoted returns the offset just past the closing quote of the string
// opened at start. A backslash escapes the rune after it.
func scanQuoted(raw string, start int) (int, error) {
	escaped := false
	for i := start + 1; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return 0, cclerrors.LexicalError("unexpected character", i).
				WithDetail("reason", "invalid UTF-8")
		}
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			return i + size, nil
		}
		i += size
	}
	return 0, cclerrors.LexicalError("unterminated quoted string", start)
}
