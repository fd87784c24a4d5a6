package ccl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	cclerrors "github.com/Aman-CERP/cclsearch/internal/errors"
)

// maxAbbreviationRunes is the longest leading word looked up as an index name.
const maxAbbreviationRunes = 3

// Parse failure reasons shared with callers that match on them.
const (
	ReasonMismatchedParens = "Mismatched parentheses"
	ReasonBadProximity     = "proximity operator has invalid arguments"
	ReasonEmptyQuery       = "empty query"
)

// settings holds the options shared by Parser and Translator.
type settings struct {
	locale         language.Tag
	dialect        *Dialect
	logger         *slog.Logger
	maxConcurrency int
}

func newSettings(opts []Option) settings {
	s := settings{
		locale:         language.English,
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.dialect == nil {
		s.dialect = DefaultDialect()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxConcurrency <= 0 {
		s.maxConcurrency = DefaultMaxConcurrency
	}
	return s
}

// Option configures a Parser or Translator.
type Option func(*settings)

// WithLocale sets the locale index abbreviations are resolved in.
func WithLocale(locale language.Tag) Option {
	return func(s *settings) {
		s.locale = locale
	}
}

// WithDialect sets the keyword table.
func WithDialect(d *Dialect) Option {
	return func(s *settings) {
		if d != nil {
			s.dialect = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxConcurrency bounds TranslateAll. Parsers ignore it.
func WithMaxConcurrency(n int) Option {
	return func(s *settings) {
		s.maxConcurrency = n
	}
}

// Parser is a recursive-descent parser with one token of lookahead.
//
// Grammar:
//
//	query            := searchGroup EOI
//	searchGroup      := '(' searchGroup ')' [ BOOLEAN searchGroup ]
//	                  | searchExpression [ BOOLEAN searchGroup ]
//	searchExpression := INDEX [ RELATION ] term | WORD term | term
//	term             := WORD wordlist | quotedString
//	wordlist         := PROXIMITY WORD | WORD wordlist | ε
//	quotedString     := QUOTEDSTRING quotedString | ε
//
// A Parser keeps per-call state and must not be shared between goroutines.
type Parser struct {
	lookup catalog.Lookup
	settings

	queue []Token // remaining tokens; queue[0] is the lookahead
}

// NewParser creates a parser resolving index names through lookup.
func NewParser(lookup catalog.Lookup, opts ...Option) *Parser {
	return &Parser{lookup: lookup, settings: newSettings(opts)}
}

// Parse builds the expression tree for tokens. Every token must be consumed.
// The caller's slice is not modified.
func (p *Parser) Parse(ctx context.Context, tokens []Token) (Node, error) {
	p.queue = append([]Token(nil), tokens...)
	defer func() { p.queue = nil }()

	if p.peek().Kind == EndOfInput {
		return nil, cclerrors.ParseError(ReasonEmptyQuery)
	}

	node, err := p.searchGroup(ctx)
	if err != nil {
		return nil, err
	}

	switch next := p.peek(); next.Kind {
	case EndOfInput:
		return node, nil
	case RightParen:
		return nil, cclerrors.ParseError(ReasonMismatchedParens)
	default:
		return nil, cclerrors.ParseError("unexpected %s %q", strings.ToLower(next.Kind.String()), next.Text).
			WithDetail("token", next.Text)
	}
}

// peek returns the lookahead token.
func (p *Parser) peek() Token {
	if len(p.queue) == 0 {
		return endOfInput
	}
	return p.queue[0]
}

// advance consumes the lookahead.
func (p *Parser) advance() Token {
	tok := p.peek()
	if len(p.queue) > 0 {
		p.queue = p.queue[1:]
	}
	return tok
}

// reclassify replaces the lookahead with a token of kind carrying the same text.
func (p *Parser) reclassify(kind TokenKind) {
	p.queue[0] = Token{Kind: kind, Text: p.queue[0].Text}
}

func (p *Parser) searchGroup(ctx context.Context) (Node, error) {
	var left Node

	if p.peek().Kind == LeftParen {
		p.advance()
		inner, err := p.searchGroup(ctx)
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != RightParen {
			return nil, cclerrors.ParseError(ReasonMismatchedParens)
		}
		p.advance()
		left = inner
	} else {
		expr, err := p.searchExpression(ctx)
		if err != nil {
			return nil, err
		}
		left = expr
	}

	if p.peek().Kind != Boolean {
		return left, nil
	}

	op := p.dialect.CanonicalBoolean(p.advance().Text)
	right, err := p.searchGroup(ctx)
	if err != nil {
		return nil, err
	}
	return &BooleanNode{Left: left, Operator: op, Right: right}, nil
}

func (p *Parser) searchExpression(ctx context.Context) (*TermNode, error) {
	tok := p.peek()

	if tok.Kind == Word && utf8.RuneCountInString(tok.Text) <= maxAbbreviationRunes {
		d, err := p.lookup.ResolveAbbreviation(ctx, tok.Text, p.locale)
		if err != nil {
			return nil, cclerrors.LookupFailure(fmt.Sprintf("failed to resolve index %q", tok.Text), err)
		}
		if d != nil {
			p.reclassify(Index)
			return p.indexedExpression(ctx, d)
		}
	}

	if tok.Kind == Index {
		d, err := p.lookup.ResolveAbbreviation(ctx, tok.Text, p.locale)
		if err != nil {
			return nil, cclerrors.LookupFailure(fmt.Sprintf("failed to resolve index %q", tok.Text), err)
		}
		if d == nil {
			return nil, cclerrors.ParseError("unknown index %q", tok.Text)
		}
		return p.indexedExpression(ctx, d)
	}

	d, err := p.lookup.DefaultIndex(ctx)
	if err != nil {
		return nil, cclerrors.LookupFailure("failed to resolve default index", err)
	}
	node := &TermNode{Index: d}
	if err := p.term(node); err != nil {
		return nil, err
	}
	return node, nil
}

// indexedExpression parses INDEX [RELATION] term with the lookahead on INDEX.
func (p *Parser) indexedExpression(_ context.Context, d *catalog.Descriptor) (*TermNode, error) {
	p.advance()

	node := &TermNode{Index: d}
	if p.peek().Kind == Relation {
		node.Relation = p.advance().Text
	}
	if err := p.term(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) term(node *TermNode) error {
	switch tok := p.peek(); tok.Kind {
	case Word:
		if err := p.wordlist(node); err != nil {
			return err
		}
	case QuotedString:
		node.Term = p.quotedString()
	case EndOfInput:
		return cclerrors.ParseError("missing search term")
	default:
		return cclerrors.ParseError("expected a search term, found %q", tok.Text).
			WithDetail("token", tok.Text)
	}

	if node.Term == "" && !node.HasProximity() {
		return cclerrors.ParseError("empty search term")
	}
	return nil
}

func (p *Parser) wordlist(node *TermNode) error {
	var b strings.Builder
	for p.peek().Kind == Word {
		b.WriteString(p.advance().Text)
		b.WriteByte(' ')
	}
	node.Term = b.String()

	if p.peek().Kind != Proximity {
		return nil
	}

	op := p.dialect.CanonicalProximity(p.advance().Text)
	if p.peek().Kind != Word {
		return cclerrors.ParseError(ReasonBadProximity)
	}
	node.ProximityOperator = op
	node.ProximityRight = p.advance().Text

	// The proximity pair ends the term.
	if next := p.peek().Kind; next == Word || next == Proximity {
		return cclerrors.ParseError(ReasonBadProximity)
	}
	return nil
}

func (p *Parser) quotedString() string {
	var b strings.Builder
	for p.peek().Kind == QuotedString {
		b.WriteString(unquote(p.advance().Text))
	}
	return b.String()
}

// unquote strips the delimiters of a quoted token. Backslash escapes are
// resolved; escaped double quotes are dropped.
func unquote(text string) string {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}

	var b strings.Builder
	escaped := false
	for _, r := range text {
		switch {
		case escaped:
			escaped = false
			if r != '"' {
				b.WriteRune(r)
			}
		case r == '\\':
			escaped = true
		case r == '"':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
