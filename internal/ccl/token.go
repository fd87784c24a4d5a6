// Package ccl turns CCL search strings into expression trees and renders
// them as backend query fragments.
//
// The pipeline is Tokenizer -> Parser -> Node.Render -> BuildQuery.
// Translator bundles the steps and is safe for concurrent use; a Parser is
// single-use per call and is not.
package ccl

import "fmt"

// TokenKind classifies a token.
type TokenKind int

const (
	// LeftParen is "(".
	LeftParen TokenKind = iota
	// RightParen is ")".
	RightParen
	// Boolean is and/or/not or a symbolic boolean.
	Boolean
	// Relation is a comparison operator such as "=" or ">=".
	Relation
	// Proximity is near/far/adj.
	Proximity
	// Word is a bare word.
	Word
	// QuotedString is a double-quoted phrase, delimiters included.
	QuotedString
	// Index is a word the parser resolved to a search index.
	Index
	// EndOfInput is synthesized by the parser once the queue is empty.
	EndOfInput
)

var tokenKindNames = [...]string{
	LeftParen:    "LEFT_PAREN",
	RightParen:   "RIGHT_PAREN",
	Boolean:      "BOOLEAN",
	Relation:     "RELATION",
	Proximity:    "PROXIMITY",
	Word:         "WORD",
	QuotedString: "QUOTED_STRING",
	Index:        "INDEX",
	EndOfInput:   "END_OF_INPUT",
}

// String returns the kind's upper snake case name.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
	return tokenKindNames[k]
}

// MarshalText encodes the kind by name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one lexical unit. Tokens are values; reclassifying one means
// building a new Token.
type Token struct {
	Kind TokenKind `json:"kind"`
	Text string    `json:"text"`
}

// String returns "KIND(text)".
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// endOfInput is the lookahead once every token has been consumed.
var endOfInput = Token{Kind: EndOfInput}
