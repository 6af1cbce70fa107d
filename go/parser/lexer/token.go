package lexer

import (
	"fmt"

	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// Token represents a single lexical token.
type Token struct {
	Type     keywords.Token
	Text     string // cooked value: quotes stripped, escapes resolved
	Raw      string // source text as scanned
	Line     int
	Column   int
	Position int // byte offset in the input

	// Keyword carries the keyword table entry when Type is a keyword
	// token, nil otherwise.
	Keyword *keywords.KeywordInfo
}

// NewToken creates a token whose cooked text equals its raw text.
func NewToken(typ keywords.Token, text string, line, column, pos int) *Token {
	return &Token{Type: typ, Text: text, Raw: text, Line: line, Column: column, Position: pos}
}

// NewStringToken creates a token with distinct cooked and raw text, used for
// string literals and quoted identifiers.
func NewStringToken(typ keywords.Token, text, raw string, line, column, pos int) *Token {
	return &Token{Type: typ, Text: text, Raw: raw, Line: line, Column: column, Position: pos}
}

// NewKeywordToken creates a token for a keyword table hit. The raw spelling
// is preserved so deparsing can reproduce the source casing.
func NewKeywordToken(kw *keywords.KeywordInfo, raw string, line, column, pos int) *Token {
	return &Token{Type: kw.Token, Text: raw, Raw: raw, Line: line, Column: column, Position: pos, Keyword: kw}
}

// Is reports whether the token has the given type.
func (t *Token) Is(typ keywords.Token) bool {
	return t != nil && t.Type == typ
}

// IsKeyword reports whether the token is any keyword.
func (t *Token) IsKeyword() bool {
	return t != nil && t.Keyword != nil
}

// IsUnreservedWord reports whether the token can serve as an identifier:
// either a plain IDENT or a keyword that is not fully reserved.
func (t *Token) IsUnreservedWord() bool {
	if t == nil {
		return false
	}
	if t.Type == keywords.IDENT {
		return true
	}
	return t.Keyword != nil && t.Keyword.Category != keywords.ReservedKeyword
}

func (t *Token) String() string {
	return fmt.Sprintf("Token{%s %q @%d:%d}", t.Type, t.Text, t.Line, t.Column)
}
