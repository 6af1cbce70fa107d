package parser

import (
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
	"github.com/aidanmorri810/pgschemadiff/go/parser/lexer"
)

// Expressions are retained as opaque text. The capture helpers collect
// raw token spellings, tracking parenthesis depth so commas and closing
// parens inside nested calls do not terminate the expression early.

// captureParenExpr consumes a parenthesized expression and returns the
// inner text without the outer parentheses.
func (p *Parser) captureParenExpr() (string, bool) {
	if !p.expect(keywords.Token('('), "expected (") {
		return "", false
	}
	depth := 1
	var toks []*lexer.Token
	for {
		if p.atEnd() {
			p.errorAtCurrent("unterminated expression, expected )")
			return joinTokens(toks), false
		}
		switch p.cur.Type {
		case keywords.Token('('), keywords.Token('['):
			depth++
		case keywords.Token(']'):
			depth--
		case keywords.Token(')'):
			depth--
			if depth == 0 {
				p.advance()
				return joinTokens(toks), true
			}
		}
		toks = append(toks, p.cur)
		p.advance()
	}
}

// captureExprUntil collects expression text until one of the stop token
// kinds appears at parenthesis depth zero. The stop token is not consumed.
func (p *Parser) captureExprUntil(stops ...keywords.Token) string {
	depth := 0
	var toks []*lexer.Token
	for !p.atEnd() {
		if depth == 0 {
			stopped := false
			for _, s := range stops {
				if p.cur.Type == s {
					stopped = true
					break
				}
			}
			if stopped {
				break
			}
		}
		switch p.cur.Type {
		case keywords.Token('('), keywords.Token('['):
			depth++
		case keywords.Token(')'), keywords.Token(']'):
			if depth == 0 {
				// closing paren of an enclosing list
				return joinTokens(toks)
			}
			depth--
		}
		toks = append(toks, p.cur)
		p.advance()
	}
	return joinTokens(toks)
}

// joinTokens reassembles raw token text with conventional SQL spacing.
func joinTokens(toks []*lexer.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && needsSpaceBefore(t) && needsSpaceAfter(toks[i-1]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Raw)
	}
	return sb.String()
}

func needsSpaceBefore(t *lexer.Token) bool {
	switch t.Type {
	case keywords.Token(','), keywords.Token(')'), keywords.Token(']'),
		keywords.Token('.'), keywords.TYPECAST:
		return false
	}
	return true
}

func needsSpaceAfter(t *lexer.Token) bool {
	switch t.Type {
	case keywords.Token('('), keywords.Token('['),
		keywords.Token('.'), keywords.TYPECAST:
		return false
	}
	return true
}
