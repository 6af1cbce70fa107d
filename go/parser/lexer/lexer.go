/*
 * DDL Lexer
 *
 * Byte-oriented scanner converting raw DDL text into a stream of typed
 * tokens. Identifiers are checked against the keyword table; quoted
 * identifiers and string literals resolve their escapes here so later
 * layers only ever see cooked text.
 */

package lexer

import (
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// Lexer is the scanner instance. It never backtracks: NextToken advances
// monotonically through the input.
type Lexer struct {
	context *LexerContext
}

// NewLexer creates a lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{context: NewLexerContext(input)}
}

// Context returns the lexer context, exposing accumulated errors.
func (l *Lexer) Context() *LexerContext {
	return l.context
}

// NextToken returns the next token from the input stream, or an EOF/ERROR
// sentinel. Whitespace and both comment forms are skipped.
func (l *Lexer) NextToken() *Token {
	l.skipWhitespaceAndComments()

	line, col, pos := l.context.LineNumber, l.context.ColumnNumber, l.context.ScanPos
	if l.context.AtEOF() {
		return NewToken(keywords.EOF, "", line, col, pos)
	}

	b, _ := l.context.PeekByte()
	switch {
	case isDigit(b):
		return l.scanNumber(line, col, pos)
	case b == '\'':
		return l.scanStringLiteral(line, col, pos)
	case b == '"':
		return l.scanDelimitedIdentifier(line, col, pos)
	case isIdentStart(b):
		return l.scanIdentifier(line, col, pos)
	case b == ':':
		l.context.NextByte()
		if next, ok := l.context.PeekByte(); ok && next == ':' {
			l.context.NextByte()
			return NewToken(keywords.TYPECAST, "::", line, col, pos)
		}
		l.context.AddErrorAt("unexpected character \":\"", line, col)
		return NewToken(keywords.ERROR, ":", line, col, pos)
	case isOpChar(b):
		return l.scanOperator(line, col, pos)
	case isSelfChar(b):
		l.context.NextByte()
		return NewToken(keywords.Token(b), string(b), line, col, pos)
	default:
		l.context.NextByte()
		l.context.AddErrorAt("unexpected character \""+string(b)+"\"", line, col)
		return NewToken(keywords.ERROR, string(b), line, col, pos)
	}
}

// scanIdentifier scans an identifier or keyword. The resulting text is
// looked up case-insensitively in the keyword table; on a hit the keyword
// token kind is emitted, otherwise IDENT.
func (l *Lexer) scanIdentifier(line, col, pos int) *Token {
	start := l.context.ScanPos
	l.context.NextByte()
	for {
		b, ok := l.context.PeekByte()
		if !ok || !isIdentCont(b) {
			break
		}
		l.context.NextByte()
	}

	text := l.context.GetCurrentText(start)
	if kw := keywords.Lookup(text); kw != nil {
		return NewKeywordToken(kw, text, line, col, pos)
	}
	return NewStringToken(keywords.IDENT, text, text, line, col, pos)
}

// scanDelimitedIdentifier scans a quoted identifier ("..."). Doubled quotes
// are an escaped quote; the surrounding quotes are stripped from the token
// text and not re-added in this layer.
func (l *Lexer) scanDelimitedIdentifier(line, col, pos int) *Token {
	start := l.context.ScanPos
	l.context.NextByte() // opening quote

	var value strings.Builder
	for {
		b, ok := l.context.NextByte()
		if !ok {
			l.context.AddError("unterminated quoted identifier")
			raw := l.context.GetCurrentText(start)
			return NewStringToken(keywords.ERROR, value.String(), raw, line, col, pos)
		}
		if b == '"' {
			if next, ok := l.context.PeekByte(); ok && next == '"' {
				l.context.NextByte()
				value.WriteByte('"')
				continue
			}
			break
		}
		value.WriteByte(b)
	}

	raw := l.context.GetCurrentText(start)
	return NewStringToken(keywords.IDENT, value.String(), raw, line, col, pos)
}

// scanStringLiteral scans a single-quoted string. Doubled quotes and
// backslash-prefixed characters are escapes.
func (l *Lexer) scanStringLiteral(line, col, pos int) *Token {
	start := l.context.ScanPos
	l.context.NextByte() // opening quote

	var value strings.Builder
	for {
		b, ok := l.context.NextByte()
		if !ok {
			l.context.AddError("unterminated string literal")
			raw := l.context.GetCurrentText(start)
			return NewStringToken(keywords.ERROR, value.String(), raw, line, col, pos)
		}
		switch b {
		case '\'':
			if next, ok := l.context.PeekByte(); ok && next == '\'' {
				l.context.NextByte()
				value.WriteByte('\'')
				continue
			}
			raw := l.context.GetCurrentText(start)
			return NewStringToken(keywords.SCONST, value.String(), raw, line, col, pos)
		case '\\':
			esc, ok := l.context.NextByte()
			if !ok {
				l.context.AddError("unterminated string literal")
				raw := l.context.GetCurrentText(start)
				return NewStringToken(keywords.ERROR, value.String(), raw, line, col, pos)
			}
			value.WriteByte(resolveEscape(esc))
		default:
			value.WriteByte(b)
		}
	}
}

func resolveEscape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'b':
		return '\b'
	case 'f':
		return '\f'
	default:
		// Backslash before any other character yields that character.
		return b
	}
}

// scanNumber scans a numeric literal with optional fraction and exponent.
func (l *Lexer) scanNumber(line, col, pos int) *Token {
	start := l.context.ScanPos
	isFloat := false

	l.scanDigits()
	if b, ok := l.context.PeekByte(); ok && b == '.' {
		// Only a fraction when a digit follows; "1." alone stays integral
		// so "1..2" style inputs do not consume the dot.
		if next, ok := l.context.PeekByteAt(1); ok && isDigit(next) {
			isFloat = true
			l.context.NextByte()
			l.scanDigits()
		}
	}
	if b, ok := l.context.PeekByte(); ok && (b == 'e' || b == 'E') {
		next, nok := l.context.PeekByteAt(1)
		next2, n2ok := l.context.PeekByteAt(2)
		if nok && isDigit(next) {
			isFloat = true
			l.context.AdvanceBy(1)
			l.scanDigits()
		} else if nok && (next == '+' || next == '-') && n2ok && isDigit(next2) {
			isFloat = true
			l.context.AdvanceBy(2)
			l.scanDigits()
		}
	}

	text := l.context.GetCurrentText(start)
	if isFloat {
		return NewStringToken(keywords.FCONST, text, text, line, col, pos)
	}
	return NewStringToken(keywords.ICONST, text, text, line, col, pos)
}

func (l *Lexer) scanDigits() {
	for {
		b, ok := l.context.PeekByte()
		if !ok || !isDigit(b) {
			break
		}
		l.context.NextByte()
	}
}

// scanOperator scans a maximal run of operator characters, stopping
// before a comment start. A single self-delimiting character keeps its
// own token kind; everything else becomes an OP token.
func (l *Lexer) scanOperator(line, col, pos int) *Token {
	start := l.context.ScanPos
	for {
		b, ok := l.context.PeekByte()
		if !ok || !isOpChar(b) {
			break
		}
		if b == '-' {
			if next, ok := l.context.PeekByteAt(1); ok && next == '-' {
				break
			}
		}
		if b == '/' {
			if next, ok := l.context.PeekByteAt(1); ok && next == '*' {
				break
			}
		}
		l.context.NextByte()
	}

	text := l.context.GetCurrentText(start)
	if len(text) == 1 && isSelfChar(text[0]) {
		return NewToken(keywords.Token(text[0]), text, line, col, pos)
	}
	return NewToken(keywords.OP, text, line, col, pos)
}

// skipWhitespaceAndComments skips whitespace, "--" line comments and
// "/* ... */" block comments. Block comments are not truly nested: the
// first "*/" ends the comment regardless of interior "/*" sequences.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		b, ok := l.context.PeekByte()
		if !ok {
			return
		}

		if isWhitespace(b) {
			l.context.NextByte()
			continue
		}

		if b == '-' {
			if next, ok := l.context.PeekByteAt(1); ok && next == '-' {
				l.context.AdvanceBy(2)
				for {
					b, ok := l.context.PeekByte()
					if !ok || b == '\n' {
						break
					}
					l.context.NextByte()
				}
				continue
			}
		}

		if b == '/' {
			if next, ok := l.context.PeekByteAt(1); ok && next == '*' {
				l.context.AdvanceBy(2)
				closed := false
				for !l.context.AtEOF() {
					c, _ := l.context.NextByte()
					if c == '*' {
						if n, ok := l.context.PeekByte(); ok && n == '/' {
							l.context.NextByte()
							closed = true
							break
						}
					}
				}
				if !closed {
					l.context.AddError("unterminated /* comment")
				}
				continue
			}
		}

		return
	}
}

// Character classification following PostgreSQL's scan.l definitions.

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b >= 0x80
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '$'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isSelfChar(b byte) bool {
	switch b {
	case ',', '(', ')', '[', ']', '.', ';', '=', '<', '>', '+', '-', '*', '/', '%':
		return true
	default:
		return false
	}
}

func isOpChar(b byte) bool {
	switch b {
	case '=', '<', '>', '+', '-', '*', '/', '%', '~', '!', '@', '#', '^', '&', '|', '`', '?':
		return true
	default:
		return false
	}
}
