package lexer

import "fmt"

// LexerError records a lexical error with its source position. Lexical
// errors are non-fatal: the lexer emits an ERROR token and keeps going,
// leaving it to the parser to decide whether to continue.
type LexerError struct {
	Message string
	Line    int
	Column  int
}

func (e LexerError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// LexerContext holds the scanner state: the input buffer, the current
// position with line/column tracking, and accumulated errors.
type LexerContext struct {
	ScanBuf []byte
	ScanPos int

	LineNumber   int
	ColumnNumber int

	Errors []LexerError
}

// NewLexerContext creates a context positioned at the start of input.
func NewLexerContext(input string) *LexerContext {
	return &LexerContext{
		ScanBuf:      []byte(input),
		LineNumber:   1,
		ColumnNumber: 1,
	}
}

// AtEOF returns true when the whole input has been consumed.
func (ctx *LexerContext) AtEOF() bool {
	return ctx.ScanPos >= len(ctx.ScanBuf)
}

// PeekByte returns the byte at the current position without advancing.
func (ctx *LexerContext) PeekByte() (byte, bool) {
	if ctx.AtEOF() {
		return 0, false
	}
	return ctx.ScanBuf[ctx.ScanPos], true
}

// PeekByteAt returns the byte at the given offset from the current position.
func (ctx *LexerContext) PeekByteAt(offset int) (byte, bool) {
	pos := ctx.ScanPos + offset
	if pos >= len(ctx.ScanBuf) {
		return 0, false
	}
	return ctx.ScanBuf[pos], true
}

// NextByte returns the current byte and advances past it.
func (ctx *LexerContext) NextByte() (byte, bool) {
	b, ok := ctx.PeekByte()
	if !ok {
		return 0, false
	}
	ctx.advancePosition(b)
	return b, true
}

// AdvanceBy consumes n bytes, keeping line/column tracking accurate.
func (ctx *LexerContext) AdvanceBy(n int) {
	for i := 0; i < n && !ctx.AtEOF(); i++ {
		ctx.advancePosition(ctx.ScanBuf[ctx.ScanPos])
	}
}

func (ctx *LexerContext) advancePosition(b byte) {
	ctx.ScanPos++
	if b == '\n' {
		ctx.LineNumber++
		ctx.ColumnNumber = 1
	} else {
		ctx.ColumnNumber++
	}
}

// GetCurrentText returns the raw input from startPos to the current position.
func (ctx *LexerContext) GetCurrentText(startPos int) string {
	if startPos < 0 || startPos > ctx.ScanPos {
		return ""
	}
	return string(ctx.ScanBuf[startPos:ctx.ScanPos])
}

// AddError records a lexical error at the current position.
func (ctx *LexerContext) AddError(message string) {
	ctx.AddErrorAt(message, ctx.LineNumber, ctx.ColumnNumber)
}

// AddErrorAt records a lexical error at an explicit position, for callers
// that have already consumed past the offending byte.
func (ctx *LexerContext) AddErrorAt(message string, line, col int) {
	ctx.Errors = append(ctx.Errors, LexerError{
		Message: message,
		Line:    line,
		Column:  col,
	})
}

// HasErrors reports whether any lexical error has been recorded.
func (ctx *LexerContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

func (ctx *LexerContext) String() string {
	return fmt.Sprintf("LexerContext{Position: %d/%d, Line: %d, Column: %d, Errors: %d}",
		ctx.ScanPos, len(ctx.ScanBuf), ctx.LineNumber, ctx.ColumnNumber, len(ctx.Errors))
}
