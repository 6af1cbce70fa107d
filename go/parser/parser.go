/*
 * DDL Parser
 *
 * Recursive-descent parser over the lexer's token stream, one token of
 * lookahead, producing the ast package's statement types. Syntax errors
 * use panic-mode recovery: the first error in a statement is recorded
 * with its position, subsequent errors are suppressed until synchronize()
 * reaches a safe statement boundary, and parsing resumes with the next
 * statement.
 */

package parser

import (
	"fmt"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
	"github.com/aidanmorri810/pgschemadiff/go/parser/lexer"
)

// ParseError records a syntax error with its source position.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ParseResult is the aggregate output of ParseAllStatements: every
// statement that parsed successfully, plus all recorded errors. A
// statement that failed to parse contributes errors but no node.
type ParseResult struct {
	Tables []*ast.CreateTableStmt
	Types  []*ast.CreateTypeStmt
	Errors []ParseError
}

// HasErrors reports whether any error was recorded during the parse.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Parser consumes tokens one-lookahead-at-a-time via recursive descent.
type Parser struct {
	lex  *lexer.Lexer
	cur  *lexer.Token
	prev *lexer.Token

	errors    []ParseError
	panicMode bool
}

// New creates a parser over the given DDL text, primed on the first token.
func New(input string) *Parser {
	p := &Parser{lex: lexer.NewLexer(input)}
	p.cur = p.lex.NextToken()
	return p
}

// Errors returns all recorded errors: lexical errors first, then syntax
// errors, each with line/column. Callers must inspect this even when a
// non-nil AST was returned, since recovery can produce a best-effort
// partial tree alongside errors.
func (p *Parser) Errors() []ParseError {
	var all []ParseError
	for _, le := range p.lex.Context().Errors {
		all = append(all, ParseError{Message: le.Message, Line: le.Line, Column: le.Column})
	}
	return append(all, p.errors...)
}

// ParseAllStatements parses statements until end of input, skipping stray
// semicolons and recovering from malformed statements.
func (p *Parser) ParseAllStatements() *ParseResult {
	result := &ParseResult{}
	for !p.atEnd() {
		if p.match(keywords.Token(';')) {
			continue
		}
		switch stmt := p.parseStatement().(type) {
		case *ast.CreateTableStmt:
			result.Tables = append(result.Tables, stmt)
		case *ast.CreateTypeStmt:
			result.Types = append(result.Types, stmt)
		}
		if p.panicMode {
			p.synchronize()
		}
	}
	result.Errors = p.Errors()
	return result
}

// ParseCreateTable parses a single CREATE TABLE statement.
func (p *Parser) ParseCreateTable() *ast.CreateTableStmt {
	if !p.expect(keywords.CREATE, "expected CREATE") {
		return nil
	}
	return p.parseCreateTableRest()
}

// ParseCreateType parses a single CREATE TYPE statement.
func (p *Parser) ParseCreateType() *ast.CreateTypeStmt {
	if !p.expect(keywords.CREATE, "expected CREATE") {
		return nil
	}
	if !p.expect(keywords.TYPE_P, "expected TYPE") {
		return nil
	}
	return p.parseCreateTypeRest()
}

// parseStatement dispatches on the statement head. Only CREATE TABLE and
// CREATE TYPE produce nodes; other statement kinds are reported and
// skipped via recovery.
func (p *Parser) parseStatement() ast.Stmt {
	if !p.check(keywords.CREATE) {
		p.errorAtCurrent(fmt.Sprintf("expected a statement, found %q", p.cur.Text))
		return nil
	}
	p.advance()

	switch p.cur.Type {
	case keywords.TYPE_P:
		p.advance()
		// A nil *CreateTypeStmt must not escape into the interface, or the
		// caller's type switch would collect a phantom statement.
		if stmt := p.parseCreateTypeRest(); stmt != nil {
			return stmt
		}
		return nil
	case keywords.TABLE, keywords.GLOBAL, keywords.LOCAL,
		keywords.TEMPORARY, keywords.TEMP, keywords.UNLOGGED:
		if stmt := p.parseCreateTableRest(); stmt != nil {
			return stmt
		}
		return nil
	default:
		p.errorAtCurrent(fmt.Sprintf("unsupported CREATE statement near %q", p.cur.Text))
		return nil
	}
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.lex.NextToken()
}

// atEnd reports whether the token stream is exhausted.
func (p *Parser) atEnd() bool {
	return p.cur.Type == keywords.EOF
}

// check reports whether the current token has the given type.
func (p *Parser) check(t keywords.Token) bool {
	return p.cur.Type == t
}

// match consumes the current token if it has any of the given types.
func (p *Parser) match(types ...keywords.Token) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or records an error.
func (p *Parser) expect(t keywords.Token, msg string) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	p.errorAtCurrent(msg)
	return false
}

// errorAtCurrent records a syntax error at the current token and enters
// panic mode. While already in panic mode it is a no-op, preventing
// error cascades.
func (p *Parser) errorAtCurrent(msg string) {
	p.errorAt(p.cur, msg)
}

// errorAt records a syntax error at the given token's position.
func (p *Parser) errorAt(tok *lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.errors = append(p.errors, ParseError{
		Message: msg,
		Line:    tok.Line,
		Column:  tok.Column,
	})
}

// synchronize discards tokens until a safe restart point: a statement
// starting keyword, or the token following a consumed semicolon. Clears
// panic mode.
func (p *Parser) synchronize() {
	p.panicMode = false
	p.advance()
	for !p.atEnd() {
		if p.prev != nil && p.prev.Type == keywords.Token(';') {
			return
		}
		switch p.cur.Type {
		case keywords.CREATE, keywords.ALTER, keywords.DROP:
			return
		}
		p.advance()
	}
}

// colId consumes an identifier, accepting non-reserved keywords the way
// PostgreSQL's ColId production does. Returns the cooked text.
func (p *Parser) colId(what string) (string, bool) {
	if p.cur.IsUnreservedWord() {
		text := p.cur.Text
		p.advance()
		return text, true
	}
	p.errorAtCurrent("expected " + what)
	return "", false
}

// qualifiedName consumes name[.name[.name]] and returns the dotted text.
func (p *Parser) qualifiedName(what string) (string, bool) {
	name, ok := p.colId(what)
	if !ok {
		return "", false
	}
	for p.check(keywords.Token('.')) {
		p.advance()
		next, ok := p.colId(what)
		if !ok {
			return "", false
		}
		name = name + "." + next
	}
	return name, true
}

// nameList consumes a parenthesized, comma-separated identifier list.
func (p *Parser) nameList(what string) ([]string, bool) {
	if !p.expect(keywords.Token('('), "expected (") {
		return nil, false
	}
	var names []string
	for {
		name, ok := p.colId(what)
		if !ok {
			return nil, false
		}
		names = append(names, name)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	if !p.expect(keywords.Token(')'), "expected )") {
		return nil, false
	}
	return names, true
}

// Package-level convenience entry points.

// Parse parses all statements in the input.
func Parse(input string) *ParseResult {
	return New(input).ParseAllStatements()
}

// ParseCreateTable parses a single CREATE TABLE statement from input.
func ParseCreateTable(input string) (*ast.CreateTableStmt, []ParseError) {
	p := New(input)
	stmt := p.ParseCreateTable()
	return stmt, p.Errors()
}

// ParseCreateType parses a single CREATE TYPE statement from input.
func ParseCreateType(input string) (*ast.CreateTypeStmt, []ParseError) {
	p := New(input)
	stmt := p.ParseCreateType()
	return stmt, p.Errors()
}
