package parser

import (
	"strconv"
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// parsePartitionSpec parses PARTITION BY {RANGE|LIST|HASH} (key, ...).
// PARTITION and BY are already consumed. Key elements may be column names
// or expressions, so each is captured as raw text.
func (p *Parser) parsePartitionSpec() (*ast.PartitionSpec, bool) {
	spec := &ast.PartitionSpec{}
	switch {
	case p.match(keywords.RANGE):
		spec.Strategy = ast.PartitionRange
	case p.match(keywords.LIST):
		spec.Strategy = ast.PartitionList
	case p.match(keywords.HASH):
		spec.Strategy = ast.PartitionHash
	default:
		p.errorAtCurrent("expected RANGE, LIST or HASH after PARTITION BY")
		return nil, false
	}

	if !p.expect(keywords.Token('('), "expected ( after partition strategy") {
		return nil, false
	}
	for {
		key := p.captureExprUntil(keywords.Token(','), keywords.Token(')'), keywords.EOF)
		if key == "" {
			p.errorAtCurrent("expected partition key")
			return nil, false
		}
		spec.Keys = append(spec.Keys, key)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	if !p.expect(keywords.Token(')'), "expected ) after partition key list") {
		return nil, false
	}
	return spec, true
}

// parsePartitionBound parses the bound specification of a PARTITION OF
// table: DEFAULT, FOR VALUES IN (...), FOR VALUES FROM (...) TO (...) or
// FOR VALUES WITH (MODULUS n, REMAINDER m).
func (p *Parser) parsePartitionBound() (*ast.PartitionBound, bool) {
	if p.match(keywords.DEFAULT) {
		return &ast.PartitionBound{Kind: ast.BoundDefault}, true
	}

	if !p.expect(keywords.FOR, "expected FOR VALUES or DEFAULT") {
		return nil, false
	}
	if !p.expect(keywords.VALUES, "expected VALUES after FOR") {
		return nil, false
	}

	switch {
	case p.match(keywords.IN_P):
		values, ok := p.parseBoundValueList()
		if !ok {
			return nil, false
		}
		return &ast.PartitionBound{Kind: ast.BoundIn, InValues: values}, true

	case p.match(keywords.FROM):
		from, ok := p.parseBoundValueList()
		if !ok {
			return nil, false
		}
		if !p.expect(keywords.TO, "expected TO after range lower bound") {
			return nil, false
		}
		to, ok := p.parseBoundValueList()
		if !ok {
			return nil, false
		}
		return &ast.PartitionBound{Kind: ast.BoundRange, From: from, To: to}, true

	case p.match(keywords.WITH):
		return p.parseHashBound()

	default:
		p.errorAtCurrent("expected IN, FROM or WITH after FOR VALUES")
		return nil, false
	}
}

// parseBoundValueList parses a parenthesized list of bound values. Each
// value is kept as raw text, so MINVALUE and MAXVALUE pass through
// unchanged.
func (p *Parser) parseBoundValueList() ([]string, bool) {
	if !p.expect(keywords.Token('('), "expected ( before bound values") {
		return nil, false
	}
	var values []string
	for {
		v := p.captureExprUntil(keywords.Token(','), keywords.Token(')'), keywords.EOF)
		if v == "" {
			p.errorAtCurrent("expected bound value")
			return nil, false
		}
		values = append(values, v)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	if !p.expect(keywords.Token(')'), "expected ) after bound values") {
		return nil, false
	}
	return values, true
}

// parseHashBound parses (MODULUS n, REMAINDER m). MODULUS and REMAINDER
// are not keywords; they are matched as identifiers, case-insensitively.
func (p *Parser) parseHashBound() (*ast.PartitionBound, bool) {
	if !p.expect(keywords.Token('('), "expected ( after WITH") {
		return nil, false
	}
	bound := &ast.PartitionBound{Kind: ast.BoundHash}

	modulus, ok := p.parseHashBoundPart("modulus")
	if !ok {
		return nil, false
	}
	bound.Modulus = modulus

	if !p.expect(keywords.Token(','), "expected , after MODULUS") {
		return nil, false
	}

	remainder, ok := p.parseHashBoundPart("remainder")
	if !ok {
		return nil, false
	}
	bound.Remainder = remainder

	if !p.expect(keywords.Token(')'), "expected ) after REMAINDER") {
		return nil, false
	}
	return bound, true
}

func (p *Parser) parseHashBoundPart(word string) (int, bool) {
	if p.cur.Type != keywords.IDENT || !strings.EqualFold(p.cur.Text, word) {
		p.errorAtCurrent("expected " + strings.ToUpper(word))
		return 0, false
	}
	p.advance()
	if !p.check(keywords.ICONST) {
		p.errorAtCurrent("expected integer after " + strings.ToUpper(word))
		return 0, false
	}
	n, err := strconv.Atoi(p.cur.Raw)
	if err != nil {
		p.errorAtCurrent("invalid integer " + p.cur.Raw)
		return 0, false
	}
	p.advance()
	return n, true
}
