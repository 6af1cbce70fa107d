package parser

import (
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// parseCreateTypeRest parses a CREATE TYPE statement from just after the
// TYPE keyword. Four shapes are recognized: AS ENUM, AS RANGE, AS with an
// attribute list (composite), and a bare parameter list (base type). A
// statement with no body declares a shell type.
func (p *Parser) parseCreateTypeRest() *ast.CreateTypeStmt {
	name, ok := p.qualifiedName("type name")
	if !ok {
		return nil
	}
	stmt := &ast.CreateTypeStmt{Name: name}

	switch {
	case p.match(keywords.AS):
		switch {
		case p.match(keywords.ENUM_P):
			stmt.Variant = ast.TypeEnum
			if !p.parseEnumLabels(stmt) {
				return nil
			}
		case p.match(keywords.RANGE):
			stmt.Variant = ast.TypeRange
			if !p.parseRangeDef(stmt) {
				return nil
			}
		default:
			stmt.Variant = ast.TypeComposite
			if !p.parseCompositeAttrs(stmt) {
				return nil
			}
		}
	case p.check(keywords.Token('(')):
		stmt.Variant = ast.TypeBase
		if !p.parseBaseTypeDef(stmt) {
			return nil
		}
	default:
		// shell type: CREATE TYPE name;
		stmt.Variant = ast.TypeBase
	}

	p.match(keywords.Token(';'))
	return stmt
}

// parseEnumLabels parses the label list of AS ENUM. An empty list is
// valid.
func (p *Parser) parseEnumLabels(stmt *ast.CreateTypeStmt) bool {
	if !p.expect(keywords.Token('('), "expected ( after ENUM") {
		return false
	}
	if p.match(keywords.Token(')')) {
		return true
	}
	for {
		if !p.check(keywords.SCONST) {
			p.errorAtCurrent("expected string literal for enum label")
			return false
		}
		stmt.Labels = append(stmt.Labels, p.cur.Text)
		p.advance()
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	return p.expect(keywords.Token(')'), "expected ) after enum labels")
}

func (p *Parser) parseCompositeAttrs(stmt *ast.CreateTypeStmt) bool {
	if !p.expect(keywords.Token('('), "expected ( after AS") {
		return false
	}
	if p.match(keywords.Token(')')) {
		return true
	}
	for {
		name, ok := p.colId("attribute name")
		if !ok {
			return false
		}
		typeName, ok := p.parseTypeName()
		if !ok {
			return false
		}
		attr := &ast.TypeAttribute{Name: name, TypeName: typeName}
		if p.match(keywords.COLLATE) {
			coll, ok := p.colId("collation name")
			if !ok {
				return false
			}
			attr.Collation = coll
		}
		stmt.Attributes = append(stmt.Attributes, attr)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	return p.expect(keywords.Token(')'), "expected ) after attribute list")
}

// parseRangeDef parses the AS RANGE parameter list. Parameter names are
// matched case-insensitively; unknown parameters are an error.
func (p *Parser) parseRangeDef(stmt *ast.CreateTypeStmt) bool {
	def := &ast.RangeTypeDef{}
	stmt.Range = def
	ok := p.parseDefElems(func(name, value string) bool {
		switch strings.ToLower(name) {
		case "subtype":
			def.Subtype = value
		case "subtype_opclass":
			def.SubtypeOpClass = value
		case "collation":
			def.Collation = value
		case "canonical":
			def.Canonical = value
		case "subtype_diff":
			def.SubtypeDiff = value
		case "multirange_type_name":
			def.Multirange = value
		default:
			return false
		}
		return true
	})
	if !ok {
		return false
	}
	if def.Subtype == "" {
		p.errorAtCurrent("range type requires SUBTYPE")
		return false
	}
	return true
}

// parseBaseTypeDef parses the parameter list of a base type definition.
func (p *Parser) parseBaseTypeDef(stmt *ast.CreateTypeStmt) bool {
	def := &ast.BaseTypeDef{}
	stmt.Base = def
	ok := p.parseDefElems(func(name, value string) bool {
		switch strings.ToLower(name) {
		case "input":
			def.Input = value
		case "output":
			def.Output = value
		case "receive":
			def.Receive = value
		case "send":
			def.Send = value
		case "typmod_in":
			def.TypmodIn = value
		case "typmod_out":
			def.TypmodOut = value
		case "analyze":
			def.Analyze = value
		case "internallength":
			def.InternalLength = value
		case "passedbyvalue":
			def.PassedByValue = value == "" || strings.EqualFold(value, "true")
		case "alignment":
			def.Alignment = value
		case "storage":
			def.Storage = value
		case "like":
			def.LikeType = value
		case "category":
			def.Category = value
		case "preferred":
			def.Preferred = value == "" || strings.EqualFold(value, "true")
		case "default":
			def.Default = value
		case "element":
			def.Element = value
		case "delimiter":
			def.Delimiter = value
		case "collatable":
			def.Collatable = value == "" || strings.EqualFold(value, "true")
		default:
			return false
		}
		return true
	})
	if !ok {
		return false
	}
	if def.Input == "" || def.Output == "" {
		p.errorAtCurrent("base type requires INPUT and OUTPUT")
		return false
	}
	return true
}

// parseDefElems parses a parenthesized name[=value] list, handing each
// pair to apply. The value is raw expression text; a bare name passes an
// empty value.
func (p *Parser) parseDefElems(apply func(name, value string) bool) bool {
	if !p.expect(keywords.Token('('), "expected ( before type parameters") {
		return false
	}
	for {
		var name string
		if p.match(keywords.DEFAULT) {
			name = "default"
		} else {
			n, ok := p.colId("type parameter name")
			if !ok {
				return false
			}
			name = n
		}
		var value string
		if p.match(keywords.Token('=')) {
			value = p.captureExprUntil(keywords.Token(','), keywords.Token(')'), keywords.EOF)
			if value == "" {
				p.errorAtCurrent("expected value for " + name)
				return false
			}
		}
		if !apply(name, value) {
			p.errorAtCurrent("unrecognized type parameter " + name)
			return false
		}
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	return p.expect(keywords.Token(')'), "expected ) after type parameters")
}
