package parser

import (
	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// exprStops is the stop set for capturing an unparenthesized expression
// inside a column definition: anything that can follow the expression at
// depth zero.
var exprStops = []keywords.Token{
	keywords.Token(','), keywords.Token(')'), keywords.Token(';'),
	keywords.CONSTRAINT, keywords.NOT, keywords.NULL_P, keywords.CHECK,
	keywords.DEFAULT, keywords.GENERATED, keywords.UNIQUE, keywords.PRIMARY,
	keywords.REFERENCES, keywords.COLLATE, keywords.DEFERRABLE,
	keywords.INITIALLY, keywords.ENFORCED, keywords.STORAGE,
	keywords.COMPRESSION, keywords.EOF,
}

// parseColumnConstraint parses one column-level constraint, including the
// shared deferrable/initially/enforced trailing attributes.
func (p *Parser) parseColumnConstraint() *ast.Constraint {
	var name string
	if p.match(keywords.CONSTRAINT) {
		n, ok := p.colId("constraint name")
		if !ok {
			return nil
		}
		name = n
	}

	var con *ast.Constraint
	switch {
	case p.match(keywords.NOT):
		if !p.expect(keywords.NULL_P, "expected NULL after NOT") {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrNotNull)

	case p.match(keywords.NULL_P):
		con = ast.NewConstraint(ast.ConstrNull)

	case p.match(keywords.CHECK):
		expr, ok := p.captureParenExpr()
		if !ok {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrCheck)
		con.Expr = ast.NewExpression(expr)
		if p.match(keywords.NO) {
			if !p.expect(keywords.INHERIT, "expected INHERIT after NO") {
				return nil
			}
			con.NoInherit = true
		}

	case p.match(keywords.DEFAULT):
		con = ast.NewConstraint(ast.ConstrDefault)
		con.Expr = ast.NewExpression(p.captureExprUntil(exprStops...))

	case p.match(keywords.GENERATED):
		gcon, ok := p.parseGeneratedConstraint()
		if !ok {
			return nil
		}
		con = gcon

	case p.match(keywords.UNIQUE):
		con = ast.NewConstraint(ast.ConstrUnique)

	case p.match(keywords.PRIMARY):
		if !p.expect(keywords.KEY, "expected KEY after PRIMARY") {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrPrimary)

	case p.match(keywords.REFERENCES):
		con = ast.NewConstraint(ast.ConstrForeign)
		if !p.parseReferencesClause(con) {
			return nil
		}

	default:
		p.errorAtCurrent("expected a column constraint")
		return nil
	}

	con.Name = name
	if !p.parseConstraintAttrs(con) {
		return nil
	}
	return con
}

// parseGeneratedConstraint parses GENERATED {ALWAYS|BY DEFAULT} followed
// by AS IDENTITY or AS (expr) STORED. The GENERATED keyword is consumed.
func (p *Parser) parseGeneratedConstraint() (*ast.Constraint, bool) {
	when := ast.GeneratedAlways
	if p.match(keywords.BY) {
		if !p.expect(keywords.DEFAULT, "expected DEFAULT after BY") {
			return nil, false
		}
		when = ast.GeneratedByDefault
	} else if p.cur.Type == keywords.ALWAYS {
		p.advance()
	} else {
		p.errorAtCurrent("expected ALWAYS or BY DEFAULT after GENERATED")
		return nil, false
	}

	if !p.expect(keywords.AS, "expected AS") {
		return nil, false
	}

	if p.match(keywords.IDENTITY_P) {
		con := ast.NewConstraint(ast.ConstrIdentity)
		con.GeneratedWhen = when
		// a parenthesized sequence-option list may follow; retain nothing
		if p.check(keywords.Token('(')) {
			if _, ok := p.captureParenExpr(); !ok {
				return nil, false
			}
		}
		return con, true
	}

	if when != ast.GeneratedAlways {
		p.errorAtCurrent("GENERATED BY DEFAULT is only valid AS IDENTITY")
		return nil, false
	}
	expr, ok := p.captureParenExpr()
	if !ok {
		return nil, false
	}
	con := ast.NewConstraint(ast.ConstrGenerated)
	con.GeneratedWhen = when
	con.Expr = ast.NewExpression(expr)
	if !p.expect(keywords.STORED, "expected STORED after generation expression") {
		return nil, false
	}
	return con, true
}

// parseTableConstraint parses one table-level constraint element.
func (p *Parser) parseTableConstraint() *ast.Constraint {
	var name string
	if p.match(keywords.CONSTRAINT) {
		n, ok := p.colId("constraint name")
		if !ok {
			return nil
		}
		name = n
	}

	var con *ast.Constraint
	switch {
	case p.match(keywords.CHECK):
		expr, ok := p.captureParenExpr()
		if !ok {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrCheck)
		con.Expr = ast.NewExpression(expr)
		if p.match(keywords.NO) {
			if !p.expect(keywords.INHERIT, "expected INHERIT after NO") {
				return nil
			}
			con.NoInherit = true
		}

	case p.match(keywords.UNIQUE):
		con = ast.NewConstraint(ast.ConstrUnique)
		keys, ok := p.nameList("key column name")
		if !ok {
			return nil
		}
		con.Keys = keys

	case p.match(keywords.PRIMARY):
		if !p.expect(keywords.KEY, "expected KEY after PRIMARY") {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrPrimary)
		keys, ok := p.nameList("key column name")
		if !ok {
			return nil
		}
		con.Keys = keys

	case p.match(keywords.FOREIGN):
		if !p.expect(keywords.KEY, "expected KEY after FOREIGN") {
			return nil
		}
		con = ast.NewConstraint(ast.ConstrForeign)
		cols, ok := p.nameList("referencing column name")
		if !ok {
			return nil
		}
		con.FkColumns = cols
		if !p.expect(keywords.REFERENCES, "expected REFERENCES") {
			return nil
		}
		if !p.parseReferencesClause(con) {
			return nil
		}

	case p.match(keywords.EXCLUDE):
		econ, ok := p.parseExcludeConstraint()
		if !ok {
			return nil
		}
		con = econ

	default:
		p.errorAtCurrent("expected a table constraint")
		return nil
	}

	con.Name = name
	if !p.parseConstraintAttrs(con) {
		return nil
	}
	return con
}

// parseReferencesClause parses the shared tail of REFERENCES: target
// table, optional column list, MATCH type and referential actions. The
// REFERENCES keyword is already consumed.
func (p *Parser) parseReferencesClause(con *ast.Constraint) bool {
	table, ok := p.qualifiedName("referenced table name")
	if !ok {
		return false
	}
	con.RefTable = table

	if p.check(keywords.Token('(')) {
		cols, ok := p.nameList("referenced column name")
		if !ok {
			return false
		}
		con.RefCols = cols
	}

	if p.match(keywords.MATCH) {
		switch {
		case p.match(keywords.FULL):
			con.Match = ast.FKMatchFull
		case p.match(keywords.PARTIAL):
			con.Match = ast.FKMatchPartial
		case p.match(keywords.SIMPLE):
			con.Match = ast.FKMatchSimple
		default:
			p.errorAtCurrent("expected FULL, PARTIAL or SIMPLE after MATCH")
			return false
		}
	}

	for p.check(keywords.ON) {
		p.advance()
		switch {
		case p.match(keywords.UPDATE):
			action, ok := p.parseKeyAction()
			if !ok {
				return false
			}
			con.OnUpdate = action
		case p.match(keywords.DELETE_P):
			action, ok := p.parseKeyAction()
			if !ok {
				return false
			}
			con.OnDelete = action
		default:
			p.errorAtCurrent("expected UPDATE or DELETE after ON")
			return false
		}
	}
	return true
}

// parseKeyAction parses one referential action, including the optional
// column list of SET NULL / SET DEFAULT.
func (p *Parser) parseKeyAction() (*ast.KeyAction, bool) {
	switch {
	case p.match(keywords.NO):
		if !p.expect(keywords.ACTION, "expected ACTION after NO") {
			return nil, false
		}
		return &ast.KeyAction{Action: ast.FKActionNoAction}, true
	case p.match(keywords.RESTRICT):
		return &ast.KeyAction{Action: ast.FKActionRestrict}, true
	case p.match(keywords.CASCADE):
		return &ast.KeyAction{Action: ast.FKActionCascade}, true
	case p.match(keywords.SET):
		var action byte
		switch {
		case p.match(keywords.NULL_P):
			action = ast.FKActionSetNull
		case p.match(keywords.DEFAULT):
			action = ast.FKActionSetDefault
		default:
			p.errorAtCurrent("expected NULL or DEFAULT after SET")
			return nil, false
		}
		ka := &ast.KeyAction{Action: action}
		if p.check(keywords.Token('(')) {
			cols, ok := p.nameList("column name")
			if !ok {
				return nil, false
			}
			ka.Columns = cols
		}
		return ka, true
	default:
		p.errorAtCurrent("expected NO ACTION, RESTRICT, CASCADE, SET NULL or SET DEFAULT")
		return nil, false
	}
}

// parseExcludeConstraint parses EXCLUDE [USING method] (element WITH
// operator, ...) [WHERE (predicate)]. The EXCLUDE keyword is consumed.
func (p *Parser) parseExcludeConstraint() (*ast.Constraint, bool) {
	con := ast.NewConstraint(ast.ConstrExclusion)
	if p.match(keywords.USING) {
		method, ok := p.colId("index method name")
		if !ok {
			return nil, false
		}
		con.IndexMethod = method
	}
	if !p.expect(keywords.Token('('), "expected ( after EXCLUDE") {
		return nil, false
	}
	for {
		elem := p.captureExprUntil(keywords.WITH, keywords.Token(','), keywords.Token(')'), keywords.EOF)
		if !p.expect(keywords.WITH, "expected WITH in exclusion element") {
			return nil, false
		}
		op := p.captureExprUntil(keywords.Token(','), keywords.Token(')'), keywords.EOF)
		con.Exclusions = append(con.Exclusions, &ast.ExclusionElem{Element: elem, Operator: op})
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	if !p.expect(keywords.Token(')'), "expected ) after exclusion list") {
		return nil, false
	}
	if p.match(keywords.WHERE) {
		pred, ok := p.captureParenExpr()
		if !ok {
			return nil, false
		}
		con.Where = ast.NewExpression(pred)
	}
	return con, true
}

// parseConstraintAttrs parses the deferrable/initially/enforced trailing
// attributes shared by column- and table-level constraints. Each is
// tri-state: omitted stays nil, distinguishing "unspecified" from an
// explicit false.
func (p *Parser) parseConstraintAttrs(con *ast.Constraint) bool {
	for {
		switch {
		case p.match(keywords.NOT):
			switch {
			case p.match(keywords.DEFERRABLE):
				con.Deferrable = boolPtr(false)
			case p.match(keywords.ENFORCED):
				con.Enforced = boolPtr(false)
			default:
				p.errorAtCurrent("expected DEFERRABLE or ENFORCED after NOT")
				return false
			}
		case p.match(keywords.DEFERRABLE):
			con.Deferrable = boolPtr(true)
		case p.match(keywords.INITIALLY):
			switch {
			case p.match(keywords.DEFERRED):
				con.InitDeferred = boolPtr(true)
			case p.match(keywords.IMMEDIATE):
				con.InitDeferred = boolPtr(false)
			default:
				p.errorAtCurrent("expected DEFERRED or IMMEDIATE after INITIALLY")
				return false
			}
		case p.match(keywords.ENFORCED):
			con.Enforced = boolPtr(true)
		default:
			return true
		}
	}
}

func boolPtr(b bool) *bool {
	return &b
}
