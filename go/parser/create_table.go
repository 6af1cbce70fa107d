package parser

import (
	"fmt"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

// parseCreateTableRest parses a CREATE TABLE statement from just after
// the CREATE keyword.
func (p *Parser) parseCreateTableRest() *ast.CreateTableStmt {
	stmt := &ast.CreateTableStmt{}

	if p.match(keywords.GLOBAL) {
		stmt.TempScope = ast.TempScopeGlobal
	} else if p.match(keywords.LOCAL) {
		stmt.TempScope = ast.TempScopeLocal
	}
	if p.match(keywords.TEMPORARY, keywords.TEMP) {
		stmt.Persistence = ast.PersistenceTemporary
	} else if stmt.TempScope != ast.TempScopeNone {
		// GLOBAL/LOCAL without TEMPORARY implies a temp table
		stmt.Persistence = ast.PersistenceTemporary
	} else if p.match(keywords.UNLOGGED) {
		stmt.Persistence = ast.PersistenceUnlogged
	}

	if !p.expect(keywords.TABLE, "expected TABLE") {
		return nil
	}
	if p.match(keywords.IF_P) {
		if !p.expect(keywords.NOT, "expected NOT after IF") {
			return nil
		}
		if !p.expect(keywords.EXISTS, "expected EXISTS after IF NOT") {
			return nil
		}
		stmt.IfNotExists = true
	}

	name, ok := p.qualifiedName("table name")
	if !ok {
		return nil
	}
	stmt.Name = name

	switch {
	case p.match(keywords.OF):
		stmt.Variant = ast.TableOfType
		if stmt.OfType, ok = p.qualifiedName("type name"); !ok {
			return nil
		}
		if p.check(keywords.Token('(')) {
			if !p.parseTableElements(stmt, true) {
				return nil
			}
		}
	case p.match(keywords.PARTITION):
		stmt.Variant = ast.TablePartition
		if !p.expect(keywords.OF, "expected OF after PARTITION") {
			return nil
		}
		if stmt.Parent, ok = p.qualifiedName("parent table name"); !ok {
			return nil
		}
		if p.check(keywords.Token('(')) {
			if !p.parseTableElements(stmt, true) {
				return nil
			}
		}
		bound, ok := p.parsePartitionBound()
		if !ok {
			return nil
		}
		stmt.Bound = bound
	default:
		stmt.Variant = ast.TableRegular
		if !p.parseTableElements(stmt, false) {
			return nil
		}
	}

	if !p.parseTableTrailers(stmt) {
		return nil
	}

	// trailing semicolon is optional
	p.match(keywords.Token(';'))
	return stmt
}

// parseTableElements parses the parenthesized element list. In typed
// (OF type / PARTITION OF) tables, columns carry only constraints since
// the type is inherited.
func (p *Parser) parseTableElements(stmt *ast.CreateTableStmt, typed bool) bool {
	if !p.expect(keywords.Token('('), "expected (") {
		return false
	}
	if p.match(keywords.Token(')')) {
		return true
	}
	for {
		var elem ast.TableElem
		switch p.cur.Type {
		case keywords.CONSTRAINT, keywords.CHECK, keywords.UNIQUE,
			keywords.PRIMARY, keywords.FOREIGN, keywords.EXCLUDE:
			if con := p.parseTableConstraint(); con != nil {
				elem = con
			}
		case keywords.LIKE:
			if like := p.parseLikeClause(); like != nil {
				elem = like
			}
		default:
			if col := p.parseColumnDef(typed); col != nil {
				elem = col
			}
		}
		if elem == nil {
			return false
		}
		stmt.Elements = append(stmt.Elements, elem)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	return p.expect(keywords.Token(')'), "expected ) after table elements")
}

// parseLikeClause parses LIKE source_table with its INCLUDING/EXCLUDING
// option list.
func (p *Parser) parseLikeClause() *ast.LikeClause {
	p.advance() // LIKE
	table, ok := p.qualifiedName("table name after LIKE")
	if !ok {
		return nil
	}
	like := &ast.LikeClause{Table: table}
	for {
		if p.match(keywords.INCLUDING) {
			opt, ok := p.parseLikeOption()
			if !ok {
				return nil
			}
			like.Including = append(like.Including, opt)
		} else if p.match(keywords.EXCLUDING) {
			opt, ok := p.parseLikeOption()
			if !ok {
				return nil
			}
			like.Excluding = append(like.Excluding, opt)
		} else {
			return like
		}
	}
}

func (p *Parser) parseLikeOption() (ast.LikeOption, bool) {
	defer p.advance()
	switch p.cur.Type {
	case keywords.COMMENTS:
		return ast.LikeComments, true
	case keywords.COMPRESSION:
		return ast.LikeCompression, true
	case keywords.CONSTRAINTS:
		return ast.LikeConstraints, true
	case keywords.DEFAULTS:
		return ast.LikeDefaults, true
	case keywords.GENERATED:
		return ast.LikeGenerated, true
	case keywords.IDENTITY_P:
		return ast.LikeIdentity, true
	case keywords.INDEXES:
		return ast.LikeIndexes, true
	case keywords.STATISTICS:
		return ast.LikeStatistics, true
	case keywords.STORAGE:
		return ast.LikeStorage, true
	case keywords.ALL:
		return ast.LikeAll, true
	default:
		p.errorAtCurrent(fmt.Sprintf("unknown LIKE option %q", p.cur.Text))
		return 0, false
	}
}

// parseTableTrailers parses the optional clauses following the element
// list: INHERITS, PARTITION BY, USING, WITH/WITHOUT OIDS, ON COMMIT,
// TABLESPACE.
func (p *Parser) parseTableTrailers(stmt *ast.CreateTableStmt) bool {
	for {
		switch {
		case p.match(keywords.INHERITS):
			parents, ok := p.nameList("parent table name")
			if !ok {
				return false
			}
			stmt.Inherits = parents

		case p.match(keywords.PARTITION):
			if !p.expect(keywords.BY, "expected BY after PARTITION") {
				return false
			}
			spec, ok := p.parsePartitionSpec()
			if !ok {
				return false
			}
			stmt.PartitionBy = spec

		case p.match(keywords.USING):
			method, ok := p.colId("access method name")
			if !ok {
				return false
			}
			stmt.AccessMethod = method

		case p.match(keywords.WITH):
			opts, ok := p.parseStorageParameters()
			if !ok {
				return false
			}
			stmt.Options = opts

		case p.match(keywords.WITHOUT):
			if !p.expect(keywords.OIDS, "expected OIDS after WITHOUT") {
				return false
			}
			stmt.WithoutOids = true

		case p.match(keywords.ON):
			if !p.expect(keywords.COMMIT, "expected COMMIT after ON") {
				return false
			}
			action, ok := p.parseOnCommitAction()
			if !ok {
				return false
			}
			stmt.OnCommit = action

		case p.match(keywords.TABLESPACE):
			space, ok := p.colId("tablespace name")
			if !ok {
				return false
			}
			stmt.Tablespace = space

		default:
			return true
		}
	}
}

func (p *Parser) parseOnCommitAction() (ast.OnCommitAction, bool) {
	switch {
	case p.match(keywords.PRESERVE):
		if !p.expect(keywords.ROWS, "expected ROWS after PRESERVE") {
			return 0, false
		}
		return ast.OnCommitPreserveRows, true
	case p.match(keywords.DELETE_P):
		if !p.expect(keywords.ROWS, "expected ROWS after DELETE") {
			return 0, false
		}
		return ast.OnCommitDeleteRows, true
	case p.match(keywords.DROP):
		return ast.OnCommitDrop, true
	default:
		p.errorAtCurrent("expected PRESERVE ROWS, DELETE ROWS or DROP")
		return 0, false
	}
}

// parseStorageParameters parses a WITH ( name [= value], ... ) list.
// Parameter names may be toast-qualified; values are kept as raw text.
func (p *Parser) parseStorageParameters() ([]*ast.StorageParameter, bool) {
	if !p.expect(keywords.Token('('), "expected ( after WITH") {
		return nil, false
	}
	var opts []*ast.StorageParameter
	for {
		name, ok := p.qualifiedName("storage parameter name")
		if !ok {
			return nil, false
		}
		param := &ast.StorageParameter{Name: name}
		if p.match(keywords.Token('=')) {
			param.Value = p.captureExprUntil(keywords.Token(','), keywords.Token(')'))
		}
		opts = append(opts, param)
		if !p.match(keywords.Token(',')) {
			break
		}
	}
	if !p.expect(keywords.Token(')'), "expected ) after storage parameters") {
		return nil, false
	}
	return opts, true
}
