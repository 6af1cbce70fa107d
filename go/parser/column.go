package parser

import (
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
	"github.com/aidanmorri810/pgschemadiff/go/parser/lexer"
)

// parseColumnDef parses one column definition. Typed columns (in OF-type
// and PARTITION OF tables) carry no data type; everything else follows
// name and type: storage mode, compression, collation and constraints,
// accepted in any order.
func (p *Parser) parseColumnDef(typed bool) *ast.ColumnDef {
	name, ok := p.colId("column name")
	if !ok {
		return nil
	}
	col := &ast.ColumnDef{Name: name}

	if !typed {
		if col.TypeName, ok = p.parseTypeName(); !ok {
			return nil
		}
	} else if p.match(keywords.WITH) {
		// typed-table columns allow "name WITH OPTIONS constraints"
		if opts, ok := p.colId("OPTIONS"); !ok || !strings.EqualFold(opts, "options") {
			p.errorAtCurrent("expected OPTIONS after WITH")
			return nil
		}
	}

	for {
		switch p.cur.Type {
		case keywords.STORAGE:
			p.advance()
			mode, ok := p.parseStorageMode()
			if !ok {
				return nil
			}
			col.Storage = mode
		case keywords.COMPRESSION:
			p.advance()
			method, ok := p.colId("compression method name")
			if !ok {
				return nil
			}
			col.Compression = method
		case keywords.COLLATE:
			p.advance()
			collation, ok := p.qualifiedName("collation name")
			if !ok {
				return nil
			}
			col.Collation = collation
		case keywords.CONSTRAINT, keywords.NOT, keywords.NULL_P,
			keywords.CHECK, keywords.DEFAULT, keywords.GENERATED,
			keywords.UNIQUE, keywords.PRIMARY, keywords.REFERENCES,
			keywords.DEFERRABLE, keywords.INITIALLY, keywords.ENFORCED:
			con := p.parseColumnConstraint()
			if con == nil {
				return nil
			}
			col.Constraints = append(col.Constraints, con)
		default:
			return col
		}
	}
}

// parseStorageMode parses PLAIN | EXTERNAL | EXTENDED | MAIN | DEFAULT.
// An explicit STORAGE DEFAULT clears back to unspecified.
func (p *Parser) parseStorageMode() (string, bool) {
	switch {
	case p.match(keywords.PLAIN):
		return "plain", true
	case p.match(keywords.EXTERNAL):
		return "external", true
	case p.match(keywords.EXTENDED):
		return "extended", true
	case p.match(keywords.MAIN):
		return "main", true
	case p.match(keywords.DEFAULT):
		return "", true
	default:
		p.errorAtCurrent("expected PLAIN, EXTERNAL, EXTENDED, MAIN or DEFAULT")
		return "", false
	}
}

// parseTypeName parses a data-type token sequence and returns it as raw
// text: base name (possibly schema-qualified or multi-word), optional
// precision/scale, optional time zone suffix, optional array brackets.
// The text is not interpreted further.
func (p *Parser) parseTypeName() (string, bool) {
	var sb strings.Builder
	timeType := false

	switch p.cur.Type {
	case keywords.DOUBLE_P:
		sb.WriteString(p.cur.Raw)
		p.advance()
		if !p.check(keywords.PRECISION) {
			p.errorAtCurrent("expected PRECISION after DOUBLE")
			return "", false
		}
		sb.WriteByte(' ')
		sb.WriteString(p.cur.Raw)
		p.advance()
	case keywords.CHARACTER, keywords.CHAR_P, keywords.BIT:
		sb.WriteString(p.cur.Raw)
		p.advance()
		if p.check(keywords.VARYING) {
			sb.WriteByte(' ')
			sb.WriteString(p.cur.Raw)
			p.advance()
		}
	case keywords.TIMESTAMP, keywords.TIME:
		timeType = true
		sb.WriteString(p.cur.Raw)
		p.advance()
	default:
		if !p.cur.IsUnreservedWord() {
			p.errorAtCurrent("expected a data type name")
			return "", false
		}
		base := p.cur
		sb.WriteString(base.Raw)
		p.advance()
		if p.check(keywords.Token('.')) {
			// schema-qualified names pass through unchecked; the schema
			// owns the type
			for p.match(keywords.Token('.')) {
				if !p.cur.IsUnreservedWord() {
					p.errorAtCurrent("expected a type name after .")
					return "", false
				}
				sb.WriteByte('.')
				sb.WriteString(p.cur.Raw)
				p.advance()
			}
		} else if !knownTypeName(base) {
			p.errorAt(base, "unrecognized data type "+base.Text)
			return "", false
		}
	}

	// optional precision/scale
	if p.check(keywords.Token('(')) {
		p.advance()
		sb.WriteByte('(')
		if !p.check(keywords.ICONST) {
			p.errorAtCurrent("expected a numeric type modifier")
			return "", false
		}
		sb.WriteString(p.cur.Raw)
		p.advance()
		if p.match(keywords.Token(',')) {
			if !p.check(keywords.ICONST) {
				p.errorAtCurrent("expected a numeric type modifier")
				return "", false
			}
			sb.WriteByte(',')
			sb.WriteString(p.cur.Raw)
			p.advance()
		}
		if !p.expect(keywords.Token(')'), "expected ) after type modifier") {
			return "", false
		}
		sb.WriteByte(')')
	}

	// WITH/WITHOUT TIME ZONE applies only to timestamp and time bases
	if timeType && (p.check(keywords.WITH) || p.check(keywords.WITHOUT)) {
		sb.WriteByte(' ')
		sb.WriteString(p.cur.Raw)
		p.advance()
		if !p.check(keywords.TIME) {
			p.errorAtCurrent("expected TIME in time zone specification")
			return "", false
		}
		sb.WriteByte(' ')
		sb.WriteString(p.cur.Raw)
		p.advance()
		if !p.check(keywords.ZONE) {
			p.errorAtCurrent("expected ZONE in time zone specification")
			return "", false
		}
		sb.WriteByte(' ')
		sb.WriteString(p.cur.Raw)
		p.advance()
	}

	// array bounds: [] or [n], repeatable
	for p.check(keywords.Token('[')) {
		p.advance()
		sb.WriteByte('[')
		if p.check(keywords.ICONST) {
			sb.WriteString(p.cur.Raw)
			p.advance()
		}
		if !p.expect(keywords.Token(']'), "expected ] in array type") {
			return "", false
		}
		sb.WriteByte(']')
	}

	return sb.String(), true
}

// builtinTypeNames are the base type spellings accepted without a schema
// qualifier, beyond the type keywords the grammar already recognizes.
// User-defined types are written schema-qualified or quoted; a bare
// unknown identifier is far more often a typo than an intentional type.
var builtinTypeNames = map[string]bool{
	"bigserial": true, "bool": true, "box": true, "bytea": true,
	"cidr": true, "circle": true, "date": true, "float4": true,
	"float8": true, "inet": true, "int2": true, "int4": true,
	"int8": true, "json": true, "jsonb": true, "line": true,
	"lseg": true, "macaddr": true, "macaddr8": true, "money": true,
	"name": true, "oid": true, "path": true, "pg_lsn": true,
	"point": true, "polygon": true, "regclass": true, "serial": true,
	"serial2": true, "serial4": true, "serial8": true,
	"smallserial": true, "text": true, "timestamptz": true,
	"timetz": true, "tsquery": true, "tsvector": true, "uuid": true,
	"xml": true,
}

// knownTypeName reports whether a bare token may serve as a type name: a
// keyword, a known built-in type, or a quoted identifier.
func knownTypeName(tok *lexer.Token) bool {
	if tok.Keyword != nil {
		return true
	}
	if builtinTypeNames[strings.ToLower(tok.Text)] {
		return true
	}
	return strings.HasPrefix(tok.Raw, `"`)
}
