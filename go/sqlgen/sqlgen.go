/*
 * Migration SQL Generation
 *
 * Turns a schema diff into the ALTER/CREATE/DROP statements that would
 * move the source schema to the target. Constraint additions re-emit the
 * definition from the constraint node the diff borrowed from the target
 * AST.
 */

package sqlgen

import (
	"fmt"
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/diff"
	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// Generate produces migration statements for every recorded difference.
// Per table, drops come before adds so renames expressed as drop+add do
// not collide.
func Generate(d *diff.SchemaDiff) []string {
	var stmts []string

	for _, t := range d.TablesRemoved {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE %s;", quoteQualified(t.Name)))
	}
	for _, td := range d.TablesChanged {
		stmts = append(stmts, tableStatements(td)...)
	}
	for _, t := range d.TablesAdded {
		stmts = append(stmts, t.SqlString())
	}
	return stmts
}

func tableStatements(td *diff.TableDiff) []string {
	table := quoteQualified(td.Name)
	var drops, adds, alters []string

	for _, cd := range td.Constraints {
		if cd.Kind != diff.ChangeRemoved {
			continue
		}
		if cd.Name != "" {
			drops = append(drops, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s;",
				table, ast.QuoteIdentifier(cd.Name)))
		} else {
			drops = append(drops, fmt.Sprintf("-- unnamed %s constraint removed from %s; drop it by its system-assigned name",
				strings.ToLower(cd.Constraint.Type.String()), table))
		}
	}

	for _, col := range td.Columns {
		switch col.Kind {
		case diff.ChangeRemoved:
			drops = append(drops, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;",
				table, ast.QuoteIdentifier(col.Name)))
		case diff.ChangeAdded:
			adds = append(adds, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;",
				table, col.Target.SqlString()))
		case diff.ChangeModified:
			alters = append(alters, columnAlterations(table, col)...)
		}
	}

	for _, cd := range td.Constraints {
		if cd.Kind != diff.ChangeAdded {
			continue
		}
		adds = append(adds, fmt.Sprintf("ALTER TABLE %s ADD %s;",
			table, constraintDefinition(cd)))
	}

	out := make([]string, 0, len(drops)+len(adds)+len(alters))
	out = append(out, drops...)
	out = append(out, alters...)
	out = append(out, adds...)
	return out
}

func columnAlterations(table string, col *diff.ColumnDiff) []string {
	column := ast.QuoteIdentifier(col.Name)
	var out []string
	for _, change := range col.Changes {
		switch change.Type {
		case diff.DiffColumnType:
			out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s;",
				table, column, change.New))
		case diff.DiffColumnNullability:
			if change.New == "NOT NULL" {
				out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;", table, column))
			} else {
				out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;", table, column))
			}
		case diff.DiffColumnDefault:
			if change.New == "" {
				out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;", table, column))
			} else {
				out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;",
					table, column, change.New))
			}
		case diff.DiffColumnStorage:
			out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET STORAGE %s;",
				table, column, strings.ToUpper(change.New)))
		case diff.DiffColumnCompression:
			if change.New != "" {
				out = append(out, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET COMPRESSION %s;",
					table, column, change.New))
			}
		case diff.DiffColumnCollation:
			out = append(out, fmt.Sprintf("-- column %s.%s collation changed from %q to %q; requires a type rewrite",
				table, col.Name, change.Old, change.New))
		}
	}
	return out
}

// constraintDefinition renders a constraint for ADD CONSTRAINT. Inline
// single-column PRIMARY KEY, UNIQUE and REFERENCES declarations are
// rewritten to their table-level form.
func constraintDefinition(cd *diff.ConstraintDiff) string {
	con := cd.Constraint
	if cd.Column == "" {
		return con.SqlString()
	}

	lifted := *con
	switch con.Type {
	case ast.ConstrPrimary, ast.ConstrUnique:
		lifted.Keys = []string{cd.Column}
	case ast.ConstrForeign:
		lifted.FkColumns = []string{cd.Column}
	}
	return lifted.SqlString()
}

func quoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = ast.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
