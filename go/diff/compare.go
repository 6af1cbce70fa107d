/*
 * Schema Comparison Engine
 *
 * Compares two collections of parsed CREATE TABLE statements and records
 * every semantic difference. Works directly over the parser's AST; the
 * same AST shape is produced by live-catalog introspection, so the
 * engine never knows which producer built its input.
 */

package diff

import (
	"fmt"
	"strings"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// CompareSchemas reconciles the two table sets and compares each table
// present on both sides. The result is fresh per call and shares no
// mutable state with other runs.
func CompareSchemas(source, target []*ast.CreateTableStmt, opts Options) *SchemaDiff {
	sd := &SchemaDiff{}

	srcByName := indexTables(source, opts)
	tgtByName := indexTables(target, opts)

	for _, src := range source {
		tgt, ok := tgtByName[nameKey(src.Name, opts)]
		if !ok {
			sd.TablesRemoved = append(sd.TablesRemoved, src)
			sd.Changes = append(sd.Changes, newDiff(DiffTableRemoved, src.Name, "", src.Name, "",
				fmt.Sprintf("table %s removed", src.Name)))
			continue
		}
		td := CompareTables(src, tgt, opts)
		if td.Modified {
			sd.TablesChanged = append(sd.TablesChanged, td)
			sd.Changes = append(sd.Changes, td.Changes...)
		}
	}
	for _, tgt := range target {
		if _, ok := srcByName[nameKey(tgt.Name, opts)]; !ok {
			sd.TablesAdded = append(sd.TablesAdded, tgt)
			sd.Changes = append(sd.Changes, newDiff(DiffTableAdded, tgt.Name, "", "", tgt.Name,
				fmt.Sprintf("table %s added", tgt.Name)))
		}
	}
	return sd
}

func indexTables(tables []*ast.CreateTableStmt, opts Options) map[string]*ast.CreateTableStmt {
	m := make(map[string]*ast.CreateTableStmt, len(tables))
	for _, t := range tables {
		m[nameKey(t.Name, opts)] = t
	}
	return m
}

// CompareTables compares one table present on both sides. The returned
// TableDiff has Modified set iff at least one change was recorded.
func CompareTables(source, target *ast.CreateTableStmt, opts Options) *TableDiff {
	td := &TableDiff{Name: source.Name, Source: source, Target: target}

	if source.Persistence != target.Persistence {
		td.record(newDiff(DiffTablePersistence, td.Name, "",
			source.Persistence.String(), target.Persistence.String(),
			fmt.Sprintf("table %s persistence changed from %s to %s",
				td.Name, source.Persistence, target.Persistence)))
	}
	if source.Tablespace != target.Tablespace {
		td.record(newDiff(DiffTableTablespace, td.Name, "",
			source.Tablespace, target.Tablespace,
			fmt.Sprintf("table %s tablespace changed", td.Name)))
	}
	if !sameColumnList(source.Inherits, target.Inherits, opts) {
		td.record(newDiff(DiffTableInherits, td.Name, "",
			strings.Join(source.Inherits, ", "), strings.Join(target.Inherits, ", "),
			fmt.Sprintf("table %s inheritance changed", td.Name)))
	}
	if src, tgt := partitionByText(source), partitionByText(target); src != tgt {
		td.record(newDiff(DiffTablePartitionBy, td.Name, "", src, tgt,
			fmt.Sprintf("table %s partition key changed", td.Name)))
	}
	if source.AccessMethod != target.AccessMethod {
		td.record(newDiff(DiffTableAccessMethod, td.Name, "",
			source.AccessMethod, target.AccessMethod,
			fmt.Sprintf("table %s access method changed", td.Name)))
	}
	if source.OnCommit != target.OnCommit {
		td.record(newDiff(DiffTableOnCommit, td.Name, "",
			source.OnCommit.String(), target.OnCommit.String(),
			fmt.Sprintf("table %s on commit action changed", td.Name)))
	}

	compareColumns(td, opts)
	compareConstraints(td, opts)
	return td
}

func partitionByText(t *ast.CreateTableStmt) string {
	if t.PartitionBy == nil {
		return ""
	}
	return t.PartitionBy.SqlString()
}

func compareColumns(td *TableDiff, opts Options) {
	srcCols := td.Source.Columns()
	tgtCols := td.Target.Columns()

	srcByName := indexColumns(srcCols, opts)
	tgtByName := indexColumns(tgtCols, opts)

	for _, src := range srcCols {
		tgt, ok := tgtByName[nameKey(src.Name, opts)]
		if !ok {
			cd := &ColumnDiff{Kind: ChangeRemoved, Name: src.Name, Source: src}
			cd.Changes = append(cd.Changes, newDiff(DiffColumnRemoved, td.Name, src.Name,
				src.TypeName, "", fmt.Sprintf("column %s.%s removed", td.Name, src.Name)))
			td.Columns = append(td.Columns, cd)
			td.record(cd.Changes[0])
			continue
		}
		if cd := compareColumn(td, src, tgt, opts); cd != nil {
			td.Columns = append(td.Columns, cd)
		}
	}
	for _, tgt := range tgtCols {
		if _, ok := srcByName[nameKey(tgt.Name, opts)]; !ok {
			cd := &ColumnDiff{Kind: ChangeAdded, Name: tgt.Name, Target: tgt}
			cd.Changes = append(cd.Changes, newDiff(DiffColumnAdded, td.Name, tgt.Name,
				"", tgt.TypeName, fmt.Sprintf("column %s.%s added", td.Name, tgt.Name)))
			td.Columns = append(td.Columns, cd)
			td.record(cd.Changes[0])
		}
	}
}

func indexColumns(cols []*ast.ColumnDef, opts Options) map[string]*ast.ColumnDef {
	m := make(map[string]*ast.ColumnDef, len(cols))
	for _, c := range cols {
		m[nameKey(c.Name, opts)] = c
	}
	return m
}

// compareColumn applies the per-field rules to a column present on both
// sides, returning nil when nothing differs.
func compareColumn(td *TableDiff, src, tgt *ast.ColumnDef, opts Options) *ColumnDiff {
	cd := &ColumnDiff{Kind: ChangeModified, Name: src.Name, Source: src, Target: tgt}
	add := func(d *Diff) {
		cd.Changes = append(cd.Changes, d)
		td.record(d)
	}

	if !typesEquivalent(src.TypeName, tgt.TypeName, opts) {
		add(newDiff(DiffColumnType, td.Name, src.Name, src.TypeName, tgt.TypeName,
			fmt.Sprintf("column %s.%s type changed from %s to %s",
				td.Name, src.Name, src.TypeName, tgt.TypeName)))
	}

	srcNotNull := columnNotNull(td.Source, src, opts)
	tgtNotNull := columnNotNull(td.Target, tgt, opts)
	if srcNotNull != tgtNotNull {
		add(newDiff(DiffColumnNullability, td.Name, src.Name,
			nullabilityText(srcNotNull), nullabilityText(tgtNotNull),
			fmt.Sprintf("column %s.%s nullability changed", td.Name, src.Name)))
	}

	srcDefault, tgtDefault := exprText(src.DefaultExpr()), exprText(tgt.DefaultExpr())
	if !defaultsEquivalent(srcDefault, tgtDefault, opts) {
		add(newDiff(DiffColumnDefault, td.Name, src.Name, srcDefault, tgtDefault,
			fmt.Sprintf("column %s.%s default changed", td.Name, src.Name)))
	}

	// "default" is what introspection reports for an unspecified
	// collation; treat it as absent so file-declared schemas do not
	// produce false positives.
	srcColl := collationOrAbsent(src.Collation)
	tgtColl := collationOrAbsent(tgt.Collation)
	if srcColl != "" && tgtColl != "" && srcColl != tgtColl {
		add(newDiff(DiffColumnCollation, td.Name, src.Name, src.Collation, tgt.Collation,
			fmt.Sprintf("column %s.%s collation changed", td.Name, src.Name)))
	}

	// Storage is reported only when both sides set it explicitly:
	// introspection always reports a mode while DDL text rarely does,
	// and that asymmetry is not a schema change.
	if src.Storage != "" && tgt.Storage != "" && !strings.EqualFold(src.Storage, tgt.Storage) {
		add(newDiff(DiffColumnStorage, td.Name, src.Name, src.Storage, tgt.Storage,
			fmt.Sprintf("column %s.%s storage mode changed", td.Name, src.Name)))
	}

	if !strings.EqualFold(src.Compression, tgt.Compression) {
		add(newDiff(DiffColumnCompression, td.Name, src.Name, src.Compression, tgt.Compression,
			fmt.Sprintf("column %s.%s compression changed", td.Name, src.Name)))
	}

	if len(cd.Changes) == 0 {
		return nil
	}
	return cd
}

// columnNotNull derives nullability from constraints: an inline NOT NULL
// or PRIMARY KEY, or membership in a table-level PRIMARY KEY.
func columnNotNull(t *ast.CreateTableStmt, col *ast.ColumnDef, opts Options) bool {
	if col.NotNull() {
		return true
	}
	for _, con := range t.TableConstraints() {
		if con.Type != ast.ConstrPrimary {
			continue
		}
		for _, key := range con.Keys {
			if nameKey(key, opts) == nameKey(col.Name, opts) {
				return true
			}
		}
	}
	return false
}

func nullabilityText(notNull bool) string {
	if notNull {
		return "NOT NULL"
	}
	return "NULL"
}

func defaultsEquivalent(a, b string, opts Options) bool {
	if a == "" || b == "" {
		return a == b
	}
	return exprEquivalent(a, b, opts)
}

func collationOrAbsent(c string) string {
	if strings.EqualFold(c, "default") {
		return ""
	}
	return strings.ToLower(c)
}

func compareConstraints(td *TableDiff, opts Options) {
	source := flattenConstraints(td.Source)
	target := flattenConstraints(td.Target)
	matchConstraints(source, target, opts)

	for _, src := range source {
		if src.matched {
			continue
		}
		td.Constraints = append(td.Constraints, &ConstraintDiff{
			Kind:       ChangeRemoved,
			Name:       src.con.Name,
			Column:     src.column,
			Constraint: src.con,
		})
		td.record(newDiff(DiffConstraintRemoved, td.Name, constraintLabel(src),
			src.con.SqlString(), "",
			fmt.Sprintf("constraint %s removed from table %s", constraintLabel(src), td.Name)))
	}
	for _, tgt := range target {
		if tgt.matched {
			continue
		}
		td.Constraints = append(td.Constraints, &ConstraintDiff{
			Kind:       ChangeAdded,
			Name:       tgt.con.Name,
			Column:     tgt.column,
			Constraint: tgt.con,
		})
		td.record(newDiff(DiffConstraintAdded, td.Name, constraintLabel(tgt),
			"", tgt.con.SqlString(),
			fmt.Sprintf("constraint %s added to table %s", constraintLabel(tgt), td.Name)))
	}
}

// constraintLabel names a constraint for reporting: the declared name
// when present, otherwise its kind plus key columns.
func constraintLabel(f *flatConstraint) string {
	if f.con.Name != "" {
		return f.con.Name
	}
	label := f.con.Type.String()
	if keys := f.keys(); len(keys) > 0 {
		label += " (" + strings.Join(keys, ", ") + ")"
	}
	return label
}
