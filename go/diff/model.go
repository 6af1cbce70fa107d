/*
 * Schema Diff Result Model
 *
 * Output contract of the comparison engine. A SchemaDiff owns every
 * nested TableDiff/ColumnDiff/ConstraintDiff/Diff it contains; the only
 * references back into the input ASTs are borrowed pointers kept for SQL
 * generation, which the diff never mutates.
 */

package diff

import (
	"fmt"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// DiffType identifies the kind of change a Diff record describes.
type DiffType int

const (
	DiffTableAdded DiffType = iota
	DiffTableRemoved
	DiffTablePersistence
	DiffTableTablespace
	DiffTableInherits
	DiffTablePartitionBy
	DiffTableAccessMethod
	DiffTableOnCommit
	DiffColumnAdded
	DiffColumnRemoved
	DiffColumnType
	DiffColumnNullability
	DiffColumnDefault
	DiffColumnCollation
	DiffColumnStorage
	DiffColumnCompression
	DiffConstraintAdded
	DiffConstraintRemoved
)

func (t DiffType) String() string {
	switch t {
	case DiffTableAdded:
		return "table added"
	case DiffTableRemoved:
		return "table removed"
	case DiffTablePersistence:
		return "table persistence changed"
	case DiffTableTablespace:
		return "tablespace changed"
	case DiffTableInherits:
		return "inherits changed"
	case DiffTablePartitionBy:
		return "partition key changed"
	case DiffTableAccessMethod:
		return "access method changed"
	case DiffTableOnCommit:
		return "on commit action changed"
	case DiffColumnAdded:
		return "column added"
	case DiffColumnRemoved:
		return "column removed"
	case DiffColumnType:
		return "column type changed"
	case DiffColumnNullability:
		return "column nullability changed"
	case DiffColumnDefault:
		return "column default changed"
	case DiffColumnCollation:
		return "column collation changed"
	case DiffColumnStorage:
		return "column storage changed"
	case DiffColumnCompression:
		return "column compression changed"
	case DiffConstraintAdded:
		return "constraint added"
	case DiffConstraintRemoved:
		return "constraint removed"
	default:
		return fmt.Sprintf("DiffType(%d)", int(t))
	}
}

// Severity ranks how disruptive a change is when applied to a live
// database.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityWarning:
		return "WARNING"
	default:
		return "INFO"
	}
}

// SeverityFor is the static classification of every diff type. Removals
// and type or persistence changes can lose data; additions and
// nullability or constraint removals can break writers; everything else
// is informational.
func SeverityFor(t DiffType) Severity {
	switch t {
	case DiffTableRemoved, DiffColumnRemoved, DiffColumnType, DiffTablePersistence:
		return SeverityCritical
	case DiffTableAdded, DiffColumnAdded, DiffColumnNullability, DiffConstraintRemoved:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// ChangeKind distinguishes added, removed and modified elements.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeModified
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Diff is one flat change record, used for reporting. Table and Object
// name the affected elements; Old and New carry the compared values as
// strings.
type Diff struct {
	Type     DiffType
	Severity Severity
	Table    string
	Object   string
	Old      string
	New      string
	Message  string
}

func newDiff(t DiffType, table, object, old, new, msg string) *Diff {
	return &Diff{
		Type:     t,
		Severity: SeverityFor(t),
		Table:    table,
		Object:   object,
		Old:      old,
		New:      new,
		Message:  msg,
	}
}

// ColumnDiff describes one added, removed or modified column. Source and
// Target are borrowed from the input ASTs; either may be nil depending on
// Kind.
type ColumnDiff struct {
	Kind    ChangeKind
	Name    string
	Source  *ast.ColumnDef
	Target  *ast.ColumnDef
	Changes []*Diff
}

// ConstraintDiff describes one added or removed constraint. Constraint is
// borrowed from the input AST so SQL generation can re-emit its
// definition. Column is set when the constraint was declared inline on a
// column.
type ConstraintDiff struct {
	Kind       ChangeKind
	Name       string
	Column     string
	Constraint *ast.Constraint
}

// TableDiff collects every change recorded for one table present on both
// sides. Modified is true iff at least one change was recorded.
type TableDiff struct {
	Name   string
	Source *ast.CreateTableStmt
	Target *ast.CreateTableStmt

	Columns     []*ColumnDiff
	Constraints []*ConstraintDiff
	Changes     []*Diff

	Modified bool
}

func (d *TableDiff) record(diff *Diff) {
	d.Changes = append(d.Changes, diff)
	d.Modified = true
}

// ColumnAddCount returns the number of added columns.
func (d *TableDiff) ColumnAddCount() int {
	return d.countColumns(ChangeAdded)
}

// ColumnRemoveCount returns the number of removed columns.
func (d *TableDiff) ColumnRemoveCount() int {
	return d.countColumns(ChangeRemoved)
}

// ColumnModifyCount returns the number of modified columns.
func (d *TableDiff) ColumnModifyCount() int {
	return d.countColumns(ChangeModified)
}

func (d *TableDiff) countColumns(kind ChangeKind) int {
	n := 0
	for _, c := range d.Columns {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// SchemaDiff is the root of one comparison run.
type SchemaDiff struct {
	TablesAdded   []*ast.CreateTableStmt
	TablesRemoved []*ast.CreateTableStmt
	TablesChanged []*TableDiff

	// Changes is the flat record list across all tables, in source
	// declaration order with additions, removals and modifications
	// grouped per table.
	Changes []*Diff
}

// HasDifferences reports whether the comparison found any change.
func (d *SchemaDiff) HasDifferences() bool {
	return len(d.TablesAdded) > 0 || len(d.TablesRemoved) > 0 || len(d.TablesChanged) > 0
}

// TableAddCount returns the number of tables present only in the target.
func (d *SchemaDiff) TableAddCount() int { return len(d.TablesAdded) }

// TableRemoveCount returns the number of tables present only in the
// source.
func (d *SchemaDiff) TableRemoveCount() int { return len(d.TablesRemoved) }

// TableModifyCount returns the number of tables with recorded changes.
func (d *SchemaDiff) TableModifyCount() int { return len(d.TablesChanged) }
