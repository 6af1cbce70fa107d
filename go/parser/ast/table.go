package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// TableVariant selects exactly one of the three CREATE TABLE shapes.
type TableVariant int

const (
	TableRegular   TableVariant = iota // ( elements... ) [INHERITS (...)]
	TableOfType                        // OF type_name
	TablePartition                     // PARTITION OF parent
)

func (v TableVariant) String() string {
	switch v {
	case TableOfType:
		return "OF_TYPE"
	case TablePartition:
		return "PARTITION"
	default:
		return "REGULAR"
	}
}

// TableElem is the closed set of things that may appear in a CREATE TABLE
// element list: column definitions, table-level constraints and LIKE
// clauses.
type TableElem interface {
	tableElem()
}

func (*ColumnDef) tableElem()  {}
func (*Constraint) tableElem() {}
func (*LikeClause) tableElem() {}

// StorageParameter is one name[=value] entry of a WITH (...) clause.
type StorageParameter struct {
	Name  string
	Value string // empty when the parameter is a bare flag
}

func (p *StorageParameter) SqlString() string {
	if p.Value == "" {
		return p.Name
	}
	return p.Name + " = " + p.Value
}

// CreateTableStmt is the root entity for a parsed CREATE TABLE statement.
type CreateTableStmt struct {
	TempScope   TempScope
	Persistence Persistence
	IfNotExists bool
	Name        string // possibly schema-qualified

	Variant  TableVariant
	Elements []TableElem // regular and of-type/partition typed elements
	Inherits []string    // INHERITS parent tables (regular only)
	OfType   string      // referenced composite type (of-type only)
	Parent   string      // parent table (partition only)
	Bound    *PartitionBound

	PartitionBy  *PartitionSpec
	AccessMethod string // USING <method>
	Options      []*StorageParameter
	WithoutOids  bool
	OnCommit     OnCommitAction
	Tablespace   string
}

func (*CreateTableStmt) stmtNode() {}

// Columns returns the column definitions in declaration order.
func (s *CreateTableStmt) Columns() []*ColumnDef {
	var cols []*ColumnDef
	for _, e := range s.Elements {
		if c, ok := e.(*ColumnDef); ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// TableConstraints returns the table-level constraints in declaration order.
func (s *CreateTableStmt) TableConstraints() []*Constraint {
	var cons []*Constraint
	for _, e := range s.Elements {
		if c, ok := e.(*Constraint); ok {
			cons = append(cons, c)
		}
	}
	return cons
}

// Likes returns the LIKE clauses in declaration order.
func (s *CreateTableStmt) Likes() []*LikeClause {
	var likes []*LikeClause
	for _, e := range s.Elements {
		if l, ok := e.(*LikeClause); ok {
			likes = append(likes, l)
		}
	}
	return likes
}

func (s *CreateTableStmt) String() string {
	return fmt.Sprintf("CreateTableStmt(%s %s)", s.Variant, s.Name)
}

func (s *CreateTableStmt) SqlString() string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if s.TempScope != TempScopeNone {
		sb.WriteString(s.TempScope.String())
		sb.WriteByte(' ')
	}
	switch s.Persistence {
	case PersistenceTemporary:
		sb.WriteString("TEMPORARY ")
	case PersistenceUnlogged:
		sb.WriteString("UNLOGGED ")
	}
	sb.WriteString("TABLE ")
	if s.IfNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quoteQualified(s.Name))

	switch s.Variant {
	case TableOfType:
		sb.WriteString(" OF ")
		sb.WriteString(quoteQualified(s.OfType))
		if len(s.Elements) > 0 {
			sb.WriteString(" (")
			sb.WriteString(s.elementsSQL())
			sb.WriteByte(')')
		}
	case TablePartition:
		sb.WriteString(" PARTITION OF ")
		sb.WriteString(quoteQualified(s.Parent))
		if len(s.Elements) > 0 {
			sb.WriteString(" (")
			sb.WriteString(s.elementsSQL())
			sb.WriteByte(')')
		}
		if s.Bound != nil {
			sb.WriteByte(' ')
			sb.WriteString(s.Bound.SqlString())
		}
	default:
		sb.WriteString(" (")
		sb.WriteString(s.elementsSQL())
		sb.WriteByte(')')
		if len(s.Inherits) > 0 {
			sb.WriteString(" INHERITS (")
			for i, p := range s.Inherits {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(quoteQualified(p))
			}
			sb.WriteByte(')')
		}
	}

	if s.PartitionBy != nil {
		sb.WriteByte(' ')
		sb.WriteString(s.PartitionBy.SqlString())
	}
	if s.AccessMethod != "" {
		sb.WriteString(" USING ")
		sb.WriteString(QuoteIdentifier(s.AccessMethod))
	}
	if len(s.Options) > 0 {
		sb.WriteString(" WITH (")
		for i, o := range s.Options {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.SqlString())
		}
		sb.WriteByte(')')
	} else if s.WithoutOids {
		sb.WriteString(" WITHOUT OIDS")
	}
	if s.OnCommit != OnCommitNoop {
		sb.WriteString(" ON COMMIT ")
		sb.WriteString(s.OnCommit.String())
	}
	if s.Tablespace != "" {
		sb.WriteString(" TABLESPACE ")
		sb.WriteString(QuoteIdentifier(s.Tablespace))
	}
	sb.WriteByte(';')
	return sb.String()
}

func (s *CreateTableStmt) elementsSQL() string {
	parts := make([]string, 0, len(s.Elements))
	for _, e := range s.Elements {
		switch el := e.(type) {
		case *ColumnDef:
			parts = append(parts, el.SqlString())
		case *Constraint:
			parts = append(parts, el.SqlString())
		case *LikeClause:
			parts = append(parts, el.SqlString())
		}
	}
	return strings.Join(parts, ", ")
}

// quoteQualified quotes each dotted component of a possibly
// schema-qualified name.
func quoteQualified(name string) string {
	if name == "" {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// ColumnDef represents a single column definition. TypeName carries the
// raw data-type text including modifiers and array brackets; it is not
// parsed further.
type ColumnDef struct {
	Name        string
	TypeName    string
	Storage     string // PLAIN/EXTERNAL/EXTENDED/MAIN, empty when unspecified
	Compression string
	Collation   string
	Constraints []*Constraint
}

func (c *ColumnDef) String() string {
	return fmt.Sprintf("ColumnDef(%s %s)", c.Name, c.TypeName)
}

func (c *ColumnDef) SqlString() string {
	var sb strings.Builder
	sb.WriteString(QuoteIdentifier(c.Name))
	if c.TypeName != "" {
		sb.WriteByte(' ')
		sb.WriteString(c.TypeName)
	}
	if c.Storage != "" {
		sb.WriteString(" STORAGE ")
		sb.WriteString(strings.ToUpper(c.Storage))
	}
	if c.Compression != "" {
		sb.WriteString(" COMPRESSION ")
		sb.WriteString(QuoteIdentifier(c.Compression))
	}
	if c.Collation != "" {
		sb.WriteString(" COLLATE ")
		sb.WriteString(QuoteIdentifier(c.Collation))
	}
	for _, con := range c.Constraints {
		sb.WriteByte(' ')
		sb.WriteString(con.SqlString())
	}
	return sb.String()
}

// NotNull reports whether the column carries a NOT NULL constraint,
// directly or through an inline PRIMARY KEY.
func (c *ColumnDef) NotNull() bool {
	for _, con := range c.Constraints {
		if con.Type == ConstrNotNull || con.Type == ConstrPrimary {
			return true
		}
	}
	return false
}

// DefaultExpr returns the column's DEFAULT expression, or nil.
func (c *ColumnDef) DefaultExpr() *Expression {
	for _, con := range c.Constraints {
		if con.Type == ConstrDefault {
			return con.Expr
		}
	}
	return nil
}

// LikeOption is one INCLUDING/EXCLUDING option of a LIKE clause.
type LikeOption int

const (
	LikeComments LikeOption = iota
	LikeCompression
	LikeConstraints
	LikeDefaults
	LikeGenerated
	LikeIdentity
	LikeIndexes
	LikeStatistics
	LikeStorage
	LikeAll
)

func (o LikeOption) String() string {
	switch o {
	case LikeComments:
		return "COMMENTS"
	case LikeCompression:
		return "COMPRESSION"
	case LikeConstraints:
		return "CONSTRAINTS"
	case LikeDefaults:
		return "DEFAULTS"
	case LikeGenerated:
		return "GENERATED"
	case LikeIdentity:
		return "IDENTITY"
	case LikeIndexes:
		return "INDEXES"
	case LikeStatistics:
		return "STATISTICS"
	case LikeStorage:
		return "STORAGE"
	case LikeAll:
		return "ALL"
	default:
		return fmt.Sprintf("LikeOption(%d)", int(o))
	}
}

// LikeClause represents LIKE source_table [{INCLUDING|EXCLUDING} option]...
type LikeClause struct {
	Table     string
	Including []LikeOption
	Excluding []LikeOption
}

func (l *LikeClause) SqlString() string {
	var sb strings.Builder
	sb.WriteString("LIKE ")
	sb.WriteString(quoteQualified(l.Table))
	for _, o := range l.Including {
		sb.WriteString(" INCLUDING ")
		sb.WriteString(o.String())
	}
	for _, o := range l.Excluding {
		sb.WriteString(" EXCLUDING ")
		sb.WriteString(o.String())
	}
	return sb.String()
}

// PartitionStrategy is the PARTITION BY method.
type PartitionStrategy int

const (
	PartitionRange PartitionStrategy = iota
	PartitionList
	PartitionHash
)

func (s PartitionStrategy) String() string {
	switch s {
	case PartitionList:
		return "LIST"
	case PartitionHash:
		return "HASH"
	default:
		return "RANGE"
	}
}

// PartitionSpec represents a PARTITION BY clause. Key elements are kept
// as raw text since they may be expressions.
type PartitionSpec struct {
	Strategy PartitionStrategy
	Keys     []string
}

func (p *PartitionSpec) SqlString() string {
	return fmt.Sprintf("PARTITION BY %s (%s)", p.Strategy, strings.Join(p.Keys, ", "))
}

// PartitionBoundKind selects the FOR VALUES shape of a partition.
type PartitionBoundKind int

const (
	BoundIn PartitionBoundKind = iota
	BoundRange
	BoundHash
	BoundDefault
)

func (k PartitionBoundKind) String() string {
	switch k {
	case BoundIn:
		return "IN"
	case BoundRange:
		return "RANGE"
	case BoundHash:
		return "HASH"
	default:
		return "DEFAULT"
	}
}

// PartitionBound represents the partition-bound specification of a
// PARTITION OF table. Bound values are raw expression text; MINVALUE and
// MAXVALUE appear verbatim in range bounds.
type PartitionBound struct {
	Kind      PartitionBoundKind
	InValues  []string
	From      []string
	To        []string
	Modulus   int
	Remainder int
}

func (b *PartitionBound) SqlString() string {
	switch b.Kind {
	case BoundIn:
		return "FOR VALUES IN (" + strings.Join(b.InValues, ", ") + ")"
	case BoundRange:
		return "FOR VALUES FROM (" + strings.Join(b.From, ", ") + ") TO (" + strings.Join(b.To, ", ") + ")"
	case BoundHash:
		return "FOR VALUES WITH (MODULUS " + strconv.Itoa(b.Modulus) + ", REMAINDER " + strconv.Itoa(b.Remainder) + ")"
	default:
		return "DEFAULT"
	}
}
