package ast

import (
	"fmt"
	"strings"
)

// ConstrType tags the constraint variant held by a Constraint node.
type ConstrType int

const (
	ConstrNull ConstrType = iota // explicit NULL, not standard SQL but accepted
	ConstrNotNull
	ConstrDefault
	ConstrCheck
	ConstrGenerated // GENERATED ALWAYS AS (expr) STORED
	ConstrIdentity  // GENERATED ... AS IDENTITY
	ConstrUnique
	ConstrPrimary
	ConstrForeign // column-level REFERENCES or table-level FOREIGN KEY
	ConstrExclusion
)

func (c ConstrType) String() string {
	switch c {
	case ConstrNull:
		return "NULL"
	case ConstrNotNull:
		return "NOT_NULL"
	case ConstrDefault:
		return "DEFAULT"
	case ConstrCheck:
		return "CHECK"
	case ConstrGenerated:
		return "GENERATED"
	case ConstrIdentity:
		return "IDENTITY"
	case ConstrUnique:
		return "UNIQUE"
	case ConstrPrimary:
		return "PRIMARY_KEY"
	case ConstrForeign:
		return "FOREIGN_KEY"
	case ConstrExclusion:
		return "EXCLUDE"
	default:
		return fmt.Sprintf("ConstrType(%d)", int(c))
	}
}

// Identity generation constants.
const (
	GeneratedAlways    byte = 'a' // GENERATED ALWAYS
	GeneratedByDefault byte = 'd' // GENERATED BY DEFAULT
)

// Foreign key match types.
const (
	FKMatchFull    byte = 'f'
	FKMatchPartial byte = 'p'
	FKMatchSimple  byte = 's' // default
)

// Foreign key referential actions.
const (
	FKActionNoAction   byte = 'a'
	FKActionRestrict   byte = 'r'
	FKActionCascade    byte = 'c'
	FKActionSetNull    byte = 'n'
	FKActionSetDefault byte = 'd'
)

// KeyAction is a foreign key ON UPDATE/ON DELETE action with the optional
// column list allowed for SET NULL and SET DEFAULT.
type KeyAction struct {
	Action  byte
	Columns []string
}

func (ka *KeyAction) SqlString() string {
	if ka == nil {
		return ""
	}
	var result string
	switch ka.Action {
	case FKActionRestrict:
		result = "RESTRICT"
	case FKActionCascade:
		result = "CASCADE"
	case FKActionSetNull:
		result = "SET NULL"
	case FKActionSetDefault:
		result = "SET DEFAULT"
	default:
		result = "NO ACTION"
	}
	if len(ka.Columns) > 0 && (ka.Action == FKActionSetNull || ka.Action == FKActionSetDefault) {
		result += " (" + quoteIdentifierList(ka.Columns) + ")"
	}
	return result
}

// ExclusionElem is one "element WITH operator" pair of an EXCLUDE
// constraint. The element is raw text since it may be an expression.
type ExclusionElem struct {
	Element  string
	Operator string
}

// Constraint represents a constraint declaration, column-inline or
// table-level, as a single unified node. The kind discriminant selects
// which payload fields are meaningful.
//
// Deferrable, InitDeferred and Enforced are tri-state: nil means the
// clause was omitted, which comparison must distinguish from an explicit
// false.
type Constraint struct {
	Type ConstrType
	Name string // constraint name, empty if unnamed

	Deferrable   *bool
	InitDeferred *bool
	Enforced     *bool

	// CHECK / DEFAULT / GENERATED expression
	Expr      *Expression
	NoInherit bool // CHECK ... NO INHERIT

	// IDENTITY / GENERATED
	GeneratedWhen byte // GeneratedAlways or GeneratedByDefault

	// PRIMARY KEY / UNIQUE: key columns; empty when declared inline
	Keys []string

	// FOREIGN KEY / REFERENCES
	FkColumns []string // referencing columns; empty when declared inline
	RefTable  string
	RefCols   []string
	Match     byte // FKMatch* constant, zero when unspecified
	OnUpdate  *KeyAction
	OnDelete  *KeyAction

	// EXCLUDE
	IndexMethod string
	Exclusions  []*ExclusionElem
	Where       *Expression
}

// NewConstraint creates a constraint of the given kind.
func NewConstraint(typ ConstrType) *Constraint {
	return &Constraint{Type: typ}
}

func (c *Constraint) String() string {
	name := c.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("Constraint(%s %s)", c.Type, name)
}

// IsTableLevel reports whether the node carries an explicit column list,
// the shape a table-level declaration produces.
func (c *Constraint) IsTableLevel() bool {
	switch c.Type {
	case ConstrPrimary, ConstrUnique:
		return len(c.Keys) > 0
	case ConstrForeign:
		return len(c.FkColumns) > 0
	case ConstrExclusion:
		return true
	default:
		return false
	}
}

func (c *Constraint) SqlString() string {
	var sb strings.Builder
	if c.Name != "" {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(QuoteIdentifier(c.Name))
		sb.WriteByte(' ')
	}

	switch c.Type {
	case ConstrNull:
		sb.WriteString("NULL")
	case ConstrNotNull:
		sb.WriteString("NOT NULL")
	case ConstrDefault:
		sb.WriteString("DEFAULT ")
		sb.WriteString(c.Expr.SqlString())
	case ConstrCheck:
		sb.WriteString("CHECK (")
		sb.WriteString(c.Expr.SqlString())
		sb.WriteByte(')')
		if c.NoInherit {
			sb.WriteString(" NO INHERIT")
		}
	case ConstrGenerated:
		sb.WriteString("GENERATED ALWAYS AS (")
		sb.WriteString(c.Expr.SqlString())
		sb.WriteString(") STORED")
	case ConstrIdentity:
		sb.WriteString("GENERATED ")
		if c.GeneratedWhen == GeneratedByDefault {
			sb.WriteString("BY DEFAULT")
		} else {
			sb.WriteString("ALWAYS")
		}
		sb.WriteString(" AS IDENTITY")
	case ConstrUnique:
		sb.WriteString("UNIQUE")
		if len(c.Keys) > 0 {
			sb.WriteString(" (" + quoteIdentifierList(c.Keys) + ")")
		}
	case ConstrPrimary:
		sb.WriteString("PRIMARY KEY")
		if len(c.Keys) > 0 {
			sb.WriteString(" (" + quoteIdentifierList(c.Keys) + ")")
		}
	case ConstrForeign:
		if len(c.FkColumns) > 0 {
			sb.WriteString("FOREIGN KEY (" + quoteIdentifierList(c.FkColumns) + ") ")
		}
		sb.WriteString("REFERENCES ")
		sb.WriteString(quoteQualified(c.RefTable))
		if len(c.RefCols) > 0 {
			sb.WriteString(" (" + quoteIdentifierList(c.RefCols) + ")")
		}
		switch c.Match {
		case FKMatchFull:
			sb.WriteString(" MATCH FULL")
		case FKMatchPartial:
			sb.WriteString(" MATCH PARTIAL")
		case FKMatchSimple:
			sb.WriteString(" MATCH SIMPLE")
		}
		if c.OnUpdate != nil {
			sb.WriteString(" ON UPDATE ")
			sb.WriteString(c.OnUpdate.SqlString())
		}
		if c.OnDelete != nil {
			sb.WriteString(" ON DELETE ")
			sb.WriteString(c.OnDelete.SqlString())
		}
	case ConstrExclusion:
		sb.WriteString("EXCLUDE")
		if c.IndexMethod != "" {
			sb.WriteString(" USING ")
			sb.WriteString(QuoteIdentifier(c.IndexMethod))
		}
		sb.WriteString(" (")
		for i, e := range c.Exclusions {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Element)
			sb.WriteString(" WITH ")
			sb.WriteString(e.Operator)
		}
		sb.WriteByte(')')
		if c.Where != nil {
			sb.WriteString(" WHERE (")
			sb.WriteString(c.Where.SqlString())
			sb.WriteByte(')')
		}
	}

	if c.Deferrable != nil {
		if *c.Deferrable {
			sb.WriteString(" DEFERRABLE")
		} else {
			sb.WriteString(" NOT DEFERRABLE")
		}
	}
	if c.InitDeferred != nil {
		if *c.InitDeferred {
			sb.WriteString(" INITIALLY DEFERRED")
		} else {
			sb.WriteString(" INITIALLY IMMEDIATE")
		}
	}
	if c.Enforced != nil {
		if *c.Enforced {
			sb.WriteString(" ENFORCED")
		} else {
			sb.WriteString(" NOT ENFORCED")
		}
	}
	return sb.String()
}
