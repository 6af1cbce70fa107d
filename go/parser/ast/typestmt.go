package ast

import (
	"fmt"
	"strings"
)

// TypeVariant selects the CREATE TYPE shape.
type TypeVariant int

const (
	TypeEnum TypeVariant = iota
	TypeComposite
	TypeRange
	TypeBase
)

func (v TypeVariant) String() string {
	switch v {
	case TypeEnum:
		return "ENUM"
	case TypeComposite:
		return "COMPOSITE"
	case TypeRange:
		return "RANGE"
	default:
		return "BASE"
	}
}

// TypeAttribute is one attribute of a composite type.
type TypeAttribute struct {
	Name      string
	TypeName  string
	Collation string
}

func (a *TypeAttribute) SqlString() string {
	s := QuoteIdentifier(a.Name) + " " + a.TypeName
	if a.Collation != "" {
		s += " COLLATE " + QuoteIdentifier(a.Collation)
	}
	return s
}

// RangeTypeDef holds the AS RANGE parameters. Subtype is required.
type RangeTypeDef struct {
	Subtype        string
	SubtypeOpClass string
	Collation      string
	Canonical      string
	SubtypeDiff    string
	Multirange     string
}

// BaseTypeDef holds base type parameters. Input and Output are required;
// the rest are optional functions and flags.
type BaseTypeDef struct {
	Input          string
	Output         string
	Receive        string
	Send           string
	TypmodIn       string
	TypmodOut      string
	Analyze        string
	InternalLength string // numeric text or "variable"
	PassedByValue  bool
	Alignment      string
	Storage        string
	LikeType       string
	Category       string
	Preferred      bool
	Default        string
	Element        string
	Delimiter      string
	Collatable     bool
}

// CreateTypeStmt is the root entity for a parsed CREATE TYPE statement.
type CreateTypeStmt struct {
	Name    string
	Variant TypeVariant

	Labels     []string         // enum
	Attributes []*TypeAttribute // composite
	Range      *RangeTypeDef
	Base       *BaseTypeDef
}

func (*CreateTypeStmt) stmtNode() {}

func (s *CreateTypeStmt) String() string {
	return fmt.Sprintf("CreateTypeStmt(%s %s)", s.Variant, s.Name)
}

func (s *CreateTypeStmt) SqlString() string {
	var sb strings.Builder
	sb.WriteString("CREATE TYPE ")
	sb.WriteString(quoteQualified(s.Name))

	switch s.Variant {
	case TypeEnum:
		sb.WriteString(" AS ENUM (")
		for i, l := range s.Labels {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("'" + strings.ReplaceAll(l, "'", "''") + "'")
		}
		sb.WriteByte(')')
	case TypeComposite:
		sb.WriteString(" AS (")
		for i, a := range s.Attributes {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.SqlString())
		}
		sb.WriteByte(')')
	case TypeRange:
		sb.WriteString(" AS RANGE (")
		parts := []string{"SUBTYPE = " + s.Range.Subtype}
		if s.Range.SubtypeOpClass != "" {
			parts = append(parts, "SUBTYPE_OPCLASS = "+s.Range.SubtypeOpClass)
		}
		if s.Range.Collation != "" {
			parts = append(parts, "COLLATION = "+s.Range.Collation)
		}
		if s.Range.Canonical != "" {
			parts = append(parts, "CANONICAL = "+s.Range.Canonical)
		}
		if s.Range.SubtypeDiff != "" {
			parts = append(parts, "SUBTYPE_DIFF = "+s.Range.SubtypeDiff)
		}
		if s.Range.Multirange != "" {
			parts = append(parts, "MULTIRANGE_TYPE_NAME = "+s.Range.Multirange)
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteByte(')')
	case TypeBase:
		if s.Base == nil {
			// shell type
			sb.WriteByte(';')
			return sb.String()
		}
		sb.WriteString(" (")
		parts := []string{
			"INPUT = " + s.Base.Input,
			"OUTPUT = " + s.Base.Output,
		}
		if s.Base.Receive != "" {
			parts = append(parts, "RECEIVE = "+s.Base.Receive)
		}
		if s.Base.Send != "" {
			parts = append(parts, "SEND = "+s.Base.Send)
		}
		if s.Base.TypmodIn != "" {
			parts = append(parts, "TYPMOD_IN = "+s.Base.TypmodIn)
		}
		if s.Base.TypmodOut != "" {
			parts = append(parts, "TYPMOD_OUT = "+s.Base.TypmodOut)
		}
		if s.Base.Analyze != "" {
			parts = append(parts, "ANALYZE = "+s.Base.Analyze)
		}
		if s.Base.InternalLength != "" {
			parts = append(parts, "INTERNALLENGTH = "+s.Base.InternalLength)
		}
		if s.Base.PassedByValue {
			parts = append(parts, "PASSEDBYVALUE")
		}
		if s.Base.Alignment != "" {
			parts = append(parts, "ALIGNMENT = "+s.Base.Alignment)
		}
		if s.Base.Storage != "" {
			parts = append(parts, "STORAGE = "+s.Base.Storage)
		}
		if s.Base.LikeType != "" {
			parts = append(parts, "LIKE = "+s.Base.LikeType)
		}
		if s.Base.Category != "" {
			parts = append(parts, "CATEGORY = "+s.Base.Category)
		}
		if s.Base.Preferred {
			parts = append(parts, "PREFERRED = true")
		}
		if s.Base.Default != "" {
			parts = append(parts, "DEFAULT = "+s.Base.Default)
		}
		if s.Base.Element != "" {
			parts = append(parts, "ELEMENT = "+s.Base.Element)
		}
		if s.Base.Delimiter != "" {
			parts = append(parts, "DELIMITER = "+s.Base.Delimiter)
		}
		if s.Base.Collatable {
			parts = append(parts, "COLLATABLE = true")
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteByte(')')
	}
	sb.WriteByte(';')
	return sb.String()
}
