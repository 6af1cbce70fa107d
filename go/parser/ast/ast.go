// Package ast defines the statement tree produced by the DDL parser:
// CREATE TABLE and CREATE TYPE statements with all nested clause types.
// The same node types are populated by live catalog introspection, so the
// diff engine never knows which producer built a tree.
package ast

import "fmt"

// Stmt is the interface implemented by all top-level statement nodes.
type Stmt interface {
	stmtNode()
	// SqlString returns a faithful textual re-emission of the statement.
	SqlString() string
}

// Expression is an opaque expression payload. Expressions are never
// structurally parsed; they are retained as text and compared by
// textual equivalence.
type Expression struct {
	Text string
}

// NewExpression wraps raw expression text.
func NewExpression(text string) *Expression {
	return &Expression{Text: text}
}

func (e *Expression) SqlString() string {
	if e == nil {
		return ""
	}
	return e.Text
}

func (e *Expression) String() string {
	return fmt.Sprintf("Expression(%q)", e.SqlString())
}

// TempScope represents the GLOBAL/LOCAL prefix of CREATE TABLE.
type TempScope int

const (
	TempScopeNone TempScope = iota
	TempScopeGlobal
	TempScopeLocal
)

func (s TempScope) String() string {
	switch s {
	case TempScopeGlobal:
		return "GLOBAL"
	case TempScopeLocal:
		return "LOCAL"
	default:
		return ""
	}
}

// Persistence represents the table persistence kind.
type Persistence int

const (
	PersistencePermanent Persistence = iota
	PersistenceTemporary
	PersistenceUnlogged
)

func (p Persistence) String() string {
	switch p {
	case PersistenceTemporary:
		return "TEMPORARY"
	case PersistenceUnlogged:
		return "UNLOGGED"
	default:
		return "PERMANENT"
	}
}

// OnCommitAction represents the ON COMMIT clause of a temporary table.
type OnCommitAction int

const (
	OnCommitNoop OnCommitAction = iota
	OnCommitPreserveRows
	OnCommitDeleteRows
	OnCommitDrop
)

func (a OnCommitAction) String() string {
	switch a {
	case OnCommitPreserveRows:
		return "PRESERVE ROWS"
	case OnCommitDeleteRows:
		return "DELETE ROWS"
	case OnCommitDrop:
		return "DROP"
	default:
		return ""
	}
}
