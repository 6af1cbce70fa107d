package ast

// Placeholder statement kinds. The parser recognizes these statement
// heads only to skip them cleanly; no clause structure is retained.

// IndexStmt is a placeholder for CREATE INDEX.
type IndexStmt struct{}

// TriggerStmt is a placeholder for CREATE TRIGGER.
type TriggerStmt struct{}

// FunctionStmt is a placeholder for CREATE FUNCTION.
type FunctionStmt struct{}

// AlterTableStmt is a placeholder for ALTER TABLE.
type AlterTableStmt struct{}

func (*IndexStmt) stmtNode()      {}
func (*TriggerStmt) stmtNode()    {}
func (*FunctionStmt) stmtNode()   {}
func (*AlterTableStmt) stmtNode() {}

func (*IndexStmt) SqlString() string      { return "" }
func (*TriggerStmt) SqlString() string    { return "" }
func (*FunctionStmt) SqlString() string   { return "" }
func (*AlterTableStmt) SqlString() string { return "" }
