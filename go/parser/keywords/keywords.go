// Package keywords provides SQL keyword recognition for the DDL lexer.
// The keyword list is the subset of PostgreSQL's kwlist.h that the
// CREATE TABLE / CREATE TYPE grammar consumes.
package keywords

import (
	"sort"
	"strings"
)

// KeywordCategory represents the different categories of SQL keywords.
type KeywordCategory int

const (
	// UnreservedKeyword - can be used as column name, function name, etc.
	UnreservedKeyword KeywordCategory = iota

	// ColNameKeyword - can be used as column name but not function name.
	ColNameKeyword

	// TypeFuncNameKeyword - can be used as function name or type name.
	TypeFuncNameKeyword

	// ReservedKeyword - fully reserved, cannot be used as identifier.
	ReservedKeyword
)

// Token represents a token kind. Single-character punctuation tokens use
// their ASCII value directly; named tokens start after the ASCII range.
type Token int

// Sentinel and literal tokens.
const (
	EOF   Token = 0
	ERROR Token = 1
)

const (
	// Literal and operator tokens
	IDENT Token = iota + 256
	ICONST
	FCONST
	SCONST
	TYPECAST
	OP

	// Keywords
	ACTION
	ALL
	ALTER
	ALWAYS
	AS
	BIGINT
	BIT
	BOOLEAN_P
	BY
	CASCADE
	CHAR_P
	CHARACTER
	CHECK
	COLLATE
	COLLATION
	COMMENTS
	COMMIT
	COMPRESSION
	CONSTRAINT
	CONSTRAINTS
	CREATE
	DEC
	DECIMAL_P
	DEFAULT
	DEFAULTS
	DEFERRABLE
	DEFERRED
	DELETE_P
	DOUBLE_P
	DROP
	ENFORCED
	ENUM_P
	EXCLUDE
	EXCLUDING
	EXISTS
	EXTENDED
	EXTERNAL
	FLOAT_P
	FOR
	FOREIGN
	FROM
	FULL
	GENERATED
	GLOBAL
	HASH
	IDENTITY_P
	IF_P
	IMMEDIATE
	IN_P
	INCLUDING
	INDEXES
	INHERIT
	INHERITS
	INITIALLY
	INT_P
	INTEGER
	INTERVAL
	KEY
	LIKE
	LIST
	LOCAL
	MAIN
	MATCH
	MAXVALUE
	MINVALUE
	NO
	NOT
	NULL_P
	NUMERIC
	OF
	OIDS
	ON
	PARTIAL
	PARTITION
	PLAIN
	PRECISION
	PRESERVE
	PRIMARY
	RANGE
	REAL
	REFERENCES
	RESTRICT
	ROWS
	SET
	SIMPLE
	SMALLINT
	STATISTICS
	STORAGE
	STORED
	TABLE
	TABLESPACE
	TEMP
	TEMPORARY
	TIME
	TIMESTAMP
	TO
	TYPE_P
	UNIQUE
	UNLOGGED
	UPDATE
	USING
	VALUES
	VARCHAR
	VARYING
	WHERE
	WITH
	WITHOUT
	ZONE
)

// KeywordInfo holds metadata for a single keyword.
type KeywordInfo struct {
	Name     string          // lowercase spelling
	Token    Token           // token kind emitted by the lexer
	Category KeywordCategory // how the keyword may be used as an identifier
}

// Keywords is the static keyword table, sorted by Name. Lookup relies on
// this ordering, so new entries must keep the list sorted.
var Keywords = []KeywordInfo{
	{"action", ACTION, UnreservedKeyword},
	{"all", ALL, ReservedKeyword},
	{"alter", ALTER, UnreservedKeyword},
	{"always", ALWAYS, UnreservedKeyword},
	{"as", AS, ReservedKeyword},
	{"bigint", BIGINT, ColNameKeyword},
	{"bit", BIT, ColNameKeyword},
	{"boolean", BOOLEAN_P, ColNameKeyword},
	{"by", BY, UnreservedKeyword},
	{"cascade", CASCADE, UnreservedKeyword},
	{"char", CHAR_P, ColNameKeyword},
	{"character", CHARACTER, ColNameKeyword},
	{"check", CHECK, ReservedKeyword},
	{"collate", COLLATE, ReservedKeyword},
	{"collation", COLLATION, TypeFuncNameKeyword},
	{"comments", COMMENTS, UnreservedKeyword},
	{"commit", COMMIT, UnreservedKeyword},
	{"compression", COMPRESSION, UnreservedKeyword},
	{"constraint", CONSTRAINT, ReservedKeyword},
	{"constraints", CONSTRAINTS, UnreservedKeyword},
	{"create", CREATE, ReservedKeyword},
	{"dec", DEC, ColNameKeyword},
	{"decimal", DECIMAL_P, ColNameKeyword},
	{"default", DEFAULT, ReservedKeyword},
	{"defaults", DEFAULTS, UnreservedKeyword},
	{"deferrable", DEFERRABLE, ReservedKeyword},
	{"deferred", DEFERRED, UnreservedKeyword},
	{"delete", DELETE_P, UnreservedKeyword},
	{"double", DOUBLE_P, UnreservedKeyword},
	{"drop", DROP, UnreservedKeyword},
	{"enforced", ENFORCED, UnreservedKeyword},
	{"enum", ENUM_P, UnreservedKeyword},
	{"exclude", EXCLUDE, UnreservedKeyword},
	{"excluding", EXCLUDING, UnreservedKeyword},
	{"exists", EXISTS, ColNameKeyword},
	{"extended", EXTENDED, UnreservedKeyword},
	{"external", EXTERNAL, UnreservedKeyword},
	{"float", FLOAT_P, ColNameKeyword},
	{"for", FOR, ReservedKeyword},
	{"foreign", FOREIGN, ReservedKeyword},
	{"from", FROM, ReservedKeyword},
	{"full", FULL, TypeFuncNameKeyword},
	{"generated", GENERATED, UnreservedKeyword},
	{"global", GLOBAL, UnreservedKeyword},
	{"hash", HASH, UnreservedKeyword},
	{"identity", IDENTITY_P, UnreservedKeyword},
	{"if", IF_P, UnreservedKeyword},
	{"immediate", IMMEDIATE, UnreservedKeyword},
	{"in", IN_P, ReservedKeyword},
	{"including", INCLUDING, UnreservedKeyword},
	{"indexes", INDEXES, UnreservedKeyword},
	{"inherit", INHERIT, UnreservedKeyword},
	{"inherits", INHERITS, UnreservedKeyword},
	{"initially", INITIALLY, ReservedKeyword},
	{"int", INT_P, ColNameKeyword},
	{"integer", INTEGER, ColNameKeyword},
	{"interval", INTERVAL, ColNameKeyword},
	{"key", KEY, UnreservedKeyword},
	{"like", LIKE, TypeFuncNameKeyword},
	{"list", LIST, UnreservedKeyword},
	{"local", LOCAL, UnreservedKeyword},
	{"main", MAIN, UnreservedKeyword},
	{"match", MATCH, UnreservedKeyword},
	{"maxvalue", MAXVALUE, UnreservedKeyword},
	{"minvalue", MINVALUE, UnreservedKeyword},
	{"no", NO, UnreservedKeyword},
	{"not", NOT, ReservedKeyword},
	{"null", NULL_P, ReservedKeyword},
	{"numeric", NUMERIC, ColNameKeyword},
	{"of", OF, UnreservedKeyword},
	{"oids", OIDS, UnreservedKeyword},
	{"on", ON, ReservedKeyword},
	{"partial", PARTIAL, UnreservedKeyword},
	{"partition", PARTITION, UnreservedKeyword},
	{"plain", PLAIN, UnreservedKeyword},
	{"precision", PRECISION, ColNameKeyword},
	{"preserve", PRESERVE, UnreservedKeyword},
	{"primary", PRIMARY, ReservedKeyword},
	{"range", RANGE, UnreservedKeyword},
	{"real", REAL, ColNameKeyword},
	{"references", REFERENCES, ReservedKeyword},
	{"restrict", RESTRICT, UnreservedKeyword},
	{"rows", ROWS, UnreservedKeyword},
	{"set", SET, UnreservedKeyword},
	{"simple", SIMPLE, UnreservedKeyword},
	{"smallint", SMALLINT, ColNameKeyword},
	{"statistics", STATISTICS, UnreservedKeyword},
	{"storage", STORAGE, UnreservedKeyword},
	{"stored", STORED, UnreservedKeyword},
	{"table", TABLE, ReservedKeyword},
	{"tablespace", TABLESPACE, UnreservedKeyword},
	{"temp", TEMP, UnreservedKeyword},
	{"temporary", TEMPORARY, UnreservedKeyword},
	{"time", TIME, ColNameKeyword},
	{"timestamp", TIMESTAMP, ColNameKeyword},
	{"to", TO, ReservedKeyword},
	{"type", TYPE_P, UnreservedKeyword},
	{"unique", UNIQUE, ReservedKeyword},
	{"unlogged", UNLOGGED, UnreservedKeyword},
	{"update", UPDATE, UnreservedKeyword},
	{"using", USING, ReservedKeyword},
	{"values", VALUES, ColNameKeyword},
	{"varchar", VARCHAR, ColNameKeyword},
	{"varying", VARYING, UnreservedKeyword},
	{"where", WHERE, ReservedKeyword},
	{"with", WITH, ReservedKeyword},
	{"without", WITHOUT, UnreservedKeyword},
	{"zone", ZONE, UnreservedKeyword},
}

// Lookup searches for a keyword by name, case-insensitively, using binary
// search over the sorted Keywords table. Returns nil when the name is not
// a keyword.
func Lookup(name string) *KeywordInfo {
	lower := strings.ToLower(name)
	i := sort.Search(len(Keywords), func(i int) bool {
		return Keywords[i].Name >= lower
	})
	if i < len(Keywords) && Keywords[i].Name == lower {
		return &Keywords[i]
	}
	return nil
}

// IsKeyword reports whether name is a keyword.
func IsKeyword(name string) bool {
	return Lookup(name) != nil
}

// IsReservedKeyword reports whether name is a fully reserved keyword.
func IsReservedKeyword(name string) bool {
	kw := Lookup(name)
	return kw != nil && kw.Category == ReservedKeyword
}

func (kc KeywordCategory) String() string {
	switch kc {
	case UnreservedKeyword:
		return "unreserved"
	case ColNameKeyword:
		return "col_name"
	case TypeFuncNameKeyword:
		return "type_func_name"
	case ReservedKeyword:
		return "reserved"
	default:
		return "unknown"
	}
}

var tokenNames = map[Token]string{
	EOF:      "EOF",
	ERROR:    "ERROR",
	IDENT:    "IDENT",
	ICONST:   "ICONST",
	FCONST:   "FCONST",
	SCONST:   "SCONST",
	TYPECAST: "TYPECAST",
	OP:       "OP",
}

func (t Token) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	if t > 1 && t < 256 {
		return string(rune(t))
	}
	for i := range Keywords {
		if Keywords[i].Token == t {
			return strings.ToUpper(Keywords[i].Name)
		}
	}
	return "UNKNOWN"
}
