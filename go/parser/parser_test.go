package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// parseTable parses a single CREATE TABLE statement and fails the test on
// any error.
func parseTable(t *testing.T, sql string) *ast.CreateTableStmt {
	t.Helper()
	stmt, errs := ParseCreateTable(sql)
	require.Empty(t, errs, "unexpected parse errors for %q", sql)
	require.NotNil(t, stmt)
	return stmt
}

func parseType(t *testing.T, sql string) *ast.CreateTypeStmt {
	t.Helper()
	stmt, errs := ParseCreateType(sql)
	require.Empty(t, errs, "unexpected parse errors for %q", sql)
	require.NotNil(t, stmt)
	return stmt
}

func TestParseSimpleTable(t *testing.T) {
	stmt := parseTable(t, "CREATE TABLE users (id INTEGER, name VARCHAR(50));")

	assert.Equal(t, "users", stmt.Name)
	assert.Equal(t, ast.TableRegular, stmt.Variant)
	assert.Equal(t, ast.PersistencePermanent, stmt.Persistence)

	cols := stmt.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "INTEGER", cols[0].TypeName)
	assert.Equal(t, "name", cols[1].Name)
	assert.Equal(t, "VARCHAR(50)", cols[1].TypeName)
}

func TestParseTableModifiers(t *testing.T) {
	tests := []struct {
		name        string
		sql         string
		scope       ast.TempScope
		persistence ast.Persistence
		ifNotExists bool
	}{
		{"temporary", "CREATE TEMPORARY TABLE t (id INT)", ast.TempScopeNone, ast.PersistenceTemporary, false},
		{"temp", "CREATE TEMP TABLE t (id INT)", ast.TempScopeNone, ast.PersistenceTemporary, false},
		{"global temp", "CREATE GLOBAL TEMPORARY TABLE t (id INT)", ast.TempScopeGlobal, ast.PersistenceTemporary, false},
		{"local temp", "CREATE LOCAL TEMP TABLE t (id INT)", ast.TempScopeLocal, ast.PersistenceTemporary, false},
		{"unlogged", "CREATE UNLOGGED TABLE t (id INT)", ast.TempScopeNone, ast.PersistenceUnlogged, false},
		{"if not exists", "CREATE TABLE IF NOT EXISTS t (id INT)", ast.TempScopeNone, ast.PersistencePermanent, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseTable(t, tt.sql)
			assert.Equal(t, tt.scope, stmt.TempScope)
			assert.Equal(t, tt.persistence, stmt.Persistence)
			assert.Equal(t, tt.ifNotExists, stmt.IfNotExists)
		})
	}
}

func TestParseQualifiedTableName(t *testing.T) {
	stmt := parseTable(t, "CREATE TABLE analytics.events (id BIGINT)")
	assert.Equal(t, "analytics.events", stmt.Name)
}

func TestParseTypeNames(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"double precision", "DOUBLE PRECISION", "DOUBLE PRECISION"},
		{"character varying", "CHARACTER VARYING(20)", "CHARACTER VARYING(20)"},
		{"numeric", "NUMERIC(10,2)", "NUMERIC(10,2)"},
		{"timestamptz", "TIMESTAMP WITH TIME ZONE", "TIMESTAMP WITH TIME ZONE"},
		{"timestamp precision tz", "TIMESTAMP(3) WITH TIME ZONE", "TIMESTAMP(3) WITH TIME ZONE"},
		{"timestamp without tz", "timestamp without time zone", "timestamp without time zone"},
		{"array", "INTEGER[]", "INTEGER[]"},
		{"sized array", "TEXT[3]", "TEXT[3]"},
		{"matrix", "INT[][]", "INT[][]"},
		{"schema qualified", "public.statuses", "public.statuses"},
		{"builtin alias", "int8", "int8"},
		{"interval", "INTERVAL", "INTERVAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseTable(t, "CREATE TABLE t (c "+tt.sql+")")
			cols := stmt.Columns()
			require.Len(t, cols, 1)
			assert.Equal(t, tt.want, cols[0].TypeName)
		})
	}
}

func TestParseUnknownTypeFails(t *testing.T) {
	_, errs := ParseCreateTable("CREATE TABLE t (c BAD_TYPE)")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "BAD_TYPE")
}

func TestParseColumnConstraints(t *testing.T) {
	stmt := parseTable(t, `CREATE TABLE orders (
		id BIGINT PRIMARY KEY,
		ref UUID NOT NULL UNIQUE,
		qty INTEGER DEFAULT 1 CHECK (qty > 0),
		note TEXT NULL,
		total NUMERIC(10,2) GENERATED ALWAYS AS (qty * price) STORED,
		seq INT GENERATED BY DEFAULT AS IDENTITY,
		customer_id BIGINT REFERENCES customers (id) MATCH FULL ON DELETE CASCADE ON UPDATE SET NULL
	)`)

	cols := stmt.Columns()
	require.Len(t, cols, 7)

	require.Len(t, cols[0].Constraints, 1)
	assert.Equal(t, ast.ConstrPrimary, cols[0].Constraints[0].Type)
	assert.True(t, cols[0].NotNull(), "inline primary key implies not null")

	require.Len(t, cols[1].Constraints, 2)
	assert.Equal(t, ast.ConstrNotNull, cols[1].Constraints[0].Type)
	assert.Equal(t, ast.ConstrUnique, cols[1].Constraints[1].Type)

	require.Len(t, cols[2].Constraints, 2)
	assert.Equal(t, ast.ConstrDefault, cols[2].Constraints[0].Type)
	assert.Equal(t, "1", cols[2].Constraints[0].Expr.Text)
	assert.Equal(t, ast.ConstrCheck, cols[2].Constraints[1].Type)
	assert.Equal(t, "qty > 0", cols[2].Constraints[1].Expr.Text)

	require.Len(t, cols[3].Constraints, 1)
	assert.Equal(t, ast.ConstrNull, cols[3].Constraints[0].Type)

	require.Len(t, cols[4].Constraints, 1)
	gen := cols[4].Constraints[0]
	assert.Equal(t, ast.ConstrGenerated, gen.Type)
	assert.Equal(t, "qty * price", gen.Expr.Text)

	require.Len(t, cols[5].Constraints, 1)
	ident := cols[5].Constraints[0]
	assert.Equal(t, ast.ConstrIdentity, ident.Type)
	assert.Equal(t, ast.GeneratedByDefault, ident.GeneratedWhen)

	require.Len(t, cols[6].Constraints, 1)
	fk := cols[6].Constraints[0]
	assert.Equal(t, ast.ConstrForeign, fk.Type)
	assert.Equal(t, "customers", fk.RefTable)
	assert.Equal(t, []string{"id"}, fk.RefCols)
	assert.Equal(t, ast.FKMatchFull, fk.Match)
	require.NotNil(t, fk.OnDelete)
	assert.Equal(t, ast.FKActionCascade, fk.OnDelete.Action)
	require.NotNil(t, fk.OnUpdate)
	assert.Equal(t, ast.FKActionSetNull, fk.OnUpdate.Action)
}

func TestParseNamedConstraintWithAttributes(t *testing.T) {
	stmt := parseTable(t, `CREATE TABLE t (
		id INT CONSTRAINT t_pk PRIMARY KEY DEFERRABLE INITIALLY DEFERRED,
		v TEXT CONSTRAINT v_check CHECK (v <> '') NOT DEFERRABLE NOT ENFORCED
	)`)

	cols := stmt.Columns()
	require.Len(t, cols, 2)

	pk := cols[0].Constraints[0]
	assert.Equal(t, "t_pk", pk.Name)
	require.NotNil(t, pk.Deferrable)
	assert.True(t, *pk.Deferrable)
	require.NotNil(t, pk.InitDeferred)
	assert.True(t, *pk.InitDeferred)
	assert.Nil(t, pk.Enforced, "unspecified stays nil")

	chk := cols[1].Constraints[0]
	assert.Equal(t, "v_check", chk.Name)
	require.NotNil(t, chk.Deferrable)
	assert.False(t, *chk.Deferrable, "explicit NOT DEFERRABLE is false, not nil")
	require.NotNil(t, chk.Enforced)
	assert.False(t, *chk.Enforced)
	assert.Nil(t, chk.InitDeferred)
}

func TestParseTableConstraints(t *testing.T) {
	stmt := parseTable(t, `CREATE TABLE t (
		a INT,
		b INT,
		PRIMARY KEY (a, b),
		CONSTRAINT t_uniq UNIQUE (b),
		CHECK (a < b) NO INHERIT,
		FOREIGN KEY (a, b) REFERENCES other (x, y) ON DELETE SET DEFAULT (a),
		EXCLUDE USING gist (range_col WITH &&) WHERE (b > 0)
	)`)

	cons := stmt.TableConstraints()
	require.Len(t, cons, 5)

	assert.Equal(t, ast.ConstrPrimary, cons[0].Type)
	assert.Equal(t, []string{"a", "b"}, cons[0].Keys)

	assert.Equal(t, ast.ConstrUnique, cons[1].Type)
	assert.Equal(t, "t_uniq", cons[1].Name)
	assert.Equal(t, []string{"b"}, cons[1].Keys)

	assert.Equal(t, ast.ConstrCheck, cons[2].Type)
	assert.Equal(t, "a < b", cons[2].Expr.Text)
	assert.True(t, cons[2].NoInherit)

	fk := cons[3]
	assert.Equal(t, ast.ConstrForeign, fk.Type)
	assert.Equal(t, []string{"a", "b"}, fk.FkColumns)
	assert.Equal(t, "other", fk.RefTable)
	assert.Equal(t, []string{"x", "y"}, fk.RefCols)
	require.NotNil(t, fk.OnDelete)
	assert.Equal(t, ast.FKActionSetDefault, fk.OnDelete.Action)
	assert.Equal(t, []string{"a"}, fk.OnDelete.Columns)

	excl := cons[4]
	assert.Equal(t, ast.ConstrExclusion, excl.Type)
	assert.Equal(t, "gist", excl.IndexMethod)
	require.Len(t, excl.Exclusions, 1)
	assert.Equal(t, "range_col", excl.Exclusions[0].Element)
	assert.Equal(t, "&&", excl.Exclusions[0].Operator)
	require.NotNil(t, excl.Where)
	assert.Equal(t, "b > 0", excl.Where.Text)
}

func TestParseColumnOptions(t *testing.T) {
	stmt := parseTable(t, `CREATE TABLE t (
		blob BYTEA STORAGE EXTERNAL COMPRESSION lz4,
		label TEXT COLLATE "en_US" NOT NULL
	)`)

	cols := stmt.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, "external", cols[0].Storage)
	assert.Equal(t, "lz4", cols[0].Compression)
	assert.Equal(t, "en_US", cols[1].Collation)
	assert.True(t, cols[1].NotNull())
}

func TestParseLikeClause(t *testing.T) {
	stmt := parseTable(t, "CREATE TABLE copy (LIKE base INCLUDING DEFAULTS INCLUDING INDEXES EXCLUDING STORAGE, extra INT)")

	likes := stmt.Likes()
	require.Len(t, likes, 1)
	assert.Equal(t, "base", likes[0].Table)
	assert.Equal(t, []ast.LikeOption{ast.LikeDefaults, ast.LikeIndexes}, likes[0].Including)
	assert.Equal(t, []ast.LikeOption{ast.LikeStorage}, likes[0].Excluding)
	require.Len(t, stmt.Columns(), 1)
}

func TestParseTableTrailers(t *testing.T) {
	stmt := parseTable(t, `CREATE TABLE measurements (city_id INT, logdate DATE)
		INHERITS (base_measurements)
		PARTITION BY RANGE (logdate)
		USING heap
		WITH (fillfactor = 70, autovacuum_enabled = true)
		ON COMMIT PRESERVE ROWS
		TABLESPACE fast_disks;`)

	assert.Equal(t, []string{"base_measurements"}, stmt.Inherits)
	require.NotNil(t, stmt.PartitionBy)
	assert.Equal(t, ast.PartitionRange, stmt.PartitionBy.Strategy)
	assert.Equal(t, []string{"logdate"}, stmt.PartitionBy.Keys)
	assert.Equal(t, "heap", stmt.AccessMethod)
	require.Len(t, stmt.Options, 2)
	assert.Equal(t, "fillfactor", stmt.Options[0].Name)
	assert.Equal(t, "70", stmt.Options[0].Value)
	assert.Equal(t, ast.OnCommitPreserveRows, stmt.OnCommit)
	assert.Equal(t, "fast_disks", stmt.Tablespace)
}

func TestParseWithoutOids(t *testing.T) {
	stmt := parseTable(t, "CREATE TABLE t (id INT) WITHOUT OIDS")
	assert.True(t, stmt.WithoutOids)
}

func TestParseOfTypeTable(t *testing.T) {
	stmt := parseTable(t, "CREATE TABLE people OF person_type (name WITH OPTIONS NOT NULL, PRIMARY KEY (name))")

	assert.Equal(t, ast.TableOfType, stmt.Variant)
	assert.Equal(t, "person_type", stmt.OfType)
	cols := stmt.Columns()
	require.Len(t, cols, 1)
	assert.Empty(t, cols[0].TypeName, "typed-table columns carry no type")
	assert.True(t, cols[0].NotNull())
	require.Len(t, stmt.TableConstraints(), 1)
}

func TestParsePartitionTables(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check func(t *testing.T, b *ast.PartitionBound)
	}{
		{
			"list partition",
			"CREATE TABLE t_eu PARTITION OF t FOR VALUES IN ('de', 'fr')",
			func(t *testing.T, b *ast.PartitionBound) {
				assert.Equal(t, ast.BoundIn, b.Kind)
				assert.Equal(t, []string{"'de'", "'fr'"}, b.InValues)
			},
		},
		{
			"range partition",
			"CREATE TABLE t_2024 PARTITION OF t FOR VALUES FROM ('2024-01-01') TO ('2025-01-01')",
			func(t *testing.T, b *ast.PartitionBound) {
				assert.Equal(t, ast.BoundRange, b.Kind)
				assert.Equal(t, []string{"'2024-01-01'"}, b.From)
				assert.Equal(t, []string{"'2025-01-01'"}, b.To)
			},
		},
		{
			"range with minvalue",
			"CREATE TABLE t_low PARTITION OF t FOR VALUES FROM (MINVALUE) TO (0)",
			func(t *testing.T, b *ast.PartitionBound) {
				assert.Equal(t, ast.BoundRange, b.Kind)
				assert.Equal(t, []string{"MINVALUE"}, b.From)
				assert.Equal(t, []string{"0"}, b.To)
			},
		},
		{
			"hash partition",
			"CREATE TABLE t_h0 PARTITION OF t FOR VALUES WITH (MODULUS 4, REMAINDER 0)",
			func(t *testing.T, b *ast.PartitionBound) {
				assert.Equal(t, ast.BoundHash, b.Kind)
				assert.Equal(t, 4, b.Modulus)
				assert.Equal(t, 0, b.Remainder)
			},
		},
		{
			"default partition",
			"CREATE TABLE t_rest PARTITION OF t DEFAULT",
			func(t *testing.T, b *ast.PartitionBound) {
				assert.Equal(t, ast.BoundDefault, b.Kind)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseTable(t, tt.sql)
			assert.Equal(t, ast.TablePartition, stmt.Variant)
			assert.Equal(t, "t", stmt.Parent)
			require.NotNil(t, stmt.Bound)
			tt.check(t, stmt.Bound)
		})
	}
}

func TestParseCreateTypeEnum(t *testing.T) {
	stmt := parseType(t, "CREATE TYPE mood AS ENUM ('sad', 'ok', 'happy');")
	assert.Equal(t, ast.TypeEnum, stmt.Variant)
	assert.Equal(t, "mood", stmt.Name)
	assert.Equal(t, []string{"sad", "ok", "happy"}, stmt.Labels)
}

func TestParseCreateTypeEmptyEnum(t *testing.T) {
	stmt := parseType(t, "CREATE TYPE nothing AS ENUM ()")
	assert.Equal(t, ast.TypeEnum, stmt.Variant)
	assert.Empty(t, stmt.Labels)
}

func TestParseCreateTypeComposite(t *testing.T) {
	stmt := parseType(t, `CREATE TYPE address AS (street TEXT COLLATE "C", zip VARCHAR(10))`)
	assert.Equal(t, ast.TypeComposite, stmt.Variant)
	require.Len(t, stmt.Attributes, 2)
	assert.Equal(t, "street", stmt.Attributes[0].Name)
	assert.Equal(t, "TEXT", stmt.Attributes[0].TypeName)
	assert.Equal(t, "C", stmt.Attributes[0].Collation)
	assert.Equal(t, "VARCHAR(10)", stmt.Attributes[1].TypeName)
}

func TestParseCreateTypeRange(t *testing.T) {
	stmt := parseType(t, `CREATE TYPE float_range AS RANGE (
		SUBTYPE = float8,
		SUBTYPE_DIFF = float8mi,
		MULTIRANGE_TYPE_NAME = float_multirange
	)`)
	assert.Equal(t, ast.TypeRange, stmt.Variant)
	require.NotNil(t, stmt.Range)
	assert.Equal(t, "float8", stmt.Range.Subtype)
	assert.Equal(t, "float8mi", stmt.Range.SubtypeDiff)
	assert.Equal(t, "float_multirange", stmt.Range.Multirange)
}

func TestParseCreateTypeRangeRequiresSubtype(t *testing.T) {
	_, errs := ParseCreateType("CREATE TYPE r AS RANGE (COLLATION = fr_FR)")
	require.NotEmpty(t, errs)
}

func TestParseCreateTypeBase(t *testing.T) {
	stmt := parseType(t, `CREATE TYPE box3d (
		INPUT = box3d_in,
		OUTPUT = box3d_out,
		INTERNALLENGTH = 48,
		ALIGNMENT = double,
		STORAGE = plain,
		DEFAULT = '0',
		PASSEDBYVALUE
	)`)
	assert.Equal(t, ast.TypeBase, stmt.Variant)
	require.NotNil(t, stmt.Base)
	assert.Equal(t, "box3d_in", stmt.Base.Input)
	assert.Equal(t, "box3d_out", stmt.Base.Output)
	assert.Equal(t, "48", stmt.Base.InternalLength)
	assert.Equal(t, "double", stmt.Base.Alignment)
	assert.Equal(t, "plain", stmt.Base.Storage)
	assert.Equal(t, "'0'", stmt.Base.Default)
	assert.True(t, stmt.Base.PassedByValue)
}

func TestParseCreateTypeShell(t *testing.T) {
	stmt := parseType(t, "CREATE TYPE shell_only;")
	assert.Equal(t, ast.TypeBase, stmt.Variant)
	assert.Nil(t, stmt.Base)
}

func TestParseAllStatements(t *testing.T) {
	result := Parse(`
		;;
		CREATE TYPE mood AS ENUM ('x');
		CREATE TABLE a (id INT);
		;
		CREATE TABLE b (id INT);
	`)
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Tables, 2)
	assert.Len(t, result.Types, 1)
}

func TestErrorRecoveryBetweenStatements(t *testing.T) {
	result := Parse("CREATE TABLE a (id BAD_TYPE); CREATE TABLE b (id INTEGER);")

	require.Len(t, result.Errors, 1, "one error for the malformed statement")
	require.Len(t, result.Tables, 1, "the statement after the error still parses")
	require.NotNil(t, result.Tables[0])
	assert.Equal(t, "b", result.Tables[0].Name)
}

func TestFailedStatementsContributeNoNodes(t *testing.T) {
	result := Parse("CREATE TYPE mood AS ENUM ('a' 'b'); CREATE TABLE t (id BAD_TYPE); CREATE TABLE ok (id INT);")

	require.Len(t, result.Errors, 2)
	assert.Empty(t, result.Types, "the malformed type yields no node")
	require.Len(t, result.Tables, 1)
	require.NotNil(t, result.Tables[0])
	assert.Equal(t, "ok", result.Tables[0].Name)
}

func TestErrorPositions(t *testing.T) {
	result := Parse("CREATE TABLE t (\n  id WAT\n)")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Line)
	assert.Equal(t, 6, result.Errors[0].Column)
}

func TestUnsupportedStatementIsReported(t *testing.T) {
	result := Parse("CREATE INDEX idx ON t (a); CREATE TABLE t (id INT);")
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unsupported")
	require.Len(t, result.Tables, 1)
}

func TestLexerErrorsSurfaceInResult(t *testing.T) {
	result := Parse("CREATE TABLE t (id INT DEFAULT 1 {)")
	assert.True(t, result.HasErrors())
}

func TestSqlStringRoundTrip(t *testing.T) {
	inputs := []string{
		"CREATE TABLE users (id BIGINT PRIMARY KEY, email VARCHAR(100) NOT NULL UNIQUE, created TIMESTAMP WITH TIME ZONE DEFAULT now())",
		"CREATE UNLOGGED TABLE cache (k TEXT, v TEXT, PRIMARY KEY (k)) WITH (fillfactor = 70)",
		"CREATE TABLE t_eu PARTITION OF t FOR VALUES IN ('de') TABLESPACE archive",
		"CREATE TYPE mood AS ENUM ('sad', 'happy')",
	}
	for _, sql := range inputs {
		t.Run(sql, func(t *testing.T) {
			result := Parse(sql)
			require.False(t, result.HasErrors())

			var rendered string
			switch {
			case len(result.Tables) == 1:
				rendered = result.Tables[0].SqlString()
			case len(result.Types) == 1:
				rendered = result.Types[0].SqlString()
			default:
				t.Fatal("expected exactly one statement")
			}

			again := Parse(rendered)
			assert.False(t, again.HasErrors(), "re-parse of %q", rendered)
			assert.Len(t, again.Tables, len(result.Tables))
			assert.Len(t, again.Types, len(result.Types))
		})
	}
}
