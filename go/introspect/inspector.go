/*
 * Live Catalog Introspection
 *
 * Reads table definitions out of a running PostgreSQL instance and
 * rebuilds them as the same AST values the DDL parser produces, so the
 * diff engine cannot tell a parsed file from a live database.
 */

package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
)

// Open connects to a PostgreSQL instance. Both postgres:// URLs and
// key=value conninfo strings are accepted.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		parsed, err := pq.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing connection URL: %w", err)
		}
		dsn = parsed
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// Inspector reads schema definitions from a live database.
type Inspector struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewInspector wraps an open connection. The logger may be nil.
func NewInspector(db *sql.DB, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inspector{db: db, logger: logger}
}

// ListTables returns the names of ordinary and partitioned tables in the
// given schema, in name order.
func (in *Inspector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := in.db.QueryContext(ctx, `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind IN ('r', 'p')
		ORDER BY c.relname`, schema)
	if err != nil {
		return nil, fmt.Errorf("listing tables in schema %q: %w", schema, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// InspectSchema reads every table in the schema.
func (in *Inspector) InspectSchema(ctx context.Context, schema string) ([]*ast.CreateTableStmt, error) {
	names, err := in.ListTables(ctx, schema)
	if err != nil {
		return nil, err
	}
	tables := make([]*ast.CreateTableStmt, 0, len(names))
	for _, name := range names {
		t, err := in.InspectTable(ctx, schema, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	in.logger.Debug("introspected schema", "schema", schema, "tables", len(tables))
	return tables, nil
}

// InspectTable rebuilds one table definition from the catalogs. Storage
// modes and collations come back explicit for every column; the diff
// engine's comparison rules absorb that asymmetry against parsed DDL.
func (in *Inspector) InspectTable(ctx context.Context, schema, name string) (*ast.CreateTableStmt, error) {
	stmt := &ast.CreateTableStmt{Name: name}

	if err := in.readTableAttributes(ctx, schema, name, stmt); err != nil {
		return nil, fmt.Errorf("inspecting table %s.%s: %w", schema, name, err)
	}
	if err := in.readColumns(ctx, schema, name, stmt); err != nil {
		return nil, fmt.Errorf("inspecting columns of %s.%s: %w", schema, name, err)
	}
	if err := in.readConstraints(ctx, schema, name, stmt); err != nil {
		return nil, fmt.Errorf("inspecting constraints of %s.%s: %w", schema, name, err)
	}
	return stmt, nil
}

func (in *Inspector) readTableAttributes(ctx context.Context, schema, name string, stmt *ast.CreateTableStmt) error {
	var persistence string
	var tablespace, accessMethod sql.NullString
	err := in.db.QueryRowContext(ctx, `
		SELECT c.relpersistence, ts.spcname, am.amname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_tablespace ts ON ts.oid = c.reltablespace
		LEFT JOIN pg_am am ON am.oid = c.relam AND am.amname <> 'heap'
		WHERE n.nspname = $1 AND c.relname = $2`, schema, name).
		Scan(&persistence, &tablespace, &accessMethod)
	if err != nil {
		return err
	}

	switch persistence {
	case "u":
		stmt.Persistence = ast.PersistenceUnlogged
	case "t":
		stmt.Persistence = ast.PersistenceTemporary
		stmt.TempScope = ast.TempScopeNone
	default:
		stmt.Persistence = ast.PersistencePermanent
	}
	stmt.Tablespace = tablespace.String
	stmt.AccessMethod = accessMethod.String
	return nil
}

func (in *Inspector) readColumns(ctx context.Context, schema, name string, stmt *ast.CreateTableStmt) error {
	rows, err := in.db.QueryContext(ctx, `
		SELECT a.attname,
		       format_type(a.atttypid, a.atttypmod),
		       a.attnotnull,
		       COALESCE(pg_get_expr(d.adbin, d.adrelid), ''),
		       COALESCE(co.collname, ''),
		       a.attstorage::text,
		       COALESCE(a.attcompression::text, '')
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		LEFT JOIN pg_collation co ON co.oid = a.attcollation
		WHERE n.nspname = $1 AND c.relname = $2
		  AND a.attnum > 0 AND NOT a.attisdropped
		ORDER BY a.attnum`, schema, name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var colName, typeName, defaultExpr, collation, storage, compression string
		var notNull bool
		if err := rows.Scan(&colName, &typeName, &notNull, &defaultExpr, &collation, &storage, &compression); err != nil {
			return err
		}

		col := &ast.ColumnDef{
			Name:        colName,
			TypeName:    typeName,
			Collation:   collation,
			Storage:     storageModeName(storage),
			Compression: compressionName(compression),
		}
		if notNull {
			col.Constraints = append(col.Constraints, ast.NewConstraint(ast.ConstrNotNull))
		}
		if defaultExpr != "" {
			con := ast.NewConstraint(ast.ConstrDefault)
			con.Expr = ast.NewExpression(defaultExpr)
			col.Constraints = append(col.Constraints, con)
		}
		stmt.Elements = append(stmt.Elements, col)
	}
	return rows.Err()
}

// storageModeName maps pg_attribute.attstorage to its DDL spelling.
func storageModeName(code string) string {
	switch code {
	case "p":
		return "plain"
	case "e":
		return "external"
	case "x":
		return "extended"
	case "m":
		return "main"
	default:
		return code
	}
}

// compressionName maps pg_attribute.attcompression to its DDL spelling.
// The catalog stores an empty value when the column uses the server
// default.
func compressionName(code string) string {
	switch code {
	case "p":
		return "pglz"
	case "l":
		return "lz4"
	default:
		return ""
	}
}

func (in *Inspector) readConstraints(ctx context.Context, schema, name string, stmt *ast.CreateTableStmt) error {
	rows, err := in.db.QueryContext(ctx, `
		SELECT con.conname,
		       con.contype::text,
		       con.condeferrable,
		       con.condeferred,
		       pg_get_constraintdef(con.oid),
		       COALESCE((SELECT array_agg(att.attname ORDER BY k.ord)
		                 FROM unnest(con.conkey) WITH ORDINALITY k(attnum, ord)
		                 JOIN pg_attribute att
		                   ON att.attrelid = con.conrelid AND att.attnum = k.attnum),
		                '{}'),
		       COALESCE(con.confrelid::regclass::text, ''),
		       COALESCE((SELECT array_agg(att.attname ORDER BY k.ord)
		                 FROM unnest(con.confkey) WITH ORDINALITY k(attnum, ord)
		                 JOIN pg_attribute att
		                   ON att.attrelid = con.confrelid AND att.attnum = k.attnum),
		                '{}'),
		       con.confupdtype::text,
		       con.confdeltype::text,
		       con.confmatchtype::text
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
		  AND con.contype IN ('p', 'u', 'c', 'f')
		ORDER BY con.conname`, schema, name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var conName, conType, def, refTable, updType, delType, matchType string
		var deferrable, deferred bool
		var keys, refKeys []string
		err := rows.Scan(&conName, &conType, &deferrable, &deferred, &def,
			pq.Array(&keys), &refTable, pq.Array(&refKeys),
			&updType, &delType, &matchType)
		if err != nil {
			return err
		}

		con := constraintFromCatalog(conType, def, keys)
		if con == nil {
			continue
		}
		con.Name = conName
		if deferrable {
			con.Deferrable = boolValue(true)
			con.InitDeferred = boolValue(deferred)
		}
		if con.Type == ast.ConstrForeign {
			con.RefTable = refTable
			con.RefCols = refKeys
			// catalog action and match codes use the same letters the
			// AST does
			con.Match = matchType[0]
			if updType != "a" {
				con.OnUpdate = &ast.KeyAction{Action: updType[0]}
			}
			if delType != "a" {
				con.OnDelete = &ast.KeyAction{Action: delType[0]}
			}
		}
		stmt.Elements = append(stmt.Elements, con)
	}
	return rows.Err()
}

func constraintFromCatalog(conType, def string, keys []string) *ast.Constraint {
	switch conType {
	case "p":
		con := ast.NewConstraint(ast.ConstrPrimary)
		con.Keys = keys
		return con
	case "u":
		con := ast.NewConstraint(ast.ConstrUnique)
		con.Keys = keys
		return con
	case "f":
		con := ast.NewConstraint(ast.ConstrForeign)
		con.FkColumns = keys
		return con
	case "c":
		con := ast.NewConstraint(ast.ConstrCheck)
		con.Expr = ast.NewExpression(checkExprFromDef(def))
		return con
	default:
		return nil
	}
}

// checkExprFromDef extracts the expression from pg_get_constraintdef
// output of the form CHECK ((expr)).
func checkExprFromDef(def string) string {
	s := strings.TrimSpace(def)
	s = strings.TrimPrefix(s, "CHECK")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func boolValue(b bool) *bool {
	return &b
}
