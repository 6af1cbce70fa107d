package command

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aidanmorri810/pgschemadiff/go/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeSchema(t *testing.T, dir, name, ddl string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(ddl), 0o644))
	return path
}

// execute runs the root command, restoring every flag that the run
// changed so tests stay independent.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		for _, fs := range []*pflag.FlagSet{rootCmd.PersistentFlags(), diffCmd.Flags(), introspectCmd.Flags()} {
			fs.Visit(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		configFile = ""
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestExitError(t *testing.T) {
	inner := errors.New("boom")
	e := &ExitError{Code: 2, Err: inner}
	assert.Equal(t, "boom", e.Error())
	assert.ErrorIs(t, e, inner)

	bare := &ExitError{Code: 1}
	assert.Equal(t, "exit code 1", bare.Error())
}

func TestIsDatabaseURL(t *testing.T) {
	assert.True(t, isDatabaseURL("postgres://localhost/db"))
	assert.True(t, isDatabaseURL("postgresql://user@host/db"))
	assert.False(t, isDatabaseURL("schema.sql"))
	assert.False(t, isDatabaseURL("/var/lib/postgres"))
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "WARN", "error"} {
		_, err := newLogger(level, "text")
		assert.NoError(t, err, level)
	}
	_, err := newLogger("info", "json")
	assert.NoError(t, err)

	_, err = newLogger("loud", "text")
	assert.Error(t, err)
	_, err = newLogger("info", "xml")
	assert.Error(t, err)
}

func TestDiffIdenticalSchemas(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id INT);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE t (id INTEGER);")

	err := execute(t, "diff", src, tgt)
	assert.NoError(t, err)
}

func TestDiffExitCodeOnDifferences(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id INT);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE t (id INT, extra TEXT);")

	err := execute(t, "diff", src, tgt)
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, exitDifferences, exit.Code)
}

func TestDiffExitCodeOnParseErrors(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id WAT);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE t (id INT);")

	err := execute(t, "diff", src, tgt)
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, exitParseErrors, exit.Code)
}

func TestDiffMissingPath(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id INT);")

	err := execute(t, "diff", src, filepath.Join(dir, "absent.sql"))
	require.Error(t, err)
	var exit *ExitError
	assert.False(t, errors.As(err, &exit), "IO failures are plain errors, not exit codes")
}

func TestDiffFormatFlagFlowsThroughConfig(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id INT);")

	require.NoError(t, execute(t, "diff", src, src, "--format", "markdown"))
	assert.Equal(t, report.FormatMarkdown, config.Format)
}

func TestDiffRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id INT);")

	err := execute(t, "diff", src, src, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestDiffOptionsFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("case-sensitive: true\nignore-constraint-names: true\n"), 0o644))

	src := writeSchema(t, dir, "a.sql", "CREATE TABLE Users (id INT);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE users (id INT);")

	err := execute(t, "--config-file", cfg, "diff", src, tgt)
	var exit *ExitError
	require.ErrorAs(t, err, &exit, "case-sensitive comparison sees Users and users as different")
	assert.Equal(t, exitDifferences, exit.Code)

	opts := diffOptions()
	assert.True(t, opts.CaseSensitive)
	assert.True(t, opts.IgnoreConstraintNames)
	assert.True(t, opts.NormalizeTypes, "flag defaults still apply")
}

func TestDiffOptionsFromEnvironment(t *testing.T) {
	t.Setenv("PGSCHEMADIFF_CASE_SENSITIVE", "true")

	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE Users (id INT);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE users (id INT);")

	err := execute(t, "diff", src, tgt)
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, exitDifferences, exit.Code)
}

func TestDiffFlagOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	src := writeSchema(t, dir, "a.sql", "CREATE TABLE t (id int4);")
	tgt := writeSchema(t, dir, "b.sql", "CREATE TABLE t (id integer);")

	require.NoError(t, execute(t, "diff", src, tgt))

	err := execute(t, "diff", src, tgt, "--normalize-types=false")
	var exit *ExitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, exitDifferences, exit.Code)
}

func TestWatchRequiresFileSide(t *testing.T) {
	err := execute(t, "diff", "postgres://a/db", "postgres://b/db", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires at least one file-based schema")
}
