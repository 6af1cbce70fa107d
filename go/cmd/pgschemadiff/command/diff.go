package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aidanmorri810/pgschemadiff/go/diff"
	"github.com/aidanmorri810/pgschemadiff/go/introspect"
	"github.com/aidanmorri810/pgschemadiff/go/parser/ast"
	"github.com/aidanmorri810/pgschemadiff/go/report"
	"github.com/aidanmorri810/pgschemadiff/go/schemafile"
	"github.com/aidanmorri810/pgschemadiff/go/sqlgen"
)

// Exit codes of the diff subcommand.
const (
	exitDifferences = 1
	exitParseErrors = 2
)

var (
	diffSchema    string
	diffWatch     bool
	diffMigration bool

	diffCmd = &cobra.Command{
		Use:   "diff <source> <target>",
		Short: "Compare two schemas",
		Long: "Compare a source schema against a target schema. Each side is either a\n" +
			"path to a .sql file or directory of .sql files, or a postgres:// URL of a\n" +
			"live database to introspect.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), args[0], args[1])
		},
	}
)

func init() {
	diffCmd.Flags().String("format", "text", "report format (text, markdown, yaml)")
	diffCmd.Flags().StringVar(&diffSchema, "schema", "public", "database schema to introspect for URL sides")
	diffCmd.Flags().BoolVar(&diffWatch, "watch", false, "re-run the comparison when schema files change")
	diffCmd.Flags().BoolVar(&diffMigration, "migration", false, "print migration SQL instead of a report")
	rootCmd.AddCommand(diffCmd)
}

func diffOptions() diff.Options {
	return diff.Options{
		CaseSensitive:         config.CaseSensitive,
		NormalizeTypes:        config.NormalizeTypes,
		IgnoreWhitespace:      config.IgnoreWhitespace,
		IgnoreConstraintNames: config.IgnoreConstraintNames,
	}
}

func runDiff(ctx context.Context, source, target string) error {
	format := config.Format
	if format == "" {
		format = report.FormatText
	}

	run := func() error {
		src, srcErrs, err := loadSide(ctx, source)
		if err != nil {
			return err
		}
		tgt, tgtErrs, err := loadSide(ctx, target)
		if err != nil {
			return err
		}
		for _, pe := range append(srcErrs, tgtErrs...) {
			fmt.Fprintln(os.Stderr, pe.Error())
		}
		if len(srcErrs)+len(tgtErrs) > 0 {
			return &ExitError{Code: exitParseErrors, Err: fmt.Errorf("schema input contained parse errors")}
		}

		sd := diff.CompareSchemas(src, tgt, diffOptions())
		if diffMigration {
			for _, stmt := range sqlgen.Generate(sd) {
				fmt.Println(stmt)
			}
		} else if err := report.Render(os.Stdout, sd, format); err != nil {
			return err
		}
		if sd.HasDifferences() {
			return &ExitError{Code: exitDifferences}
		}
		return nil
	}

	if !diffWatch {
		return run()
	}
	return watchAndRun(ctx, []string{source, target}, run)
}

// watchAndRun re-runs the comparison whenever a file side changes. The
// per-run exit status is only logged; the watch loop itself ends on
// interrupt.
func watchAndRun(ctx context.Context, sides []string, run func() error) error {
	var paths []string
	for _, s := range sides {
		if !isDatabaseURL(s) {
			paths = append(paths, s)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("--watch requires at least one file-based schema")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rerun := func() {
		var exit *ExitError
		switch err := run(); {
		case err == nil:
			logger.Info("schemas match")
		case errors.As(err, &exit) && exit.Code == exitDifferences:
			logger.Info("differences found")
		default:
			logger.Error("comparison failed", "error", err)
		}
	}
	rerun()

	err := schemafile.Watch(ctx, logger, paths, rerun)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadSide resolves one comparison side: database URLs are introspected,
// everything else is parsed from the filesystem.
func loadSide(ctx context.Context, side string) ([]*ast.CreateTableStmt, []error, error) {
	if isDatabaseURL(side) {
		db, err := introspect.Open(ctx, side)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		tables, err := introspect.NewInspector(db, logger).InspectSchema(ctx, diffSchema)
		if err != nil {
			return nil, nil, err
		}
		return tables, nil, nil
	}

	result, err := schemafile.Load(afero.NewOsFs(), side)
	if err != nil {
		return nil, nil, err
	}
	var parseErrs []error
	for _, fe := range result.Errors {
		parseErrs = append(parseErrs, fe)
	}
	return result.Tables, parseErrs, nil
}

func isDatabaseURL(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}
