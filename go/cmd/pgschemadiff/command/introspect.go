package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanmorri810/pgschemadiff/go/introspect"
)

var (
	introspectSchema string

	introspectCmd = &cobra.Command{
		Use:   "introspect <url>",
		Short: "Dump a live database schema as DDL",
		Long: "Connect to a PostgreSQL instance and print CREATE TABLE statements for\n" +
			"every table in the selected schema.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntrospect(cmd, args[0])
		},
	}
)

func init() {
	introspectCmd.Flags().StringVar(&introspectSchema, "schema", "public", "database schema to dump")
	rootCmd.AddCommand(introspectCmd)
}

func runIntrospect(cmd *cobra.Command, url string) error {
	ctx := cmd.Context()
	db, err := introspect.Open(ctx, url)
	if err != nil {
		return err
	}
	defer db.Close()

	tables, err := introspect.NewInspector(db, logger).InspectSchema(ctx, introspectSchema)
	if err != nil {
		return err
	}
	for _, t := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), t.SqlString())
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
