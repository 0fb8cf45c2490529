package commands

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema selected on the connection",
		Long: `Print the schema selected on the connection.

Prints NULL when the connection has no default schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, end := rt.startSpan(cmd.Context(), "sqlconn.schema", nil)
			defer end(&err)

			client, disconnect, err := rt.connect()
			if err != nil {
				return err
			}
			defer disconnect()

			return printSchema(ctx, cmd.OutOrStdout(), client, rt.Format)
		},
	}
}
