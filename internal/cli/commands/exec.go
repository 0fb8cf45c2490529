package commands

import (
	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rt *Runtime) *cobra.Command {
	var inTx bool

	cmd := &cobra.Command{
		Use:   "exec SQL [SQL...]",
		Short: "Execute statements over a single connection",
		Long: `Execute one or more SQL statements in order over the same connection.

Query results are printed as rows. Other statements print the number of
affected rows and the generated id, if any. With --tx the statements run
inside one transaction that is rolled back if any of them fails.`,
		Example: `  sqlconn exec "SELECT * FROM users"
  sqlconn exec --tx "INSERT INTO t VALUES (1)" "UPDATE c SET n = n + 1"
  sqlconn exec --format json "SELECT DATABASE()"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx, end := rt.startSpan(cmd.Context(), "sqlconn.exec", map[string]interface{}{
				"statements":  len(args),
				"transaction": inTx,
			})
			defer end(&err)

			client, disconnect, err := rt.connect()
			if err != nil {
				return err
			}
			defer disconnect()

			run := func(c *mysqlconn.Client) error {
				for _, query := range args {
					res, err := c.Execute(ctx, query)
					if err != nil {
						return err
					}
					if err := renderResult(cmd.OutOrStdout(), res, rt.Format); err != nil {
						return err
					}
				}
				return nil
			}

			if inTx {
				return client.Transaction(ctx, run)
			}
			return run(client)
		},
	}

	cmd.Flags().BoolVar(&inTx, "tx", false, "run all statements in one transaction")

	return cmd
}
