package commands

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect, probe the server and print its version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, end := rt.startSpan(cmd.Context(), "sqlconn.ping", nil)
			defer end(&err)

			client, disconnect, err := rt.connect()
			if err != nil {
				return err
			}
			defer disconnect()

			if err := client.Connect(ctx); err != nil {
				return err
			}
			if !client.IsConnected(ctx) {
				return errors.New("server did not answer the liveness probe")
			}

			version, err := client.ServerVersion(ctx)
			if err != nil {
				return err
			}
			return renderValue(cmd.OutOrStdout(), "version", version, rt.Format)
		},
	}
}
