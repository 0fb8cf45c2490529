// Package cli provides the sqlconn command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/sqlconn/internal/cli/commands"
	"github.com/Aleph-Alpha/sqlconn/internal/cli/config"
	"github.com/Aleph-Alpha/sqlconn/v1/logger"
	"github.com/Aleph-Alpha/sqlconn/v1/metrics"
	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
	"github.com/Aleph-Alpha/sqlconn/v1/observability"
	"github.com/Aleph-Alpha/sqlconn/v1/tracer"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *commands.Runtime) {
	var cfgFile string
	rt := &commands.Runtime{}

	rootCmd := &cobra.Command{
		Use:   "sqlconn",
		Short: "sqlconn - single-connection MySQL client",
		Long: `sqlconn runs SQL against a MySQL or MariaDB server over exactly one
connection, which is probed before use and re-established if it was lost.

Connection settings come from flags, SQLCONN_* environment variables and
./sqlconn.yaml, in that order of precedence.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return setupRuntime(rt, cfg)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./sqlconn.yaml)")
	flags.String("host", "", "server host; empty or localhost connects over the unix socket")
	flags.StringP("user", "u", "", "user name")
	flags.StringP("password", "p", "", "password")
	flags.StringP("database", "D", "", "default schema")
	flags.Int("port", 0, "server port (default 3306)")
	flags.String("socket", "", "unix socket path")
	flags.String("charset", "", "connection character set, applied with SET NAMES")
	flags.StringArray(config.OptionFlag, nil, "driver option as NAME=VALUE, e.g. MYSQLI_OPT_CONNECT_TIMEOUT=5 (repeatable)")
	flags.Duration("probe-timeout", mysqlconn.DefaultProbeTimeout, "liveness probe timeout")
	flags.StringP("format", "o", "", "output format (table|json|yaml|csv)")
	flags.String("log-level", "", "log level (debug|info|warning|error)")
	flags.Bool("trace", false, "export traces over OTLP/HTTP")
	flags.String("trace-endpoint", "", "OTLP/HTTP endpoint URL")
	flags.String("metrics-address", "", "serve Prometheus metrics on this address while running")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Formats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewExecCommand(rt))
	rootCmd.AddCommand(commands.NewReplCommand(rt))
	rootCmd.AddCommand(commands.NewPingCommand(rt))
	rootCmd.AddCommand(commands.NewSchemaCommand(rt))

	return rootCmd, rt
}

// setupRuntime builds the logger, the optional metrics server and tracer, and
// the client factory from cfg.
func setupRuntime(rt *commands.Runtime, cfg *config.Config) error {
	log := logger.NewLoggerClient(cfg.Log)
	rt.OnClose(func(context.Context) error {
		_ = log.Sync()
		return nil
	})
	rt.Format = cfg.Format

	var observer observability.Observer
	if cfg.Metrics.Address != "" {
		m := metrics.NewMetrics(cfg.Metrics)
		go func() {
			log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
				"address": m.Server.Addr,
			})
			if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Error starting Prometheus metrics server", err)
			}
		}()
		rt.OnClose(m.Server.Shutdown)
		observer = m
	}

	if cfg.Trace.EnableExport {
		tr, err := tracer.NewClient(cfg.Trace, log)
		if err != nil {
			return err
		}
		rt.Tracer = tr
		rt.OnClose(tr.Shutdown)
	}

	clientCfg := cfg.ClientConfig()
	rt.NewClient = func() (*mysqlconn.Client, error) {
		client, err := mysqlconn.NewClientFromConfig(clientCfg)
		if err != nil {
			return nil, err
		}
		client.WithLogger(log).WithObserver(observer)
		if rt.Tracer != nil {
			client.WithTracerProvider(rt.Tracer.Provider())
		}
		return client, nil
	}
	return nil
}

// Execute runs the root command and releases what it set up.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd, rt := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := rt.Close(context.Background()); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
