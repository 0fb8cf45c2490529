package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/sqlconn/v1/mysqlconn"
)

const (
	prompt             = "sqlconn> "
	continuationPrompt = "    ...> "
	historyFileName    = ".sqlconn_history"
)

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewReplCommand creates the repl command.
func NewReplCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive SQL shell over a single connection",
		Long: `Start an interactive shell that keeps one connection open.

Statements may span lines and run once a line ends with a semicolon.
Transactions started with .begin stay open across statements until
.commit or .rollback. Type .help for the list of dot commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx, end := rt.startSpan(cmd.Context(), "sqlconn.repl", nil)
			defer end(&err)

			client, disconnect, err := rt.connect()
			if err != nil {
				return err
			}
			defer disconnect()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          prompt,
				HistoryFile:     historyFile(),
				AutoComplete:    newDotCompleter(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sqlconn REPL")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			return runREPL(ctx, rl, client, cmd.OutOrStdout(), cmd.ErrOrStderr(), rt.Format)
		},
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// runREPL reads statements from rl until EOF or .quit. Statement errors are
// printed and the loop continues.
func runREPL(ctx context.Context, rl lineReader, client *mysqlconn.Client, out, errOut io.Writer, format string) error {
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := handleDotCommand(ctx, line, client, out, errOut, format); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(continuationPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		query := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()

		res, err := client.Execute(ctx, query)
		if err == nil {
			err = renderResult(out, res, format)
		}
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}
}

// handleDotCommand runs a dot command and reports whether the REPL should exit.
func handleDotCommand(ctx context.Context, line string, client *mysqlconn.Client, out, errOut io.Writer, format string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	var err error
	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(out)
	case ".schema":
		err = printSchema(ctx, out, client, format)
	case ".ping":
		status := "alive"
		if !client.IsConnected(ctx) {
			status = "not connected"
		}
		err = renderValue(out, "connection", status, format)
	case ".status":
		err = renderValue(out, "transaction", client.State().String(), format)
	case ".begin":
		err = client.BeginTransaction(ctx)
	case ".commit":
		err = client.Commit(ctx)
	case ".rollback":
		err = client.Rollback(ctx)
	case ".lastid":
		var id int64
		if id, err = client.LastGeneratedValue(ctx); err == nil {
			err = renderValue(out, "last_insert_id", id, format)
		}
	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	if err != nil {
		_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
	}
	return false
}

func printSchema(ctx context.Context, w io.Writer, client *mysqlconn.Client, format string) error {
	schema, err := client.CurrentSchema(ctx)
	if err != nil {
		return err
	}
	var v any
	if schema != "" {
		v = schema
	}
	return renderValue(w, "schema", v, format)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .schema         Show the selected schema
  .ping           Probe the connection and drop it if it fails
  .status         Show the transaction state
  .begin          Start a transaction
  .commit         Commit the open transaction
  .rollback       Roll back the open transaction
  .lastid         Show the last generated AUTO_INCREMENT value
  .quit / .exit   Exit the REPL

Statements must end with a semicolon (;).
`
	_, _ = fmt.Fprintln(w, help)
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".schema"),
		readline.PcItem(".ping"),
		readline.PcItem(".status"),
		readline.PcItem(".begin"),
		readline.PcItem(".commit"),
		readline.PcItem(".rollback"),
		readline.PcItem(".lastid"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
