// Command sqlconn runs SQL against MySQL over a single managed connection.
package main

import (
	"os"

	"github.com/Aleph-Alpha/sqlconn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
