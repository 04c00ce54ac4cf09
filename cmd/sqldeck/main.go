// Command sqldeck runs the SQLDeck workbench CLI.
package main

import (
	"os"

	"github.com/sqldeck/sqldeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
