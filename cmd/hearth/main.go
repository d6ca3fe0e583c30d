// Command hearth is the household ledger CLI and HTTP daemon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hearth-ledger/hearth/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
