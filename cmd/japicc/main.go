// Command japicc is the API compliance checker's command-line entry point:
// check, dump, and watch subcommands delegating to pkg/cli.
package main

import (
	"fmt"
	"os"

	"github.com/platinummonkey/japicc/pkg/cli"
	"github.com/platinummonkey/japicc/pkg/errs"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(int(errs.CodeOf(err)))
	}
}
