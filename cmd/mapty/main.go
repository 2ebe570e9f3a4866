// Command mapty is a map-based workout log.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mapty/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
