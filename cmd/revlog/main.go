// Command revlog manages versioned portfolio records on an append-only,
// content-addressed action log.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/revlog/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "revlog: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
