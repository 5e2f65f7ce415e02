// pseudo prints structural pseudo-code summaries of C# types.
// Each marked type becomes its signature plus members, with bodies elided.
package main

import (
	"fmt"
	"os"

	"github.com/corey/pseudo/cmd/pseudo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			// Drift (1) has already been reported on stdout.
			if msg := err.Error(); code > 1 && msg != "" {
				fmt.Fprintf(os.Stderr, "error: %s\n", msg)
			}
			os.Exit(code)
		}
		os.Exit(1)
	}
}
