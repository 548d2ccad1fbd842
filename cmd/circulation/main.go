// Command circulation runs the library circulation service and its maintenance tasks.
package main

import (
	"fmt"
	"os"
)

// version is set via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
