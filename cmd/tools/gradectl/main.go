// Command gradectl runs the grade analytics offline against a JSON grade
// history and tails the analytics event stream of a running service.
package main

import (
	"fmt"
	"os"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
