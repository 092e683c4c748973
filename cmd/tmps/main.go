// Command tmps packages machine-learning models as encrypted artifacts with a YAML manifest.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/tmps/internal/commands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	if err := commands.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
