// Command locfilter resolves location-based warehouse and address filters
// for business documents.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/locfilter/internal/adapters/driving/cli"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(wire)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
