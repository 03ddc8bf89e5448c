// Command ecmago is the CLI front-end for pkg/ecmago, grounded on the
// teacher's cmd/dwscript main package (a thin main that delegates straight
// to cmd.Execute).
package main

import (
	"fmt"
	"os"

	"github.com/ecmago/ecmago/cmd/ecmago/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
