package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overwritten by build flags, matching the teacher's
// cmd/dwscript/cmd/root.go version-injection pattern.
var Version = "0.1.0-dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ecmago",
	Short: "ecmago is a from-scratch ECMAScript runtime",
	Long: `ecmago embeds and runs a from-scratch ECMAScript (JavaScript) runtime:
a tree-walking evaluator with a tiered bytecode accelerator, a hidden-class
object model, and a host-function registry for embedding Go code into
scripts.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("ecmago version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic output")
}
