package cmd

import (
	"fmt"
	"os"

	"github.com/ecmago/ecmago/pkg/ecmago"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	timeout  int64
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an ECMAScript file or expression",
	Long: `Execute a script from a file or an inline expression.

Examples:
  ecmago run script.js
  ecmago run -e "1 + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline source instead of reading a file")
	runCmd.Flags().Int64Var(&timeout, "max-steps", 0, "abort after this many executed statements (0 = unlimited)")
}

func runScript(_ *cobra.Command, args []string) error {
	var source, filename string
	switch {
	case evalExpr != "":
		source, filename = evalExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filename, err)
		}
		source = string(content)
	default:
		return fmt.Errorf("provide a file path or use -e for inline source")
	}

	rt := ecmago.New(ecmago.WithFilename(filename))
	if timeout > 0 {
		rt.SetDeadline(timeout)
	}

	result, err := rt.Eval(source, filename)
	if err != nil {
		return err
	}
	if verbose {
		s, _ := rt.ToString(result)
		fmt.Fprintf(os.Stderr, "=> %s\n", s)
	}
	return nil
}
