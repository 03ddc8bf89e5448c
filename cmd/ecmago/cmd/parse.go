package cmd

import (
	"fmt"
	"os"

	"github.com/ecmago/ecmago/pkg/ecmago"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		dump, errs := ecmago.ParseOnly(string(content))
		fmt.Println(dump)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("parsing failed with %d error(s)", len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
