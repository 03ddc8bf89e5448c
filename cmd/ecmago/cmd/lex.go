package cmd

import (
	"fmt"
	"os"

	"github.com/ecmago/ecmago/pkg/ecmago"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex FILE",
	Short: "Tokenize a file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		toks, errs := ecmago.LexOnly(string(content))
		for _, t := range toks {
			fmt.Println(t)
		}
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("lexing failed with %d error(s)", len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
