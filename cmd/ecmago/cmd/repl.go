package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ecmago/ecmago/pkg/ecmago"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	RunE:  runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	rt := ecmago.New(ecmago.WithFilename("<repl>"))
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("ecmago repl -- Ctrl-D to exit")
	pending := ""
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" && pending == "" {
			continue
		}
		pending += line + "\n"
		if strings.Count(pending, "{") > strings.Count(pending, "}") {
			continue
		}
		result, err := rt.Eval(pending, "<repl>")
		pending = ""
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result.IsUndefined() {
			continue
		}
		s, err := rt.ToString(result)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Println(s)
	}
}
