package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dokearley",
	Short: "Parse designer-authored statements with a dokedef grammar",
	Long: `dokearley builds a parser from a dokedef grammar at runtime and parses
statements written in the resulting DSL into structured values.
It can also tokenize a statement according to the grammar, which is
primarily aimed at debugging the grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
