package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	verr "github.com/dokelabs/dokearley/error"
	"github.com/dokelabs/dokearley/grammar"
	"github.com/dokelabs/dokearley/spec"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <dokedef file path>",
		Short:   "Check a dokedef grammar for errors",
		Example: `  dokearley check effects.dokedef`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read the dokedef file %s: %w", args[0], err)
	}

	ast, err := spec.Parse(string(src))
	if err != nil {
		writeGrammarErrors(args[0], err)
		return fmt.Errorf("the grammar is invalid")
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	_, err = b.Build()
	if err != nil {
		writeGrammarErrors(args[0], err)
		return fmt.Errorf("the grammar is invalid")
	}

	fmt.Fprintf(os.Stdout, "%v is valid\n", args[0])
	return nil
}

func writeGrammarErrors(path string, err error) {
	if errs, ok := err.(verr.SpecErrors); ok {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%v: %v\n", path, e)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%v: %v\n", path, err)
}
