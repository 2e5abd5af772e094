package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dokelabs/dokearley/driver"
)

var tokenizeFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize <dokedef file path>",
		Short:   "Tokenize a statement according to the grammar's vocabulary",
		Example: `  echo 'deal 7 damage' | dokearley tokenize effects.dokedef`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "statement file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	p, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	input, err := readSource(*tokenizeFlags.source)
	if err != nil {
		return err
	}

	tokens, err := driver.Tokenize(p.Grammar(), input)
	for _, tok := range tokens {
		switch tok.Kind {
		case driver.TokenKindInt:
			fmt.Fprintf(os.Stdout, "%v: %v %v\n", tok.Offset, tok.Kind, tok.Int)
		case driver.TokenKindFloat:
			fmt.Fprintf(os.Stdout, "%v: %v %v\n", tok.Offset, tok.Kind, tok.Float)
		case driver.TokenKindString:
			fmt.Fprintf(os.Stdout, "%v: %v %#v\n", tok.Offset, tok.Kind, tok.Str)
		default:
			fmt.Fprintf(os.Stdout, "%v: %v %#v\n", tok.Offset, tok.Kind, tok.Text)
		}
	}
	return err
}
