package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/dokelabs/dokearley"
	"github.com/dokelabs/dokearley/driver"
)

var parseFlags = struct {
	start    *string
	source   *string
	children *[]string
	tree     *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <dokedef file path>",
		Short:   "Parse a statement with a dokedef grammar",
		Example: `  echo 'deal 7 damage' | dokearley parse effects.dokedef --start ItemEffect`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.start = cmd.Flags().StringP("start", "t", "", "start nonterminal (required)")
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "statement file path (default stdin)")
	parseFlags.children = cmd.Flags().StringArray("child", nil, "child statement for '<' and '<*' captures; repeatable")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the parse tree instead of the evaluated value")
	_ = cmd.MarkFlagRequired("start")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}
			retErr = err
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	p, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	input, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	if *parseFlags.tree {
		node, err := driver.ParseTree(p.Grammar(), input, *parseFlags.start)
		if err != nil {
			return err
		}
		driver.PrintTree(os.Stdout, node)
		return nil
	}

	v, err := p.ParseWithChildren(input, *parseFlags.start, *parseFlags.children)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%v\n", string(out))
	return nil
}

func readGrammar(path string) (*dokearley.Dokearley, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read the dokedef file %s: %w", path, err)
	}
	p, err := dokearley.FromDokedef(string(src))
	if err != nil {
		return nil, fmt.Errorf("Cannot compile the dokedef file %s: %w", path, err)
	}
	return p, nil
}

func readSource(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
