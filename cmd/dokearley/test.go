package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dokelabs/dokearley/tester"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <test suite path>",
		Short:   "Run a YAML test suite against its dokedef grammar",
		Example: `  dokearley test effects_test.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	suite, err := tester.ParseTestSuite(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read the test suite %s: %w", args[0], err)
	}

	grammarPath := suite.Grammar
	if !filepath.IsAbs(grammarPath) {
		grammarPath = filepath.Join(filepath.Dir(args[0]), grammarPath)
	}
	p, err := readGrammar(grammarPath)
	if err != nil {
		return err
	}

	t := &tester.Tester{
		Parser: p,
		Suite:  suite,
	}
	results := t.Run()
	failed := false
	for _, r := range results {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("test failed")
	}
	return nil
}
