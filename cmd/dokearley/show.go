package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dokelabs/dokearley/spec"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <dokedef file path>",
		Short:   "Print a dokedef grammar with syntax highlighting",
		Example: `  dokearley show effects.dokedef`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

var highlightColors = map[spec.HighlightKind]*color.Color{
	spec.HighlightKindLHS:             color.New(color.FgBlue, color.Bold),
	spec.HighlightKindTerminal:        color.New(color.FgWhite),
	spec.HighlightKindPlaceholderName: color.New(color.FgCyan, color.Bold),
	spec.HighlightKindPlaceholderType: color.New(color.FgHiGreen),
	spec.HighlightKindNonTerminal:     color.New(color.FgCyan),
	spec.HighlightKindOutputType:      color.New(color.FgHiGreen, color.Bold),
	spec.HighlightKindFieldName:       color.New(color.FgCyan, color.Bold),
	spec.HighlightKindIdentifier:      color.New(color.FgWhite),
	spec.HighlightKindStringLiteral:   color.New(color.FgYellow),
	spec.HighlightKindNumberLiteral:   color.New(color.FgCyan, color.Faint),
	spec.HighlightKindOperator:        color.New(color.FgHiBlack),
}

func runShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read the dokedef file %s: %w", args[0], err)
	}
	src := string(data)

	spans := spec.Highlight(src)
	cursor := 0
	for _, s := range spans {
		if s.Start > cursor {
			fmt.Fprint(os.Stdout, src[cursor:s.Start])
		}
		c, ok := highlightColors[s.Kind]
		if !ok {
			c = color.New()
		}
		c.Fprint(os.Stdout, src[s.Start:s.End])
		cursor = s.End
	}
	if cursor < len(src) {
		fmt.Fprint(os.Stdout, src[cursor:])
	}
	return nil
}
