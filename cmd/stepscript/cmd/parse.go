package cmd

import (
	"github.com/cwbudde/stepscript/internal/lexer"
	"github.com/cwbudde/stepscript/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a single StepScript expression to its postfix vector",
	Long: `Tokenize and shunting-yard-convert one StepScript expression line, then
print the resulting postfix token vector, for debugging the parser.

Examples:
  stepscript parse -e "x = a[1] + 2 * (y - 1)"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	input, _, err := readScriptInput(evalExpr, args)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(firstLine(input))
	if err != nil {
		return err
	}

	postfix, err := parser.ToPostfix(toks)
	if err != nil {
		return err
	}

	for _, t := range postfix[1:] {
		printToken(t)
	}
	return nil
}
