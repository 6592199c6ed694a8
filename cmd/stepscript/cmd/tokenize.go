package cmd

import (
	"fmt"

	"github.com/cwbudde/stepscript/internal/lexer"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize a single StepScript expression",
	Long: `Tokenize (lex) one StepScript expression line and print the resulting
tokens, for debugging the tokenizer.

Examples:
  # Tokenize an inline expression
  stepscript tokenize -e "x = a[1] + 2 * (y - 1)"

  # Tokenize the first line of a file
  stepscript tokenize script.step`,
	Args: cobra.MaximumNArgs(1),
	RunE: tokenizeScript,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)

	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func tokenizeScript(_ *cobra.Command, args []string) error {
	input, _, err := readScriptInput(evalExpr, args)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(firstLine(input))
	if err != nil {
		return err
	}

	for _, t := range toks {
		printToken(t)
	}
	return nil
}

func printToken(t lexer.Token) {
	fmt.Printf("[%-8s] %q\n", t.Kind, t.Text)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
