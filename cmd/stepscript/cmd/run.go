package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/stepscript/pkg/stepscript"
	"github.com/spf13/cobra"
)

var (
	evalExpr  string
	traceExec bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a StepScript file or expression",
	Long: `Execute a StepScript program from a file or inline expression.

Examples:
  # Run a script file
  stepscript run script.step

  # Evaluate an inline script
  stepscript run -e "println('Hello, World!')"

  # Run with an execution trace
  stepscript run --trace script.step`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&traceExec, "trace", false, "trace statement execution to stderr")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readScriptInput(evalExpr, args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Running: %s\n", filename)
	}

	var opts []stepscript.Option
	if traceExec {
		opts = append(opts, stepscript.WithTrace(os.Stderr))
	}

	interp := stepscript.New(defaultHostFunctions(), opts...)

	result, err := interp.Run(input, nil)
	if err != nil {
		if stepscript.IsStopped(err) {
			fmt.Fprintln(os.Stderr, "stopped:", err)
			return nil
		}
		if se, ok := err.(*stepscript.ScriptError); ok {
			exitWithError("%s", se.Format(input))
		}
		return err
	}

	if verbose {
		fmt.Printf("Result: %s\n", result.String())
	}
	return nil
}

// readScriptInput determines whether the script comes from -e or a file
// argument, mirroring go-dws's run/lex/parse command convention.
func readScriptInput(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

// defaultHostFunctions supplies the CLI's own println/print so example
// scripts have somewhere to send output; the core interpreter defines no
// I/O functions of its own (spec.md §1's "out of scope" boundary).
func defaultHostFunctions() map[string]stepscript.HostFunction {
	render := func(args []stepscript.Value) string {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}
		return strings.Join(parts, " ")
	}
	return map[string]stepscript.HostFunction{
		"println": func(args []stepscript.Value) (stepscript.Value, error) {
			fmt.Println(render(args))
			return stepscript.Null, nil
		},
		"print": func(args []stepscript.Value) (stepscript.Value, error) {
			fmt.Print(render(args))
			return stepscript.Null, nil
		},
	}
}
