package main

import (
	"os"

	"github.com/cwbudde/stepscript/cmd/stepscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
