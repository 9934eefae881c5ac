package main

import (
	"fmt"
	"os"

	"github.com/temirov/readiness/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main runs the readiness audit against the configured repository.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
