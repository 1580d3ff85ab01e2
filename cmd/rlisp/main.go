// Command rlisp runs, checks and formats rlisp programs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thomasrohde/rlisp/pkg/runtime"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code.
// Diagnostics are printed by the commands themselves; other errors here.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()

	var de *runtime.DiagnosticError
	if err != nil && !errors.As(err, &de) {
		fmt.Fprintf(stderr, "rlisp: %v\n", err)
	}
	return runtime.ExitCode(err)
}
