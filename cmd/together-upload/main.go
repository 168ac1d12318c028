package main

import (
	"io"
	"os"

	"github.com/togethertools/together-upload/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the CLI. Stdout carries exactly one JSON object per
// invocation; everything cobra would print (help, usage) goes to stderr.
func run(args []string, stdout io.Writer) int {
	root := newRootCmd(stdout)
	root.SetArgs(args)
	root.SetOut(os.Stderr)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		report.WriteError(stdout, err.Error())
		return 1
	}
	return 0
}
