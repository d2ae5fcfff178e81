// Package main provides the tsffi command-line example.
//
// Usage:
//
//	tsffi [flags] <file_name>
//
// It exits with 1 and prints a usage message when no file is given and
// exits with 0 otherwise, diagnostics included.
package main

import (
	"os"

	"github.com/leapstack-labs/tsffi/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
