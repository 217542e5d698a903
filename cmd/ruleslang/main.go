// Command ruleslang is the thin entry point; all real argument handling
// lives in pkg/cli so it stays testable without a subprocess.
package main

import (
	"fmt"
	"os"

	"github.com/michael-golfi/rules/pkg/cli"
)

// main mirrors cmd/funxy/main.go's own panic-recovery wrapper: an
// rlerrors.Internal assertion failure still ends the process with a
// nonzero exit (spec.md §7.3), but as a reported error rather than a raw
// panic dump, unless DEBUG=1 asks for the stack trace.
func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			os.Exit(1)
		}
	}()
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
