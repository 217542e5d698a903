// Package cli implements spec.md §6's external interface: a `--file|-f`
// one-shot rule run, or an interactive shell when no file is given.
//
// The teacher's cmd/funxy/main.go parses its own multi-subcommand surface
// (test/build/run/help) the same way, off bare os.Args rather than the
// flag package, and reports failures with fmt.Fprintf(os.Stderr, ...)
// plus a nonzero return instead of panicking — this package follows that
// idiom exactly, just over RulesLang's much smaller two-flag surface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/michael-golfi/rules/internal/rule"
	"github.com/michael-golfi/rules/internal/shell"
)

// Run parses args (os.Args[1:]) and drives either a one-shot rule
// evaluation or the interactive shell, returning the process exit code
// spec.md §6 calls for: 0 on success, nonzero otherwise.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	filePath, input, haveFile, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if !haveFile {
		s := shell.New(stdout, shell.Stdin())
		if err := s.Run(stdin); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	return runFile(filePath, input, stdout, stderr)
}

// parseFlags recognizes --file/-f <path> and --input/-i <json>. haveFile
// is false (with filePath/input both empty) when neither flag is given,
// meaning the caller should fall back to the interactive shell;
// -f without -i is a usage error (spec.md §6: "--file requires --input").
func parseFlags(args []string) (filePath, input string, haveFile bool, err error) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--file", "-f":
			if i+1 >= len(args) {
				return "", "", false, fmt.Errorf("%s requires a path argument", args[i])
			}
			i++
			filePath = args[i]
			haveFile = true
		case "--input", "-i":
			if i+1 >= len(args) {
				return "", "", false, fmt.Errorf("%s requires a JSON argument", args[i])
			}
			i++
			input = args[i]
		default:
			return "", "", false, fmt.Errorf("unrecognized argument %q", args[i])
		}
	}
	if haveFile && input == "" {
		return "", "", false, fmt.Errorf("--file requires --input")
	}
	return filePath, input, haveFile, nil
}

func runFile(filePath, input string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	r, err := rule.Compile(string(source))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	out, err := r.RunRule(input)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}
