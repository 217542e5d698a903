// Package shell implements spec.md §6's interactive REPL: a loop that
// reads one submission at a time, runs it through the same
// parse→expand→analyze→evaluate pipeline as a compiled rule, and prints
// either the statement-mode stack-used-size or, in expression mode, the
// evaluated value's type and value.
//
// The teacher has no REPL of its own (funxy's cmd/funxy/main.go drives a
// file or a compiled bytecode blob, never an interactive line loop), so
// this package's shape is dictated by spec.md §6 directly. It reuses
// go-isatty the way the teacher's internal/evaluator/builtins_term.go
// does — gating interactive decoration (the `> `/`>>> ` prompt) on
// whether output is actually attached to a terminal, not on every piped
// or scripted invocation.
package shell

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/michael-golfi/rules/internal/eval"
	"github.com/michael-golfi/rules/internal/expander"
	"github.com/michael-golfi/rules/internal/parser"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/rule"
	"github.com/michael-golfi/rules/internal/sema"
)

const (
	statementPrompt  = "> "
	expressionPrompt = ">>> "
	// exprModeByte is spec.md §6 / §9's leading control byte that toggles
	// a single submission into expression mode.
	exprModeByte = 0x01
)

// Shell is a persistent RulesLang REPL session (spec.md §6: "no persisted
// state" refers to disk/process state between separate shell invocations,
// not to bindings within one running session — those accumulate across
// submissions until the session ends or :reset clears them).
type Shell struct {
	out         io.Writer
	interactive bool

	analyzer *sema.Analyzer
	ev       *eval.Evaluator

	// source accumulates every successfully-applied chunk's raw text, in
	// submission order, so :rule (SPEC_FULL.md §5.2) can hand the whole
	// session so far to rule.Compile to locate its apply function.
	source strings.Builder
}

// New starts a fresh shell session writing to out. isTerminal decides
// whether prompts are printed at all — a piped or redirected session
// still processes every submission and prints every result line, it just
// skips the decorative prompt a human isn't there to read.
func New(out io.Writer, isTerminal bool) *Shell {
	return &Shell{
		out:         out,
		interactive: isTerminal,
		analyzer:    sema.New("", sema.ShellBlock),
		ev:          eval.New(nil),
	}
}

// Stdin returns whether os.Stdin is attached to a real terminal, the way
// the teacher's detectColorLevel gates color output — shared here so
// pkg/cli doesn't need its own go-isatty import.
func Stdin() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run drives the REPL loop over in until EOF, returning nil on a clean
// end of input. A submission-level error (a bad parse, a failed analysis,
// a runtime SourceException or NotImplementedError) is printed and the
// loop continues, per spec.md §7's "each shell submission catches...and
// continues"; nothing here ever calls os.Exit — that's pkg/cli's job.
func (s *Shell) Run(in io.Reader) error {
	r := bufio.NewReader(in)
	for {
		exprMode, lines, err := s.readSubmission(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if lines == nil {
			continue // blank submission, or a handled meta-command
		}
		chunk := strings.Join(lines, "\n")
		if exprMode {
			s.runExpression(chunk)
		} else {
			s.runStatements(chunk)
		}
	}
}

// readSubmission reads one prompt's worth of input: a meta-command line,
// a single expression-mode line, or a statement-mode chunk: when the
// first line (trailing whitespace stripped) ends with ':', it keeps
// reading lines until a blank line or end of input, without checking the
// later lines' endings. Returns
// lines == nil with a nil error for a blank or meta-command submission
// that needs no further pipeline processing.
func (s *Shell) readSubmission(r *bufio.Reader) (exprMode bool, lines []string, err error) {
	s.printPrompt(statementPrompt)
	first, err := readLine(r)
	if err != nil {
		return false, nil, err
	}

	if len(first) > 0 && first[0] == exprModeByte {
		return true, []string{first[1:]}, nil
	}

	trimmed := strings.TrimSpace(first)
	if strings.HasPrefix(trimmed, ":") {
		s.runMetaCommand(trimmed)
		return false, nil, nil
	}
	if trimmed == "" {
		return false, nil, nil
	}

	lines = []string{first}
	if strings.HasSuffix(strings.TrimRight(first, " \t"), ":") {
		for {
			s.printPrompt(statementPrompt)
			next, err := readLine(r)
			if err == io.EOF {
				break
			}
			if err != nil {
				return false, nil, err
			}
			if strings.TrimSpace(next) == "" {
				break
			}
			lines = append(lines, next)
		}
	}
	return false, lines, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && err == io.EOF {
		return "", io.EOF
	}
	return line, nil
}

func (s *Shell) printPrompt(p string) {
	if s.interactive {
		fmt.Fprint(s.out, p)
	}
}

// runStatements pushes one statement-mode chunk through the same
// pipeline a compiled rule's source goes through, against this session's
// persistent Analyzer/Evaluator, then prints the stack's used byte size
// (spec.md §6).
func (s *Shell) runStatements(chunk string) {
	prog, err := parser.Parse(chunk)
	if err != nil {
		s.reportError(err)
		return
	}
	expander.Expand(prog)
	if err := s.analyzer.AnalyzeMore(chunk, prog.Statements); err != nil {
		s.reportError(err)
		return
	}
	if _, err := s.ev.EvalStatements(chunk, s.analyzer, prog.Statements); err != nil {
		s.reportError(err)
		return
	}
	s.source.WriteString(chunk)
	s.source.WriteByte('\n')
	fmt.Fprintf(s.out, "%d\n", s.ev.StackUsedSize())
}

// runExpression implements the 0x01-prefixed expression mode (spec.md §8
// example: `1 + 2` prints `type: sint64` / `value: 3`).
func (s *Shell) runExpression(line string) {
	s.printPrompt(expressionPrompt)
	expr, err := parser.ParseExpression(line)
	if err != nil {
		s.reportError(err)
		return
	}
	reduced, t, err := s.analyzer.AnalyzeExpression(line, expr)
	if err != nil {
		s.reportError(err)
		return
	}
	v, err := s.ev.EvalExpression(line, s.analyzer, reduced)
	if err != nil {
		s.reportError(err)
		return
	}
	encoded, encErr := s.ev.EncodeJSON(v)
	if encErr != nil {
		s.reportError(encErr)
		return
	}
	rendered, _ := json.Marshal(encoded)
	fmt.Fprintf(s.out, "type: %s\n", t)
	fmt.Fprintf(s.out, "value: %s\n", rendered)
	fmt.Fprintf(s.out, "%d\n", s.ev.StackUsedSize())
}

// runMetaCommand handles the shell-ergonomics commands of SPEC_FULL.md
// §5.2 — not RulesLang language features, so they bypass the usual
// parse/analyze/eval pipeline entirely.
func (s *Shell) runMetaCommand(cmd string) {
	switch cmd {
	case ":rule":
		s.printRuleInfo()
	case ":reset":
		s.reset()
	default:
		fmt.Fprintf(s.out, "unknown command %q\n", cmd)
	}
}

// printRuleInfo compiles the session's accumulated source as a rule and
// prints its input descriptor and identity, so a shell user iterating on
// a rule body can check it's still a valid apply function without
// leaving the REPL.
func (s *Shell) printRuleInfo() {
	r, err := rule.Compile(s.source.String())
	if err != nil {
		fmt.Fprintf(s.out, "not a rule: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "input: %s\n", r.InputDescriptor())
	fmt.Fprintf(s.out, "id: %s\n", r.ID)
}

// reset clears every binding accumulated this session, starting the
// shell over as if freshly launched (SPEC_FULL.md §5.2).
func (s *Shell) reset() {
	s.analyzer = sema.New("", sema.ShellBlock)
	s.ev = eval.New(nil)
	s.source.Reset()
}

// reportError prints a submission's failure in the exact format spec.md
// §6 requires: a *rlerrors.SourceException renders its own caret
// diagnostic via Error(); anything else (a *rlerrors.NotImplementedError,
// or a plain error from outside the RulesLang pipeline) prints its
// message as-is.
func (s *Shell) reportError(err error) {
	if se, ok := err.(*rlerrors.SourceException); ok {
		fmt.Fprintln(s.out, se.Error())
		return
	}
	fmt.Fprintln(s.out, err.Error())
}
