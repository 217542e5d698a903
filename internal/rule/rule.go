// Package rule implements spec.md §6's rule-function interface: compiling
// a RulesLang source file into a form a host program can query ("what
// input shape does this expect") and drive ("run it against this JSON,
// get back a JSON value or null").
//
// RulesLang's grammar has no bare top-level expression statement and
// sema.Context.EnclosingFunction never matches at the top level (see
// internal/sema/context_test.go's TestEnclosingFunctionWalksOutward), so
// a program cannot produce its output with a trailing top-level `return`.
// Instead a rule source declares exactly one single-parameter top-level
// function named apply; that function's return value is the rule's
// output (DESIGN.md "Rule entry point decision"). The teacher has no
// direct analogue to this — funxy's own entry point is `cmd/funxy/main.go`
// running a whole program for its side effects, not evaluating it for a
// single return value — so this package's shape is dictated by spec.md
// §6 directly, following internal/eval/internal/sema's existing
// parse/expand/analyze pipeline idiom.
package rule

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/eval"
	"github.com/michael-golfi/rules/internal/expander"
	"github.com/michael-golfi/rules/internal/parser"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/sema"
	"github.com/michael-golfi/rules/internal/types"
)

// entryPointName is the conventionally-required name of a rule's output
// function (DESIGN.md "Rule entry point decision").
const entryPointName = "apply"

// CompiledRule is a parsed, semantically analyzed RulesLang source ready
// to run repeatedly against different inputs. ID distinguishes compiled
// rules in a host process that holds several at once (a shell's `:rule`
// listing, SPEC_FULL.md §5.2).
type CompiledRule struct {
	ID     uuid.UUID
	source string
	prog   *ast.Program
	sem    *sema.Analyzer
	entry  *sema.Function
}

// Compile parses, expands, and analyzes source, then locates its
// required apply entry point. Any parse or semantic error is returned
// verbatim (a *rlerrors.SourceException, per spec.md §6's error format);
// a missing or ill-shaped apply function is reported as a plain error
// since it's a violation of this package's host contract, not a
// RulesLang-level diagnostic with a source span.
func Compile(source string) (*CompiledRule, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	expander.Expand(prog)
	analyzed, err := sema.Analyze(source, sema.TopLevelBlock, prog)
	if err != nil {
		return nil, err
	}
	entry, err := findEntryPoint(analyzed)
	if err != nil {
		return nil, err
	}
	return &CompiledRule{
		ID:     uuid.New(),
		source: source,
		prog:   prog,
		sem:    analyzed,
		entry:  entry,
	}, nil
}

func findEntryPoint(analyzed *sema.Analyzer) (*sema.Function, error) {
	overloads, ok := analyzed.Context().LookupFunctions(entryPointName)
	if !ok || len(overloads) == 0 {
		return nil, fmt.Errorf("rule: no top-level %q function declared", entryPointName)
	}
	if len(overloads) > 1 {
		return nil, fmt.Errorf("rule: %q must not be overloaded, found %d declarations", entryPointName, len(overloads))
	}
	fn := overloads[0]
	if len(fn.Params) != 1 {
		return nil, fmt.Errorf("rule: %q must take exactly one parameter, found %d", entryPointName, len(fn.Params))
	}
	if fn.Return == nil {
		return nil, fmt.Errorf("rule: %q must declare a return type", entryPointName)
	}
	return fn, nil
}

// InputType is the static type apply's sole parameter declares — the
// shape runRule's input JSON must conform to.
func (r *CompiledRule) InputType() types.Type { return r.entry.Params[0] }

// InputDescriptor renders InputType as the host-facing descriptor string
// of SPEC_FULL.md §5.1.
func (r *CompiledRule) InputDescriptor() string { return types.Descriptor(r.InputType()) }

// RunRule implements spec.md §6's "runRule(inputJSON) returns either a
// JSON value (applicability success) or null (not applicable)". Each
// call gets its own Evaluator, so its heap is discarded afterward (spec.md
// §5: "each runRule invocation starts with an empty heap, no cross-rule
// retention") — a CompiledRule is reusable across calls, an Evaluator is
// not.
func (r *CompiledRule) RunRule(inputJSON string) (string, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(inputJSON), &raw); err != nil {
		return "", fmt.Errorf("rule: invalid input JSON: %w", err)
	}

	ev, _, err := eval.Run(r.source, r.sem, nil, r.prog)
	if err != nil {
		return "", err
	}

	arg, err := ev.DecodeJSON(raw, r.InputType())
	if err != nil {
		return "", fmt.Errorf("rule: input does not match %s: %w", r.InputDescriptor(), err)
	}

	result, err := invoke(ev, r.entry, arg)
	if err != nil {
		return "", err
	}
	if result.IsNull() {
		return "null", nil
	}

	encoded, err := ev.EncodeJSON(result)
	if err != nil {
		return "", fmt.Errorf("rule: output: %w", err)
	}
	out, err := json.Marshal(encoded)
	if err != nil {
		return "", fmt.Errorf("rule: marshaling output: %w", err)
	}
	return string(out), nil
}

// invoke recovers the *rlerrors.SourceException an out-of-bounds,
// divide-by-zero, or null-reference failure inside apply panics with,
// mirroring eval.Run's own defer/recover shape one level up — apply runs
// outside Run's loop since it's dispatched by name, not by statement
// position.
func invoke(ev *eval.Evaluator, fn *sema.Function, arg eval.Value) (result eval.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*rlerrors.SourceException); ok {
				err = se
				return
			}
			if ne, ok := r.(*rlerrors.NotImplementedError); ok {
				err = ne
				return
			}
			panic(r)
		}
	}()
	result = ev.InvokeWithValues(fn, []eval.Value{arg})
	return result, nil
}
