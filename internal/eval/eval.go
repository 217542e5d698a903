package eval

import (
	"fmt"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/runtime"
	"github.com/michael-golfi/rules/internal/sema"
	"github.com/michael-golfi/rules/internal/types"
)

// Evaluator walks a sema-analyzed ast.Program and executes it against
// internal/runtime's stack and heap (spec.md §4.7). One Evaluator is
// scoped to a single rule evaluation; its heap and stack are discarded
// afterward (spec.md §5 "each runRule invocation starts with an empty
// heap, no cross-rule retention").
type Evaluator struct {
	source string
	sem    *sema.Analyzer

	table *runtime.Table
	stack *runtime.Stack
	heap  *runtime.Heap

	top *frame

	// context holds the dynamically-typed rule-input fields a
	// ContextFieldAccess (`.name`) resolves against (spec.md §3:
	// ContextFieldAccess is "always AnyType, resolved dynamically at
	// runtime"). Missing fields evaluate to null rather than erroring, so
	// a rule can probe optional input shape with a null check.
	context map[string]Value
}

// New constructs an Evaluator sharing the given process-wide TypeIdentity
// table, so identities interned during a prior compile/run are reused —
// nil allocates a fresh one. A shell reuses one Evaluator across
// submissions (internal/shell); a rule run gets its own per call
// (internal/rule.RunRule).
func New(table *runtime.Table) *Evaluator {
	if table == nil {
		table = runtime.NewTable()
	}
	return &Evaluator{
		table:   table,
		stack:   runtime.NewStack(256),
		heap:    runtime.NewHeap(table),
		top:     newFrame(nil),
		context: make(map[string]Value),
	}
}

// SetContext installs the dynamically-typed input fields a
// ContextFieldAccess resolves against for this evaluation.
func (e *Evaluator) SetContext(fields map[string]Value) {
	e.context = fields
}

// StackUsedSize reports the value stack's current used byte size, printed
// by the shell after each statement-mode submission (spec.md §6).
func (e *Evaluator) StackUsedSize() int { return e.stack.UsedSize() }

// Run evaluates an entire sema-analyzed program's top-level statements in
// order, mirroring sema.Analyze's defer/recover shape: a runtime failure
// (divide-by-zero, null reference, index out of bounds, internal
// assertion) panics with *rlerrors.SourceException and is caught here,
// returned as a plain error. A bare top-level RETURN is rejected by
// sema (there's no enclosing function at the top level), so the
// returned Flow is always Action == Proceed for any program that made
// it through analysis; it's returned anyway for symmetry with
// EvalStatements. A rule's output comes from invoking its declared
// entry-point function after Run populates the top-level frame — see
// internal/rule.RunRule.
func Run(source string, analyzed *sema.Analyzer, table *runtime.Table, prog *ast.Program) (ev *Evaluator, flow Flow, err error) {
	ev = New(table)
	ev.source = source
	ev.sem = analyzed
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
	for _, s := range prog.Statements {
		flow = ev.evalStatement(s)
		if flow.Action == Return {
			break
		}
	}
	return ev, flow, nil
}

// EvalStatements runs one slice of already-parsed-and-analyzed statements
// against an existing Evaluator's live frame and heap — the shell's
// per-submission entry point (spec.md §6: the REPL's scope persists
// across submissions, unlike a one-shot rule run via Run).
func (e *Evaluator) EvalStatements(source string, analyzed *sema.Analyzer, stmts []ast.Statement) (flow Flow, err error) {
	e.source = source
	e.sem = analyzed
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
	for _, s := range stmts {
		flow = e.evalStatement(s)
		if flow.Action == Return {
			break
		}
	}
	return flow, nil
}

// EvalExpression evaluates a single already-analyzed expression against
// the live frame — the shell's expression-mode entry point (spec.md §6: a
// line beginning with 0x01 toggles expression mode).
func (e *Evaluator) EvalExpression(source string, analyzed *sema.Analyzer, expr ast.Expression) (v Value, err error) {
	e.source = source
	e.sem = analyzed
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
	return e.evalExpr(expr), nil
}

func (e *Evaluator) typeOf(expr ast.Expression) types.Type {
	t, ok := e.sem.TypeMap[expr]
	if !ok {
		rlerrors.Internal("eval: no resolved type recorded for %T", expr)
	}
	return t
}

func (e *Evaluator) runtimeError(code rlerrors.Code, span rlerrors.Span, offender, format string, args ...interface{}) {
	panic(rlerrors.New(code, e.source, span, fmt.Sprintf(format, args...), offender))
}

// push/pushFrame/popFrame helpers used by stmt.go and expr.go's block
// handling.
func (e *Evaluator) pushFrame() { e.top = newFrame(e.top) }
func (e *Evaluator) popFrame()  { e.top = e.top.parent }
