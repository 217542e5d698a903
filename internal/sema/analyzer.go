package sema

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/types"
)

// Analyzer is the single-pass semantic analyzer of spec.md §4.6. It holds
// the live Context (scope stack) plus the TypeMap side table that records
// every expression node's resolved type — the same "store types out of
// band, keyed by AST node pointer" idiom the teacher's
// internal/analyzer.Analyzer uses (its own TypeMap field), rather than
// building a second, parallel typed tree.
type Analyzer struct {
	ctx      *Context
	source   string
	TypeMap  map[ast.Node]types.Type
	typeDefs map[string]ast.TypeExpr // syntactic type definitions, keyed by name, for cycle checks

	// CallTarget and InfixTarget record which overload a FunctionCall/Infix
	// node resolved to, and FuncSignature records a FunctionDefinition's own
	// resolved parameter/return types — internal/eval needs these to
	// dispatch calls without re-deriving types.Type from syntactic TypeExprs
	// at runtime (param/return TypeExprs reference user type definitions
	// that only this pass's Context knows how to resolve).
	CallTarget    map[*ast.FunctionCall]*Function
	InfixTarget   map[*ast.Infix]*Function
	FuncSignature map[*ast.FunctionDefinition]*Function

	// TypeCompareTarget records the resolved types.Type of a CompareChain's
	// trailing type-compare clause (`e :: T`), for the same reason
	// CallTarget does: T is a syntactic TypeExpr that only this pass's
	// Context can resolve against user type definitions.
	TypeCompareTarget map[*ast.CompareChain]types.Type

	// VarDeclType records a VariableDeclaration's final resolved type —
	// needed by internal/eval for the value-less `var T x` form, since
	// TypeMap only ever keys expression nodes (see inferExpr), not
	// statements.
	VarDeclType map[*ast.VariableDeclaration]types.Type
}

// New creates an Analyzer over a fresh Context rooted at rootKind — use
// sema.TopLevelBlock for a compiled rule, sema.ShellBlock for the
// shell's persistent top-level scope (spec.md §6).
func New(source string, rootKind BlockKind) *Analyzer {
	return &Analyzer{
		ctx:           NewContext(rootKind),
		source:        source,
		TypeMap:       make(map[ast.Node]types.Type),
		typeDefs:      make(map[string]ast.TypeExpr),
		CallTarget:        make(map[*ast.FunctionCall]*Function),
		InfixTarget:       make(map[*ast.Infix]*Function),
		FuncSignature:     make(map[*ast.FunctionDefinition]*Function),
		TypeCompareTarget: make(map[*ast.CompareChain]types.Type),
		VarDeclType:       make(map[*ast.VariableDeclaration]types.Type),
	}
}

// Context exposes the analyzer's live scope stack, so callers like
// internal/shell can keep reusing the same top-level block across
// successive REPL submissions (spec.md §6: the shell's bindings persist
// between lines).
func (a *Analyzer) Context() *Context { return a.ctx }

// Analyze runs the full semantic pass over prog: name resolution, type
// checking and inference, flow-sensitive validation, then literal
// reduction. Any SourceException raised is returned as err instead of
// propagated as a panic; an rlerrors.Internal assertion failure is not
// recovered and crashes the process, per spec.md §7.
func Analyze(source string, rootKind BlockKind, prog *ast.Program) (a *Analyzer, err error) {
	a = New(source, rootKind)
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
	a.analyzeStatements(prog.Statements)
	a.ReduceLiterals(prog)
	return a, nil
}

// AnalyzeMore runs the same statements/reduce pass as Analyze over one
// additional chunk of already-parsed-and-expanded statements, against
// this Analyzer's existing Context — the shell's per-submission entry
// point (spec.md §6: bindings and type definitions accumulate across
// submissions instead of starting over each time). source replaces the
// Analyzer's source text so a subsequent runtime error's caret diagnostic
// points at the chunk that caused it, not the first one ever submitted.
func (a *Analyzer) AnalyzeMore(source string, stmts []ast.Statement) (err error) {
	a.source = source
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
	a.analyzeStatements(stmts)
	a.reduceStatements(stmts)
	return nil
}

// AnalyzeExpression resolves and reduces one bare expression against this
// Analyzer's existing Context, returning its static type — the shell's
// expression-mode entry point (spec.md §6: a line beginning with 0x01
// toggles expression mode, printing the evaluated value instead of just
// the stack's used size).
func (a *Analyzer) AnalyzeExpression(source string, expr ast.Expression) (reduced ast.Expression, t types.Type, err error) {
	a.source = source
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
	t = a.inferExpr(expr)
	reduced = a.reduceExpr(expr)
	return reduced, t, nil
}
