// Package expander implements the operator expander (spec.md §4.4):
// rewriting compound assignment `a op= b` into `a = a op b` on the
// syntactic tree, in place, before semantic analysis sees it.
//
// The teacher has no direct analogue (funxy's assignment desugaring lives
// inside its analyzer), so this pass is grounded on spec.md's own
// description of the rewrite plus the general "one pass, tree walk,
// mutate in place" shape the teacher uses for its other tree-rewriting
// passes (internal/analyzer/statements.go's per-statement dispatch).
package expander

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/token"
)

// baseOpCategory maps a compound assignment's base operator lexeme to the
// binary operator class it expands into (see lexer/symbols.go's baseOp
// column for the full compound-assignment table).
var baseOpCategory = map[string]token.Kind{
	"**":  token.Exponent,
	"*":   token.Multiplicative,
	"/":   token.Multiplicative,
	"%":   token.Multiplicative,
	"+":   token.Additive,
	"-":   token.Additive,
	"<<":  token.Shift,
	">>":  token.Shift,
	">>>": token.Shift,
	"&&":  token.LogicalAnd,
	"^^":  token.LogicalXor,
	"||":  token.LogicalOr,
	"&":   token.BitwiseAnd,
	"^":   token.BitwiseXor,
	"|":   token.BitwiseOr,
	"~":   token.Concatenate,
}

// Expand rewrites every compound assignment in prog in place. It is
// idempotent: an Assignment whose Op is already "=" is left untouched, so
// a second call is a no-op (spec.md §8 "expandOperators is idempotent").
func Expand(prog *ast.Program) {
	expandStatements(prog.Statements)
}

func expandStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		expandStatement(s)
	}
}

func expandStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.Assignment:
		expandAssignment(st)
	case *ast.ConditionalStatement:
		for i := range st.Blocks {
			expandStatements(st.Blocks[i].Statements)
		}
		expandStatements(st.FalseStatements)
	case *ast.LoopStatement:
		expandStatements(st.Body)
	case *ast.FunctionDefinition:
		expandStatements(st.Body)
	}
}

// expandAssignment turns `target op= value` into `target = (target op
// value)`. The new BinaryExpr starts at the assignment operator's start
// offset (spec.md §4.4) and ends where the value ends.
func expandAssignment(a *ast.Assignment) {
	category, isCompound := baseOpCategory[a.Op]
	if !isCompound {
		return
	}
	value := a.Value
	bin := &ast.BinaryExpr{
		Category: category,
		Op:       a.Op,
		BaseOp:   a.Op,
		Left:     a.Target,
		Right:    value,
	}
	// span's fields (Start/End) are promoted and exported even though the
	// embedded type itself is unexported.
	bin.Start = a.OpSpan.Start
	bin.End = value.Span().End
	a.Value = bin
	a.Op = "="
}
