package expander

import (
	"testing"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
)

func plusAssign() *ast.Assignment {
	return &ast.Assignment{
		Target: &ast.Identifier{Name: "x"},
		Op:     "+",
		OpSpan: rlerrors.Span{Start: 10, End: 11},
		Value:  &ast.IntegerLiteral{Value: 5},
	}
}

func TestExpandRewritesCompoundAssignment(t *testing.T) {
	a := plusAssign()
	prog := &ast.Program{Statements: []ast.Statement{a}}
	Expand(prog)

	if a.Op != "=" {
		t.Fatalf("expected Op to become \"=\", got %q", a.Op)
	}
	bin, ok := a.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected value to become a BinaryExpr, got %T", a.Value)
	}
	if bin.Left != ast.Expression(a.Target) {
		t.Fatal("expected the binary's left operand to be the original target")
	}
	if _, ok := bin.Right.(*ast.IntegerLiteral); !ok {
		t.Fatalf("expected the binary's right operand to be the original value, got %T", bin.Right)
	}
	if bin.Op != "+" {
		t.Fatalf("expected base op +, got %q", bin.Op)
	}
}

func TestExpandAdoptsAssignmentOperatorStart(t *testing.T) {
	a := plusAssign()
	Expand(&ast.Program{Statements: []ast.Statement{a}})
	bin := a.Value.(*ast.BinaryExpr)
	if bin.Span().Start != 10 {
		t.Fatalf("expected binary span to start at the assignment operator's offset 10, got %d", bin.Span().Start)
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	a := plusAssign()
	prog := &ast.Program{Statements: []ast.Statement{a}}
	Expand(prog)
	first := a.Value
	Expand(prog)
	if a.Value != first {
		t.Fatal("second Expand call should be a no-op once Op is \"=\"")
	}
}

func TestExpandLeavesPlainAssignmentAlone(t *testing.T) {
	a := &ast.Assignment{Target: &ast.Identifier{Name: "x"}, Op: "=", Value: &ast.IntegerLiteral{Value: 1}}
	Expand(&ast.Program{Statements: []ast.Statement{a}})
	if _, ok := a.Value.(*ast.BinaryExpr); ok {
		t.Fatal("plain assignment should not be rewritten into a binary expression")
	}
}

func TestExpandRecursesIntoNestedBlocks(t *testing.T) {
	inner := plusAssign()
	loop := &ast.LoopStatement{Condition: &ast.BooleanLiteral{Value: true}, Body: []ast.Statement{inner}}
	Expand(&ast.Program{Statements: []ast.Statement{loop}})
	if inner.Op != "=" {
		t.Fatal("expected expansion to recurse into loop bodies")
	}
}
