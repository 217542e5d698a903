package sema

import (
	"testing"

	"github.com/michael-golfi/rules/internal/ast"
)

func TestReduceFoldsIntegerArithmetic(t *testing.T) {
	prog, _ := parseAndAnalyze(t, "let x = 2 + 3 * 4\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := vd.Value.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected the constant expression to fold to a literal, got %T", vd.Value)
	}
	if lit.Value != 14 {
		t.Fatalf("expected 2 + 3*4 == 14, got %d", lit.Value)
	}
}

func TestReduceFoldsStringConcatenation(t *testing.T) {
	prog, _ := parseAndAnalyze(t, "let x = \"foo\" ~ \"bar\"\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := vd.Value.(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected the concatenation to fold to a string literal, got %T", vd.Value)
	}
	if lit.Value != "foobar" {
		t.Fatalf("expected %q, got %q", "foobar", lit.Value)
	}
}

func TestReduceFoldsBooleanExpression(t *testing.T) {
	prog, _ := parseAndAnalyze(t, "let x = true && false\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := vd.Value.(*ast.BooleanLiteral)
	if !ok {
		t.Fatalf("expected the boolean expression to fold to a literal, got %T", vd.Value)
	}
	if lit.Value != false {
		t.Fatalf("expected true && false == false, got %v", lit.Value)
	}
}

func TestReduceCollapsesLiteralConditional(t *testing.T) {
	prog, _ := parseAndAnalyze(t, "let x = 1 if true else 2\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit, ok := vd.Value.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected the conditional to collapse to its then-branch, got %T", vd.Value)
	}
	if lit.Value != 1 {
		t.Fatalf("expected the literal-true conditional to collapse to 1, got %d", lit.Value)
	}
}

func TestReduceLeavesNonConstantExpressionAlone(t *testing.T) {
	src := "var sint32 n = 0\nlet x = n + 1\n"
	prog, _ := parseAndAnalyze(t, src)
	vd := prog.Statements[1].(*ast.VariableDeclaration)
	if _, ok := vd.Value.(*ast.IntegerLiteral); ok {
		t.Fatalf("expected a variable-involving expression not to fold to a literal")
	}
	if _, ok := vd.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected the BinaryExpr to survive unreduced, got %T", vd.Value)
	}
}
