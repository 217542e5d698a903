package sema

import (
	"testing"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/parser"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/types"
)

func parseAndAnalyze(t *testing.T, src string) (*ast.Program, *Analyzer) {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	a, err := Analyze(src, TopLevelBlock, prog)
	if err != nil {
		t.Fatalf("Analyze returned error: %v\nsrc: %s", err, src)
	}
	return prog, a
}

// ---------------------------------------------------------------------------
// Name resolution

func TestUndefinedIdentifierIsRejected(t *testing.T) {
	expectSemaError(t, "let x = y\n", rlerrors.ErrS001)
}

func TestUndefinedFieldIsRejected(t *testing.T) {
	src := "type Point: {x: sint32, y: sint32}\n" +
		"let p = Point{x: 1, y: 2}\n" +
		"let z = p.nope\n"
	expectSemaError(t, src, rlerrors.ErrS001)
}

// ---------------------------------------------------------------------------
// Overload resolution

func TestOverloadResolutionPicksFeasibleArity(t *testing.T) {
	src := "func f(a: sint32) sint32:\n" +
		"    return a\n" +
		"func f(a: sint32, b: sint32) sint32:\n" +
		"    return a + b\n" +
		"let x = f(1)\n"
	expectNoSemaError(t, src)
}

func TestOverloadResolutionNoMatch(t *testing.T) {
	src := "func f(a: sint32) sint32:\n" +
		"    return a\n" +
		"let x = f(true)\n"
	expectSemaError(t, src, rlerrors.ErrS001)
}

func TestOverloadResolutionAmbiguous(t *testing.T) {
	// A literal 1 fits both sint8 and uint8, and neither parameter type
	// widens into the other, so neither candidate is more specific.
	src := "func f(a: sint8) sint8:\n" +
		"    return a\n" +
		"func f(a: uint8) uint8:\n" +
		"    return a\n" +
		"let x = f(1)\n"
	expectSemaError(t, src, rlerrors.ErrS006)
}

func TestUndefinedFunctionCallIsRejected(t *testing.T) {
	expectSemaError(t, "let x = nope(1)\n", rlerrors.ErrS001)
}

// ---------------------------------------------------------------------------
// Infix named-function calls (spec.md §4.6 operator expansion)

func TestInfixCallResolvesTwoArgFunction(t *testing.T) {
	src := "func mod(a: sint32, b: sint32) sint32:\n" +
		"    return a\n" +
		"let x = 1 mod 2\n"
	expectNoSemaError(t, src)
}

func TestInfixCallRejectsWrongArity(t *testing.T) {
	// An infix call always supplies exactly two operands, so a one-param
	// "mod" never has an arity-feasible candidate to resolve to.
	src := "func mod(a: sint32) sint32:\n" +
		"    return a\n" +
		"let x = 1 mod 2\n"
	expectSemaError(t, src, rlerrors.ErrS001)
}

// ---------------------------------------------------------------------------
// Numeric-literal narrowing (spec.md §4.5): observable via TypeMap

func TestLiteralNarrowsTowardAtomicOperand(t *testing.T) {
	prog, a := parseAndAnalyze(t, "var sint32 x = 0\nlet y = x + 1\n")
	vd := prog.Statements[1].(*ast.VariableDeclaration)
	bin := vd.Value.(*ast.BinaryExpr)
	lit, ok := bin.Right.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected the literal operand to survive as an IntegerLiteral, got %T", bin.Right)
	}
	narrowed, ok := a.TypeMap[lit].(types.Atomic)
	if !ok {
		t.Fatalf("expected the literal's narrowed type to be Atomic, got %T", a.TypeMap[lit])
	}
	if narrowed.Kind != types.SInt32 {
		t.Fatalf("expected the literal to narrow to sint32, got %s", narrowed.Kind)
	}
}

// ---------------------------------------------------------------------------
// Implicit conversion insertion (spec.md §3 TypeConversion nodes)

func TestCoerceInsertsTypeConversionNode(t *testing.T) {
	src := "func f(a: fp64) fp64:\n" +
		"    return a\n" +
		"let x = f(1)\n"
	prog, _ := parseAndAnalyze(t, src)
	letStmt := prog.Statements[1].(*ast.VariableDeclaration)
	call := letStmt.Value.(*ast.FunctionCall)
	conv, ok := call.Args[0].(*ast.TypeConversion)
	if !ok {
		t.Fatalf("expected the literal argument to be wrapped in a TypeConversion, got %T", call.Args[0])
	}
	atomic, ok := conv.Target.(types.Atomic)
	if !ok || atomic.Kind != types.FP64 {
		t.Fatalf("expected the conversion target to be fp64, got %s", conv.Target)
	}
}

func TestCoerceLeavesExactTypeAlone(t *testing.T) {
	src := "func f(a: sint32) sint32:\n" +
		"    return a\n" +
		"var sint32 n = 1\n" +
		"let x = f(n)\n"
	prog, _ := parseAndAnalyze(t, src)
	letStmt := prog.Statements[2].(*ast.VariableDeclaration)
	call := letStmt.Value.(*ast.FunctionCall)
	if _, ok := call.Args[0].(*ast.TypeConversion); ok {
		t.Fatalf("expected an already-sint32 argument to pass through unwrapped")
	}
}

// ---------------------------------------------------------------------------
// Binary operator typing

func TestBitwiseRequiresIntegralOperands(t *testing.T) {
	expectSemaError(t, "let x = true & 1\n", rlerrors.ErrS003)
}

func TestConcatenateRequiresStringOperands(t *testing.T) {
	expectSemaError(t, "let x = 1 ~ \"a\"\n", rlerrors.ErrS003)
}

func TestConditionalExpressionRequiresBoolCondition(t *testing.T) {
	expectSemaError(t, "let x = 1 if 2 else 3\n", rlerrors.ErrS003)
}

func TestConditionalExpressionJoinsBranches(t *testing.T) {
	expectNoSemaError(t, "let x = 1 if true else 2\n")
}

// ---------------------------------------------------------------------------
// Composite literals

func TestBareCompositeUnlabeledInfersTuple(t *testing.T) {
	prog, a := parseAndAnalyze(t, "let x = {1, true}\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit := vd.Value.(*ast.CompositeLiteral)
	if _, ok := a.TypeMap[lit].(types.TupleType); !ok {
		t.Fatalf("expected an unlabeled composite literal to infer a tuple, got %T", a.TypeMap[lit])
	}
}

func TestBareCompositeNamedLabelsInfersStruct(t *testing.T) {
	prog, a := parseAndAnalyze(t, "let x = {a: 1, b: true}\n")
	vd := prog.Statements[0].(*ast.VariableDeclaration)
	lit := vd.Value.(*ast.CompositeLiteral)
	if _, ok := a.TypeMap[lit].(types.StructureType); !ok {
		t.Fatalf("expected named labels to infer a struct, got %T", a.TypeMap[lit])
	}
}

func TestInitializerChecksAgainstNamedStructFields(t *testing.T) {
	src := "type Point: {x: sint32, y: sint32}\n" +
		"let p = Point{x: 1, y: 2}\n"
	expectNoSemaError(t, src)
}

func TestInitializerRejectsUnknownField(t *testing.T) {
	src := "type Point: {x: sint32, y: sint32}\n" +
		"let p = Point{x: 1, z: 2}\n"
	expectSemaError(t, src, rlerrors.ErrS003)
}

// ---------------------------------------------------------------------------
// Cyclic type definitions (S007)

func TestDirectSelfReferentialTypeIsRejected(t *testing.T) {
	expectSemaError(t, "type A: A\n", rlerrors.ErrS007)
}

func TestNonCyclicTypeChainIsAccepted(t *testing.T) {
	expectNoSemaError(t, "type Meters: sint32\ntype Distance: Meters\n")
}
