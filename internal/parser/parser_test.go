package parser

import (
	"testing"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return prog
}

func TestParseSimpleLetDeclaration(t *testing.T) {
	prog := mustParse(t, "let x = 1 + 2\n")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", prog.Statements[0])
	}
	if decl.Kind != ast.Let || decl.Name != "x" || decl.Type != nil {
		t.Fatalf("unexpected decl shape: %+v", decl)
	}
	bin, ok := decl.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr value, got %T", decl.Value)
	}
	if bin.Op != "+" {
		t.Fatalf("expected + operator, got %q", bin.Op)
	}
}

func TestParseTypedVariableDeclaration(t *testing.T) {
	prog := mustParse(t, "let Counter c = 0\n")
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	ref, ok := decl.Type.(*ast.NamedTypeRef)
	if !ok {
		t.Fatalf("expected NamedTypeRef, got %T", decl.Type)
	}
	if ref.Name != "Counter" || decl.Name != "c" {
		t.Fatalf("unexpected typed decl: type=%q name=%q", ref.Name, decl.Name)
	}
}

func TestParseVarDeclarationWithoutType(t *testing.T) {
	prog := mustParse(t, "var total = 0\n")
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	if decl.Kind != ast.Var || decl.Type != nil || decl.Name != "total" {
		t.Fatalf("unexpected decl: %+v", decl)
	}
}

func TestParseIfElse(t *testing.T) {
	src := "if x > 0:\n    y = 1\nelse:\n    y = 2\n"
	prog := mustParse(t, src)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	cond, ok := prog.Statements[0].(*ast.ConditionalStatement)
	if !ok {
		t.Fatalf("expected ConditionalStatement, got %T", prog.Statements[0])
	}
	if len(cond.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(cond.Blocks))
	}
	if len(cond.Blocks[0].Statements) != 1 {
		t.Fatalf("expected 1 statement in if body, got %d", len(cond.Blocks[0].Statements))
	}
	if len(cond.FalseStatements) != 1 {
		t.Fatalf("expected 1 statement in else body, got %d", len(cond.FalseStatements))
	}
}

func TestParseIfElifElse(t *testing.T) {
	src := "if a:\n    x = 1\nif b:\n    x = 2\nelse:\n    x = 3\n"
	// two independent top-level if statements, NOT an elif chain, since
	// the second "if" is not preceded by a matching "else" keyword for
	// the first block — sanity check that two ifs at top level parse
	// as two separate statements.
	prog := mustParse(t, src)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 top-level statements, got %d", len(prog.Statements))
	}
}

func TestParseElifChain(t *testing.T) {
	src := "if a:\n    x = 1\nelse:\n    if b:\n        x = 2\n    else:\n        x = 3\n"
	prog := mustParse(t, src)
	cond := prog.Statements[0].(*ast.ConditionalStatement)
	if len(cond.FalseStatements) != 1 {
		t.Fatalf("expected else body with nested if, got %d statements", len(cond.FalseStatements))
	}
	if _, ok := cond.FalseStatements[0].(*ast.ConditionalStatement); !ok {
		t.Fatalf("expected nested ConditionalStatement in else body, got %T", cond.FalseStatements[0])
	}
}

func TestParseWhileLoop(t *testing.T) {
	src := "while x < 10:\n    x = x + 1\n"
	prog := mustParse(t, src)
	loop, ok := prog.Statements[0].(*ast.LoopStatement)
	if !ok {
		t.Fatalf("expected LoopStatement, got %T", prog.Statements[0])
	}
	if len(loop.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(loop.Body))
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	src := "func add(a: sint32, b: sint32) sint32:\n    return a + b\n"
	prog := mustParse(t, src)
	fn, ok := prog.Statements[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected FunctionDefinition, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if fn.ReturnType == nil {
		t.Fatal("expected a return type")
	}
	ret, ok := prog.Statements[0].(*ast.FunctionDefinition).Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected ReturnStatement body, got %T", fn.Body[0])
	}
	if ret.Value == nil {
		t.Fatal("expected a return value")
	}
}

func TestParseCompoundAssignmentBeforeExpansion(t *testing.T) {
	prog := mustParse(t, "x += 1\n")
	a, ok := prog.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", prog.Statements[0])
	}
	if a.Op != "+" {
		t.Fatalf("expected Op to be the base operator \"+\" pre-expansion, got %q", a.Op)
	}
}

func TestParseFieldAccessChain(t *testing.T) {
	prog := mustParse(t, "x = a.b.c\n")
	a := prog.Statements[0].(*ast.Assignment)
	outer, ok := a.Value.(*ast.FieldAccess)
	if !ok {
		t.Fatalf("expected FieldAccess, got %T", a.Value)
	}
	if outer.Name != "c" {
		t.Fatalf("expected outermost field \"c\", got %q", outer.Name)
	}
	inner, ok := outer.Value.(*ast.FieldAccess)
	if !ok {
		t.Fatalf("expected nested FieldAccess, got %T", outer.Value)
	}
	if inner.Name != "b" {
		t.Fatalf("expected inner field \"b\", got %q", inner.Name)
	}
}

// TestParseDigitDotIdentifierResplit exercises the quirk documented in
// internal/lexer: "t.1.field" lexes as Identifier Dot FloatLiteral("1.")
// Identifier, and the parser must re-split the float into an integer
// field label plus the start of the next field access.
func TestParseDigitDotIdentifierResplit(t *testing.T) {
	prog := mustParse(t, "x = t.1.field\n")
	a := prog.Statements[0].(*ast.Assignment)
	outer, ok := a.Value.(*ast.FieldAccess)
	if !ok {
		t.Fatalf("expected outer FieldAccess, got %T", a.Value)
	}
	if outer.Name != "field" {
		t.Fatalf("expected outer field \"field\", got %q", outer.Name)
	}
	inner, ok := outer.Value.(*ast.FieldAccess)
	if !ok {
		t.Fatalf("expected inner FieldAccess (tuple index), got %T", outer.Value)
	}
	if inner.Name != "1" {
		t.Fatalf("expected inner field label \"1\", got %q", inner.Name)
	}
	if _, ok := inner.Value.(*ast.Identifier); !ok {
		t.Fatalf("expected base identifier, got %T", inner.Value)
	}
}

func TestParseIndexAndCallChain(t *testing.T) {
	prog := mustParse(t, "x = arr[0](1, 2)\n")
	a := prog.Statements[0].(*ast.Assignment)
	call, ok := a.Value.(*ast.FunctionCall)
	if !ok {
		t.Fatalf("expected FunctionCall, got %T", a.Value)
	}
	if len(call.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(call.Args))
	}
	if _, ok := call.Callee.(*ast.IndexAccess); !ok {
		t.Fatalf("expected IndexAccess callee, got %T", call.Callee)
	}
}

func TestParseInitializer(t *testing.T) {
	prog := mustParse(t, "x = Point{x: 1, y: 2}\n")
	a := prog.Statements[0].(*ast.Assignment)
	init, ok := a.Value.(*ast.Initializer)
	if !ok {
		t.Fatalf("expected Initializer, got %T", a.Value)
	}
	ref := init.Type.(*ast.NamedTypeRef)
	if ref.Name != "Point" {
		t.Fatalf("expected type name Point, got %q", ref.Name)
	}
	if len(init.Literal.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(init.Literal.Elements))
	}
	if init.Literal.Elements[0].Label != "x" || init.Literal.Elements[1].Label != "y" {
		t.Fatalf("unexpected labels: %+v", init.Literal.Elements)
	}
}

func TestParseCompositeLiteralOtherLabel(t *testing.T) {
	prog := mustParse(t, "x = {0: 1, other: 2}\n")
	a := prog.Statements[0].(*ast.Assignment)
	lit, ok := a.Value.(*ast.CompositeLiteral)
	if !ok {
		t.Fatalf("expected bare CompositeLiteral, got %T", a.Value)
	}
	if lit.Elements[0].IndexLabel == nil || *lit.Elements[0].IndexLabel != 0 {
		t.Fatalf("expected index label 0, got %+v", lit.Elements[0])
	}
	if !lit.Elements[1].IsOther {
		t.Fatalf("expected second element labeled \"other\", got %+v", lit.Elements[1])
	}
}

func TestParseConditionalExpression(t *testing.T) {
	prog := mustParse(t, "x = 1 if cond else 2\n")
	a := prog.Statements[0].(*ast.Assignment)
	c, ok := a.Value.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected Conditional, got %T", a.Value)
	}
	if _, ok := c.Then.(*ast.IntegerLiteral); !ok {
		t.Fatalf("expected integer Then branch, got %T", c.Then)
	}
}

func TestParseCompareChainFolds(t *testing.T) {
	prog := mustParse(t, "x = 1 < 2 < 3\n")
	a := prog.Statements[0].(*ast.Assignment)
	chain, ok := a.Value.(*ast.CompareChain)
	if !ok {
		t.Fatalf("expected CompareChain, got %T", a.Value)
	}
	if len(chain.Comparisons) != 2 {
		t.Fatalf("expected 2 chained comparisons, got %d", len(chain.Comparisons))
	}
}

func TestParseExponentLeftAssociative(t *testing.T) {
	prog := mustParse(t, "x = 2 ** 3 ** 2\n")
	a := prog.Statements[0].(*ast.Assignment)
	outer, ok := a.Value.(*ast.BinaryExpr)
	if !ok || outer.Category != token.Exponent {
		t.Fatalf("expected outer BinaryExpr exponent, got %T", a.Value)
	}
	if _, ok := outer.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected left-associativity: left operand should be the nested exponent, got %T", outer.Left)
	}
}

func TestParseUnaryChain(t *testing.T) {
	prog := mustParse(t, "x = --1\n")
	a := prog.Statements[0].(*ast.Assignment)
	outer, ok := a.Value.(*ast.Sign)
	if !ok {
		t.Fatalf("expected Sign, got %T", a.Value)
	}
	if _, ok := outer.Operand.(*ast.Sign); !ok {
		t.Fatalf("expected nested Sign, got %T", outer.Operand)
	}
}

func TestParseContextFieldAccess(t *testing.T) {
	prog := mustParse(t, "x = .amount\n")
	a := prog.Statements[0].(*ast.Assignment)
	cfa, ok := a.Value.(*ast.ContextFieldAccess)
	if !ok {
		t.Fatalf("expected ContextFieldAccess, got %T", a.Value)
	}
	if cfa.Name != "amount" {
		t.Fatalf("expected field name \"amount\", got %q", cfa.Name)
	}
}

func TestParseInfixNamedCall(t *testing.T) {
	prog := mustParse(t, "x = a mod b\n")
	a := prog.Statements[0].(*ast.Assignment)
	inf, ok := a.Value.(*ast.Infix)
	if !ok {
		t.Fatalf("expected Infix, got %T", a.Value)
	}
	if inf.FuncName != "mod" {
		t.Fatalf("expected func name \"mod\", got %q", inf.FuncName)
	}
}

func TestParseArrayAndTupleTypeExprs(t *testing.T) {
	prog := mustParse(t, "func f(a: [sint32], b: [sint32,3], c: (sint32,string)) :\n    return\n")
	fn := prog.Statements[0].(*ast.FunctionDefinition)
	arr := fn.Params[0].Type.(*ast.ArrayTypeRef)
	if arr.Size != nil {
		t.Fatalf("expected unsized array, got size %v", *arr.Size)
	}
	fixed := fn.Params[1].Type.(*ast.ArrayTypeRef)
	if fixed.Size == nil || *fixed.Size != 3 {
		t.Fatalf("expected fixed array size 3, got %v", fixed.Size)
	}
	tup := fn.Params[2].Type.(*ast.TupleTypeRef)
	if len(tup.Members) != 2 {
		t.Fatalf("expected 2 tuple members, got %d", len(tup.Members))
	}
}

func TestParseMixedIndentationIsRejected(t *testing.T) {
	src := "if true:\n    x = 1\n\tx = 2\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a mixed-indentation parse error")
	}
	se, ok := err.(*rlerrors.SourceException)
	if !ok {
		t.Fatalf("expected *rlerrors.SourceException, got %T", err)
	}
	if se.Code != rlerrors.ErrP002 {
		t.Fatalf("expected error code P002, got %s", se.Code)
	}
}

func TestParseEmptyBlockIsRejected(t *testing.T) {
	src := "if true:\nx = 1\n"
	_, err := Parse(src)
	if err == nil {
		t.Fatal("expected a not-enough-indentation parse error for an empty if body")
	}
	se, ok := err.(*rlerrors.SourceException)
	if !ok {
		t.Fatalf("expected *rlerrors.SourceException, got %T", err)
	}
	if se.Code != rlerrors.ErrP003 {
		t.Fatalf("expected error code P003, got %s", se.Code)
	}
}

func TestParseDedentReturnsToOuterBlock(t *testing.T) {
	src := "if a:\n    if b:\n        x = 1\n    y = 2\nz = 3\n"
	prog := mustParse(t, src)
	outer := prog.Statements[0].(*ast.ConditionalStatement)
	if len(outer.Blocks[0].Statements) != 2 {
		t.Fatalf("expected 2 statements in outer if body (nested if + y=2), got %d", len(outer.Blocks[0].Statements))
	}
	if _, ok := outer.Blocks[0].Statements[0].(*ast.ConditionalStatement); !ok {
		t.Fatalf("expected nested ConditionalStatement first, got %T", outer.Blocks[0].Statements[0])
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected top-level z=3 after the whole if, got %d top-level statements", len(prog.Statements))
	}
}

func TestParseBreakContinueWithLabel(t *testing.T) {
	src := "while true:\n    break outer\n"
	prog := mustParse(t, src)
	loop := prog.Statements[0].(*ast.LoopStatement)
	brk, ok := loop.Body[0].(*ast.BreakStatement)
	if !ok {
		t.Fatalf("expected BreakStatement, got %T", loop.Body[0])
	}
	if brk.Label != "outer" {
		t.Fatalf("expected label \"outer\", got %q", brk.Label)
	}
}

func TestParseTypeDefinition(t *testing.T) {
	prog := mustParse(t, "type Meters: sint32\n")
	def, ok := prog.Statements[0].(*ast.TypeDefinition)
	if !ok {
		t.Fatalf("expected TypeDefinition, got %T", prog.Statements[0])
	}
	if def.Name != "Meters" {
		t.Fatalf("expected name Meters, got %q", def.Name)
	}
}
