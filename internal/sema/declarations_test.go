package sema

import (
	"testing"

	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/types"
)

// ---------------------------------------------------------------------------
// S002 — name redeclared in the same scope, vs. legal shadowing

func TestVariableCollisionSameDepth(t *testing.T) {
	expectSemaError(t, "let x = 1\nlet x = 2\n", rlerrors.ErrS002)
}

func TestVariableShadowingDeeperDepthIsLegal(t *testing.T) {
	expectNoSemaError(t, "let x = 1\nwhile true:\n    let x = 2\n")
}

func TestTypeDefinitionCollision(t *testing.T) {
	expectSemaError(t, "type Meters: sint32\ntype Meters: sint64\n", rlerrors.ErrS002)
}

// ---------------------------------------------------------------------------
// Declaration typing: declared type, bare var (widens literal), bare let
// (keeps literal type)

func TestDeclaredTypeMustAcceptValue(t *testing.T) {
	expectSemaError(t, "let sint32 x = true\n", rlerrors.ErrS003)
}

func TestVarWidensLiteralType(t *testing.T) {
	a := expectNoSemaError(t, "var x = 1\n")
	v, ok := a.Context().LookupVariable("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	atomic, ok := v.Type.(types.Atomic)
	if !ok {
		t.Fatalf("expected var x to widen to an Atomic type, got %T (%s)", v.Type, v.Type)
	}
	if atomic.Kind != types.SInt8 {
		t.Fatalf("expected smallest-fitting sint8 for literal 1, got %s", atomic.Kind)
	}
}

func TestLetKeepsLiteralType(t *testing.T) {
	a := expectNoSemaError(t, "let x = 1\n")
	v, ok := a.Context().LookupVariable("x")
	if !ok {
		t.Fatalf("expected x to be declared")
	}
	if _, ok := v.Type.(types.SIntLit); !ok {
		t.Fatalf("expected let x to keep its sintlit type, got %T (%s)", v.Type, v.Type)
	}
}

func TestVariableDeclarationNeedsTypeOrValue(t *testing.T) {
	expectSemaError(t, "var x\n", rlerrors.ErrS003)
}

// ---------------------------------------------------------------------------
// Assignment: mutability and type compatibility

func TestAssignToLetIsRejected(t *testing.T) {
	expectSemaErrorContains(t, "let x = 1\nx = 2\n", rlerrors.ErrS003, "let")
}

func TestAssignToVarIsLegal(t *testing.T) {
	expectNoSemaError(t, "var x = 1\nx = 2\n")
}

func TestAssignmentTypeMismatch(t *testing.T) {
	expectSemaError(t, "var sint32 x = 1\nx = true\n", rlerrors.ErrS003)
}
