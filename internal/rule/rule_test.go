package rule

import (
	"strings"
	"testing"
)

func compile(t *testing.T, src string) *CompiledRule {
	t.Helper()
	r, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", src, err)
	}
	return r
}

func TestCompileRejectsMissingEntryPoint(t *testing.T) {
	_, err := Compile("let sint32 x = 1\n")
	if err == nil {
		t.Fatalf("expected an error for a source with no apply function")
	}
	if !strings.Contains(err.Error(), "apply") {
		t.Fatalf("error %v does not mention the missing apply function", err)
	}
}

func TestCompileRejectsWrongArity(t *testing.T) {
	src := "func apply(a: sint32, b: sint32) sint32:\n" +
		"    return a + b\n"
	_, err := Compile(src)
	if err == nil {
		t.Fatalf("expected an error for a two-parameter apply")
	}
}

func TestCompileRejectsVoidEntryPoint(t *testing.T) {
	src := "func apply(a: sint32):\n" +
		"    let sint32 x = a\n"
	_, err := Compile(src)
	if err == nil {
		t.Fatalf("expected an error for an apply with no return type")
	}
}

func TestInputDescriptorReflectsParamType(t *testing.T) {
	src := "func apply(n: sint32) sint32:\n" +
		"    return n\n"
	r := compile(t, src)
	if got := r.InputDescriptor(); got != "sint32" {
		t.Fatalf("InputDescriptor() = %q, want %q", got, "sint32")
	}
}

func TestRunRuleAppliesThreshold(t *testing.T) {
	src := "func apply(n: sint32) sint32:\n" +
		"    if n > 10:\n" +
		"        return n * 2\n" +
		"    else:\n" +
		"        return n\n"
	r := compile(t, src)

	out, err := r.RunRule("20")
	if err != nil {
		t.Fatalf("RunRule(20) returned error: %v", err)
	}
	if out != "40" {
		t.Fatalf("RunRule(20) = %q, want %q", out, "40")
	}

	out, err = r.RunRule("5")
	if err != nil {
		t.Fatalf("RunRule(5) returned error: %v", err)
	}
	if out != "5" {
		t.Fatalf("RunRule(5) = %q, want %q", out, "5")
	}
}

func TestRunRuleNotApplicableReturnsNull(t *testing.T) {
	src := "type Point: {x: sint32, y: sint32}\n" +
		"func apply(p: Point) Point:\n" +
		"    return null if p.x < 0 else p\n"
	r := compile(t, src)

	out, err := r.RunRule(`{"x": -1, "y": 2}`)
	if err != nil {
		t.Fatalf("RunRule returned error: %v", err)
	}
	if out != "null" {
		t.Fatalf("RunRule on negative x = %q, want %q", out, "null")
	}
}

func TestRunRuleRoundTripsStruct(t *testing.T) {
	src := "type Point: {x: sint32, y: sint32}\n" +
		"func apply(p: Point) Point:\n" +
		"    return Point{x: p.x + 1, y: p.y + 1}\n"
	r := compile(t, src)

	out, err := r.RunRule(`{"x": 1, "y": 2}`)
	if err != nil {
		t.Fatalf("RunRule returned error: %v", err)
	}
	if out != `{"x":2,"y":3}` {
		t.Fatalf("RunRule = %q, want %q", out, `{"x":2,"y":3}`)
	}
}

func TestRunRuleRoundTripsArray(t *testing.T) {
	src := "func apply(xs: [sint32,3]) sint32:\n" +
		"    return xs[0] + xs[1] + xs[2]\n"
	r := compile(t, src)

	out, err := r.RunRule("[1, 2, 3]")
	if err != nil {
		t.Fatalf("RunRule returned error: %v", err)
	}
	if out != "6" {
		t.Fatalf("RunRule = %q, want %q", out, "6")
	}
}

func TestRunRuleSurfacesRuntimeError(t *testing.T) {
	src := "type Point: {x: sint32}\n" +
		"func apply(p: Point) sint32:\n" +
		"    let Point q = null\n" +
		"    return q.x\n"
	r := compile(t, src)

	_, err := r.RunRule(`{"x": 1}`)
	if err == nil {
		t.Fatalf("expected a null-reference runtime error from apply")
	}
}

func TestRunRuleUsesTopLevelDeclarations(t *testing.T) {
	src := "func scale(n: sint32) sint32:\n" +
		"    return n * 3\n" +
		"let sint32 offset = 10\n" +
		"func apply(n: sint32) sint32:\n" +
		"    return scale(n) + offset\n"
	r := compile(t, src)

	out, err := r.RunRule("2")
	if err != nil {
		t.Fatalf("RunRule returned error: %v", err)
	}
	if out != "16" {
		t.Fatalf("RunRule = %q, want %q (2*3+10)", out, "16")
	}
}

func TestCompiledRuleIsReusableAcrossCalls(t *testing.T) {
	src := "func apply(n: sint32) sint32:\n" +
		"    return n + 1\n"
	r := compile(t, src)

	first, err := r.RunRule("1")
	if err != nil {
		t.Fatalf("first RunRule returned error: %v", err)
	}
	second, err := r.RunRule("1")
	if err != nil {
		t.Fatalf("second RunRule returned error: %v", err)
	}
	if first != second {
		t.Fatalf("RunRule is not deterministic across calls: %q vs %q", first, second)
	}
}
