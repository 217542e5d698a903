package sema

import (
	"strings"
	"testing"

	"github.com/michael-golfi/rules/internal/parser"
	"github.com/michael-golfi/rules/internal/rlerrors"
)

// analyzeSource parses and analyzes input, returning the resulting
// Analyzer (nil on error) and any error raised.
func analyzeSource(t *testing.T, input string) (*Analyzer, error) {
	t.Helper()
	prog, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", input, err)
	}
	return Analyze(input, TopLevelBlock, prog)
}

// expectSemaError asserts that analyzing input fails with the given code.
func expectSemaError(t *testing.T, input string, code rlerrors.Code) *rlerrors.SourceException {
	t.Helper()
	_, err := analyzeSource(t, input)
	if err == nil {
		t.Fatalf("expected error %s, got none\ninput: %s", code, input)
	}
	se, ok := err.(*rlerrors.SourceException)
	if !ok {
		t.Fatalf("expected *rlerrors.SourceException, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Fatalf("expected error %s, got %s: %s\ninput: %s", code, se.Code, se.Message, input)
	}
	return se
}

func expectSemaErrorContains(t *testing.T, input string, code rlerrors.Code, substr string) {
	t.Helper()
	se := expectSemaError(t, input, code)
	if !strings.Contains(se.Message, substr) {
		t.Errorf("expected message to contain %q, got: %s", substr, se.Message)
	}
}

// expectNoSemaError asserts that analyzing input succeeds, returning the
// Analyzer so callers can inspect its TypeMap.
func expectNoSemaError(t *testing.T, input string) *Analyzer {
	t.Helper()
	a, err := analyzeSource(t, input)
	if err != nil {
		t.Fatalf("expected no error, got: %v\ninput: %s", err, input)
	}
	return a
}
