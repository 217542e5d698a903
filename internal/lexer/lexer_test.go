package lexer

import (
	"testing"

	"github.com/michael-golfi/rules/internal/token"
)

func collect(src string) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.Eof {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestBasicOperatorsMaximalMunch(t *testing.T) {
	toks := collect("a >>>= b")
	if toks[1].Kind != token.CompoundAssign || toks[1].Lexeme != ">>>=" {
		t.Fatalf("expected >>>= compound assign, got %+v", toks[1])
	}
	if toks[1].BaseOp != ">>>" {
		t.Fatalf("expected base op >>>, got %q", toks[1].BaseOp)
	}
}

func TestTypeCompareOperators(t *testing.T) {
	for _, lexeme := range []string{"::", "!:", "<:", ">:", "<<:", ">>:", "<:>"} {
		toks := collect("a " + lexeme + " b")
		if toks[1].Kind != token.TypeCompare || toks[1].Lexeme != lexeme {
			t.Fatalf("lexeme %q: got %+v", lexeme, toks[1])
		}
	}
}

func TestIndentationToken(t *testing.T) {
	toks := collect("if a:\n  let b = 1\n")
	foundIndent := false
	for _, tk := range toks {
		if tk.Kind == token.Indentation {
			foundIndent = true
			if tk.IndentWhitespace != ' ' || tk.IndentCount != 2 {
				t.Fatalf("expected 2 spaces, got %+v", tk)
			}
		}
	}
	if !foundIndent {
		t.Fatal("expected an Indentation token")
	}
}

func TestMixedIndentationRecorded(t *testing.T) {
	toks := collect("if a:\n \tlet b = 1\n")
	for _, tk := range toks {
		if tk.Kind == token.Indentation {
			if tk.IndentCount == len(tk.Lexeme) {
				t.Fatalf("expected mixed whitespace to be detectable, got %+v", tk)
			}
		}
	}
}

func TestNewlineAndSemicolonAreTerminators(t *testing.T) {
	toks := collect("a\nb;c")
	termCount := 0
	for _, tk := range toks {
		if tk.Kind == token.Terminator {
			termCount++
		}
	}
	if termCount != 2 {
		t.Fatalf("expected 2 terminators, got %d", termCount)
	}
}

func TestCRLFIsSingleTerminator(t *testing.T) {
	toks := collect("a\r\nb")
	if toks[1].Kind != token.Terminator || toks[1].Lexeme != "\r\n" {
		t.Fatalf("expected single CRLF terminator, got %+v", toks[1])
	}
}

func TestRangeVsFloatDisambiguation(t *testing.T) {
	toks := collect("1..5")
	if toks[0].Kind != token.IntegerLiteral || toks[0].Lexeme != "1" {
		t.Fatalf("expected integer 1, got %+v", toks[0])
	}
	if toks[1].Kind != token.Range {
		t.Fatalf("expected range operator, got %+v", toks[1])
	}

	toks = collect("1.5")
	if toks[0].Kind != token.FloatLiteral || toks[0].Lexeme != "1.5" {
		t.Fatalf("expected float 1.5, got %+v", toks[0])
	}
}

func TestBareDotFloatForFieldAccessQuirk(t *testing.T) {
	toks := collect("t.1.field")
	// lexeme "1." is consumed greedily as a float per the numeric grammar;
	// the parser is responsible for re-splitting it into IntegerLiteral +
	// Dot + Identifier when immediately followed by an identifier.
	if toks[2].Kind != token.FloatLiteral || toks[2].Lexeme != "1." {
		t.Fatalf("expected float literal '1.', got %+v", toks[2])
	}
	if toks[3].Kind != token.Identifier || toks[3].Lexeme != "field" {
		t.Fatalf("expected identifier 'field', got %+v", toks[3])
	}
}

func TestHexAndBinaryLiterals(t *testing.T) {
	toks := collect("0x1F_2A 0b1010_1")
	if toks[0].Kind != token.IntegerLiteral || toks[0].Lexeme != "0x1F_2A" {
		t.Fatalf("got %+v", toks[0])
	}
	if toks[1].Kind != token.IntegerLiteral || toks[1].Lexeme != "0b1010_1" {
		t.Fatalf("got %+v", toks[1])
	}
}

func TestStringEscapeDecoding(t *testing.T) {
	toks := collect(`"a\nb\u0041"`)
	decoded, err := DecodedString(toks[0].Lexeme)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != "a\nbA" {
		t.Fatalf("expected 'a\\nbA', got %q", decoded)
	}
}

func TestKeywordsAndBooleanLiterals(t *testing.T) {
	toks := collect("let x = true")
	want := []token.Kind{token.Keyword, token.Identifier, token.Assign, token.BooleanLiteral, token.Eof}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSaveDiscardRestore(t *testing.T) {
	l := New("a b c")
	first := l.Next()
	if first.Lexeme != "a" {
		t.Fatalf("expected a, got %q", first.Lexeme)
	}
	l.Save()
	second := l.Next()
	if second.Lexeme != "b" {
		t.Fatalf("expected b, got %q", second.Lexeme)
	}
	l.Restore()
	replay := l.Next()
	if replay.Lexeme != "b" {
		t.Fatalf("expected b again after restore, got %q", replay.Lexeme)
	}
	l.Save()
	l.Next()
	l.Discard() // should not rewind
	next := l.Next()
	if next.Kind != token.Eof {
		t.Fatalf("expected eof, got %+v", next)
	}
}

func TestEveryTokenSpanMatchesSource(t *testing.T) {
	src := "let total = a + 1"
	l := New(src)
	for {
		tk := l.Next()
		if tk.Kind == token.Eof {
			break
		}
		if src[tk.Span.Start:tk.Span.End] != tk.Lexeme {
			t.Fatalf("span mismatch for %+v: source slice %q", tk, src[tk.Span.Start:tk.Span.End])
		}
	}
}

func TestSyntheticEofSpan(t *testing.T) {
	toks := collect("")
	eof := toks[len(toks)-1]
	if eof.Span.Start != eof.Span.End {
		t.Fatalf("expected zero-width span for synthetic eof, got %+v", eof)
	}
	if eof.Lexeme != token.SyntheticSource {
		t.Fatalf("expected sentinel lexeme, got %q", eof.Lexeme)
	}
}
