// Package parser builds the syntactic tree (spec.md §4.3): an
// operator-precedence climb for expressions and indentation-validated
// recursive descent for statements, with bounded backtracking borrowed
// from the tokenizer's save/discard/restore protocol.
//
// Structurally this follows the teacher's internal/parser: a Parser
// holding cur/peek tokens advanced by nextToken, one file per syntactic
// concern (expr.go, stmt.go, types.go mirror the teacher's
// expressions_*.go/statements_*.go split), and panicking on the first
// unexpected token rather than attempting error recovery — spec.md §4.3
// is explicit that "the parser does not attempt recovery".
package parser

import (
	"fmt"

	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/lexer"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
)

// IndentSpec is the (whitespace character, count) every statement at one
// block depth must match (spec.md §4.3, GLOSSARY).
type IndentSpec struct {
	Whitespace rune
	Count      int
}

func noIndent() IndentSpec { return IndentSpec{Whitespace: ' ', Count: 0} }

// Parser consumes a token stream from internal/lexer and builds an
// internal/ast.Program.
type Parser struct {
	lex    *lexer.Lexer
	source string

	cur, peek token.Token

	// nextIndentIgnored is set after a `;` Terminator so the following
	// statement on the same line is accepted without seeing a fresh
	// Indentation token (spec.md §4.3 step 3).
	nextIndentIgnored bool

	// lastTypedName stashes the most recent tryParseTypedName outcome;
	// Go has no convenient way to thread a second return value through
	// the backtracking helper's two-call API (see tryParseTypedName).
	lastTypedName typedNameResult

	// blockIndent is the IndentSpec of the statement list currently being
	// parsed (set by parseStatements); a nested block header (if/while/
	// func/else) reads it as "outer" when deriving its own deeper spec.
	blockIndent IndentSpec

	// pendingIndent holds an Indentation token's already-consumed spec
	// when a nested parseStatements call finds it belongs to an
	// enclosing block (a dedent) rather than its own: the token is gone
	// from the stream, so the enclosing loop picks it back up here
	// instead of demanding a second Indentation token that will never
	// come.
	pendingIndent *IndentSpec
}

// Parse compiles src into a Program. Any SourceException raised during
// parsing (by the lexer or the parser itself) is returned as err rather
// than propagated as a panic — internal assertion failures
// (rlerrors.Internal) are not recovered here and crash the process per
// spec.md §7.
func Parse(src string) (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*rlerrors.SourceException); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	p := newParser(src)
	prog = p.parseProgram()
	return prog, nil
}

// ParseExpression compiles src as a single bare expression rather than a
// full statement program — RulesLang's grammar has no top-level
// expression statement (internal/rule's doc comment), so the shell's
// expression mode (spec.md §6: a line beginning with 0x01) parses at this
// lower entry point instead of going through Parse.
func ParseExpression(src string) (expr ast.Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*rlerrors.SourceException); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	p := newParser(src)
	expr = p.parseExpression()
	return expr, nil
}

func newParser(src string) *Parser {
	p := &Parser{lex: lexer.New(src), source: src}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) curIsSymbol(lexeme string) bool {
	return p.cur.Kind == token.OtherSymbol && p.cur.Lexeme == lexeme
}

func (p *Parser) peekIsSymbol(lexeme string) bool {
	return p.peek.Kind == token.OtherSymbol && p.peek.Lexeme == lexeme
}

func (p *Parser) curIsKeyword(word string) bool {
	return p.cur.Kind == token.Keyword && p.cur.Lexeme == word
}

// expectSymbol consumes the current token if it is the given punctuation
// symbol, else raises a parse error.
func (p *Parser) expectSymbol(lexeme string) token.Token {
	if !p.curIsSymbol(lexeme) {
		p.errorf(rlerrors.ErrP001, "expected %q, found %q", lexeme, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) expectKeyword(word string) token.Token {
	if !p.curIsKeyword(word) {
		p.errorf(rlerrors.ErrP001, "expected keyword %q, found %q", word, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) expectIdentifier() token.Token {
	if p.cur.Kind != token.Identifier {
		p.errorf(rlerrors.ErrP001, "expected identifier, found %q", p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok
}

// errorf raises a SourceException anchored at the current token's span,
// per spec.md §4.3's "any unexpected token yields a SourceException".
func (p *Parser) errorf(code rlerrors.Code, format string, args ...any) {
	panic(rlerrors.New(code, p.source, p.cur.Span, fmt.Sprintf(format, args...), p.cur.Lexeme))
}

// save/restore drive backtracking for let/var and else (spec.md §4.3);
// composite literal labels are detected with the one-token peek instead
// (see parseCompositeElement). The lexer's own save stack
// handles rewinding the token source; the parser additionally snapshots
// its own cur/peek buffer and nextIndentIgnored flag.
type snapshot struct {
	cur, peek         token.Token
	nextIndentIgnored bool
	pendingIndent     *IndentSpec
}

func (p *Parser) save() snapshot {
	p.lex.Save()
	return snapshot{cur: p.cur, peek: p.peek, nextIndentIgnored: p.nextIndentIgnored, pendingIndent: p.pendingIndent}
}

func (p *Parser) discard() { p.lex.Discard() }

func (p *Parser) restore(s snapshot) {
	p.lex.Restore()
	p.cur, p.peek = s.cur, s.peek
	p.nextIndentIgnored = s.nextIndentIgnored
	p.pendingIndent = s.pendingIndent
}

func (p *Parser) parseProgram() *ast.Program {
	start := p.cur.Span.Start
	stmts := p.parseStatements(noIndent(), true)
	end := start
	if len(stmts) > 0 {
		end = stmts[len(stmts)-1].Span().End
	}
	prog := &ast.Program{Statements: stmts}
	prog.Start, prog.End = start, end
	return prog
}
