package parser

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
)

// consumeIndentation consumes any run of Indentation tokens, keeping only
// the last one seen before a non-indentation token (spec.md §4.3 step 1).
// It returns (spec, true) when at least one indentation token was seen,
// (zero, false) otherwise — the zero case means "still at the outer
// block's own column" (e.g. top level, or a line with no leading
// whitespace at all).
func (p *Parser) consumeIndentation() (IndentSpec, bool) {
	if p.pendingIndent != nil {
		spec := *p.pendingIndent
		p.pendingIndent = nil
		return spec, true
	}
	var last token.Token
	seen := false
	for p.curIs(token.Indentation) {
		last = p.cur
		seen = true
		p.advance()
	}
	if !seen {
		return IndentSpec{}, false
	}
	return IndentSpec{Whitespace: last.IndentWhitespace, Count: last.IndentCount}, true
}

// matchesIndent reports whether an observed indentation satisfies the
// block's spec, raising a mixed-indentation error if the whitespace
// characters differ (spec.md §4.3's block-header rule).
func (p *Parser) matchesIndent(observed IndentSpec, want IndentSpec) bool {
	if observed.Count == 0 && want.Count == 0 {
		return true
	}
	if observed.Count > 0 && want.Count > 0 && observed.Whitespace != want.Whitespace {
		panic(rlerrors.New(rlerrors.ErrP002, p.source, p.cur.Span,
			"mixed indentation: expected whitespace character to match the enclosing block", p.cur.Lexeme))
	}
	return observed.Count == want.Count
}

// parseStatements implements spec.md §4.3's parseStatements(indentSpec):
// repeatedly consume indentation, check it against indentSpec (or accept
// when nextIndentIgnored is set), parse one statement, and continue past
// a Terminator (a `;` sets nextIndentIgnored) or a fresh Indentation token.
// topLevel relaxes the "non-empty block" requirement: an empty top-level
// program is legal, an empty nested block is not.
func (p *Parser) parseStatements(spec IndentSpec, topLevel bool) []ast.Statement {
	saved := p.blockIndent
	p.blockIndent = spec
	defer func() { p.blockIndent = saved }()

	var stmts []ast.Statement
	for {
		if p.curIs(token.Eof) {
			break
		}
		observed, sawIndent := p.consumeIndentation()
		if p.curIs(token.Eof) {
			break
		}
		if sawIndent {
			if !p.matchesIndent(observed, spec) {
				if topLevel || len(stmts) == 0 {
					p.errorf(rlerrors.ErrP003, "not enough indentation: expected %d of the block's whitespace character", spec.Count)
				}
				o := observed
				p.pendingIndent = &o
				break
			}
			p.nextIndentIgnored = false
		} else if !p.nextIndentIgnored {
			if spec.Count == 0 {
				// top-level statement with no leading whitespace: fine.
			} else if len(stmts) == 0 && !topLevel {
				p.errorf(rlerrors.ErrP003, "not enough indentation: expected %d of the block's whitespace character", spec.Count)
			} else {
				break
			}
		}

		stmt := p.parseStatement()
		stmts = append(stmts, stmt)

		switch {
		case p.curIs(token.Terminator):
			p.nextIndentIgnored = p.cur.Lexeme == ";"
			p.advance()
		case p.curIs(token.Indentation):
			p.nextIndentIgnored = false
		case p.curIs(token.Eof):
		default:
			switch stmt.(type) {
			case *ast.ConditionalStatement, *ast.LoopStatement, *ast.FunctionDefinition:
				// the nested block already consumed the line break that ends it
			default:
				p.errorf(rlerrors.ErrP001, "expected a statement terminator, found %q", p.cur.Lexeme)
			}
		}
	}
	return stmts
}

// parseBlockIndent computes the IndentSpec' for a new block introduced by
// a header (`if`, `while`, `func`, `else:` ...), per spec.md §4.3: the new
// whitespace char comes from the first indentation seen; it must match
// the outer char when the outer is non-empty; the count must strictly
// exceed the outer count.
func (p *Parser) parseBlockIndent(outer IndentSpec) []ast.Statement {
	if p.curIs(token.Terminator) {
		p.advance()
	}
	snap := p.save()
	observed, saw := p.consumeIndentation()
	if !saw || observed.Count <= outer.Count {
		p.errorf(rlerrors.ErrP003, "expected an indented block")
	}
	if outer.Count > 0 && observed.Whitespace != outer.Whitespace {
		panic(rlerrors.New(rlerrors.ErrP002, p.source, p.cur.Span,
			"mixed indentation: block introduces a different whitespace character than its enclosing block", p.cur.Lexeme))
	}
	// Restore: parseStatements re-consumes this same indentation itself,
	// so the lookahead here only determines the new block's IndentSpec.
	p.restore(snap)
	return p.parseStatements(observed, false)
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.curIsKeyword("type"):
		return p.parseTypeDefinition()
	case p.curIsKeyword("let") || p.curIsKeyword("var"):
		return p.parseVariableDeclaration()
	case p.curIsKeyword("if"):
		return p.parseConditionalStatement()
	case p.curIsKeyword("while"):
		return p.parseLoopStatement()
	case p.curIsKeyword("func"):
		return p.parseFunctionDefinition()
	case p.curIsKeyword("return"):
		return p.parseReturnStatement()
	case p.curIsKeyword("break"):
		return p.parseBreakStatement()
	case p.curIsKeyword("continue"):
		return p.parseContinueStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseTypeDefinition() ast.Statement {
	start := p.cur.Span.Start
	p.advance() // 'type'
	name := p.expectIdentifier()
	p.expectSymbol(":")
	ty := p.parseTypeExpr()
	s := &ast.TypeDefinition{Name: name.Lexeme, Type: ty}
	s.Start, s.End = start, ty.Span().End
	return s
}

// parseVariableDeclaration implements the let/var backtracking rule
// (spec.md §4.3): try NamedType then identifier; if the second identifier
// is absent, restore and treat the first identifier as the variable name.
func (p *Parser) parseVariableDeclaration() ast.Statement {
	start := p.cur.Span.Start
	kind := ast.Let
	if p.curIsKeyword("var") {
		kind = ast.Var
	}
	p.advance() // 'let'/'var'

	p.tryParseTypedName()
	declaredType, nameTok := p.lastTypedNameResult()

	var value ast.Expression
	end := nameTok.Span.End
	if p.curIs(token.Assign) {
		p.advance()
		value = p.parseExpression()
		end = value.Span().End
	}
	s := &ast.VariableDeclaration{Kind: kind, Type: declaredType, Name: nameTok.Lexeme, Value: value}
	s.Start, s.End = start, end
	return s
}

// typedNameResult carries the outcome of tryParseTypedName across the
// two-call API above (Go has no multi-return-through-a-stored-field
// idiom; this mirrors the teacher's own pattern of stashing the most
// recent backtrack outcome on the parser rather than threading it through
// every call site).
type typedNameResult struct {
	ty   ast.TypeExpr
	name token.Token
}

func (p *Parser) lastTypedNameResult() (ast.TypeExpr, token.Token) {
	r := p.lastTypedName
	return r.ty, r.name
}

// tryParseTypedName attempts `NamedType identifier`; on failure (no
// second identifier), it restores to before the type attempt and treats
// the first identifier as the name with no declared type.
func (p *Parser) tryParseTypedName() token.Token {
	if p.cur.Kind != token.Identifier {
		p.errorf(rlerrors.ErrP001, "expected a variable name, found %q", p.cur.Lexeme)
	}
	snap := p.save()
	typeName := p.cur
	p.advance()
	if p.cur.Kind == token.Identifier {
		name := p.cur
		p.advance()
		p.discard()
		ref := &ast.NamedTypeRef{Name: typeName.Lexeme}
		ref.Start, ref.End = typeName.Span.Start, typeName.Span.End
		p.lastTypedName = typedNameResult{ty: ref, name: name}
		return name
	}
	p.restore(snap)
	name := p.cur
	p.advance()
	p.lastTypedName = typedNameResult{ty: nil, name: name}
	return name
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur.Span.Start
	expr := p.parseExpression()
	if isAssignable(expr) && isAssignOp(p.cur) {
		op := p.cur
		opLexeme := "="
		if op.Kind == token.CompoundAssign {
			opLexeme = op.BaseOp
		}
		p.advance()
		value := p.parseExpression()
		s := &ast.Assignment{Target: expr, Op: opLexeme, OpSpan: op.Span, Value: value}
		s.Start, s.End = start, value.Span().End
		return s
	}
	if call, ok := expr.(*ast.FunctionCall); ok {
		s := &ast.FunctionCallStatement{Call: call}
		s.Start, s.End = start, call.Span().End
		return s
	}
	p.errorf(rlerrors.ErrP001, "expected a statement, found expression with no effect")
	return nil
}

func isAssignOp(t token.Token) bool {
	return t.Kind == token.Assign || t.Kind == token.CompoundAssign
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.FieldAccess, *ast.IndexAccess, *ast.ContextFieldAccess:
		return true
	}
	return false
}

func (p *Parser) parseConditionalStatement() ast.Statement {
	start := p.cur.Span.Start
	outer := p.blockIndent
	var blocks []ast.ConditionalBlock
	var falseStatements []ast.Statement

	p.advance() // 'if'
	cond := p.parseExpression()
	p.expectSymbol(":")
	body := p.parseBlockIndent(outer)
	blocks = append(blocks, ast.ConditionalBlock{Condition: cond, Statements: body})

	end := start
	if len(body) > 0 {
		end = body[len(body)-1].Span().End
	}

	for p.tryConsumeElifHeader(outer) {
		c := p.parseExpression()
		p.expectSymbol(":")
		b := p.parseBlockIndent(outer)
		blocks = append(blocks, ast.ConditionalBlock{Condition: c, Statements: b})
		if len(b) > 0 {
			end = b[len(b)-1].Span().End
		}
	}

	if p.tryConsumeElseHeader(outer) {
		p.expectSymbol(":")
		falseStatements = p.parseBlockIndent(outer)
		if len(falseStatements) > 0 {
			end = falseStatements[len(falseStatements)-1].Span().End
		}
	}

	s := &ast.ConditionalStatement{Blocks: blocks, FalseStatements: falseStatements}
	s.Start, s.End = start, end
	return s
}

// tryConsumeElifHeader backtracks (spec.md §4.3's else backtrack applies
// equally to a following elif at the same block depth): peek past any
// indentation for `else if` at the outer spec's own depth; if absent,
// restore.
func (p *Parser) tryConsumeElifHeader(outer IndentSpec) bool {
	snap := p.save()
	observed, saw := p.consumeIndentation()
	if saw && !p.matchesIndent(observed, outer) {
		p.restore(snap)
		return false
	}
	if !p.curIsKeyword("else") || !p.peek.IsKeyword("if") {
		p.restore(snap)
		return false
	}
	p.discard()
	p.advance()
	p.advance()
	return true
}

func (p *Parser) tryConsumeElseHeader(outer IndentSpec) bool {
	snap := p.save()
	observed, saw := p.consumeIndentation()
	if saw && !p.matchesIndent(observed, outer) {
		p.restore(snap)
		return false
	}
	if !p.curIsKeyword("else") {
		p.restore(snap)
		return false
	}
	p.discard()
	p.advance()
	return true
}

func (p *Parser) parseLoopStatement() ast.Statement {
	start := p.cur.Span.Start
	outer := p.blockIndent
	p.advance() // 'while'
	cond := p.parseExpression()
	p.expectSymbol(":")
	body := p.parseBlockIndent(outer)
	end := start
	if len(body) > 0 {
		end = body[len(body)-1].Span().End
	}
	s := &ast.LoopStatement{Condition: cond, Body: body}
	s.Start, s.End = start, end
	return s
}

func (p *Parser) parseFunctionDefinition() ast.Statement {
	start := p.cur.Span.Start
	outer := p.blockIndent
	p.advance() // 'func'
	name := p.expectIdentifier()
	p.expectSymbol("(")
	var params []ast.Param
	for !p.curIsSymbol(")") {
		pname := p.expectIdentifier()
		p.expectSymbol(":")
		ptype := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname.Lexeme, Type: ptype})
		if p.curIsSymbol(",") {
			p.advance()
		}
	}
	p.expectSymbol(")")
	var ret ast.TypeExpr
	if p.curIsSymbol(":") {
		// no return type, body starts after colon.
	} else {
		ret = p.parseTypeExpr()
	}
	p.expectSymbol(":")
	body := p.parseBlockIndent(outer)
	end := start
	if len(body) > 0 {
		end = body[len(body)-1].Span().End
	}
	s := &ast.FunctionDefinition{Name: name.Lexeme, Params: params, ReturnType: ret, Body: body}
	s.Start, s.End = start, end
	return s
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.cur.Span.Start
	end := p.cur.Span.End
	p.advance() // 'return'
	var value ast.Expression
	if !p.curIs(token.Terminator) && !p.curIs(token.Indentation) && !p.curIs(token.Eof) {
		value = p.parseExpression()
		end = value.Span().End
	}
	s := &ast.ReturnStatement{Value: value}
	s.Start, s.End = start, end
	return s
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.cur.Span
	p.advance()
	label := ""
	end := start.End
	if p.cur.Kind == token.Identifier {
		label = p.cur.Lexeme
		end = p.cur.Span.End
		p.advance()
	}
	s := &ast.BreakStatement{Label: label}
	s.Start, s.End = start.Start, end
	return s
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.cur.Span
	p.advance()
	label := ""
	end := start.End
	if p.cur.Kind == token.Identifier {
		label = p.cur.Lexeme
		end = p.cur.Span.End
		p.advance()
	}
	s := &ast.ContinueStatement{Label: label}
	s.Start, s.End = start.Start, end
	return s
}
