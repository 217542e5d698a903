package parser

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
)

// parseTypeExpr parses one syntactic type spelling (spec.md §3): a bare
// name, an array `[T]`/`[T,N]`, a tuple `(T1,T2,...)`, an inline struct
// `{name:T,...}`, or the reserved name `any`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch {
	case p.curIsSymbol("["):
		return p.parseArrayTypeRef()
	case p.curIsSymbol("("):
		return p.parseTupleTypeRef()
	case p.curIsSymbol("{"):
		return p.parseStructTypeRef()
	case p.cur.Kind == token.Identifier:
		return p.parseNamedOrAnyTypeRef()
	default:
		p.errorf(rlerrors.ErrP001, "expected a type, found %q", p.cur.Lexeme)
		return nil
	}
}

func (p *Parser) parseNamedOrAnyTypeRef() ast.TypeExpr {
	tok := p.cur
	p.advance()
	if tok.Lexeme == "any" {
		t := &ast.AnyTypeRef{}
		t.Start, t.End = tok.Span.Start, tok.Span.End
		return t
	}
	t := &ast.NamedTypeRef{Name: tok.Lexeme}
	t.Start, t.End = tok.Span.Start, tok.Span.End
	return t
}

func (p *Parser) parseArrayTypeRef() ast.TypeExpr {
	start := p.cur.Span.Start
	p.expectSymbol("[")
	component := p.parseTypeExpr()
	var size *int
	if p.curIsSymbol(",") {
		p.advance()
		n := p.expectIntegerLiteralValue()
		size = &n
	}
	end := p.cur.Span.End
	p.expectSymbol("]")
	t := &ast.ArrayTypeRef{Component: component, Size: size}
	t.Start, t.End = start, end
	return t
}

// expectIntegerLiteralValue consumes an IntegerLiteral token and returns
// its decoded value as an int, for array-size annotations.
func (p *Parser) expectIntegerLiteralValue() int {
	if p.cur.Kind != token.IntegerLiteral {
		p.errorf(rlerrors.ErrP001, "expected an array size, found %q", p.cur.Lexeme)
	}
	value, _, _ := decodeIntegerLiteral(p.cur.Lexeme)
	p.advance()
	return int(value)
}

func (p *Parser) parseTupleTypeRef() ast.TypeExpr {
	start := p.cur.Span.Start
	p.expectSymbol("(")
	var members []ast.TypeExpr
	for !p.curIsSymbol(")") {
		members = append(members, p.parseTypeExpr())
		if p.curIsSymbol(",") {
			p.advance()
		} else {
			break
		}
	}
	end := p.cur.Span.End
	p.expectSymbol(")")
	t := &ast.TupleTypeRef{Members: members}
	t.Start, t.End = start, end
	return t
}

func (p *Parser) parseStructTypeRef() ast.TypeExpr {
	start := p.cur.Span.Start
	p.expectSymbol("{")
	var names []string
	var types []ast.TypeExpr
	for !p.curIsSymbol("}") {
		name := p.expectIdentifier()
		p.expectSymbol(":")
		ty := p.parseTypeExpr()
		names = append(names, name.Lexeme)
		types = append(types, ty)
		if p.curIsSymbol(",") {
			p.advance()
		} else {
			break
		}
	}
	end := p.cur.Span.End
	p.expectSymbol("}")
	t := &ast.StructTypeRef{Names: names, Types: types}
	t.Start, t.End = start, end
	return t
}
