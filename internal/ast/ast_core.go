// Package ast defines the syntactic tree RulesLang's parser produces
// (spec.md §3 "Syntactic tree (AST)"). Node variants are plain structs
// implementing a shared Node interface via the visitor pattern, in the
// teacher's style (internal/ast/ast_core.go's Node/Accept/TokenLiteral
// shape) — generalized here from the teacher's Go-like surface language
// to RulesLang's expression/statement grammar.
package ast

import "github.com/michael-golfi/rules/internal/rlerrors"

// Node is the base interface every syntactic tree node implements.
type Node interface {
	Span() rlerrors.Span
	Accept(v Visitor)
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a Node that performs an action.
type Statement interface {
	Node
	statementNode()
}

// span is embedded by every concrete node to implement Node.Span().
type span struct{ Start, End int }

func (s span) Span() rlerrors.Span { return rlerrors.Span{Start: s.Start, End: s.End} }

// NewSpan is a convenience constructor used throughout the parser.
func NewSpan(start, end int) rlerrors.Span { return rlerrors.Span{Start: start, End: end} }

// Program is the root node: the statements of one compiled source file.
type Program struct {
	span
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Identifier names a binding (variable, function, or type).
type Identifier struct {
	span
	Name string
}

func (i *Identifier) Accept(v Visitor) { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()  {}

// ContextFieldAccess is a bare `.name` referencing a field of the rule's
// implicit input context rather than a named receiver (spec.md §3).
type ContextFieldAccess struct {
	span
	Name string
}

func (c *ContextFieldAccess) Accept(v Visitor) { v.VisitContextFieldAccess(c) }
func (c *ContextFieldAccess) expressionNode()  {}
