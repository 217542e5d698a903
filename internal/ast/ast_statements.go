package ast

import "github.com/michael-golfi/rules/internal/rlerrors"

// DeclKind distinguishes `let` (keeps literal types) from `var` (lifts
// literals to their atomic type), spec.md §4.6.
type DeclKind int

const (
	Let DeclKind = iota
	Var
)

func (k DeclKind) String() string {
	if k == Var {
		return "var"
	}
	return "let"
}

// TypeDefinition binds a name to a type in the current block (spec.md
// §3, §4.6).
type TypeDefinition struct {
	span
	Name string
	Type TypeExpr
}

func (s *TypeDefinition) Accept(v Visitor) { v.VisitTypeDefinition(s) }
func (s *TypeDefinition) statementNode()   {}

// VariableDeclaration is `let`/`var` [Type] name [= value] (spec.md §3).
type VariableDeclaration struct {
	span
	Kind  DeclKind
	Type  TypeExpr // optional, nil if omitted
	Name  string
	Value Expression // optional, nil if omitted
}

func (s *VariableDeclaration) Accept(v Visitor) { v.VisitVariableDeclaration(s) }
func (s *VariableDeclaration) statementNode()   {}

// Assignment is `target op= value` before expansion, or `target = value`
// after the operator expander has rewritten it (spec.md §4.4).
type Assignment struct {
	span
	Target Expression
	Op     string        // "=" after expansion; a compound assignment's base op (e.g. "+") before expansion
	OpSpan rlerrors.Span // span of the Op token itself, used by the operator expander
	Value  Expression
}

func (s *Assignment) Accept(v Visitor) { v.VisitAssignment(s) }
func (s *Assignment) statementNode()   {}

// FunctionCallStatement is a FunctionCall expression used as a statement.
type FunctionCallStatement struct {
	span
	Call *FunctionCall
}

func (s *FunctionCallStatement) Accept(v Visitor) { v.VisitFunctionCallStatement(s) }
func (s *FunctionCallStatement) statementNode()   {}

// ConditionalBlock is one `if`/`elif` arm: a condition plus its body.
type ConditionalBlock struct {
	Condition  Expression
	Statements []Statement
}

// ConditionalStatement is an `if/elif/.../else` chain (spec.md §3, §4 invariant 5:
// at least one condition block).
type ConditionalStatement struct {
	span
	Blocks         []ConditionalBlock
	FalseStatements []Statement // else body, nil if absent
}

func (s *ConditionalStatement) Accept(v Visitor) { v.VisitConditionalStatement(s) }
func (s *ConditionalStatement) statementNode()   {}

// LoopStatement is a `while` loop (spec.md §4 invariant 5: exactly one condition).
type LoopStatement struct {
	span
	Label      string // optional loop label, "" if absent
	Condition  Expression
	Body       []Statement
}

func (s *LoopStatement) Accept(v Visitor) { v.VisitLoopStatement(s) }
func (s *LoopStatement) statementNode()   {}

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FunctionDefinition is `func name(params) [returnType]: body`.
type FunctionDefinition struct {
	span
	Name       string
	Params     []Param
	ReturnType TypeExpr // nil when omitted (void)
	Body       []Statement
}

func (s *FunctionDefinition) Accept(v Visitor) { v.VisitFunctionDefinition(s) }
func (s *FunctionDefinition) statementNode()   {}

// ReturnStatement is `return [value]`.
type ReturnStatement struct {
	span
	Value Expression // nil if bare `return`
}

func (s *ReturnStatement) Accept(v Visitor) { v.VisitReturnStatement(s) }
func (s *ReturnStatement) statementNode()   {}

// BreakStatement is `break [label]`.
type BreakStatement struct {
	span
	Label string // "" if absent
}

func (s *BreakStatement) Accept(v Visitor) { v.VisitBreakStatement(s) }
func (s *BreakStatement) statementNode()   {}

// ContinueStatement is `continue [label]`.
type ContinueStatement struct {
	span
	Label string // "" if absent
}

func (s *ContinueStatement) Accept(v Visitor) { v.VisitContinueStatement(s) }
func (s *ContinueStatement) statementNode()   {}
