package ast

import (
	"github.com/michael-golfi/rules/internal/token"
	"github.com/michael-golfi/rules/internal/types"
)

// FieldAccess is `v.name` (spec.md §3).
type FieldAccess struct {
	span
	Value Expression
	Name  string
}

func (e *FieldAccess) Accept(v Visitor) { v.VisitFieldAccess(e) }
func (e *FieldAccess) expressionNode()  {}

// IndexAccess is `v[idx]`.
type IndexAccess struct {
	span
	Value Expression
	Index Expression
}

func (e *IndexAccess) Accept(v Visitor) { v.VisitIndexAccess(e) }
func (e *IndexAccess) expressionNode()  {}

// FunctionCall is `v(args...)`.
type FunctionCall struct {
	span
	Callee Expression
	Args   []Expression
}

func (e *FunctionCall) Accept(v Visitor) { v.VisitFunctionCall(e) }
func (e *FunctionCall) expressionNode()  {}

// Sign is unary `+x`/`-x`.
type Sign struct {
	span
	Negative bool
	Operand  Expression
}

func (e *Sign) Accept(v Visitor) { v.VisitSign(e) }
func (e *Sign) expressionNode()  {}

// LogicalNot is unary `!x`.
type LogicalNot struct {
	span
	Operand Expression
}

func (e *LogicalNot) Accept(v Visitor) { v.VisitLogicalNot(e) }
func (e *LogicalNot) expressionNode()  {}

// BitwiseNot is unary `~x`.
type BitwiseNot struct {
	span
	Operand Expression
}

func (e *BitwiseNot) Accept(v Visitor) { v.VisitBitwiseNot(e) }
func (e *BitwiseNot) expressionNode()  {}

// Infix is a named infix function call: `a name b` (spec.md §4.3 level 10).
type Infix struct {
	span
	Left     Expression
	FuncName string
	Right    Expression
}

func (e *Infix) Accept(v Visitor) { v.VisitInfix(e) }
func (e *Infix) expressionNode()  {}

// BinaryExpr covers every left-associative binary operator class:
// Exponent, Multiplicative, Additive, Shift, BitwiseAnd/Or/Xor,
// LogicalAnd/Or/Xor, Concatenate, Range. Category is the token.Kind class
// (spec.md groups operators by class, and token.Kind already enumerates
// those classes, so reusing it here avoids a second parallel enum — this
// mirrors the teacher's single InfixExpression{Operator string} shape,
// with Category added since, unlike the teacher's single untyped operator
// set, RulesLang's semantic analyzer must dispatch by class (compare
// always yields bool, bitwise requires integral operands, etc).
type BinaryExpr struct {
	span
	Category token.Kind
	Op       string
	BaseOp   string
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(e) }
func (e *BinaryExpr) expressionNode()  {}

// ComparisonStep is one link of a compare chain: `op right`.
type ComparisonStep struct {
	Op    string
	Right Expression
}

// TypeCompareTail is the optional trailing type-compare clause of a
// compare chain: `(::|!:|<:|>:|<<:|>>:|<:>) T`.
type TypeCompareTail struct {
	Op   string
	Type TypeExpr
}

// CompareChain is `e (cmp e)+` with an optional trailing type-compare
// (spec.md §4.3 level 6). A chain folds semantically with `&&` between
// adjacent comparisons.
type CompareChain struct {
	span
	Left         Expression
	Comparisons  []ComparisonStep
	TypeCompare  *TypeCompareTail
}

func (e *CompareChain) Accept(v Visitor) { v.VisitCompareChain(e) }
func (e *CompareChain) expressionNode()  {}

// Conditional is `e if c else e2` (spec.md §4.3 level 1).
type Conditional struct {
	span
	Then      Expression
	Condition Expression
	Else      Expression
}

func (e *Conditional) Accept(v Visitor) { v.VisitConditional(e) }
func (e *Conditional) expressionNode()  {}

// CompositeElement is one entry of a CompositeLiteral: an optional label
// (a name for struct fields, an integer for array indices, or the
// reserved "other" catch-all label) plus its value expression.
type CompositeElement struct {
	Label      string // "" when unlabeled
	IsOther    bool   // the "other" catch-all label
	IndexLabel *int   // non-nil when the label is an integer array index
	Value      Expression
}

// CompositeLiteral is a brace-enclosed, possibly labeled sequence of
// expressions (spec.md §3, §4.3 level 15); the analyzer decides whether
// it denotes an array, tuple, or struct from context (bare literal or
// Initializer target type).
type CompositeLiteral struct {
	span
	Elements []CompositeElement
}

func (e *CompositeLiteral) Accept(v Visitor) { v.VisitCompositeLiteral(e) }
func (e *CompositeLiteral) expressionNode()  {}

// Initializer is `NamedType { ... }`: a composite literal with an
// explicit target type (spec.md §4.3 level 14).
type Initializer struct {
	span
	Type    TypeExpr
	Literal *CompositeLiteral
}

func (e *Initializer) Accept(v Visitor) { v.VisitInitializer(e) }
func (e *Initializer) expressionNode()  {}

// TypeConversion wraps an expression with an implicit widening conversion
// the semantic tree inserted (spec.md §3 "Semantic tree (typed)": "implicit
// conversions are inserted as explicit TypeConversion nodes"). Target is
// resolved, not syntactic — internal/sema owns the types.Type values.
type TypeConversion struct {
	span
	Value  Expression
	Target types.Type
}

func (e *TypeConversion) Accept(v Visitor) { v.VisitTypeConversion(e) }
func (e *TypeConversion) expressionNode()  {}
