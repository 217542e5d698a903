package ast

// BooleanLiteral is a `true`/`false` token.
type BooleanLiteral struct {
	span
	Value bool
}

func (l *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(l) }
func (l *BooleanLiteral) expressionNode()  {}

// IntegerLiteral is a decimal/hex/binary integer token. Raw holds the
// original lexeme (base preserved) for diagnostics; Value is parsed at
// parse time. Overflow of the signed 64-bit range is recorded in
// Unsigned/UnsignedValue (spec.md §8 boundary case).
type IntegerLiteral struct {
	span
	Raw            string
	Value          int64
	Unsigned       bool
	UnsignedValue  uint64
}

func (l *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(l) }
func (l *IntegerLiteral) expressionNode()  {}

// FloatLiteral is a floating point token.
type FloatLiteral struct {
	span
	Raw   string
	Value float64
}

func (l *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(l) }
func (l *FloatLiteral) expressionNode()  {}

// StringLiteral is a double-quoted string token; Value is the decoded
// text (escapes resolved).
type StringLiteral struct {
	span
	Raw   string
	Value string
}

func (l *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(l) }
func (l *StringLiteral) expressionNode()  {}

// NullLiteral is the `null` keyword used as an expression.
type NullLiteral struct{ span }

func (l *NullLiteral) Accept(v Visitor) { v.VisitNullLiteral(l) }
func (l *NullLiteral) expressionNode()  {}
