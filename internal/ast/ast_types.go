package ast

// TypeExpr is the syntactic (unresolved) spelling of a type, as written in
// source: a named type, or a composite built from other TypeExprs. The
// semantic analyzer (internal/sema) resolves these against the current
// Context into internal/types.Type values.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedTypeRef is a plain type name, e.g. `sint32`, `MyStruct`.
type NamedTypeRef struct {
	span
	Name string
}

func (t *NamedTypeRef) Accept(v Visitor) { v.VisitNamedTypeRef(t) }
func (t *NamedTypeRef) typeExprNode()    {}

// ArrayTypeRef is `[T]` (unspecified length) or `[T,N]` (fixed length).
type ArrayTypeRef struct {
	span
	Component TypeExpr
	Size      *int // nil: unspecified length
}

func (t *ArrayTypeRef) Accept(v Visitor) { v.VisitArrayTypeRef(t) }
func (t *ArrayTypeRef) typeExprNode()    {}

// TupleTypeRef is `(T1,T2,...)`.
type TupleTypeRef struct {
	span
	Members []TypeExpr
}

func (t *TupleTypeRef) Accept(v Visitor) { v.VisitTupleTypeRef(t) }
func (t *TupleTypeRef) typeExprNode()    {}

// StructTypeRef is `{name:T,...}` (an inline, anonymous structure type).
type StructTypeRef struct {
	span
	Names []string
	Types []TypeExpr
}

func (t *StructTypeRef) Accept(v Visitor) { v.VisitStructTypeRef(t) }
func (t *StructTypeRef) typeExprNode()    {}

// AnyTypeRef is the `any` type name.
type AnyTypeRef struct{ span }

func (t *AnyTypeRef) Accept(v Visitor) { v.VisitAnyTypeRef(t) }
func (t *AnyTypeRef) typeExprNode()    {}
