package sema

import (
	"github.com/michael-golfi/rules/internal/ast"
	"github.com/michael-golfi/rules/internal/rlerrors"
	"github.com/michael-golfi/rules/internal/token"
	"github.com/michael-golfi/rules/internal/types"
)

// inferExpr recursively types e, recording every subexpression's result
// in a.TypeMap (spec.md §3 "Semantic tree (typed)": "every node carries
// its resolved type", implemented here as a side table the way the
// teacher's analyzer keeps `TypeMap map[ast.Node]typesystem.Type` rather
// than rebuilding a parallel tree).
func (a *Analyzer) inferExpr(e ast.Expression) types.Type {
	var t types.Type
	switch ex := e.(type) {
	case *ast.BooleanLiteral:
		t = types.BoolLit{Value: ex.Value}
	case *ast.IntegerLiteral:
		if ex.Unsigned {
			t = types.UIntLit{Value: ex.UnsignedValue}
		} else {
			t = types.SIntLit{Value: ex.Value}
		}
	case *ast.FloatLiteral:
		t = types.FloatLit{Value: ex.Value}
	case *ast.StringLiteral:
		t = types.StringLitType{Encoding: types.UTF8, Value: ex.Value}
	case *ast.NullLiteral:
		t = types.NullLit{}
	case *ast.Identifier:
		t = a.inferIdentifier(ex)
	case *ast.ContextFieldAccess:
		// the rule's implicit input context is dynamically typed — any
		// field access on it widens to AnyType and is checked at runtime
		// (spec.md §4.7 "MemberAccess ... null-check ... resolve offset").
		t = types.AnyType{}
	case *ast.FieldAccess:
		t = a.inferFieldAccess(ex)
	case *ast.IndexAccess:
		t = a.inferIndexAccess(ex)
	case *ast.FunctionCall:
		t = a.inferFunctionCall(ex)
	case *ast.Sign:
		t = a.inferExpr(ex.Operand)
		if !isNumeric(t) {
			a.errorfAt(rlerrors.ErrS003, ex.Span(), "", "unary sign requires a numeric operand, found %s", t)
		}
	case *ast.LogicalNot:
		operand := a.inferExpr(ex.Operand)
		if !types.ConvertibleTo(operand, types.Atomic{Kind: types.Bool}) {
			a.errorfAt(rlerrors.ErrS003, ex.Span(), "", "! requires a bool operand, found %s", operand)
		}
		t = types.Atomic{Kind: types.Bool}
	case *ast.BitwiseNot:
		operand := a.inferExpr(ex.Operand)
		if !isIntegral(operand) {
			a.errorfAt(rlerrors.ErrS003, ex.Span(), "", "~ requires an integral operand, found %s", operand)
		}
		t = widenLiteral(operand)
	case *ast.Infix:
		t = a.inferInfix(ex)
	case *ast.BinaryExpr:
		t = a.inferBinary(ex)
	case *ast.CompareChain:
		t = a.inferCompareChain(ex)
	case *ast.Conditional:
		t = a.inferConditional(ex)
	case *ast.CompositeLiteral:
		t = a.inferBareComposite(ex)
	case *ast.Initializer:
		t = a.inferInitializer(ex)
	case *ast.TypeConversion:
		t = ex.Target
	default:
		rlerrors.Internal("inferExpr: unhandled expression %T", e)
	}
	a.TypeMap[e] = t
	return t
}

func (a *Analyzer) inferIdentifier(id *ast.Identifier) types.Type {
	if v, ok := a.ctx.LookupVariable(id.Name); ok {
		return v.Type
	}
	if fns, ok := a.ctx.LookupFunctions(id.Name); ok && len(fns) == 1 {
		f := fns[0]
		return types.FuncType{Name: f.Name, Params: f.Params, Return: f.Return}
	}
	a.errorfAt(rlerrors.ErrS001, id.Span(), id.Name, "undefined name %q", id.Name)
	return types.AnyType{}
}

func (a *Analyzer) inferFieldAccess(fa *ast.FieldAccess) types.Type {
	// Static field lookup over a type name (`TypeName.field`) is
	// deliberately unimplemented (spec.md §9): a bare identifier naming a
	// declared type is not a variable, so without this check it would
	// fall through inferIdentifier's "undefined name" error instead of
	// being recognized as the distinct, not-yet-specified feature it is.
	if id, ok := fa.Value.(*ast.Identifier); ok {
		if _, isType := a.ctx.LookupType(id.Name); isType {
			if _, isVar := a.ctx.LookupVariable(id.Name); !isVar {
				panic(&rlerrors.NotImplementedError{
					Feature: "static field access on type " + id.Name,
					Span:    fa.Span(),
				})
			}
		}
	}
	objType := a.inferExpr(fa.Value)
	switch ot := objType.(type) {
	case types.StructureType:
		if ft, ok := ot.FieldType(fa.Name); ok {
			return ft
		}
		a.errorfAt(rlerrors.ErrS001, fa.Span(), fa.Name, "no field %q on %s", fa.Name, ot)
	case types.TupleType:
		idx, ok := parseTupleIndex(fa.Name)
		if !ok || idx < 0 || idx >= len(ot.Members) {
			a.errorfAt(rlerrors.ErrS001, fa.Span(), fa.Name, "no tuple member %q on %s", fa.Name, ot)
		}
		return ot.Members[idx]
	case types.AnyType:
		return types.AnyType{}
	default:
		a.errorfAt(rlerrors.ErrS003, fa.Span(), fa.Name, "%s has no fields", objType)
	}
	return types.AnyType{}
}

func parseTupleIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	n := 0
	for _, r := range name {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (a *Analyzer) inferIndexAccess(ix *ast.IndexAccess) types.Type {
	objType := a.inferExpr(ix.Value)
	idxType := a.inferExpr(ix.Index)
	if !isIntegral(idxType) {
		a.errorfAt(rlerrors.ErrS003, ix.Index.Span(), "", "index must be integral, found %s", idxType)
	}
	switch ot := objType.(type) {
	case types.ArrayType:
		return ot.Component
	case types.AnyType:
		return types.AnyType{}
	default:
		a.errorfAt(rlerrors.ErrS003, ix.Span(), "", "%s is not indexable", objType)
	}
	return types.AnyType{}
}

func (a *Analyzer) inferFunctionCall(call *ast.FunctionCall) types.Type {
	name, ok := calleeName(call.Callee)
	if !ok {
		a.errorfAt(rlerrors.ErrS003, call.Callee.Span(), "", "callee is not a named function")
	}
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.inferExpr(arg)
	}
	fn := a.resolveOverload(name, call.Span(), argTypes)
	a.CallTarget[call] = fn
	for i, param := range fn.Params {
		call.Args[i] = a.coerce(call.Args[i], param)
	}
	if fn.Return == nil {
		return types.AnyType{}
	}
	return fn.Return
}

func calleeName(e ast.Expression) (string, bool) {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name, true
	}
	return "", false
}

// resolveOverload picks the most specific candidate whose parameters
// accept argTypes pointwise via <:, per spec.md §4.6 "overload resolution
// chooses the best-fit signature by specificity (pointwise <: ordering;
// ambiguity is an error)".
func (a *Analyzer) resolveOverload(name string, span rlerrors.Span, argTypes []types.Type) *Function {
	candidates, ok := a.ctx.LookupFunctions(name)
	if !ok {
		a.errorfAt(rlerrors.ErrS001, span, name, "undefined function %q", name)
	}
	var feasible []*Function
	for _, f := range candidates {
		if len(f.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range f.Params {
			if !types.ConvertibleTo(argTypes[i], p) {
				match = false
				break
			}
		}
		if match {
			feasible = append(feasible, f)
		}
	}
	if len(feasible) == 0 {
		a.errorfAt(rlerrors.ErrS001, span, name, "no overload of %q matches the given arguments", name)
	}
	best := feasible[0]
	for _, f := range feasible[1:] {
		if moreSpecific(f, best) {
			best = f
		} else if !moreSpecific(best, f) && !sameParams(best, f) {
			a.errorfAt(rlerrors.ErrS006, span, name, "ambiguous overload for %q", name)
		}
	}
	return best
}

// moreSpecific reports whether f's parameters are pointwise <: g's,
// making f the more specific (preferred) candidate.
func moreSpecific(f, g *Function) bool {
	for i := range f.Params {
		if !types.ConvertibleTo(f.Params[i], g.Params[i]) {
			return false
		}
	}
	return true
}

func sameParams(f, g *Function) bool {
	for i := range f.Params {
		if !types.TypesEqual(f.Params[i], g.Params[i]) {
			return false
		}
	}
	return true
}

// inferInfix resolves a named infix call `left name right` to a
// two-argument function in the enclosing scope (spec.md §4.6 "Operator
// expansion for Infix: an identifier used infix must resolve to a
// two-argument function").
func (a *Analyzer) inferInfix(in *ast.Infix) types.Type {
	leftType := a.inferExpr(in.Left)
	rightType := a.inferExpr(in.Right)
	fn := a.resolveOverload(in.FuncName, in.Span(), []types.Type{leftType, rightType})
	if len(fn.Params) != 2 {
		a.errorfAt(rlerrors.ErrS003, in.Span(), in.FuncName, "%q used infix must take exactly two arguments", in.FuncName)
	}
	a.InfixTarget[in] = fn
	in.Left = a.coerce(in.Left, fn.Params[0])
	in.Right = a.coerce(in.Right, fn.Params[1])
	if fn.Return == nil {
		return types.AnyType{}
	}
	return fn.Return
}

func (a *Analyzer) inferBinary(b *ast.BinaryExpr) types.Type {
	leftType := a.inferExpr(b.Left)
	rightType := a.inferExpr(b.Right)

	// numeric-literal narrowing: a literal operand narrows toward the
	// other operand's atomic type when the other side is already atomic
	// (spec.md §4.5).
	leftType, rightType = a.narrowLiteralPair(b.Left, leftType, b.Right, rightType)

	switch b.Category {
	case token.Range:
		return types.Atomic{Kind: types.SInt64}
	case token.Concatenate:
		if !isStringLike(leftType) || !isStringLike(rightType) {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "~ requires string-like operands")
		}
		return types.StringLitType{Encoding: types.UTF8}
	case token.LogicalAnd, token.LogicalOr, token.LogicalXor:
		if !types.ConvertibleTo(leftType, types.Atomic{Kind: types.Bool}) || !types.ConvertibleTo(rightType, types.Atomic{Kind: types.Bool}) {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "%s requires bool operands", b.Op)
		}
		return types.Atomic{Kind: types.Bool}
	case token.BitwiseAnd, token.BitwiseOr, token.BitwiseXor:
		if !isIntegral(leftType) || !isIntegral(rightType) {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "%s requires integral operands", b.Op)
		}
		joined, ok := types.Join(widenLiteral(leftType), widenLiteral(rightType))
		if !ok {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "no common type for %s and %s", leftType, rightType)
		}
		return joined
	case token.Shift:
		if !isIntegral(leftType) || !isIntegral(rightType) {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "%s requires integral operands", b.Op)
		}
		return widenLiteral(leftType)
	case token.Additive, token.Multiplicative, token.Exponent:
		if !isNumeric(leftType) || !isNumeric(rightType) {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "%s requires numeric operands, found %s and %s", b.Op, leftType, rightType)
		}
		joined, ok := types.Join(leftType, rightType)
		if !ok {
			a.errorfAt(rlerrors.ErrS003, b.Span(), b.Op, "no common type for %s and %s", leftType, rightType)
		}
		return joined
	default:
		rlerrors.Internal("inferBinary: unhandled category %s", b.Category)
		return types.AnyType{}
	}
}

// narrowLiteralPair implements spec.md §4.5's numeric-literal narrowing:
// when one operand is a literal and the other has an atomic type, the
// literal's recorded type narrows to that atomic (if it fits) rather than
// staying an untyped literal.
func (a *Analyzer) narrowLiteralPair(leftExpr ast.Expression, left types.Type, rightExpr ast.Expression, right types.Type) (types.Type, types.Type) {
	if atomic, ok := right.(types.Atomic); ok && isLiteral(left) {
		if narrowed, ok := narrowToAtomic(left, atomic.Kind); ok {
			a.TypeMap[leftExpr] = narrowed
			return narrowed, right
		}
	}
	if atomic, ok := left.(types.Atomic); ok && isLiteral(right) {
		if narrowed, ok := narrowToAtomic(right, atomic.Kind); ok {
			a.TypeMap[rightExpr] = narrowed
			return left, narrowed
		}
	}
	return left, right
}

func narrowToAtomic(lit types.Type, target types.AtomicKind) (types.Type, bool) {
	if !types.ConvertibleTo(lit, types.Atomic{Kind: target}) {
		return nil, false
	}
	return types.Atomic{Kind: target}, true
}

func isLiteral(t types.Type) bool {
	switch t.(type) {
	case types.BoolLit, types.SIntLit, types.UIntLit, types.FloatLit, types.StringLitType, types.NullLit:
		return true
	}
	return false
}

// widenLiteral lifts a singleton literal type to its smallest-fitting
// atomic type, used where an operation's result can no longer carry a
// specific literal value (e.g. the result of `~`, `<<`).
func widenLiteral(t types.Type) types.Type {
	switch lt := t.(type) {
	case types.SIntLit:
		return types.Atomic{Kind: smallestSignedKind(lt.Value)}
	case types.UIntLit:
		return types.Atomic{Kind: types.UInt64}
	case types.FloatLit:
		return types.Atomic{Kind: types.FP64}
	case types.BoolLit:
		return types.Atomic{Kind: types.Bool}
	}
	return t
}

func smallestSignedKind(v int64) types.AtomicKind {
	switch {
	case v >= -128 && v <= 127:
		return types.SInt8
	case v >= -32768 && v <= 32767:
		return types.SInt16
	case v >= -2147483648 && v <= 2147483647:
		return types.SInt32
	default:
		return types.SInt64
	}
}

func isNumeric(t types.Type) bool {
	switch tt := t.(type) {
	case types.Atomic:
		return tt.Kind.IsInteger() || tt.Kind.IsFloat()
	case types.SIntLit, types.UIntLit, types.FloatLit:
		return true
	}
	return false
}

func isIntegral(t types.Type) bool {
	switch tt := t.(type) {
	case types.Atomic:
		return tt.Kind.IsInteger()
	case types.SIntLit, types.UIntLit:
		return true
	}
	return false
}

func isStringLike(t types.Type) bool {
	switch t.(type) {
	case types.StringLitType, types.ArrayType:
		return true
	}
	return false
}

func (a *Analyzer) inferCompareChain(c *ast.CompareChain) types.Type {
	left := a.inferExpr(c.Left)
	for i := range c.Comparisons {
		right := a.inferExpr(c.Comparisons[i].Right)
		left, right = a.narrowLiteralPair(c.Left, left, c.Comparisons[i].Right, right)
		if _, ok := types.Join(widenLiteral(left), widenLiteral(right)); !ok {
			a.errorfAt(rlerrors.ErrS003, c.Span(), c.Comparisons[i].Op, "no common type for comparison operands")
		}
		left = right
	}
	if c.TypeCompare != nil {
		a.TypeCompareTarget[c] = a.resolveTypeExpr(c.TypeCompare.Type)
	}
	return types.Atomic{Kind: types.Bool}
}

func (a *Analyzer) inferConditional(c *ast.Conditional) types.Type {
	condType := a.inferExpr(c.Condition)
	if !types.ConvertibleTo(condType, types.Atomic{Kind: types.Bool}) {
		a.errorfAt(rlerrors.ErrS003, c.Condition.Span(), "", "conditional expression's condition must be bool, found %s", condType)
	}
	thenType := a.inferExpr(c.Then)
	elseType := a.inferExpr(c.Else)
	joined, ok := types.Join(thenType, elseType)
	if !ok {
		a.errorfAt(rlerrors.ErrS003, c.Span(), "", "no common type between %s and %s", thenType, elseType)
	}
	return joined
}

// inferBareComposite types a `{...}` literal with no target type known
// yet: a tuple if every element is unlabeled, otherwise a struct (named
// fields) or array (integer/other labels) — spec.md §4.7 defers the
// final decision on array vs. struct vs. tuple to the initializer's
// target type; a bare literal with no target infers the most literal
// reading from its own labels.
func (a *Analyzer) inferBareComposite(lit *ast.CompositeLiteral) types.Type {
	allUnlabeled := true
	allIndexOrOther := true
	for _, el := range lit.Elements {
		if el.Label != "" {
			allUnlabeled = false
			allIndexOrOther = false
		}
		if el.Label == "" && el.IndexLabel == nil && !el.IsOther {
			allIndexOrOther = false
		}
	}
	switch {
	case len(lit.Elements) > 0 && allUnlabeled:
		members := make([]types.Type, len(lit.Elements))
		for i, el := range lit.Elements {
			members[i] = widenLiteral(a.inferExpr(el.Value))
		}
		return types.TupleType{Members: members}
	case allIndexOrOther:
		var component types.Type
		for _, el := range lit.Elements {
			t := a.inferExpr(el.Value)
			if component == nil {
				component = widenLiteral(t)
				continue
			}
			joined, ok := types.Join(component, widenLiteral(t))
			if !ok {
				a.errorfAt(rlerrors.ErrS003, lit.Span(), "", "array elements have no common type")
			}
			component = joined
		}
		if component == nil {
			component = types.AnyType{}
		}
		n := len(lit.Elements)
		return types.ArrayType{Component: component, Size: &n}
	default:
		names := make([]string, 0, len(lit.Elements))
		memberTypes := make([]types.Type, 0, len(lit.Elements))
		for _, el := range lit.Elements {
			names = append(names, el.Label)
			memberTypes = append(memberTypes, widenLiteral(a.inferExpr(el.Value)))
		}
		return types.StructureType{Names: names, Types: memberTypes}
	}
}

// inferInitializer types `NamedType{...}`: the composite literal's shape
// is checked directly against the named target's resolved layout, rather
// than inferred independently and then joined (spec.md §4.7's evaluator
// depends on this: "for each member index i evaluate values[i] ...").
func (a *Analyzer) inferInitializer(init *ast.Initializer) types.Type {
	target := a.resolveTypeExpr(init.Type)
	switch tt := target.(type) {
	case types.StructureType:
		a.checkStructLiteral(init.Literal, tt)
	case types.TupleType:
		a.checkTupleLiteral(init.Literal, tt)
	case types.ArrayType:
		a.checkArrayLiteral(init.Literal, tt)
	default:
		a.errorfAt(rlerrors.ErrS003, init.Span(), "", "%s cannot be initialized with a composite literal", target)
	}
	return target
}

func (a *Analyzer) checkStructLiteral(lit *ast.CompositeLiteral, target types.StructureType) {
	for i := range lit.Elements {
		el := &lit.Elements[i]
		if el.Label == "" {
			a.errorfAt(rlerrors.ErrS003, el.Value.Span(), "", "struct literal elements must be labeled")
			continue
		}
		fieldType, ok := target.FieldType(el.Label)
		if !ok {
			a.errorfAt(rlerrors.ErrS003, el.Value.Span(), el.Label, "no field %q on %s", el.Label, target)
			continue
		}
		a.inferExpr(el.Value)
		el.Value = a.coerce(el.Value, fieldType)
	}
}

func (a *Analyzer) checkTupleLiteral(lit *ast.CompositeLiteral, target types.TupleType) {
	if len(lit.Elements) != len(target.Members) {
		a.errorfAt(rlerrors.ErrS003, lit.Span(), "", "tuple literal has %d elements, expected %d", len(lit.Elements), len(target.Members))
	}
	for i := range lit.Elements {
		a.inferExpr(lit.Elements[i].Value)
		lit.Elements[i].Value = a.coerce(lit.Elements[i].Value, target.Members[i])
	}
}

func (a *Analyzer) checkArrayLiteral(lit *ast.CompositeLiteral, target types.ArrayType) {
	for i := range lit.Elements {
		el := &lit.Elements[i]
		a.inferExpr(el.Value)
		el.Value = a.coerce(el.Value, target.Component)
	}
}

// coerce inserts a TypeConversion when value's inferred type differs from
// target but widens to it, per spec.md §3 "implicit conversions are
// inserted as explicit TypeConversion nodes". A value already of exactly
// target's type is returned unchanged.
func (a *Analyzer) coerce(value ast.Expression, target types.Type) ast.Expression {
	actual, ok := a.TypeMap[value]
	if !ok {
		actual = a.inferExpr(value)
	}
	if types.TypesEqual(actual, target) {
		return value
	}
	if !types.ConvertibleTo(actual, target) {
		a.errorfAt(rlerrors.ErrS003, value.Span(), "", "cannot convert %s to %s", actual, target)
	}
	conv := &ast.TypeConversion{Value: value, Target: target}
	conv.Start, conv.End = value.Span().Start, value.Span().End
	a.TypeMap[conv] = target
	return conv
}
